package dto

// RecordDisplay holds the on-screen rendering of a record's numbers.
type RecordDisplay struct {
	OriginalValue         string `json:"valor_original"`
	CorrectionValue       string `json:"valor_correcao"`
	CorrectedValue        string `json:"valor_corrigido"`
	CorrectedValueDoubled string `json:"valor_corrigido_dobro"`
	Coefficient           string `json:"coeficiente"`
}

type RecordResponse struct {
	TransactionRecord
	// Devolution marks credit rows reported without correction.
	Devolution bool          `json:"devolucao"`
	Display    RecordDisplay `json:"display"`
}

type TermTable struct {
	Term    string           `json:"term"`
	Count   int              `json:"count"`
	Records []RecordResponse `json:"records"`
}

// CalculationResult is what the service hands back for one request.
type CalculationResult struct {
	DocumentType       DocumentType
	Results            *ResultSet
	CoefficientsLoaded int
	RowWarnings        []RowParseError
	Pages              int
}

// CalculationResponse is the final response structure
type CalculationResponse struct {
	DocumentType       DocumentType    `json:"document_type"`
	Terms              []string        `json:"terms"`
	Tables             []TermTable     `json:"tables"`
	FoundAny           bool            `json:"found_any"`
	Message            string          `json:"message,omitempty"`
	CoefficientsLoaded int             `json:"coefficients_loaded"`
	RowWarnings        []RowParseError `json:"row_warnings"`
	Pages              int             `json:"pages"`
	ProcessedAt        string          `json:"processed_at"`
}

const NoResultsMessage = "Nenhum resultado encontrado para os termos procurados."
