package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/calculadora-judicial/correction-service/calculator"
	"github.com/calculadora-judicial/correction-service/coefficient"
	"github.com/calculadora-judicial/correction-service/dto"
	"github.com/calculadora-judicial/correction-service/logger"
	"github.com/calculadora-judicial/correction-service/metrics"
	"github.com/calculadora-judicial/correction-service/utils/bank"
	"github.com/calculadora-judicial/correction-service/utils/inss"
)

// Extractor scans statement pages for terms and builds corrected records.
type Extractor func(pages []string, terms []string, coefficients calculator.CoefficientSource) *dto.ResultSet

type CalculationService struct {
	pdfProcessor PDFProcessor
	extractors   map[dto.DocumentType]Extractor
}

func NewCalculationService(pdfProcessor PDFProcessor) *CalculationService {
	return &CalculationService{
		pdfProcessor: pdfProcessor,
		extractors: map[dto.DocumentType]Extractor{
			dto.DocTypeINSS: inss.Extract,
			dto.DocTypeBank: bank.Extract,
		},
	}
}

// Calculate loads the coefficient table, reads the statement and runs the
// extraction engine for the document type.
func (s *CalculationService) Calculate(ctx context.Context, req *dto.CalculationRequest) (*dto.CalculationResult, error) {
	log := logger.FromContext(ctx)

	result, err := s.calculate(ctx, req)
	docType := string(req.DocumentType)
	switch {
	case err == nil:
		metrics.CalculationsTotal.WithLabelValues(docType, metrics.OutcomeOK).Inc()
	case dto.IsClientError(err):
		metrics.CalculationsTotal.WithLabelValues(docType, metrics.OutcomeInvalidInput).Inc()
		log.Warn().Err(err).Str("document_type", docType).Msg("calculation rejected")
	default:
		metrics.CalculationsTotal.WithLabelValues(docType, metrics.OutcomeError).Inc()
		log.Error().Err(err).Str("document_type", docType).Msg("calculation failed")
	}
	return result, err
}

func (s *CalculationService) calculate(ctx context.Context, req *dto.CalculationRequest) (*dto.CalculationResult, error) {
	log := logger.FromContext(ctx)

	normalized := *req
	normalized.Terms = dto.NormalizeTerms(req.Terms)
	req = &normalized

	if err := req.Validate(); err != nil {
		return nil, err
	}
	extract, ok := s.extractors[req.DocumentType]
	if !ok {
		return nil, dto.ErrUnsupportedDocumentType
	}

	sheet, err := coefficient.Read(req.CoefficientsName, req.Coefficients)
	if err != nil {
		return nil, fmt.Errorf("failed to read coefficient file %q: %w", req.CoefficientsName, err)
	}
	table, warnings, err := coefficient.Build(sheet)
	if err != nil {
		return nil, err
	}
	metrics.CoefficientRowsDropped.Add(float64(len(warnings)))
	log.Info().
		Str("file", req.CoefficientsName).
		Int("competences", table.Len()).
		Int("dropped_rows", len(warnings)).
		Msg("coefficient table loaded")
	for _, w := range warnings {
		log.Debug().Int("row", w.Row).Str("column", w.Column).Str("raw", w.RawData).Msg(w.Message)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pages, err := s.pdfProcessor.ExtractPages(req.Statement, req.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", dto.ErrUnreadableStatement, req.StatementName, err)
	}
	metrics.StatementPages.Observe(float64(len(pages)))
	if !hasText(pages) {
		log.Warn().Str("file", req.StatementName).Int("pages", len(pages)).Msg("statement has no extractable text")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := extract(pages, req.Terms, table)
	for _, term := range results.Terms() {
		records := results.Records(term)
		for _, r := range records {
			metrics.RecordsExtracted.WithLabelValues(string(req.DocumentType), string(r.Kind)).Inc()
		}
		if len(records) == 0 {
			log.Info().Str("term", term).Msg("no records found for term")
		}
	}
	log.Info().
		Str("document_type", string(req.DocumentType)).
		Int("pages", len(pages)).
		Int("records", results.Total()).
		Msg("statement processed")

	return &dto.CalculationResult{
		DocumentType:       req.DocumentType,
		Results:            results,
		CoefficientsLoaded: table.Len(),
		RowWarnings:        warnings,
		Pages:              len(pages),
	}, nil
}

func hasText(pages []string) bool {
	for _, p := range pages {
		if strings.TrimSpace(p) != "" {
			return true
		}
	}
	return false
}
