package dto

import (
	"errors"
	"fmt"
)

var (
	ErrNoTerms                 = errors.New("at least one search term is required")
	ErrUnsupportedDocumentType = errors.New("unsupported document type")
	ErrUnsupportedSheetFormat  = errors.New("unsupported coefficient file format")
	ErrEmptyDocument           = errors.New("statement document is empty")
	ErrTermNotFound            = errors.New("term not present in result set")
	ErrUnreadableStatement     = errors.New("statement could not be read as pdf")
)

// IsClientError reports whether err was caused by the uploaded input rather
// than by the service.
func IsClientError(err error) bool {
	switch {
	case IsInputFormatError(err),
		errors.Is(err, ErrNoTerms),
		errors.Is(err, ErrUnsupportedDocumentType),
		errors.Is(err, ErrUnsupportedSheetFormat),
		errors.Is(err, ErrEmptyDocument),
		errors.Is(err, ErrTermNotFound),
		errors.Is(err, ErrUnreadableStatement):
		return true
	}
	return false
}

// InputFormatError aborts a request: without a usable coefficient table no
// record can be corrected.
type InputFormatError struct {
	Reason string
}

func (e *InputFormatError) Error() string {
	return "invalid coefficient table: " + e.Reason
}

// IsInputFormatError reports whether err wraps an InputFormatError.
func IsInputFormatError(err error) bool {
	var ife *InputFormatError
	return errors.As(err, &ife)
}

// RowParseError describes a coefficient row that was dropped.
type RowParseError struct {
	Row     int    `json:"row"`
	Column  string `json:"column"`
	Message string `json:"message"`
	RawData string `json:"raw_data,omitempty"`
}

func (e RowParseError) Error() string {
	return fmt.Sprintf("row %d, column %s: %s", e.Row, e.Column, e.Message)
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
