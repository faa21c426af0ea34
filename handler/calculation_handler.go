package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/calculadora-judicial/correction-service/config"
	"github.com/calculadora-judicial/correction-service/dto"
	"github.com/calculadora-judicial/correction-service/export"
	"github.com/calculadora-judicial/correction-service/logger"
	"github.com/calculadora-judicial/correction-service/service"
)

const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

type CalculationHandler struct {
	calculationService *service.CalculationService
	defaultTerms       map[dto.DocumentType]string
	timeout            time.Duration
	now                func() time.Time
}

func NewCalculationHandler(calculationService *service.CalculationService, cfg *config.Config) *CalculationHandler {
	return &CalculationHandler{
		calculationService: calculationService,
		defaultTerms: map[dto.DocumentType]string{
			dto.DocTypeINSS: cfg.DefaultINSSTerms,
			dto.DocTypeBank: cfg.DefaultBankTerms,
		},
		timeout: cfg.RequestTimeout,
		now:     time.Now,
	}
}

// Calculate handles the POST /api/v1/calculations endpoint
func (h *CalculationHandler) Calculate(c *gin.Context) {
	log := logger.FromContext(c.Request.Context())

	statement, statementName, err := readFormFile(c, "statement")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Statement PDF is required", err)
		return
	}
	coefficients, coefficientsName, err := readFormFile(c, "coefficients")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Coefficient table is required", err)
		return
	}

	docType := dto.DocumentType(strings.ToLower(strings.TrimSpace(c.PostForm("document_type"))))
	rawTerms := c.PostForm("terms")
	if strings.TrimSpace(rawTerms) == "" {
		rawTerms = h.defaultTerms[docType]
	}

	format := strings.ToLower(c.DefaultPostForm("format", FormatJSON))
	if format != FormatJSON && format != FormatCSV {
		h.sendError(c, http.StatusBadRequest, fmt.Sprintf("Unknown format %q", format), nil)
		return
	}

	request := &dto.CalculationRequest{
		DocumentType:     docType,
		Terms:            dto.ParseTerms(rawTerms),
		Statement:        statement,
		StatementName:    statementName,
		Password:         c.PostForm("password"),
		Coefficients:     coefficients,
		CoefficientsName: coefficientsName,
	}

	log.Info().
		Str("document_type", string(docType)).
		Strs("terms", request.Terms).
		Str("statement", statementName).
		Str("coefficients", coefficientsName).
		Msg("processing calculation request")

	ctx := c.Request.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	result, err := h.calculationService.Calculate(ctx, request)
	if err != nil {
		switch {
		case dto.IsClientError(err):
			h.sendError(c, http.StatusBadRequest, "Invalid input", err)
		case errors.Is(err, context.DeadlineExceeded):
			h.sendError(c, http.StatusGatewayTimeout, "Calculation timed out", err)
		default:
			h.sendError(c, http.StatusInternalServerError, "Failed to calculate", err)
		}
		return
	}

	if format == FormatCSV {
		h.sendCSV(c, result)
		return
	}
	c.JSON(http.StatusOK, export.BuildResponse(result, h.now()))
}

// sendCSV streams the table of the term named in the "term" field.
func (h *CalculationHandler) sendCSV(c *gin.Context, result *dto.CalculationResult) {
	term := strings.ToUpper(strings.TrimSpace(c.PostForm("term")))
	if term == "" {
		terms := result.Results.Terms()
		if len(terms) != 1 {
			h.sendError(c, http.StatusBadRequest, "Field term is required for csv export", nil)
			return
		}
		term = terms[0]
	}
	if !result.Results.Has(term) {
		h.sendError(c, http.StatusBadRequest, "Unknown term", fmt.Errorf("%w: %s", dto.ErrTermNotFound, term))
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, result.Results.Records(term)); err != nil {
		h.sendError(c, http.StatusInternalServerError, "Failed to export csv", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.Filename(term)))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Health handles the GET /health endpoint
func (h *CalculationHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "Judicial Correction Calculator",
	})
}

func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", fmt.Errorf("missing file field %q: %w", field, err)
	}
	data, err := readMultipart(fh)
	if err != nil {
		return nil, "", err
	}
	return data, fh.Filename, nil
}

func readMultipart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", fh.Filename, err)
	}
	return data, nil
}

// sendError sends a structured error response
func (h *CalculationHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Int("status", statusCode).Msg(message)
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   errorCode(statusCode),
		Message: errorMsg,
		Code:    statusCode,
	})
}

func errorCode(statusCode int) string {
	switch statusCode {
	case http.StatusBadRequest:
		return "INVALID_INPUT"
	case http.StatusGatewayTimeout:
		return "TIMEOUT"
	default:
		return "CALCULATION_FAILED"
	}
}
