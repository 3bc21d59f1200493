package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/Moushv26/Data-analysis-tool-page/pkg/cleaner"
	"github.com/Moushv26/Data-analysis-tool-page/pkg/ingest"
	pkgrender "github.com/Moushv26/Data-analysis-tool-page/pkg/render"
)

// Error codes of APIError.
const (
	CodeIngestionFailed  = "INGESTION_FAILED"
	CodeInvalidSelection = "INVALID_SELECTION"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeNotFound         = "NOT_FOUND"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
)

// APIError is the JSON body of every failed API call.
type APIError struct {
	StatusCode int    `json:"status_code"`
	ErrorCode  string `json:"error_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Render(_ http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)

	return nil
}

func newAPIError(status int, code, message string, details any) *APIError {
	return &APIError{StatusCode: status, ErrorCode: code, Message: message, Details: details}
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// toAPIError maps the errors of the upload, ingestion and cleaning code to API errors.
func toAPIError(err error) *APIError {
	var (
		apiErr    *APIError
		ingestErr *ingest.Error
		selErr    *cleaner.SelectionError
		maxErr    *http.MaxBytesError
		verrs     validator.ValidationErrors
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &maxErr):
		return newAPIError(http.StatusRequestEntityTooLarge, CodePayloadTooLarge,
			"Request body exceeds the maximum allowed size", map[string]int64{"max_bytes": maxErr.Limit})
	case errors.As(err, &ingestErr):
		details := map[string]any{"error": ingestErr.Err.Error()}
		if ingestErr.Line > 0 {
			details["line"] = ingestErr.Line
		}

		return newAPIError(http.StatusBadRequest, CodeIngestionFailed, "The file could not be read as a table", details)
	case errors.As(err, &selErr):
		return newAPIError(http.StatusBadRequest, CodeInvalidSelection, selErr.Error(), map[string][]string{"columns": selErr.Columns})
	case errors.As(err, &verrs):
		fields := make([]fieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}

		return newAPIError(http.StatusBadRequest, CodeValidationFailed, "Request validation failed", fields)
	case errors.Is(err, cleaner.ErrUnknownPolicy), errors.Is(err, pkgrender.ErrUnknownFormat):
		return newAPIError(http.StatusBadRequest, CodeValidationFailed, err.Error(), nil)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return newAPIError(http.StatusBadRequest, CodeValidationFailed, "A multipart upload with a file field is required", nil)
	default:
		return newAPIError(http.StatusInternalServerError, CodeInternal, "Internal server error", nil)
	}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "failed on " + fe.Tag()
	}
}
