package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/camden-git/campaidbackend/database"
	"go.uber.org/zap"
)

// Error codes carried in APIErrorDetail.Code.
const (
	CodeBadRequest   = "bad_request"
	CodeValidation   = "validation_failed"
	CodeNotFound     = "not_found"
	CodeUnauthorized = "unauthorized"
	CodeForbidden    = "forbidden"
	CodeInternal     = "internal_error"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	WriteAPIErrors(w, httpStatus, code, []string{detail})
}

// WriteAPIErrors writes one error entry per detail, all sharing status and code.
func WriteAPIErrors(w http.ResponseWriter, httpStatus int, code string, details []string) {
	resp := APIErrorResponse{Errors: make([]APIErrorDetail, 0, len(details))}
	for _, d := range details {
		resp.Errors = append(resp.Errors, APIErrorDetail{
			Code:   code,
			Status: strconv.Itoa(httpStatus),
			Detail: d,
		})
	}
	writeJSON(w, httpStatus, resp)
}

// writeError maps a repository error onto the response. Unclassified errors are
// logged and reported without their message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		WriteAPIError(w, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, database.ErrBadRequest):
		WriteAPIError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	default:
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		WriteAPIError(w, http.StatusInternalServerError, CodeInternal, "Internal server error")
	}
}
