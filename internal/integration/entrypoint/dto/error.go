// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainerror "github.com/ledger-keeper/backend/internal/domain/error"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteError maps a use case failure onto an HTTP response. Classified
// failures surface their code; anything unclassified is reported as a generic
// server error without leaking internals.
func WriteError(ctx *gin.Context, err error) {
	switch domainerror.KindOf(err) {
	case domainerror.KindValidation:
		writeClassified(ctx, http.StatusBadRequest, err)
	case domainerror.KindNotFound:
		writeClassified(ctx, http.StatusNotFound, err)
	default:
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "An internal error occurred",
			Code:  domainerror.ErrCodeUnexpected,
		})
	}
}

func writeClassified(ctx *gin.Context, status int, err error) {
	domainErr := domainerror.From(err)
	ctx.JSON(status, ErrorResponse{
		Error: domainErr.Message,
		Code:  domainErr.Code,
	})
}

// WriteBadRequest reports a malformed request body or parameter.
func WriteBadRequest(ctx *gin.Context, message string) {
	ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}
