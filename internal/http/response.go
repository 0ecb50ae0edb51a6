package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finance-ledger-go/internal/ledger"
)

// Response is the envelope every endpoint returns, success or failure.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

func respond(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Response{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    status < 400,
	})
}

// respondError maps domain errors to status codes. Anything unrecognized is
// an internal error and its detail stays out of the response.
func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrAccountNotFound),
		errors.Is(err, ledger.ErrTransactionNotFound),
		errors.Is(err, ledger.ErrCategoryNotFound):
		respond(c, http.StatusNotFound, nil, err.Error())
	case errors.Is(err, ledger.ErrValidation),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInactiveAccount),
		errors.Is(err, ledger.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrCreditLimitExceeded),
		errors.Is(err, ledger.ErrOverpayment),
		errors.Is(err, ledger.ErrSameAccountTransfer),
		errors.Is(err, ledger.ErrCategoryResolution):
		respond(c, http.StatusBadRequest, nil, err.Error())
	default:
		s.log.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		respond(c, http.StatusInternalServerError, nil, "internal server error")
	}
}

func badRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, nil, message)
}
