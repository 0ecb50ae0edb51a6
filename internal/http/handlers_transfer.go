package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/ledger"
)

type transferRequest struct {
	SourceAccountID      uint            `json:"sourceAccountId"`
	DestinationAccountID uint            `json:"destinationAccountId"`
	Amount               decimal.Decimal `json:"amount"`
	Description          string          `json:"description"`
	Tags                 []string        `json:"tags"`
	IsBillPayment        bool            `json:"isBillPayment"`
	CategoryID           *uint           `json:"categoryId"`
	TxnDate              string          `json:"txnDate"`
}

func (s *Server) transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	var date time.Time
	if req.TxnDate != "" {
		parsed, err := parseDate(req.TxnDate)
		if err != nil {
			badRequest(c, "invalid date format")
			return
		}
		date = parsed
	}
	result, err := s.svc.Transfer(c.Request.Context(), userID(c), ledger.TransferInput{
		SourceAccountID:      req.SourceAccountID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
		Description:          req.Description,
		Tags:                 req.Tags,
		IsBillPayment:        req.IsBillPayment,
		CategoryID:           req.CategoryID,
		Date:                 date,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, result, "Transfer completed successfully")
}
