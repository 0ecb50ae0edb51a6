package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/xeipuuv/gojsonschema"

	"finance-ledger-go/internal/ledger"
	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

type transactionRequest struct {
	AccountID       uint                   `json:"accountId"`
	TransactionType models.TransactionType `json:"transactionType"`
	Amount          decimal.Decimal        `json:"amount"`
	CategoryID      *uint                  `json:"categoryId"`
	Description     string                 `json:"description"`
	Date            string                 `json:"date"`
	Tags            []string               `json:"tags"`
	Location        []string               `json:"location"`
	SharedWith      []string               `json:"sharedWith"`
}

func (r *transactionRequest) toInput() (ledger.TransactionInput, error) {
	var date time.Time
	if r.Date != "" {
		parsed, err := parseDate(r.Date)
		if err != nil {
			return ledger.TransactionInput{}, err
		}
		date = parsed
	}
	return ledger.TransactionInput{
		AccountID:       r.AccountID,
		TransactionType: r.TransactionType,
		Amount:          r.Amount,
		CategoryID:      r.CategoryID,
		Description:     r.Description,
		Date:            date,
		Tags:            r.Tags,
		Location:        r.Location,
		SharedWith:      r.SharedWith,
	}, nil
}

func (s *Server) createTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	in, err := req.toInput()
	if err != nil {
		badRequest(c, "invalid date format")
		return
	}
	txn, err := s.svc.CreateTransaction(c.Request.Context(), userID(c), in)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, txn, "Transaction created successfully")
}

type batchRequest struct {
	Transactions []transactionRequest `json:"transactions"`
}

func (s *Server) createTransactions(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		badRequest(c, "invalid request body")
		return
	}
	result, err := s.batch.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		badRequest(c, "invalid request body")
		return
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		respond(c, http.StatusBadRequest, gin.H{"details": details}, "transactions payload failed validation")
		return
	}

	var req batchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	ins := make([]ledger.TransactionInput, 0, len(req.Transactions))
	for _, r := range req.Transactions {
		in, err := r.toInput()
		if err != nil {
			badRequest(c, "invalid date format")
			return
		}
		ins = append(ins, in)
	}

	txns, err := s.svc.CreateTransactions(c.Request.Context(), userID(c), ins)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, gin.H{"transactions": txns, "totalTxn": len(txns)}, "Transactions created successfully")
}

type updateTransactionRequest struct {
	AccountID       *uint                   `json:"accountId"`
	TransactionType *models.TransactionType `json:"transactionType"`
	Amount          *decimal.Decimal        `json:"amount"`
	CategoryID      *uint                   `json:"categoryId"`
	Description     *string                 `json:"description"`
	Date            *string                 `json:"date"`
	Tags            []string                `json:"tags"`
	Location        []string                `json:"location"`
	SharedWith      []string                `json:"sharedWith"`
}

func (s *Server) updateTransaction(c *gin.Context) {
	transactionID, ok := pathID(c, "transactionId")
	if !ok {
		return
	}
	var req updateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	patch := ledger.TransactionPatch{
		AccountID:       req.AccountID,
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		Tags:            req.Tags,
		Location:        req.Location,
		SharedWith:      req.SharedWith,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			badRequest(c, "invalid date format")
			return
		}
		patch.Date = &date
	}
	txn, err := s.svc.UpdateTransaction(c.Request.Context(), userID(c), transactionID, patch)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, txn, "Transaction updated successfully")
}

func (s *Server) deleteTransaction(c *gin.Context) {
	transactionID, ok := pathID(c, "transactionId")
	if !ok {
		return
	}
	if err := s.svc.DeleteTransaction(c.Request.Context(), userID(c), transactionID); err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, nil, "Transaction deleted successfully")
}

func (s *Server) listTransactions(c *gin.Context) {
	filter, ok := s.transactionFilter(c)
	if !ok {
		return
	}
	txns, err := s.svc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"transactions": txns, "totalTxn": len(txns)}, "Transactions fetched successfully")
}

func (s *Server) listExpenses(c *gin.Context) {
	s.listByType(c, models.TransactionDebit, "No expense transactions found")
}

func (s *Server) listIncome(c *gin.Context) {
	s.listByType(c, models.TransactionCredit, "No income transactions found")
}

func (s *Server) listByType(c *gin.Context, txnType models.TransactionType, emptyMessage string) {
	filter, ok := s.transactionFilter(c)
	if !ok {
		return
	}
	filter.TransactionType = txnType
	txns, err := s.svc.ListTransactions(c.Request.Context(), filter)
	if err != nil {
		s.respondError(c, err)
		return
	}
	if len(txns) == 0 {
		respond(c, http.StatusNotFound, nil, emptyMessage)
		return
	}
	respond(c, http.StatusOK, gin.H{"transactions": txns, "totalTxn": len(txns)}, "Transactions fetched successfully")
}

// transactionFilter builds the store filter from query parameters, answering
// 400 itself on a malformed value.
func (s *Server) transactionFilter(c *gin.Context) (store.TransactionFilter, bool) {
	filter := store.TransactionFilter{UserID: userID(c)}

	if v := c.Query("startDate"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			badRequest(c, "invalid startDate")
			return filter, false
		}
		filter.StartDate = &date
	}
	if v := c.Query("endDate"); v != "" {
		date, err := parseDate(v)
		if err != nil {
			badRequest(c, "invalid endDate")
			return filter, false
		}
		end := endOfDay(date)
		filter.EndDate = &end
	}
	if v := c.Query("transactionType"); v != "" {
		filter.TransactionType = models.TransactionType(v)
	}
	if v := c.Query("categoryId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, "invalid categoryId")
			return filter, false
		}
		cid := uint(id)
		filter.CategoryID = &cid
	}
	if v := c.Query("accountId"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(c, "invalid accountId")
			return filter, false
		}
		aid := uint(id)
		filter.AccountID = &aid
	}
	if v := c.Query("minAmount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(c, "invalid minAmount")
			return filter, false
		}
		filter.MinAmount = &amount
	}
	if v := c.Query("maxAmount"); v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(c, "invalid maxAmount")
			return filter, false
		}
		filter.MaxAmount = &amount
	}
	if v := c.Query("tags"); v != "" {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}
	return filter, true
}

// parseDate accepts RFC 3339 timestamps and bare dates.
func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func endOfDay(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, 1).Add(-time.Millisecond)
}
