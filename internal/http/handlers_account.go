package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/ledger"
	"finance-ledger-go/internal/models"
)

type createAccountRequest struct {
	AccountType   models.AccountType `json:"accountType"`
	AccountName   string             `json:"accountName"`
	AccountNumber string             `json:"accountNumber"`
	Currency      string             `json:"currency"`
	Balance       decimal.Decimal    `json:"balance"`
	Limit         decimal.Decimal    `json:"limit"`
	IsDefault     bool               `json:"isDefault"`
}

func (s *Server) createAccount(c *gin.Context) {
	var req createAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	account, err := s.svc.CreateAccount(c.Request.Context(), userID(c), ledger.CreateAccountInput{
		AccountType:   req.AccountType,
		AccountName:   req.AccountName,
		AccountNumber: req.AccountNumber,
		Currency:      req.Currency,
		Balance:       req.Balance,
		Limit:         req.Limit,
		IsDefault:     req.IsDefault,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, account, "Account created successfully")
}

func (s *Server) listAccounts(c *gin.Context) {
	includeInactive := c.Query("includeInactive") == "true"
	accounts, err := s.svc.ListAccounts(c.Request.Context(), userID(c), includeInactive)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, accounts, "Accounts fetched successfully")
}

type updateAccountRequest struct {
	AccountName *string               `json:"accountName"`
	AccountType *models.AccountType   `json:"accountType"`
	Balance     *decimal.Decimal      `json:"balance"`
	IsDefault   *bool                 `json:"isDefault"`
	Status      *models.AccountStatus `json:"status"`
}

func (s *Server) updateAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}
	var req updateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}
	account, err := s.svc.UpdateAccount(c.Request.Context(), userID(c), accountID, ledger.UpdateAccountInput{
		AccountName: req.AccountName,
		AccountType: req.AccountType,
		Balance:     req.Balance,
		IsDefault:   req.IsDefault,
		Status:      req.Status,
	})
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, account, "Account updated successfully")
}

func (s *Server) deleteAccount(c *gin.Context) {
	accountID, ok := pathID(c, "accountId")
	if !ok {
		return
	}
	account, err := s.svc.DeactivateAccount(c.Request.Context(), userID(c), accountID)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, account, "Account deactivated successfully")
}

// pathID parses a positive integer path parameter, answering 400 itself on
// failure.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
