package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCreditCard AccountType = "credit_card"
	AccountTypeWallet     AccountType = "wallet"
	AccountTypeCash       AccountType = "cash"
	AccountTypeDemat      AccountType = "demat"
	AccountTypeOther      AccountType = "other"
)

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeBank, AccountTypeCreditCard, AccountTypeWallet, AccountTypeCash, AccountTypeDemat, AccountTypeOther:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusClosed   AccountStatus = "closed"
)

func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusInactive, AccountStatusClosed:
		return true
	}
	return false
}

// Account holds a user's account and its current balance. For credit_card
// accounts the balance is the outstanding debt, bounded by Limit; for every
// other type it is owned funds and never negative.
type Account struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"index" json:"userId"`
	AccountType    AccountType     `json:"accountType"`
	AccountName    string          `json:"accountName"`
	AccountNumber  string          `json:"accountNumber,omitempty"`
	Currency       string          `json:"currency"`
	Balance        decimal.Decimal `gorm:"type:numeric(14,2)" json:"balance"`
	InitialBalance decimal.Decimal `gorm:"type:numeric(14,2)" json:"initialBalance"`
	Limit          decimal.Decimal `gorm:"column:credit_limit;type:numeric(14,2)" json:"limit"`
	IsDefault      bool            `json:"isDefault"`
	Status         AccountStatus   `gorm:"default:active" json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (a *Account) IsCreditCard() bool {
	return a.AccountType == AccountTypeCreditCard
}

func (a *Account) IsActive() bool {
	return a.Status == AccountStatusActive
}
