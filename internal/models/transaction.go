package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

func (t TransactionType) Valid() bool {
	return t == TransactionCredit || t == TransactionDebit
}

// Transaction is one committed ledger entry. Every persisted row has exactly
// one matching balance delta already applied to its account; the two are
// written in the same atomic unit and never observed independently.
type Transaction struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"index" json:"userId"`
	AccountID       uint            `gorm:"index" json:"accountId"`
	Account         *Account        `gorm:"foreignKey:AccountID" json:"account,omitempty"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2)" json:"amount"`
	CategoryID      *uint           `json:"categoryId,omitempty"`
	Category        *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Description     string          `json:"description"`
	Date            time.Time       `gorm:"index" json:"date"`
	ReferenceID     string          `json:"referenceId,omitempty"`
	Tags            StringArray     `gorm:"type:jsonb" json:"tags"`
	Location        StringArray     `gorm:"type:jsonb" json:"location"`
	SharedWith      StringArray     `gorm:"type:jsonb" json:"sharedWith"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type StringArray []string

func (sa StringArray) Value() (driver.Value, error) {
	if len(sa) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(sa)
}

func (sa *StringArray) Scan(value interface{}) error {
	if value == nil {
		*sa = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for StringArray: %T", value)
	}
	if len(data) == 0 {
		*sa = nil
		return nil
	}
	return json.Unmarshal(data, sa)
}
