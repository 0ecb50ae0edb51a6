// Package store defines the persistence contracts for the ledger. All
// balance-affecting writes go through a unit of work: the caller opens one
// with Store.InTx, performs every read and write of the operation against
// the stores it hands out, and the whole unit commits or rolls back
// together.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
)

// ErrNotFound is returned by every store when the requested record does not
// exist, regardless of backend.
var ErrNotFound = errors.New("record not found")

// TransactionFilter narrows Find results. Nil/zero fields are ignored.
type TransactionFilter struct {
	UserID          uint
	StartDate       *time.Time
	EndDate         *time.Time
	TransactionType models.TransactionType
	CategoryID      *uint
	AccountID       *uint
	MinAmount       *decimal.Decimal
	MaxAmount       *decimal.Decimal
	Tags            []string
}

// PeriodTotals are the income/expense rollups for one date range.
type PeriodTotals struct {
	Income             decimal.Decimal `json:"income"`
	Expense            decimal.Decimal `json:"expense"`
	CreditCardExpenses decimal.Decimal `json:"creditCardExpenses"`
	CreditCardPayments decimal.Decimal `json:"creditCardPayments"`
}

// CategoryAmount is one row of a category-wise rollup.
type CategoryAmount struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	Get(ctx context.Context, id uint) (*models.Account, error)
	// GetForUpdate reads the account for a balance mutation. Inside a unit
	// of work the row stays locked until the unit commits or aborts, so the
	// balance check and the balance write see the same snapshot.
	GetForUpdate(ctx context.Context, id uint) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error
	List(ctx context.Context, userID uint, includeInactive bool) ([]models.Account, error)
	// ClearDefault unsets isDefault on all of the user's accounts.
	ClearDefault(ctx context.Context, userID uint) error
}

type TransactionStore interface {
	Create(ctx context.Context, txn *models.Transaction) error
	Get(ctx context.Context, id uint) (*models.Transaction, error)
	Update(ctx context.Context, txn *models.Transaction) error
	Delete(ctx context.Context, id uint) error
	// Find returns matching transactions with Account and Category resolved,
	// newest first.
	Find(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	// FindRange returns the user's transactions in [start, end] with Account
	// and Category resolved, oldest first.
	FindRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Transaction, error)
	PeriodTotals(ctx context.Context, userID uint, start, end time.Time) (PeriodTotals, error)
	CategoryRollup(ctx context.Context, userID uint, start, end time.Time, txnType models.TransactionType) ([]CategoryAmount, error)
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.Category) error
	Get(ctx context.Context, id uint) (*models.Category, error)
	// GetDefaultByName looks up a predefined category by its well-known name.
	GetDefaultByName(ctx context.Context, name string) (*models.Category, error)
	// List returns the predefined categories plus the user's own.
	List(ctx context.Context, userID uint) ([]models.Category, error)
}

// UnitOfWork groups the stores sharing one transactional context.
type UnitOfWork interface {
	Accounts() AccountStore
	Transactions() TransactionStore
	Categories() CategoryStore
}

// Store is a UnitOfWork bound to the base (auto-commit) context plus the
// ability to open an atomic unit.
type Store interface {
	UnitOfWork
	// InTx runs fn inside one atomic unit. Every write performed through the
	// UnitOfWork passed to fn commits if fn returns nil and rolls back
	// otherwise; no partially-applied state is observable either way.
	InTx(ctx context.Context, fn func(uow UnitOfWork) error) error
}
