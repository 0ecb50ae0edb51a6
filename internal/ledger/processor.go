package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

type TransactionInput struct {
	AccountID       uint
	TransactionType models.TransactionType
	Amount          decimal.Decimal
	CategoryID      *uint
	Description     string
	Date            time.Time
	Tags            []string
	Location        []string
	SharedWith      []string
}

// CreateTransaction persists one transaction and its balance delta in one
// atomic unit.
func (s *Service) CreateTransaction(ctx context.Context, userID uint, in TransactionInput) (*models.Transaction, error) {
	var txn *models.Transaction
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		var err error
		txn, err = s.createInUnit(ctx, uow, userID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("transaction created", "user_id", userID, "transaction_id", txn.ID,
		"account_id", txn.AccountID, "type", txn.TransactionType, "amount", txn.Amount)
	return txn, nil
}

// CreateTransactions applies a batch inside one atomic unit: a failure on
// any element rolls back every account update and insert of the batch.
func (s *Service) CreateTransactions(ctx context.Context, userID uint, ins []TransactionInput) ([]*models.Transaction, error) {
	if len(ins) == 0 {
		return nil, fmt.Errorf("%w: transactions array is required", ErrValidation)
	}
	var txns []*models.Transaction
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		txns = txns[:0]
		for _, in := range ins {
			txn, err := s.createInUnit(ctx, uow, userID, in)
			if err != nil {
				return err
			}
			txns = append(txns, txn)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("transaction batch created", "user_id", userID, "count", len(txns))
	return txns, nil
}

// createInUnit runs the create step against an already-open unit of work,
// shared by the single and batch entry points.
func (s *Service) createInUnit(ctx context.Context, uow store.UnitOfWork, userID uint, in TransactionInput) (*models.Transaction, error) {
	if !in.TransactionType.Valid() {
		return nil, fmt.Errorf("%w: invalid transactionType %q", ErrValidation, in.TransactionType)
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	account, err := s.lockedAccount(ctx, uow, userID, in.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive() {
		return nil, ErrInactiveAccount
	}

	newBalance, err := applyPolicy(account.AccountType, in.TransactionType, in.Amount, account.Balance, account.Limit)
	if err != nil {
		return nil, err
	}
	if err := uow.Accounts().UpdateBalance(ctx, account.ID, newBalance); err != nil {
		return nil, err
	}

	date := in.Date
	if date.IsZero() {
		date = time.Now().UTC()
	}
	tags := in.Tags
	if len(tags) == 0 {
		tags = []string{"#personal"}
	}
	txn := &models.Transaction{
		UserID:          userID,
		AccountID:       account.ID,
		TransactionType: in.TransactionType,
		Amount:          in.Amount,
		CategoryID:      in.CategoryID,
		Description:     in.Description,
		Date:            date,
		Tags:            tags,
		Location:        in.Location,
		SharedWith:      in.SharedWith,
	}
	if err := uow.Transactions().Create(ctx, txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// TransactionPatch carries the mutable fields of an update; nil fields keep
// their previous value.
type TransactionPatch struct {
	AccountID       *uint
	TransactionType *models.TransactionType
	Amount          *decimal.Decimal
	CategoryID      *uint
	Description     *string
	Date            *time.Time
	Tags            []string
	Location        []string
	SharedWith      []string
}

// UpdateTransaction reverses the old effect and applies the patched one in a
// single atomic unit. The reversal is the policy evaluated with the
// transaction type inverted; when the account changes, the reversal lands on
// the old account and the new effect on the new one, as two independent
// policy evaluations. Any rejection anywhere aborts the whole unit.
func (s *Service) UpdateTransaction(ctx context.Context, userID, transactionID uint, patch TransactionPatch) (*models.Transaction, error) {
	if patch.TransactionType != nil && !patch.TransactionType.Valid() {
		return nil, fmt.Errorf("%w: invalid transactionType %q", ErrValidation, *patch.TransactionType)
	}
	if patch.Amount != nil && !patch.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	var txn *models.Transaction
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		var err error
		txn, err = s.ownedTransaction(ctx, uow, userID, transactionID)
		if err != nil {
			return err
		}

		oldAccount, err := s.lockedAccount(ctx, uow, userID, txn.AccountID)
		if err != nil {
			return err
		}
		if !oldAccount.IsActive() {
			return ErrInactiveAccount
		}

		newType := txn.TransactionType
		if patch.TransactionType != nil {
			newType = *patch.TransactionType
		}
		newAmount := txn.Amount
		if patch.Amount != nil {
			newAmount = *patch.Amount
		}

		// Undo the old effect on the old account.
		preBalance, err := applyPolicy(oldAccount.AccountType, invert(txn.TransactionType), txn.Amount, oldAccount.Balance, oldAccount.Limit)
		if err != nil {
			return err
		}

		if patch.AccountID != nil && *patch.AccountID != txn.AccountID {
			newAccount, err := s.lockedAccount(ctx, uow, userID, *patch.AccountID)
			if err != nil {
				return err
			}
			if !newAccount.IsActive() {
				return ErrInactiveAccount
			}
			newBalance, err := applyPolicy(newAccount.AccountType, newType, newAmount, newAccount.Balance, newAccount.Limit)
			if err != nil {
				return err
			}
			if err := uow.Accounts().UpdateBalance(ctx, oldAccount.ID, preBalance); err != nil {
				return err
			}
			if err := uow.Accounts().UpdateBalance(ctx, newAccount.ID, newBalance); err != nil {
				return err
			}
			txn.AccountID = newAccount.ID
		} else {
			finalBalance, err := applyPolicy(oldAccount.AccountType, newType, newAmount, preBalance, oldAccount.Limit)
			if err != nil {
				return err
			}
			if err := uow.Accounts().UpdateBalance(ctx, oldAccount.ID, finalBalance); err != nil {
				return err
			}
		}

		txn.TransactionType = newType
		txn.Amount = newAmount
		if patch.CategoryID != nil {
			txn.CategoryID = patch.CategoryID
		}
		if patch.Description != nil {
			txn.Description = *patch.Description
		}
		if patch.Date != nil {
			txn.Date = *patch.Date
		}
		if patch.Tags != nil {
			txn.Tags = patch.Tags
		}
		if patch.Location != nil {
			txn.Location = patch.Location
		}
		if patch.SharedWith != nil {
			txn.SharedWith = patch.SharedWith
		}
		return uow.Transactions().Update(ctx, txn)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("transaction updated", "user_id", userID, "transaction_id", transactionID)
	return txn, nil
}

// DeleteTransaction reverses the transaction's effect unconditionally and
// removes the row, both in one atomic unit. Reversal needs no limit or
// sufficiency check since it can only move the balance toward a previously
// valid state.
func (s *Service) DeleteTransaction(ctx context.Context, userID, transactionID uint) error {
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		txn, err := s.ownedTransaction(ctx, uow, userID, transactionID)
		if err != nil {
			return err
		}
		account, err := s.lockedAccount(ctx, uow, userID, txn.AccountID)
		if err != nil {
			return err
		}
		newBalance := reverseEffect(account.AccountType, txn.TransactionType, txn.Amount, account.Balance)
		if err := uow.Accounts().UpdateBalance(ctx, account.ID, newBalance); err != nil {
			return err
		}
		return uow.Transactions().Delete(ctx, txn.ID)
	})
	if err != nil {
		return err
	}
	s.log.Info("transaction deleted", "user_id", userID, "transaction_id", transactionID)
	return nil
}

// ListTransactions is a filtered read with account and category resolved; a
// missing category maps to the deterministic "Other Expenses" fallback.
func (s *Service) ListTransactions(ctx context.Context, filter store.TransactionFilter) ([]models.Transaction, error) {
	txns, err := s.store.Transactions().Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var fallback *models.Category
	for i := range txns {
		if txns[i].Category == nil {
			if fallback == nil {
				fallback = s.fallbackCategory(ctx)
			}
			txns[i].Category = fallback
		}
	}
	return txns, nil
}

func (s *Service) ownedTransaction(ctx context.Context, uow store.UnitOfWork, userID, transactionID uint) (*models.Transaction, error) {
	txn, err := uow.Transactions().Get(ctx, transactionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrTransactionNotFound
	}
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, ErrTransactionNotFound
	}
	return txn, nil
}
