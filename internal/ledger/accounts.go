package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

type CreateAccountInput struct {
	AccountType   models.AccountType
	AccountName   string
	AccountNumber string
	Currency      string
	Balance       decimal.Decimal
	Limit         decimal.Decimal
	IsDefault     bool
}

// CreateAccount validates and persists a new account. Setting isDefault
// unsets the flag on the user's other accounts first, keeping at most one
// default per user.
func (s *Service) CreateAccount(ctx context.Context, userID uint, in CreateAccountInput) (*models.Account, error) {
	if in.AccountName == "" {
		return nil, fmt.Errorf("%w: accountName is required", ErrValidation)
	}
	if !in.AccountType.Valid() {
		return nil, fmt.Errorf("%w: invalid accountType %q", ErrValidation, in.AccountType)
	}
	if in.AccountType == models.AccountTypeCreditCard && !in.Limit.IsPositive() {
		return nil, fmt.Errorf("%w: credit card limit is required and must be greater than 0", ErrValidation)
	}
	if in.Balance.IsNegative() {
		return nil, fmt.Errorf("%w: balance must not be negative", ErrValidation)
	}
	if in.AccountType == models.AccountTypeCreditCard && in.Balance.GreaterThan(in.Limit) {
		return nil, fmt.Errorf("%w: balance must not exceed the credit card limit", ErrValidation)
	}
	currency := in.Currency
	if currency == "" {
		currency = s.currency
	}

	account := &models.Account{
		UserID:         userID,
		AccountType:    in.AccountType,
		AccountName:    in.AccountName,
		AccountNumber:  in.AccountNumber,
		Currency:       currency,
		Balance:        in.Balance,
		InitialBalance: in.Balance,
		Limit:          in.Limit,
		IsDefault:      in.IsDefault,
		Status:         models.AccountStatusActive,
	}
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		if in.IsDefault {
			if err := uow.Accounts().ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		return uow.Accounts().Create(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("account created", "user_id", userID, "account_id", account.ID, "account_type", account.AccountType)
	return account, nil
}

type UpdateAccountInput struct {
	AccountName *string
	AccountType *models.AccountType
	Balance     *decimal.Decimal
	IsDefault   *bool
	Status      *models.AccountStatus
}

// UpdateAccount applies direct field edits. Balance edits here are for
// corrections outside the transaction flow; the processor and orchestrator
// remain the only transactional balance writers.
func (s *Service) UpdateAccount(ctx context.Context, userID, accountID uint, in UpdateAccountInput) (*models.Account, error) {
	if in.AccountType != nil && !in.AccountType.Valid() {
		return nil, fmt.Errorf("%w: invalid accountType %q", ErrValidation, *in.AccountType)
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, fmt.Errorf("%w: invalid status %q", ErrValidation, *in.Status)
	}
	var account *models.Account
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		var err error
		account, err = s.ownedAccount(ctx, uow, userID, accountID)
		if err != nil {
			return err
		}
		if in.IsDefault != nil && *in.IsDefault && !account.IsDefault {
			if err := uow.Accounts().ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		if in.AccountName != nil {
			account.AccountName = *in.AccountName
		}
		if in.AccountType != nil {
			account.AccountType = *in.AccountType
		}
		if in.Balance != nil {
			if in.Balance.IsNegative() {
				return fmt.Errorf("%w: balance must not be negative", ErrValidation)
			}
			account.Balance = *in.Balance
		}
		if in.IsDefault != nil {
			account.IsDefault = *in.IsDefault
		}
		if in.Status != nil {
			account.Status = *in.Status
		}
		if account.IsCreditCard() && !account.Limit.IsPositive() {
			return fmt.Errorf("%w: credit card limit is required and must be greater than 0", ErrValidation)
		}
		return uow.Accounts().Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeactivateAccount soft-deletes: the account flips to inactive and its
// transaction history stays intact. Accounts are never physically removed.
func (s *Service) DeactivateAccount(ctx context.Context, userID, accountID uint) (*models.Account, error) {
	var account *models.Account
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		var err error
		account, err = s.ownedAccount(ctx, uow, userID, accountID)
		if err != nil {
			return err
		}
		account.Status = models.AccountStatusInactive
		account.IsDefault = false
		return uow.Accounts().Update(ctx, account)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("account deactivated", "user_id", userID, "account_id", accountID)
	return account, nil
}

func (s *Service) ListAccounts(ctx context.Context, userID uint, includeInactive bool) ([]models.Account, error) {
	return s.store.Accounts().List(ctx, userID, includeInactive)
}

// ownedAccount loads an account and enforces ownership; a foreign account is
// indistinguishable from a missing one.
func (s *Service) ownedAccount(ctx context.Context, uow store.UnitOfWork, userID, accountID uint) (*models.Account, error) {
	account, err := uow.Accounts().Get(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// lockedAccount is ownedAccount with a FOR UPDATE read, for balance
// mutations inside a unit of work.
func (s *Service) lockedAccount(ctx context.Context, uow store.UnitOfWork, userID, accountID uint) (*models.Account, error) {
	account, err := uow.Accounts().GetForUpdate(ctx, accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, ErrAccountNotFound
	}
	return account, nil
}
