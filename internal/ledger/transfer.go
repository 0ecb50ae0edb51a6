package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

type TransferInput struct {
	SourceAccountID      uint
	DestinationAccountID uint
	Amount               decimal.Decimal
	Description          string
	Tags                 []string
	IsBillPayment        bool
	CategoryID           *uint
	Date                 time.Time
}

// TransferResult carries both legs and both updated accounts.
type TransferResult struct {
	DebitTransaction   *models.Transaction `json:"debitTransaction"`
	CreditTransaction  *models.Transaction `json:"creditTransaction"`
	SourceAccount      *models.Account     `json:"sourceAccount"`
	DestinationAccount *models.Account     `json:"destinationAccount"`
}

// Transfer moves money between two of the caller's accounts: a debit leg on
// the source and a credit leg on the destination, linked by one generated
// referenceId, committed with both balance updates as a single atomic unit.
// A credit-card source draws on available credit (cash-advance style); a
// credit-card destination treats the credit as a payment.
func (s *Service) Transfer(ctx context.Context, userID uint, in TransferInput) (*TransferResult, error) {
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if in.SourceAccountID == in.DestinationAccountID {
		return nil, ErrSameAccountTransfer
	}

	var result *TransferResult
	err := s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		// Lock in ascending id order so two opposite transfers between the
		// same pair cannot deadlock.
		firstID, secondID := in.SourceAccountID, in.DestinationAccountID
		if secondID < firstID {
			firstID, secondID = secondID, firstID
		}
		locked := make(map[uint]*models.Account, 2)
		for _, id := range []uint{firstID, secondID} {
			account, err := s.lockedAccount(ctx, uow, userID, id)
			if err != nil {
				return err
			}
			locked[id] = account
		}
		source := locked[in.SourceAccountID]
		destination := locked[in.DestinationAccountID]
		if !source.IsActive() || !destination.IsActive() {
			return ErrInactiveAccount
		}

		category, err := s.resolveTransferCategory(ctx, uow, in)
		if err != nil {
			return err
		}

		sourceBalance, err := applyPolicy(source.AccountType, models.TransactionDebit, in.Amount, source.Balance, source.Limit)
		if err != nil {
			return err
		}
		destinationBalance, err := applyPolicy(destination.AccountType, models.TransactionCredit, in.Amount, destination.Balance, destination.Limit)
		if err != nil {
			return err
		}

		date := in.Date
		if date.IsZero() {
			date = time.Now().UTC()
		}
		tags := in.Tags
		if len(tags) == 0 {
			kind := "internal-transfer"
			if in.IsBillPayment {
				kind = "bill-payment"
			}
			tags = []string{"transfer", kind}
		}
		referenceID := uuid.NewString()

		debitDescription := in.Description
		if debitDescription == "" {
			debitDescription = fmt.Sprintf("Transfer to %s", destination.AccountName)
		}
		creditDescription := in.Description
		if creditDescription == "" {
			creditDescription = fmt.Sprintf("Transfer from %s", source.AccountName)
		}

		debit := &models.Transaction{
			UserID:          userID,
			AccountID:       source.ID,
			TransactionType: models.TransactionDebit,
			Amount:          in.Amount,
			CategoryID:      &category.ID,
			Description:     debitDescription,
			Date:            date,
			ReferenceID:     referenceID,
			Tags:            tags,
		}
		credit := &models.Transaction{
			UserID:          userID,
			AccountID:       destination.ID,
			TransactionType: models.TransactionCredit,
			Amount:          in.Amount,
			CategoryID:      &category.ID,
			Description:     creditDescription,
			Date:            date,
			ReferenceID:     referenceID,
			Tags:            tags,
		}

		if err := uow.Accounts().UpdateBalance(ctx, source.ID, sourceBalance); err != nil {
			return err
		}
		if err := uow.Accounts().UpdateBalance(ctx, destination.ID, destinationBalance); err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, debit); err != nil {
			return err
		}
		if err := uow.Transactions().Create(ctx, credit); err != nil {
			return err
		}

		source.Balance = sourceBalance
		destination.Balance = destinationBalance
		result = &TransferResult{
			DebitTransaction:   debit,
			CreditTransaction:  credit,
			SourceAccount:      source,
			DestinationAccount: destination,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("transfer completed", "user_id", userID,
		"source_account_id", in.SourceAccountID, "destination_account_id", in.DestinationAccountID,
		"amount", in.Amount, "reference_id", result.DebitTransaction.ReferenceID)
	return result, nil
}

// resolveTransferCategory picks the supplied category, else walks the
// well-known chain: "Utilities & Bills" for bill payments, otherwise
// "Transfer" falling back to "Other Expenses".
func (s *Service) resolveTransferCategory(ctx context.Context, uow store.UnitOfWork, in TransferInput) (*models.Category, error) {
	if in.IsBillPayment {
		return resolveCategory(ctx, uow.Categories(), in.CategoryID, CategoryUtilitiesBills)
	}
	return resolveCategory(ctx, uow.Categories(), in.CategoryID, CategoryTransfer, CategoryOtherExpenses)
}
