package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

func TestTransferBetweenAssetAccounts(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 1000, 0)
	destination := newTestAccount(t, svc, 1, models.AccountTypeWallet, 100, 0)

	result, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.NewFromInt(300),
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}

	wantBalance(t, svc, source.ID, 700)
	wantBalance(t, svc, destination.ID, 400)

	debit, credit := result.DebitTransaction, result.CreditTransaction
	if debit.TransactionType != models.TransactionDebit || credit.TransactionType != models.TransactionCredit {
		t.Fatalf("leg types = %s/%s, want debit/credit", debit.TransactionType, credit.TransactionType)
	}
	if debit.ReferenceID == "" || debit.ReferenceID != credit.ReferenceID {
		t.Fatalf("referenceIds = %q/%q, want one shared non-empty id", debit.ReferenceID, credit.ReferenceID)
	}
	if debit.AccountID != source.ID || credit.AccountID != destination.ID {
		t.Fatalf("leg accounts = %d/%d, want %d/%d", debit.AccountID, credit.AccountID, source.ID, destination.ID)
	}
	if debit.Description != "Transfer to "+destination.AccountName {
		t.Fatalf("debit description = %q", debit.Description)
	}
	if credit.Description != "Transfer from "+source.AccountName {
		t.Fatalf("credit description = %q", credit.Description)
	}
	wantTags := []string{"transfer", "internal-transfer"}
	for i, tag := range wantTags {
		if string(debit.Tags[i]) != tag {
			t.Fatalf("debit tags = %v, want %v", debit.Tags, wantTags)
		}
	}
	if !result.SourceAccount.Balance.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("result source balance = %s, want 700", result.SourceAccount.Balance)
	}
}

func TestTransferPaysDownCreditCard(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 500, 0)
	card := newTestAccount(t, svc, 1, models.AccountTypeCreditCard, 300, 1000)

	if _, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      source.ID,
		DestinationAccountID: card.ID,
		Amount:               decimal.NewFromInt(200),
	}); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	wantBalance(t, svc, source.ID, 300)
	wantBalance(t, svc, card.ID, 100)
}

func TestTransferFromCreditCardDrawsCredit(t *testing.T) {
	svc, _ := newTestService(t)
	card := newTestAccount(t, svc, 1, models.AccountTypeCreditCard, 200, 1000)
	destination := newTestAccount(t, svc, 1, models.AccountTypeBank, 100, 0)

	if _, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      card.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.NewFromInt(300),
	}); err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	wantBalance(t, svc, card.ID, 500)
	wantBalance(t, svc, destination.ID, 400)
}

func TestTransferSameAccount(t *testing.T) {
	svc, _ := newTestService(t)
	account := newTestAccount(t, svc, 1, models.AccountTypeBank, 1000, 0)

	_, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      account.ID,
		DestinationAccountID: account.ID,
		Amount:               decimal.NewFromInt(100),
	})
	if !errors.Is(err, ErrSameAccountTransfer) {
		t.Fatalf("error = %v, want %v", err, ErrSameAccountTransfer)
	}
}

func TestTransferInvalidAmount(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 1000, 0)
	destination := newTestAccount(t, svc, 1, models.AccountTypeBank, 100, 0)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-50)} {
		_, err := svc.Transfer(context.Background(), 1, TransferInput{
			SourceAccountID:      source.ID,
			DestinationAccountID: destination.ID,
			Amount:               amount,
		})
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %s: error = %v, want %v", amount, err, ErrInvalidAmount)
		}
	}
}

func TestTransferInsufficientFundsRollsBack(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 100, 0)
	destination := newTestAccount(t, svc, 1, models.AccountTypeBank, 50, 0)

	_, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.NewFromInt(500),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("error = %v, want %v", err, ErrInsufficientFunds)
	}
	wantBalance(t, svc, source.ID, 100)
	wantBalance(t, svc, destination.ID, 50)

	listed, err := svc.ListTransactions(context.Background(), store.TransactionFilter{UserID: 1})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("got %d transactions after failed transfer, want 0", len(listed))
	}
}

func TestTransferOverpaymentRollsBack(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 1000, 0)
	card := newTestAccount(t, svc, 1, models.AccountTypeCreditCard, 100, 1000)

	// The destination leg fails after the source leg was computed; neither
	// balance may move.
	_, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      source.ID,
		DestinationAccountID: card.ID,
		Amount:               decimal.NewFromInt(400),
	})
	if !errors.Is(err, ErrOverpayment) {
		t.Fatalf("error = %v, want %v", err, ErrOverpayment)
	}
	wantBalance(t, svc, source.ID, 1000)
	wantBalance(t, svc, card.ID, 100)
}

func TestTransferInactiveAccount(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 1000, 0)
	destination := newTestAccount(t, svc, 1, models.AccountTypeBank, 100, 0)
	if _, err := svc.DeactivateAccount(context.Background(), 1, destination.ID); err != nil {
		t.Fatalf("DeactivateAccount: %v", err)
	}

	_, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.NewFromInt(100),
	})
	if !errors.Is(err, ErrInactiveAccount) {
		t.Fatalf("error = %v, want %v", err, ErrInactiveAccount)
	}
	wantBalance(t, svc, source.ID, 1000)
}

func TestTransferBillPayment(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 1000, 0)
	destination := newTestAccount(t, svc, 1, models.AccountTypeBank, 0, 0)

	result, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.NewFromInt(120),
		IsBillPayment:        true,
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	debit := result.DebitTransaction
	if debit.Category == nil && debit.CategoryID == nil {
		t.Fatal("bill payment leg has no category")
	}
	category, err := svc.store.Categories().Get(context.Background(), *debit.CategoryID)
	if err != nil {
		t.Fatalf("Get category: %v", err)
	}
	if category.Name != CategoryUtilitiesBills {
		t.Fatalf("category = %q, want %q", category.Name, CategoryUtilitiesBills)
	}
	if len(debit.Tags) != 2 || debit.Tags[1] != "bill-payment" {
		t.Fatalf("tags = %v, want [transfer bill-payment]", debit.Tags)
	}
}

func TestTransferDefaultsToTransferCategory(t *testing.T) {
	svc, _ := newTestService(t)
	source := newTestAccount(t, svc, 1, models.AccountTypeBank, 1000, 0)
	destination := newTestAccount(t, svc, 1, models.AccountTypeBank, 0, 0)

	result, err := svc.Transfer(context.Background(), 1, TransferInput{
		SourceAccountID:      source.ID,
		DestinationAccountID: destination.ID,
		Amount:               decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Transfer: %v", err)
	}
	category, err := svc.store.Categories().Get(context.Background(), *result.DebitTransaction.CategoryID)
	if err != nil {
		t.Fatalf("Get category: %v", err)
	}
	if category.Name != CategoryTransfer {
		t.Fatalf("category = %q, want %q", category.Name, CategoryTransfer)
	}
}
