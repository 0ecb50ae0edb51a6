package ledger

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	svc := NewService(mem, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	if err := svc.SeedDefaultCategories(context.Background()); err != nil {
		t.Fatalf("seed default categories: %v", err)
	}
	return svc, mem
}

func newTestAccount(t *testing.T, svc *Service, userID uint, accountType models.AccountType, balance, limit int64) *models.Account {
	t.Helper()
	account, err := svc.CreateAccount(context.Background(), userID, CreateAccountInput{
		AccountType: accountType,
		AccountName: "test " + string(accountType),
		Balance:     decimal.NewFromInt(balance),
		Limit:       decimal.NewFromInt(limit),
	})
	if err != nil {
		t.Fatalf("create %s account: %v", accountType, err)
	}
	return account
}

func accountBalance(t *testing.T, svc *Service, id uint) decimal.Decimal {
	t.Helper()
	account, err := svc.store.Accounts().Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get account %d: %v", id, err)
	}
	return account.Balance
}

func wantBalance(t *testing.T, svc *Service, id uint, want int64) {
	t.Helper()
	got := accountBalance(t, svc, id)
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("account %d balance = %s, want %d", id, got, want)
	}
}
