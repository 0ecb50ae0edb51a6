package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
)

func seedMemAccount(t *testing.T, m *Memory, userID uint, balance int64) *models.Account {
	t.Helper()
	account := &models.Account{
		UserID:      userID,
		AccountType: models.AccountTypeBank,
		AccountName: "checking",
		Balance:     decimal.NewFromInt(balance),
		Status:      models.AccountStatusActive,
	}
	if err := m.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("create account: %v", err)
	}
	return account
}

func seedMemTxn(t *testing.T, m *Memory, txn *models.Transaction) *models.Transaction {
	t.Helper()
	if err := m.Transactions().Create(context.Background(), txn); err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return txn
}

func TestMemoryInTxCommit(t *testing.T) {
	m := NewMemory()
	account := seedMemAccount(t, m, 1, 100)

	err := m.InTx(context.Background(), func(uow UnitOfWork) error {
		if err := uow.Accounts().UpdateBalance(context.Background(), account.ID, decimal.NewFromInt(250)); err != nil {
			return err
		}
		return uow.Transactions().Create(context.Background(), &models.Transaction{
			UserID:          1,
			AccountID:       account.ID,
			TransactionType: models.TransactionCredit,
			Amount:          decimal.NewFromInt(150),
			Date:            time.Now().UTC(),
		})
	})
	if err != nil {
		t.Fatalf("InTx: %v", err)
	}

	got, err := m.Accounts().Get(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("balance = %s, want 250", got.Balance)
	}
}

func TestMemoryInTxRollback(t *testing.T) {
	m := NewMemory()
	account := seedMemAccount(t, m, 1, 100)
	boom := errors.New("boom")

	err := m.InTx(context.Background(), func(uow UnitOfWork) error {
		if err := uow.Accounts().UpdateBalance(context.Background(), account.ID, decimal.NewFromInt(999)); err != nil {
			return err
		}
		if err := uow.Transactions().Create(context.Background(), &models.Transaction{
			UserID:    1,
			AccountID: account.ID,
			Amount:    decimal.NewFromInt(1),
			Date:      time.Now().UTC(),
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("InTx error = %v, want %v", err, boom)
	}

	got, err := m.Accounts().Get(context.Background(), account.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !got.Balance.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("balance = %s, want 100 after rollback", got.Balance)
	}
	txns, err := m.Transactions().Find(context.Background(), TransactionFilter{UserID: 1})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(txns) != 0 {
		t.Fatalf("got %d transactions after rollback, want 0", len(txns))
	}

	// The id sequence rolls back with the data.
	next := seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: account.ID, Amount: decimal.NewFromInt(2), Date: time.Now().UTC()})
	if next.ID != 1 {
		t.Fatalf("next id = %d, want 1", next.ID)
	}
}

func TestMemoryFindFilters(t *testing.T) {
	m := NewMemory()
	account := seedMemAccount(t, m, 1, 0)
	other := seedMemAccount(t, m, 1, 0)
	category := &models.Category{Name: "Food & Dining", IsDefault: true, TransactionType: models.TransactionDebit}
	if err := m.Categories().Create(context.Background(), category); err != nil {
		t.Fatalf("create category: %v", err)
	}

	day := func(d int) time.Time { return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC) }
	seedMemTxn(t, m, &models.Transaction{
		UserID: 1, AccountID: account.ID, TransactionType: models.TransactionDebit,
		Amount: decimal.NewFromInt(50), CategoryID: &category.ID, Date: day(1),
		Tags: models.StringArray{"#personal"},
	})
	seedMemTxn(t, m, &models.Transaction{
		UserID: 1, AccountID: account.ID, TransactionType: models.TransactionCredit,
		Amount: decimal.NewFromInt(500), Date: day(10),
		Tags: models.StringArray{"salary"},
	})
	seedMemTxn(t, m, &models.Transaction{
		UserID: 1, AccountID: other.ID, TransactionType: models.TransactionDebit,
		Amount: decimal.NewFromInt(200), Date: day(20),
		Tags: models.StringArray{"travel", "shared"},
	})
	seedMemTxn(t, m, &models.Transaction{
		UserID: 2, AccountID: account.ID, TransactionType: models.TransactionDebit,
		Amount: decimal.NewFromInt(75), Date: day(5),
	})

	min := decimal.NewFromInt(100)
	start, end := day(5), day(25)
	tests := []struct {
		name   string
		filter TransactionFilter
		want   int
	}{
		{"by user", TransactionFilter{UserID: 1}, 3},
		{"by type", TransactionFilter{UserID: 1, TransactionType: models.TransactionDebit}, 2},
		{"by category", TransactionFilter{UserID: 1, CategoryID: &category.ID}, 1},
		{"by account", TransactionFilter{UserID: 1, AccountID: &other.ID}, 1},
		{"by min amount", TransactionFilter{UserID: 1, MinAmount: &min}, 2},
		{"by date range", TransactionFilter{UserID: 1, StartDate: &start, EndDate: &end}, 2},
		{"by tag", TransactionFilter{UserID: 1, Tags: []string{"travel"}}, 1},
		{"by any of several tags", TransactionFilter{UserID: 1, Tags: []string{"salary", "travel"}}, 2},
		{"tag misses", TransactionFilter{UserID: 1, Tags: []string{"missing"}}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Transactions().Find(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("Find: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("got %d transactions, want %d", len(got), tt.want)
			}
		})
	}
}

func TestMemoryFindResolvesRelations(t *testing.T) {
	m := NewMemory()
	account := seedMemAccount(t, m, 1, 0)
	category := &models.Category{Name: "Shopping", IsDefault: true, TransactionType: models.TransactionDebit}
	if err := m.Categories().Create(context.Background(), category); err != nil {
		t.Fatalf("create category: %v", err)
	}
	seedMemTxn(t, m, &models.Transaction{
		UserID: 1, AccountID: account.ID, TransactionType: models.TransactionDebit,
		Amount: decimal.NewFromInt(10), CategoryID: &category.ID, Date: time.Now().UTC(),
	})

	got, err := m.Transactions().Find(context.Background(), TransactionFilter{UserID: 1})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d transactions, want 1", len(got))
	}
	if got[0].Account == nil || got[0].Account.AccountName != "checking" {
		t.Fatalf("account not resolved: %+v", got[0].Account)
	}
	if got[0].Category == nil || got[0].Category.Name != "Shopping" {
		t.Fatalf("category not resolved: %+v", got[0].Category)
	}
}

func TestMemoryFindOrder(t *testing.T) {
	m := NewMemory()
	account := seedMemAccount(t, m, 1, 0)
	day := func(d int) time.Time { return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC) }
	for _, d := range []int{10, 1, 20} {
		seedMemTxn(t, m, &models.Transaction{
			UserID: 1, AccountID: account.ID, TransactionType: models.TransactionDebit,
			Amount: decimal.NewFromInt(int64(d)), Date: day(d),
		})
	}

	newest, err := m.Transactions().Find(context.Background(), TransactionFilter{UserID: 1})
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	for i := 1; i < len(newest); i++ {
		if newest[i].Date.After(newest[i-1].Date) {
			t.Fatal("Find results are not newest first")
		}
	}

	oldest, err := m.Transactions().FindRange(context.Background(), 1, day(1), day(30))
	if err != nil {
		t.Fatalf("FindRange: %v", err)
	}
	for i := 1; i < len(oldest); i++ {
		if oldest[i].Date.Before(oldest[i-1].Date) {
			t.Fatal("FindRange results are not oldest first")
		}
	}
}

func TestMemoryPeriodTotals(t *testing.T) {
	m := NewMemory()
	bank := seedMemAccount(t, m, 1, 0)
	card := &models.Account{
		UserID: 1, AccountType: models.AccountTypeCreditCard, AccountName: "card",
		Limit: decimal.NewFromInt(1000), Status: models.AccountStatusActive,
	}
	if err := m.Accounts().Create(context.Background(), card); err != nil {
		t.Fatalf("create card: %v", err)
	}

	day := func(d int) time.Time { return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC) }
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: bank.ID, TransactionType: models.TransactionCredit, Amount: decimal.NewFromInt(1000), Date: day(1)})
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: bank.ID, TransactionType: models.TransactionDebit, Amount: decimal.NewFromInt(300), Date: day(2)})
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: card.ID, TransactionType: models.TransactionDebit, Amount: decimal.NewFromInt(150), Date: day(3)})
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: card.ID, TransactionType: models.TransactionCredit, Amount: decimal.NewFromInt(50), Date: day(4)})
	// Outside the period.
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: bank.ID, TransactionType: models.TransactionDebit, Amount: decimal.NewFromInt(999), Date: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)})

	totals, err := m.Transactions().PeriodTotals(context.Background(), 1, day(1), day(31))
	if err != nil {
		t.Fatalf("PeriodTotals: %v", err)
	}
	if !totals.Income.Equal(decimal.NewFromInt(1050)) {
		t.Errorf("income = %s, want 1050", totals.Income)
	}
	if !totals.Expense.Equal(decimal.NewFromInt(450)) {
		t.Errorf("expense = %s, want 450", totals.Expense)
	}
	if !totals.CreditCardExpenses.Equal(decimal.NewFromInt(150)) {
		t.Errorf("creditCardExpenses = %s, want 150", totals.CreditCardExpenses)
	}
	if !totals.CreditCardPayments.Equal(decimal.NewFromInt(50)) {
		t.Errorf("creditCardPayments = %s, want 50", totals.CreditCardPayments)
	}
}

func TestMemoryCategoryRollup(t *testing.T) {
	m := NewMemory()
	account := seedMemAccount(t, m, 1, 0)
	food := &models.Category{Name: "Food & Dining", IsDefault: true, TransactionType: models.TransactionDebit}
	if err := m.Categories().Create(context.Background(), food); err != nil {
		t.Fatalf("create category: %v", err)
	}

	day := func(d int) time.Time { return time.Date(2025, time.July, d, 0, 0, 0, 0, time.UTC) }
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: account.ID, TransactionType: models.TransactionDebit, Amount: decimal.NewFromInt(100), CategoryID: &food.ID, Date: day(1)})
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: account.ID, TransactionType: models.TransactionDebit, Amount: decimal.NewFromInt(40), CategoryID: &food.ID, Date: day(2)})
	seedMemTxn(t, m, &models.Transaction{UserID: 1, AccountID: account.ID, TransactionType: models.TransactionDebit, Amount: decimal.NewFromInt(60), Date: day(3)})

	rows, err := m.Transactions().CategoryRollup(context.Background(), 1, day(1), day(31), models.TransactionDebit)
	if err != nil {
		t.Fatalf("CategoryRollup: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0].Category != "Food & Dining" || !rows[0].Amount.Equal(decimal.NewFromInt(140)) {
		t.Fatalf("rows[0] = %+v, want Food & Dining 140", rows[0])
	}
	if rows[1].Category != "Unknown" || !rows[1].Amount.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("rows[1] = %+v, want Unknown 60", rows[1])
	}
}

func TestMemoryClearDefault(t *testing.T) {
	m := NewMemory()
	first := seedMemAccount(t, m, 1, 0)
	second := seedMemAccount(t, m, 1, 0)
	first.IsDefault = true
	if err := m.Accounts().Update(context.Background(), first); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := m.Accounts().ClearDefault(context.Background(), 1); err != nil {
		t.Fatalf("ClearDefault: %v", err)
	}
	for _, id := range []uint{first.ID, second.ID} {
		got, err := m.Accounts().Get(context.Background(), id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.IsDefault {
			t.Fatalf("account %d still default", id)
		}
	}
}
