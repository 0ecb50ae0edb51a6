package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
)

// Memory is an in-memory Store used by tests and local development. A single
// mutex is held for the whole duration of a unit of work, so units are fully
// serialized; rollback restores a snapshot taken when the unit opened.
type Memory struct {
	mu       sync.Mutex
	accounts map[uint]*models.Account
	txns     map[uint]*models.Transaction
	cats     map[uint]*models.Category

	nextAccountID uint
	nextTxnID     uint
	nextCatID     uint
}

func NewMemory() *Memory {
	return &Memory{
		accounts: make(map[uint]*models.Account),
		txns:     make(map[uint]*models.Transaction),
		cats:     make(map[uint]*models.Category),
	}
}

func (m *Memory) Accounts() AccountStore         { return &memAccounts{m: m} }
func (m *Memory) Transactions() TransactionStore { return &memTransactions{m: m} }
func (m *Memory) Categories() CategoryStore      { return &memCategories{m: m} }

func (m *Memory) InTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	uow := &memUow{m: m}
	if err := fn(uow); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

type memSnapshot struct {
	accounts map[uint]*models.Account
	txns     map[uint]*models.Transaction
	cats     map[uint]*models.Category

	nextAccountID uint
	nextTxnID     uint
	nextCatID     uint
}

func (m *Memory) snapshot() memSnapshot {
	snap := memSnapshot{
		accounts:      make(map[uint]*models.Account, len(m.accounts)),
		txns:          make(map[uint]*models.Transaction, len(m.txns)),
		cats:          make(map[uint]*models.Category, len(m.cats)),
		nextAccountID: m.nextAccountID,
		nextTxnID:     m.nextTxnID,
		nextCatID:     m.nextCatID,
	}
	for id, a := range m.accounts {
		snap.accounts[id] = cloneAccount(a)
	}
	for id, t := range m.txns {
		snap.txns[id] = cloneTransaction(t)
	}
	for id, c := range m.cats {
		snap.cats[id] = cloneCategory(c)
	}
	return snap
}

func (m *Memory) restore(snap memSnapshot) {
	m.accounts = snap.accounts
	m.txns = snap.txns
	m.cats = snap.cats
	m.nextAccountID = snap.nextAccountID
	m.nextTxnID = snap.nextTxnID
	m.nextCatID = snap.nextCatID
}

// memUow hands out store views that skip locking: the unit of work already
// holds the mutex.
type memUow struct {
	m *Memory
}

func (u *memUow) Accounts() AccountStore         { return &memAccounts{m: u.m, inTx: true} }
func (u *memUow) Transactions() TransactionStore { return &memTransactions{m: u.m, inTx: true} }
func (u *memUow) Categories() CategoryStore      { return &memCategories{m: u.m, inTx: true} }

func cloneAccount(a *models.Account) *models.Account {
	cp := *a
	return &cp
}

func cloneTransaction(t *models.Transaction) *models.Transaction {
	cp := *t
	cp.Account = nil
	cp.Category = nil
	cp.Tags = append(models.StringArray(nil), t.Tags...)
	cp.Location = append(models.StringArray(nil), t.Location...)
	cp.SharedWith = append(models.StringArray(nil), t.SharedWith...)
	return &cp
}

func cloneCategory(c *models.Category) *models.Category {
	cp := *c
	return &cp
}

type memAccounts struct {
	m    *Memory
	inTx bool
}

func (s *memAccounts) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.m.mu.Lock()
	return s.m.mu.Unlock
}

func (s *memAccounts) Create(ctx context.Context, account *models.Account) error {
	defer s.lock()()
	s.m.nextAccountID++
	account.ID = s.m.nextAccountID
	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now
	s.m.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (s *memAccounts) Get(ctx context.Context, id uint) (*models.Account, error) {
	defer s.lock()()
	account, ok := s.m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(account), nil
}

func (s *memAccounts) GetForUpdate(ctx context.Context, id uint) (*models.Account, error) {
	// The unit-of-work mutex already serializes mutations.
	return s.Get(ctx, id)
}

func (s *memAccounts) Update(ctx context.Context, account *models.Account) error {
	defer s.lock()()
	if _, ok := s.m.accounts[account.ID]; !ok {
		return ErrNotFound
	}
	account.UpdatedAt = time.Now().UTC()
	s.m.accounts[account.ID] = cloneAccount(account)
	return nil
}

func (s *memAccounts) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	defer s.lock()()
	account, ok := s.m.accounts[id]
	if !ok {
		return ErrNotFound
	}
	account.Balance = balance
	account.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *memAccounts) List(ctx context.Context, userID uint, includeInactive bool) ([]models.Account, error) {
	defer s.lock()()
	var out []models.Account
	for _, a := range s.m.accounts {
		if a.UserID != userID {
			continue
		}
		if !includeInactive && a.Status != models.AccountStatusActive {
			continue
		}
		out = append(out, *cloneAccount(a))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memAccounts) ClearDefault(ctx context.Context, userID uint) error {
	defer s.lock()()
	for _, a := range s.m.accounts {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

type memTransactions struct {
	m    *Memory
	inTx bool
}

func (s *memTransactions) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.m.mu.Lock()
	return s.m.mu.Unlock
}

func (s *memTransactions) Create(ctx context.Context, txn *models.Transaction) error {
	defer s.lock()()
	s.m.nextTxnID++
	txn.ID = s.m.nextTxnID
	now := time.Now().UTC()
	txn.CreatedAt = now
	txn.UpdatedAt = now
	s.m.txns[txn.ID] = cloneTransaction(txn)
	return nil
}

func (s *memTransactions) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	defer s.lock()()
	txn, ok := s.m.txns[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneTransaction(txn), nil
}

func (s *memTransactions) Update(ctx context.Context, txn *models.Transaction) error {
	defer s.lock()()
	if _, ok := s.m.txns[txn.ID]; !ok {
		return ErrNotFound
	}
	txn.UpdatedAt = time.Now().UTC()
	s.m.txns[txn.ID] = cloneTransaction(txn)
	return nil
}

func (s *memTransactions) Delete(ctx context.Context, id uint) error {
	defer s.lock()()
	if _, ok := s.m.txns[id]; !ok {
		return ErrNotFound
	}
	delete(s.m.txns, id)
	return nil
}

func (s *memTransactions) Find(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	defer s.lock()()
	var out []models.Transaction
	for _, t := range s.m.txns {
		if !s.matches(t, filter) {
			continue
		}
		out = append(out, *s.resolve(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *memTransactions) FindRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Transaction, error) {
	defer s.lock()()
	var out []models.Transaction
	for _, t := range s.m.txns {
		if t.UserID != userID || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		out = append(out, *s.resolve(t))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *memTransactions) PeriodTotals(ctx context.Context, userID uint, start, end time.Time) (PeriodTotals, error) {
	defer s.lock()()
	totals := PeriodTotals{
		Income:             decimal.Zero,
		Expense:            decimal.Zero,
		CreditCardExpenses: decimal.Zero,
		CreditCardPayments: decimal.Zero,
	}
	for _, t := range s.m.txns {
		if t.UserID != userID || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		creditCard := false
		if account, ok := s.m.accounts[t.AccountID]; ok {
			creditCard = account.IsCreditCard()
		}
		switch t.TransactionType {
		case models.TransactionCredit:
			totals.Income = totals.Income.Add(t.Amount)
			if creditCard {
				totals.CreditCardPayments = totals.CreditCardPayments.Add(t.Amount)
			}
		case models.TransactionDebit:
			totals.Expense = totals.Expense.Add(t.Amount)
			if creditCard {
				totals.CreditCardExpenses = totals.CreditCardExpenses.Add(t.Amount)
			}
		}
	}
	return totals, nil
}

func (s *memTransactions) CategoryRollup(ctx context.Context, userID uint, start, end time.Time, txnType models.TransactionType) ([]CategoryAmount, error) {
	defer s.lock()()
	sums := make(map[string]decimal.Decimal)
	for _, t := range s.m.txns {
		if t.UserID != userID || t.TransactionType != txnType || t.Date.Before(start) || t.Date.After(end) {
			continue
		}
		name := "Unknown"
		if t.CategoryID != nil {
			if c, ok := s.m.cats[*t.CategoryID]; ok {
				name = c.Name
			}
		}
		sums[name] = sums[name].Add(t.Amount)
	}
	out := make([]CategoryAmount, 0, len(sums))
	for name, amount := range sums {
		out = append(out, CategoryAmount{Category: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Amount.GreaterThan(out[j].Amount)
	})
	return out, nil
}

func (s *memTransactions) matches(t *models.Transaction, f TransactionFilter) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.StartDate != nil && t.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && t.Date.After(*f.EndDate) {
		return false
	}
	if f.TransactionType != "" && t.TransactionType != f.TransactionType {
		return false
	}
	if f.CategoryID != nil && (t.CategoryID == nil || *t.CategoryID != *f.CategoryID) {
		return false
	}
	if f.AccountID != nil && t.AccountID != *f.AccountID {
		return false
	}
	if f.MinAmount != nil && t.Amount.LessThan(*f.MinAmount) {
		return false
	}
	if f.MaxAmount != nil && t.Amount.GreaterThan(*f.MaxAmount) {
		return false
	}
	if len(f.Tags) > 0 {
		found := false
		for _, want := range f.Tags {
			for _, have := range t.Tags {
				if want == have {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// resolve attaches copies of the owning account and category, mirroring the
// preloads of the database store.
func (s *memTransactions) resolve(t *models.Transaction) *models.Transaction {
	cp := cloneTransaction(t)
	if account, ok := s.m.accounts[t.AccountID]; ok {
		cp.Account = cloneAccount(account)
	}
	if t.CategoryID != nil {
		if category, ok := s.m.cats[*t.CategoryID]; ok {
			cp.Category = cloneCategory(category)
		}
	}
	return cp
}

type memCategories struct {
	m    *Memory
	inTx bool
}

func (s *memCategories) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.m.mu.Lock()
	return s.m.mu.Unlock
}

func (s *memCategories) Create(ctx context.Context, category *models.Category) error {
	defer s.lock()()
	s.m.nextCatID++
	category.ID = s.m.nextCatID
	category.CreatedAt = time.Now().UTC()
	s.m.cats[category.ID] = cloneCategory(category)
	return nil
}

func (s *memCategories) Get(ctx context.Context, id uint) (*models.Category, error) {
	defer s.lock()()
	category, ok := s.m.cats[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneCategory(category), nil
}

func (s *memCategories) GetDefaultByName(ctx context.Context, name string) (*models.Category, error) {
	defer s.lock()()
	for _, c := range s.m.cats {
		if c.IsDefault && c.Name == name {
			return cloneCategory(c), nil
		}
	}
	return nil, ErrNotFound
}

func (s *memCategories) List(ctx context.Context, userID uint) ([]models.Category, error) {
	defer s.lock()()
	var out []models.Category
	for _, c := range s.m.cats {
		if c.IsDefault || (c.UserID != nil && *c.UserID == userID) {
			out = append(out, *cloneCategory(c))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
