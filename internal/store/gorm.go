package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finance-ledger-go/internal/models"
)

// Gorm is the Postgres-backed Store. InTx maps the unit of work onto a
// database transaction; GetForUpdate takes a SELECT ... FOR UPDATE row lock
// so concurrent mutations of the same account serialize instead of racing
// between the balance check and the balance write.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Accounts() AccountStore         { return &gormAccounts{db: g.db} }
func (g *Gorm) Transactions() TransactionStore { return &gormTransactions{db: g.db} }
func (g *Gorm) Categories() CategoryStore      { return &gormCategories{db: g.db} }

func (g *Gorm) InTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

type gormAccounts struct {
	db *gorm.DB
}

func (s *gormAccounts) Create(ctx context.Context, account *models.Account) error {
	return s.db.WithContext(ctx).Create(account).Error
}

func (s *gormAccounts) Get(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).First(&account, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (s *gormAccounts) GetForUpdate(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&account, id).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &account, nil
}

func (s *gormAccounts) Update(ctx context.Context, account *models.Account) error {
	return s.db.WithContext(ctx).Save(account).Error
}

func (s *gormAccounts) UpdateBalance(ctx context.Context, id uint, balance decimal.Decimal) error {
	res := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormAccounts) List(ctx context.Context, userID uint, includeInactive bool) ([]models.Account, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC, created_at DESC")
	if !includeInactive {
		query = query.Where("status = ?", models.AccountStatusActive)
	}
	var accounts []models.Account
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *gormAccounts) ClearDefault(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

type gormTransactions struct {
	db *gorm.DB
}

func (s *gormTransactions) Create(ctx context.Context, txn *models.Transaction) error {
	return s.db.WithContext(ctx).Omit("Account", "Category").Create(txn).Error
}

func (s *gormTransactions) Get(ctx context.Context, id uint) (*models.Transaction, error) {
	var txn models.Transaction
	if err := s.db.WithContext(ctx).First(&txn, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &txn, nil
}

func (s *gormTransactions) Update(ctx context.Context, txn *models.Transaction) error {
	return s.db.WithContext(ctx).Omit("Account", "Category").Save(txn).Error
}

func (s *gormTransactions) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormTransactions) Find(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	query := s.db.WithContext(ctx).
		Where("user_id = ?", filter.UserID).
		Preload("Account").
		Preload("Category").
		Order("date DESC, id DESC")

	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.TransactionType != "" {
		query = query.Where("transaction_type = ?", filter.TransactionType)
	}
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.AccountID != nil {
		query = query.Where("account_id = ?", *filter.AccountID)
	}
	if filter.MinAmount != nil {
		query = query.Where("amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		query = query.Where("amount <= ?", *filter.MaxAmount)
	}
	if len(filter.Tags) > 0 {
		// Membership test on the jsonb tags column: match any of the
		// requested tags.
		or := s.db.Session(&gorm.Session{NewDB: true})
		matched := false
		for _, tag := range filter.Tags {
			probe, err := json.Marshal([]string{tag})
			if err != nil {
				continue
			}
			if !matched {
				or = or.Where("tags @> ?", string(probe))
				matched = true
			} else {
				or = or.Or("tags @> ?", string(probe))
			}
		}
		if matched {
			query = query.Where(or)
		}
	}

	var txns []models.Transaction
	if err := query.Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *gormTransactions) FindRange(ctx context.Context, userID uint, start, end time.Time) ([]models.Transaction, error) {
	var txns []models.Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND date BETWEEN ? AND ?", userID, start, end).
		Preload("Account").
		Preload("Category").
		Order("date ASC, id ASC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}

func (s *gormTransactions) PeriodTotals(ctx context.Context, userID uint, start, end time.Time) (PeriodTotals, error) {
	var totals PeriodTotals
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select(`
			COALESCE(SUM(CASE WHEN transactions.transaction_type = 'credit' THEN transactions.amount ELSE 0 END), 0) AS income,
			COALESCE(SUM(CASE WHEN transactions.transaction_type = 'debit' THEN transactions.amount ELSE 0 END), 0) AS expense,
			COALESCE(SUM(CASE WHEN transactions.transaction_type = 'debit' AND accounts.account_type = 'credit_card' THEN transactions.amount ELSE 0 END), 0) AS credit_card_expenses,
			COALESCE(SUM(CASE WHEN transactions.transaction_type = 'credit' AND accounts.account_type = 'credit_card' THEN transactions.amount ELSE 0 END), 0) AS credit_card_payments`).
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Where("transactions.user_id = ? AND transactions.date BETWEEN ? AND ?", userID, start, end).
		Scan(&totals).Error
	return totals, err
}

func (s *gormTransactions) CategoryRollup(ctx context.Context, userID uint, start, end time.Time, txnType models.TransactionType) ([]CategoryAmount, error) {
	var rows []CategoryAmount
	err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(categories.name, 'Unknown') AS category, SUM(transactions.amount) AS amount").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id").
		Where("transactions.user_id = ? AND transactions.date BETWEEN ? AND ? AND transactions.transaction_type = ?",
			userID, start, end, txnType).
		Group("categories.name").
		Order("amount DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

type gormCategories struct {
	db *gorm.DB
}

func (s *gormCategories) Create(ctx context.Context, category *models.Category) error {
	return s.db.WithContext(ctx).Create(category).Error
}

func (s *gormCategories) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *gormCategories) GetDefaultByName(ctx context.Context, name string) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Where("name = ? AND is_default = ?", name, true).
		First(&category).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

func (s *gormCategories) List(ctx context.Context, userID uint) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("is_default = ? OR user_id = ?", true, userID).
		Order("name ASC").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
