package ledger

import (
	"context"
	"errors"
	"fmt"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

// Well-known category names the engine resolves by itself.
const (
	CategoryOtherExpenses  = "Other Expenses"
	CategoryTransfer       = "Transfer"
	CategoryUtilitiesBills = "Utilities & Bills"
)

// fallbackCategoryColor is used when the "Other Expenses" row itself is
// missing and a synthetic record stands in.
const fallbackCategoryColor = "#808080"

// defaultCategories are seeded at boot. isDefault rows are shared across
// users and back the well-known lookups above.
var defaultCategories = []models.Category{
	{Name: "Salary", Color: "#2E8B57", TransactionType: models.TransactionCredit},
	{Name: "Other Income", Color: "#3CB371", TransactionType: models.TransactionCredit},
	{Name: "Food & Dining", Color: "#FF6347", TransactionType: models.TransactionDebit},
	{Name: "Shopping", Color: "#FF8C00", TransactionType: models.TransactionDebit},
	{Name: CategoryUtilitiesBills, Color: "#4682B4", TransactionType: models.TransactionDebit},
	{Name: "Transportation", Color: "#6A5ACD", TransactionType: models.TransactionDebit},
	{Name: "Entertainment", Color: "#DB7093", TransactionType: models.TransactionDebit},
	{Name: "Health", Color: "#20B2AA", TransactionType: models.TransactionDebit},
	{Name: "Investment", Color: "#DAA520", TransactionType: models.TransactionDebit},
	{Name: CategoryTransfer, Color: "#708090", TransactionType: models.TransactionDebit},
	{Name: CategoryOtherExpenses, Color: fallbackCategoryColor, TransactionType: models.TransactionDebit},
}

// SeedDefaultCategories creates any missing predefined category. Safe to run
// on every boot.
func (s *Service) SeedDefaultCategories(ctx context.Context) error {
	return s.store.InTx(ctx, func(uow store.UnitOfWork) error {
		for _, c := range defaultCategories {
			_, err := uow.Categories().GetDefaultByName(ctx, c.Name)
			if err == nil {
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			category := c
			category.IsDefault = true
			if err := uow.Categories().Create(ctx, &category); err != nil {
				return err
			}
		}
		return nil
	})
}

// resolveCategory resolves a category by explicit id, else by the first
// well-known name that exists. The fallback chain is policy, not a
// null-check side effect: an explicit id that does not exist is an error,
// and exhausting the chain is ErrCategoryResolution.
func resolveCategory(ctx context.Context, cats store.CategoryStore, id *uint, wellKnown ...string) (*models.Category, error) {
	if id != nil {
		category, err := cats.Get(ctx, *id)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return category, err
	}
	for _, name := range wellKnown {
		category, err := cats.GetDefaultByName(ctx, name)
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
	}
	return nil, ErrCategoryResolution
}

// fallbackCategory returns the "Other Expenses" record, or a synthetic one
// when even that is missing, for display of uncategorized transactions.
func (s *Service) fallbackCategory(ctx context.Context) *models.Category {
	category, err := s.store.Categories().GetDefaultByName(ctx, CategoryOtherExpenses)
	if err != nil {
		return &models.Category{Name: CategoryOtherExpenses, Color: fallbackCategoryColor, IsDefault: true}
	}
	return category
}

// ListCategories returns the predefined categories plus the user's own.
func (s *Service) ListCategories(ctx context.Context, userID uint) ([]models.Category, error) {
	return s.store.Categories().List(ctx, userID)
}

type CreateCategoryInput struct {
	Name            string
	Color           string
	TransactionType models.TransactionType
	Icon            string
}

// CreateCategory adds a user-defined category.
func (s *Service) CreateCategory(ctx context.Context, userID uint, in CreateCategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: category name is required", ErrValidation)
	}
	if in.TransactionType == "" {
		in.TransactionType = models.TransactionDebit
	}
	if !in.TransactionType.Valid() {
		return nil, fmt.Errorf("%w: invalid transaction type %q", ErrValidation, in.TransactionType)
	}
	if in.Color == "" {
		in.Color = "#000000"
	}
	category := &models.Category{
		Name:            in.Name,
		Color:           in.Color,
		TransactionType: in.TransactionType,
		Icon:            in.Icon,
		UserID:          &userID,
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}
