package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finance-ledger-go/internal/models"
	"finance-ledger-go/internal/store"
)

// SummaryRequest selects the period: a calendar month, an explicit range, or
// (neither set) the current UTC calendar month.
type SummaryRequest struct {
	Month     int
	Year      int
	StartDate *time.Time
	EndDate   *time.Time
}

// Summary is the period-over-period rollup: totals for the requested period,
// the immediately preceding equal-length period, and category breakdowns for
// the requested period only.
type Summary struct {
	Month                       int                   `json:"month"`
	Year                        int                   `json:"year"`
	StartDate                   time.Time             `json:"startDate"`
	EndDate                     time.Time             `json:"endDate"`
	TotalIncome                 decimal.Decimal       `json:"totalIncome"`
	TotalExpense                decimal.Decimal       `json:"totalExpense"`
	NetAmount                   decimal.Decimal       `json:"netAmount"`
	LastMonthSavings            decimal.Decimal       `json:"lastMonthSavings"`
	CreditCardExpenses          decimal.Decimal       `json:"creditCardExpenses"`
	CreditCardPayments          decimal.Decimal       `json:"creditCardPayments"`
	PrevMonthCreditCardExpenses decimal.Decimal       `json:"prevMonthCreditCardExpenses"`
	PrevMonthCreditCardPayments decimal.Decimal       `json:"prevMonthCreditCardPayments"`
	CategoryWiseExpense         []store.CategoryAmount `json:"categoryWiseExpense"`
	CategoryWiseIncome          []store.CategoryAmount `json:"categoryWiseIncome"`
}

// Summary computes the period rollup. The four aggregation queries are
// independent reads and run concurrently.
func (s *Service) Summary(ctx context.Context, userID uint, req SummaryRequest) (*Summary, error) {
	start, end, prevStart, prevEnd, err := summaryPeriod(req, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	var (
		current  store.PeriodTotals
		previous store.PeriodTotals
		expenses []store.CategoryAmount
		income   []store.CategoryAmount
	)
	g, gctx := errgroup.WithContext(ctx)
	txns := s.store.Transactions()
	g.Go(func() error {
		var err error
		current, err = txns.PeriodTotals(gctx, userID, start, end)
		return err
	})
	g.Go(func() error {
		var err error
		previous, err = txns.PeriodTotals(gctx, userID, prevStart, prevEnd)
		return err
	})
	g.Go(func() error {
		var err error
		expenses, err = txns.CategoryRollup(gctx, userID, start, end, models.TransactionDebit)
		return err
	})
	g.Go(func() error {
		var err error
		income, err = txns.CategoryRollup(gctx, userID, start, end, models.TransactionCredit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		Month:                       int(start.Month()),
		Year:                        start.Year(),
		StartDate:                   start,
		EndDate:                     end,
		TotalIncome:                 current.Income,
		TotalExpense:                current.Expense,
		NetAmount:                   current.Income.Sub(current.Expense),
		LastMonthSavings:            previous.Income.Sub(previous.Expense),
		CreditCardExpenses:          current.CreditCardExpenses,
		CreditCardPayments:          current.CreditCardPayments,
		PrevMonthCreditCardExpenses: previous.CreditCardExpenses,
		PrevMonthCreditCardPayments: previous.CreditCardPayments,
		CategoryWiseExpense:         expenses,
		CategoryWiseIncome:          income,
	}, nil
}

// summaryPeriod resolves the requested and preceding periods. Calendar-month
// requests use the previous calendar month; explicit ranges use the
// preceding range of equal length ending just before the start.
func summaryPeriod(req SummaryRequest, now time.Time) (start, end, prevStart, prevEnd time.Time, err error) {
	switch {
	case req.Month != 0 || req.Year != 0:
		if req.Month < 1 || req.Month > 12 || req.Year == 0 {
			return start, end, prevStart, prevEnd, fmt.Errorf("%w: month and year are required", ErrValidation)
		}
		start = time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
		prevStart = start.AddDate(0, -1, 0)
		prevEnd = start.Add(-time.Millisecond)
	case req.StartDate != nil && req.EndDate != nil:
		start = *req.StartDate
		end = *req.EndDate
		if end.Before(start) {
			return start, end, prevStart, prevEnd, fmt.Errorf("%w: endDate must not precede startDate", ErrValidation)
		}
		length := end.Sub(start)
		prevEnd = start.Add(-time.Millisecond)
		prevStart = prevEnd.Add(-length)
	default:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0).Add(-time.Millisecond)
		prevStart = start.AddDate(0, -1, 0)
		prevEnd = start.Add(-time.Millisecond)
	}
	return start, end, prevStart, prevEnd, nil
}

// Series filter types.
const (
	SeriesDaily   = "daily"
	SeriesMonthly = "monthly"
	SeriesYearly  = "yearly"
)

type SeriesRequest struct {
	FilterType string
	// Date in DD/MM/YYYY form, required for the daily filter.
	Date  string
	Month int
	Year  int
}

// SeriesTransaction is the flattened view of one transaction inside a bucket.
type SeriesTransaction struct {
	ID          uint                   `json:"id"`
	Type        models.TransactionType `json:"type"`
	Amount      decimal.Decimal        `json:"amount"`
	Category    string                 `json:"category"`
	Account     string                 `json:"account"`
	AccountType models.AccountType     `json:"accountType"`
	Date        time.Time              `json:"date"`
	Description string                 `json:"description"`
}

// SeriesBucket groups one day, month or year of activity.
type SeriesBucket struct {
	Date               string              `json:"date"`
	Income             decimal.Decimal     `json:"income"`
	Expense            decimal.Decimal     `json:"expense"`
	CreditCardExpenses decimal.Decimal     `json:"creditCardExpenses"`
	CreditCardPayments decimal.Decimal     `json:"creditCardPayments"`
	Transactions       []SeriesTransaction `json:"transactions"`
}

// IncomeExpenseSeries groups the period's transactions into date-keyed
// buckets of income/expense totals with the contributing transactions.
func (s *Service) IncomeExpenseSeries(ctx context.Context, userID uint, req SeriesRequest) ([]SeriesBucket, error) {
	start, end, err := seriesPeriod(req)
	if err != nil {
		return nil, err
	}

	txns, err := s.store.Transactions().FindRange(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	buckets := make(map[string]*SeriesBucket)
	for _, txn := range txns {
		var key string
		switch req.FilterType {
		case SeriesDaily:
			key = txn.Date.UTC().Format("2006-01-02")
		case SeriesMonthly:
			key = txn.Date.UTC().Format("2006-01")
		case SeriesYearly:
			key = txn.Date.UTC().Format("2006")
		}
		bucket, ok := buckets[key]
		if !ok {
			bucket = &SeriesBucket{
				Date:               key,
				Income:             decimal.Zero,
				Expense:            decimal.Zero,
				CreditCardExpenses: decimal.Zero,
				CreditCardPayments: decimal.Zero,
			}
			buckets[key] = bucket
		}

		creditCard := txn.Account != nil && txn.Account.IsCreditCard()
		switch txn.TransactionType {
		case models.TransactionCredit:
			bucket.Income = bucket.Income.Add(txn.Amount)
			if creditCard {
				bucket.CreditCardPayments = bucket.CreditCardPayments.Add(txn.Amount)
			}
		case models.TransactionDebit:
			bucket.Expense = bucket.Expense.Add(txn.Amount)
			if creditCard {
				bucket.CreditCardExpenses = bucket.CreditCardExpenses.Add(txn.Amount)
			}
		}

		categoryName := "Uncategorized"
		if txn.Category != nil {
			categoryName = txn.Category.Name
		}
		accountName := "Unknown"
		accountType := models.AccountType("")
		if txn.Account != nil {
			accountName = txn.Account.AccountName
			accountType = txn.Account.AccountType
		}
		bucket.Transactions = append(bucket.Transactions, SeriesTransaction{
			ID:          txn.ID,
			Type:        txn.TransactionType,
			Amount:      txn.Amount,
			Category:    categoryName,
			Account:     accountName,
			AccountType: accountType,
			Date:        txn.Date,
			Description: txn.Description,
		})
	}

	out := make([]SeriesBucket, 0, len(buckets))
	for _, bucket := range buckets {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func seriesPeriod(req SeriesRequest) (time.Time, time.Time, error) {
	switch req.FilterType {
	case SeriesDaily:
		if req.Date == "" {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: date is required for daily filter", ErrValidation)
		}
		day, err := time.Parse("02/01/2006", req.Date)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid date format, expected DD/MM/YYYY", ErrValidation)
		}
		start := day.UTC()
		return start, start.AddDate(0, 0, 1).Add(-time.Millisecond), nil
	case SeriesMonthly:
		if req.Month < 1 || req.Month > 12 || req.Year == 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: month and year are required for monthly filter", ErrValidation)
		}
		start := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, 0).Add(-time.Millisecond), nil
	case SeriesYearly:
		if req.Year == 0 {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: year is required for yearly filter", ErrValidation)
		}
		start := time.Date(req.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(1, 0, 0).Add(-time.Millisecond), nil
	default:
		return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid filter type %q", ErrValidation, req.FilterType)
	}
}
