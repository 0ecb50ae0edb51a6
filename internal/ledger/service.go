// Package ledger implements the account-ledger consistency engine: account
// lifecycle, transaction processing, transfers and period summaries, with
// every balance mutation flowing through one policy inside one atomic unit.
package ledger

import (
	"log/slog"

	"finance-ledger-go/internal/store"
)

// DefaultCurrency is the fallback currency symbol when neither the account
// nor the configuration supplies one.
const DefaultCurrency = "₹"

type Service struct {
	store    store.Store
	currency string
	log      *slog.Logger
}

type Option func(*Service)

// WithDefaultCurrency sets the currency assigned to accounts created without
// an explicit one.
func WithDefaultCurrency(currency string) Option {
	return func(s *Service) {
		if currency != "" {
			s.currency = currency
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.log = logger
		}
	}
}

func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		currency: DefaultCurrency,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
