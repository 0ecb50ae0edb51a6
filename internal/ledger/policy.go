package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"finance-ledger-go/internal/models"
)

// applyPolicy is the balance mutation policy: the single source of the sign
// convention for both account semantics. Asset accounts hold owned funds
// (debit decreases, credit increases, balance never negative); credit-card
// accounts hold outstanding debt (debit is a purchase increasing debt up to
// the limit, credit is a payment reducing debt, never below zero).
//
// Create, update, delete and transfer all route through here; the sign
// branching must never be duplicated elsewhere.
func applyPolicy(accountType models.AccountType, txnType models.TransactionType, amount, balance, limit decimal.Decimal) (decimal.Decimal, error) {
	if accountType == models.AccountTypeCreditCard {
		switch txnType {
		case models.TransactionDebit:
			next := balance.Add(amount)
			if next.GreaterThan(limit) {
				return decimal.Zero, ErrCreditLimitExceeded
			}
			return next, nil
		case models.TransactionCredit:
			if amount.GreaterThan(balance) {
				return decimal.Zero, ErrOverpayment
			}
			return balance.Sub(amount), nil
		}
	} else {
		switch txnType {
		case models.TransactionDebit:
			if amount.GreaterThan(balance) {
				return decimal.Zero, ErrInsufficientFunds
			}
			return balance.Sub(amount), nil
		case models.TransactionCredit:
			return balance.Add(amount), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, txnType)
}

// reverseEffect undoes a committed transaction's balance delta without any
// limit or sufficiency check: a reversal only moves the balance back toward
// a previously valid state.
func reverseEffect(accountType models.AccountType, txnType models.TransactionType, amount, balance decimal.Decimal) decimal.Decimal {
	if accountType == models.AccountTypeCreditCard {
		if txnType == models.TransactionDebit {
			return balance.Sub(amount)
		}
		return balance.Add(amount)
	}
	if txnType == models.TransactionDebit {
		return balance.Add(amount)
	}
	return balance.Sub(amount)
}

// invert flips a transaction type, used when an update re-evaluates the old
// effect through the policy.
func invert(t models.TransactionType) models.TransactionType {
	if t == models.TransactionDebit {
		return models.TransactionCredit
	}
	return models.TransactionDebit
}
