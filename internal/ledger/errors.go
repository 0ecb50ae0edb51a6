package ledger

import "errors"

// Domain errors. The HTTP layer maps these to status codes; everything else
// surfaces as an internal error.
var (
	// ErrAccountNotFound means the account is absent or not owned by the caller.
	ErrAccountNotFound = errors.New("account not found")

	// ErrTransactionNotFound means the transaction is absent or not owned by the caller.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCategoryNotFound means an explicitly referenced category is absent.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrInactiveAccount means a mutation was attempted on a non-active account.
	ErrInactiveAccount = errors.New("account is not active")

	// ErrInsufficientFunds means a debit exceeds an asset account's balance.
	ErrInsufficientFunds = errors.New("insufficient balance")

	// ErrCreditLimitExceeded means a credit-card debit would push debt past the limit.
	ErrCreditLimitExceeded = errors.New("transaction would exceed credit card limit")

	// ErrOverpayment means a credit-card payment exceeds the outstanding debt.
	ErrOverpayment = errors.New("insufficient balance to pay")

	// ErrInvalidAmount means a zero or negative amount.
	ErrInvalidAmount = errors.New("amount must be greater than zero")

	// ErrSameAccountTransfer means source and destination are the same account.
	ErrSameAccountTransfer = errors.New("cannot transfer to the same account")

	// ErrCategoryResolution means neither the supplied category nor any
	// well-known fallback could be resolved.
	ErrCategoryResolution = errors.New("no valid category found")

	// ErrValidation is wrapped with a description of the violated rule.
	ErrValidation = errors.New("validation failed")
)
