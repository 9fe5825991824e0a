package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindInflow  TransactionKind = "INFLOW"
	KindOutflow TransactionKind = "OUTFLOW"
)

// Valid reports whether k is a known transaction kind.
func (k TransactionKind) Valid() bool {
	return k == KindInflow || k == KindOutflow
}

// Transaction is a single inflow or outflow attributed to one account and one
// category. Amount is always non-negative; the kind carries the sign. Content
// is immutable except through an explicit edit, which logically replaces the
// record under the same identifier.
type Transaction struct {
	ID         string          `json:"id"`
	AccountID  string          `json:"accountId"`
	CategoryID string          `json:"categoryId"`
	Amount     decimal.Decimal `json:"amount"`
	Kind       TransactionKind `json:"kind"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note"`

	// Persisted mirrors Account.Persisted: true iff ID denotes a durable
	// record in some backing store.
	Persisted bool `json:"-"`
}

// SignedAmount returns the transaction's effect on its account balance:
// +Amount for an inflow, -Amount for an outflow.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Kind == KindInflow {
		return t.Amount
	}
	return t.Amount.Neg()
}
