package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a bank account. Balance is a cached derived value: at any
// quiescent point it equals the initial balance plus the signed amounts of all
// transactions currently attributed to the account. There is no transaction
// log to recompute it from, so every mutation path applies its delta
// incrementally (see service.Reconciler).
type Account struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	Institution  string          `json:"institution"`
	AccountClass string          `json:"accountClass"`
	Color        string          `json:"color"`

	// Persisted reports whether ID was assigned by a backing store. False
	// marks a client-synthesized entity that must become an insert. Stores
	// set it on every read and insert; it is never serialized.
	Persisted bool `json:"-"`
}

// ApplyDelta returns a copy of the account with delta added to its cached balance.
func (a Account) ApplyDelta(delta decimal.Decimal) Account {
	a.Balance = a.Balance.Add(delta)
	return a
}
