package domain

import "context"

// Store is the uniform contract both backing stores implement: the local
// snapshot store (whole-blob read-modify-write, ownerID ignored) and the
// remote document store (owner-partitioned collections, written record by
// record).
//
// Insert assigns identity and returns the durable entity with Persisted set.
// Update requires an existing id and returns ErrAccountNotFound /
// ErrTransactionNotFound when the id is absent. Delete of an absent id is a
// no-op, not an error.
type Store interface {
	ListAccounts(ctx context.Context, ownerID string) ([]Account, error)
	GetAccount(ctx context.Context, ownerID, id string) (*Account, error)
	InsertAccount(ctx context.Context, ownerID string, account Account) (*Account, error)
	UpdateAccount(ctx context.Context, ownerID string, account Account) (*Account, error)
	DeleteAccount(ctx context.Context, ownerID, id string) error

	ListTransactions(ctx context.Context, ownerID string) ([]Transaction, error)
	GetTransaction(ctx context.Context, ownerID, id string) (*Transaction, error)
	InsertTransaction(ctx context.Context, ownerID string, transaction Transaction) (*Transaction, error)
	UpdateTransaction(ctx context.Context, ownerID string, transaction Transaction) (*Transaction, error)
	DeleteTransaction(ctx context.Context, ownerID, id string) error
}

// Gateway routes every read and write to one of the two stores based on the
// requested mode and the session's authentication state, resolves
// insert-vs-update from each entity's Persisted tag, and re-reads the
// affected collection after every write so callers always observe
// store-confirmed state.
//
// The gateway performs no business validation; that is the caller's
// responsibility.
type Gateway interface {
	ListAccounts(ctx context.Context, sess Session, mode Mode) ([]Account, error)
	ListTransactions(ctx context.Context, sess Session, mode Mode) ([]Transaction, error)
	ListCategories() []Category

	GetAccount(ctx context.Context, sess Session, mode Mode, id string) (*Account, error)
	GetTransaction(ctx context.Context, sess Session, mode Mode, id string) (*Transaction, error)

	UpsertAccount(ctx context.Context, sess Session, mode Mode, account Account) ([]Account, error)
	DeleteAccount(ctx context.Context, sess Session, mode Mode, id string) ([]Account, error)

	UpsertTransaction(ctx context.Context, sess Session, mode Mode, transaction Transaction) ([]Transaction, error)
	DeleteTransaction(ctx context.Context, sess Session, mode Mode, id string) ([]Transaction, error)
}
