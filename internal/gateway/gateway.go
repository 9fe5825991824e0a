// Package gateway routes persistence calls to one of two interchangeable
// backing stores: the offline local snapshot or the per-owner remote document
// store. It owns the insert-vs-update decision and guarantees that every
// write is followed by a full re-read of the affected collection.
package gateway

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// Gateway implements domain.Gateway over a local and an optional remote
// store. Both stores are injected; the gateway holds no global state.
type Gateway struct {
	local  domain.Store
	remote domain.Store // nil when no remote store is configured
}

// New creates a Gateway. remote may be nil, in which case every call
// resolves to the local snapshot store.
func New(local, remote domain.Store) *Gateway {
	return &Gateway{local: local, remote: remote}
}

var _ domain.Gateway = (*Gateway)(nil)

// resolve selects the backing store for a call. Remote mode requires an
// authenticated owner and a configured remote store; otherwise the call
// silently falls back to the local snapshot.
func (g *Gateway) resolve(sess domain.Session, mode domain.Mode) (domain.Store, string, domain.Mode) {
	if mode == domain.ModeRemote {
		if g.remote != nil && sess.Authenticated() {
			return g.remote, sess.OwnerID, domain.ModeRemote
		}
		log.Debug().
			Bool("authenticated", sess.Authenticated()).
			Bool("remote_configured", g.remote != nil).
			Msg("Remote mode unavailable, falling back to local snapshot")
	}
	return g.local, "", domain.ModeLocal
}

// ListAccounts returns the full account list from the resolved store. A
// remote read failure falls back to the local snapshot.
func (g *Gateway) ListAccounts(ctx context.Context, sess domain.Session, mode domain.Mode) ([]domain.Account, error) {
	store, owner, effective := g.resolve(sess, mode)
	accounts, err := store.ListAccounts(ctx, owner)
	if err != nil && effective == domain.ModeRemote {
		log.Warn().Err(err).Msg("Remote account read failed, serving local snapshot")
		return g.local.ListAccounts(ctx, "")
	}
	return accounts, err
}

// ListTransactions returns the full transaction list from the resolved
// store. A remote read failure falls back to the local snapshot.
func (g *Gateway) ListTransactions(ctx context.Context, sess domain.Session, mode domain.Mode) ([]domain.Transaction, error) {
	store, owner, effective := g.resolve(sess, mode)
	transactions, err := store.ListTransactions(ctx, owner)
	if err != nil && effective == domain.ModeRemote {
		log.Warn().Err(err).Msg("Remote transaction read failed, serving local snapshot")
		return g.local.ListTransactions(ctx, "")
	}
	return transactions, err
}

// ListCategories returns the static category reference set. Categories are
// never persisted per-user, so no store is consulted.
func (g *Gateway) ListCategories() []domain.Category {
	return domain.DefaultCategories
}

// GetAccount performs a point read against the resolved store. Unlike the
// list reads there is no cross-store fallback: the reconciliation controller
// depends on reading the same store it is about to write.
func (g *Gateway) GetAccount(ctx context.Context, sess domain.Session, mode domain.Mode, id string) (*domain.Account, error) {
	store, owner, _ := g.resolve(sess, mode)
	return store.GetAccount(ctx, owner, id)
}

// GetTransaction performs a point read against the resolved store.
func (g *Gateway) GetTransaction(ctx context.Context, sess domain.Session, mode domain.Mode, id string) (*domain.Transaction, error) {
	store, owner, _ := g.resolve(sess, mode)
	return store.GetTransaction(ctx, owner, id)
}

// UpsertAccount persists the account and returns the refreshed list from the
// same store.
//
// The insert-vs-update decision never inspects id shape. In remote mode it
// branches on the entity's Persisted tag; in local mode presence of a
// matching id in the current snapshot selects update, absence selects insert
// under a freshly synthesized id.
func (g *Gateway) UpsertAccount(ctx context.Context, sess domain.Session, mode domain.Mode, account domain.Account) ([]domain.Account, error) {
	store, owner, effective := g.resolve(sess, mode)

	var err error
	if effective == domain.ModeRemote {
		if account.Persisted {
			_, err = store.UpdateAccount(ctx, owner, account)
		} else {
			_, err = store.InsertAccount(ctx, owner, account)
		}
	} else {
		err = upsertLocalAccount(ctx, store, account)
	}
	if err != nil {
		return nil, err
	}

	return store.ListAccounts(ctx, owner)
}

func upsertLocalAccount(ctx context.Context, store domain.Store, account domain.Account) error {
	if account.ID != "" {
		_, err := store.UpdateAccount(ctx, "", account)
		if err != domain.ErrAccountNotFound {
			return err
		}
	}
	_, err := store.InsertAccount(ctx, "", account)
	return err
}

// DeleteAccount removes the account and returns the refreshed list. Deleting
// an absent id is a no-op.
func (g *Gateway) DeleteAccount(ctx context.Context, sess domain.Session, mode domain.Mode, id string) ([]domain.Account, error) {
	store, owner, _ := g.resolve(sess, mode)
	if err := store.DeleteAccount(ctx, owner, id); err != nil {
		return nil, err
	}
	return store.ListAccounts(ctx, owner)
}

// UpsertTransaction persists the transaction and returns the refreshed list
// from the same store. Disambiguation follows the same rule as accounts.
func (g *Gateway) UpsertTransaction(ctx context.Context, sess domain.Session, mode domain.Mode, transaction domain.Transaction) ([]domain.Transaction, error) {
	store, owner, effective := g.resolve(sess, mode)

	var err error
	if effective == domain.ModeRemote {
		if transaction.Persisted {
			_, err = store.UpdateTransaction(ctx, owner, transaction)
		} else {
			_, err = store.InsertTransaction(ctx, owner, transaction)
		}
	} else {
		err = upsertLocalTransaction(ctx, store, transaction)
	}
	if err != nil {
		return nil, err
	}

	return store.ListTransactions(ctx, owner)
}

func upsertLocalTransaction(ctx context.Context, store domain.Store, transaction domain.Transaction) error {
	if transaction.ID != "" {
		_, err := store.UpdateTransaction(ctx, "", transaction)
		if err != domain.ErrTransactionNotFound {
			return err
		}
	}
	_, err := store.InsertTransaction(ctx, "", transaction)
	return err
}

// DeleteTransaction removes the transaction and returns the refreshed list.
// Deleting an absent id is a no-op.
func (g *Gateway) DeleteTransaction(ctx context.Context, sess domain.Session, mode domain.Mode, id string) ([]domain.Transaction, error) {
	store, owner, _ := g.resolve(sess, mode)
	if err := store.DeleteTransaction(ctx, owner, id); err != nil {
		return nil, err
	}
	return store.ListTransactions(ctx, owner)
}
