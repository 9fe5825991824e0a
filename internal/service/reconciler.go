package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// mutationState tracks how far a multi-step transaction mutation has
// progressed. No lock or store transaction spans the steps, so a failure
// between them leaves the balance invariant broken until the caller
// resynchronizes from the authoritative store.
type mutationState string

const (
	statePending              mutationState = "PENDING"
	stateAccountAdjusted      mutationState = "ACCOUNT_ADJUSTED"
	stateTransactionPersisted mutationState = "TRANSACTION_PERSISTED"
	stateDone                 mutationState = "DONE"
	stateFailed               mutationState = "FAILED"
)

// MutationResult carries the store-confirmed state returned to the caller
// after a transaction mutation. After a partial failure it holds the
// reloaded authoritative lists instead of an optimistic view.
type MutationResult struct {
	Accounts     []domain.Account
	Transactions []domain.Transaction
}

// Reconciler keeps each account's cached balance consistent with the set of
// transactions attributed to it. On every transaction mutation it computes
// the signed effect on account balances and issues the compensating account
// writes strictly in order, one at a time, before or together with the
// transaction write itself.
type Reconciler struct {
	gateway domain.Gateway
}

// NewReconciler creates a new Reconciler over the given gateway.
func NewReconciler(gateway domain.Gateway) *Reconciler {
	return &Reconciler{gateway: gateway}
}

// Validate checks a transaction before any write is issued. The gateway does
// no business validation, so this is the last gate.
func Validate(transaction domain.Transaction) error {
	if transaction.AccountID == "" {
		return domain.ErrAccountNotFound
	}
	if transaction.Amount.IsNegative() {
		return domain.ErrInvalidAmount
	}
	if !transaction.Kind.Valid() {
		return domain.ErrInvalidKind
	}
	if _, ok := domain.CategoryByID(transaction.CategoryID); !ok {
		return domain.ErrCategoryNotFound
	}
	if len(transaction.Note) > domain.MaxNoteLength {
		return domain.ErrNameTooLong
	}
	return nil
}

// Create persists a new transaction: the target account's balance absorbs the
// signed amount first, then the transaction record is written.
func (r *Reconciler) Create(ctx context.Context, sess domain.Session, mode domain.Mode, transaction domain.Transaction) (*MutationResult, error) {
	if err := Validate(transaction); err != nil {
		return nil, err
	}

	state := statePending

	account, err := r.gateway.GetAccount(ctx, sess, mode, transaction.AccountID)
	if err != nil {
		// Nothing written yet; surface without a resync.
		return nil, err
	}

	accounts, err := r.gateway.UpsertAccount(ctx, sess, mode, account.ApplyDelta(transaction.SignedAmount()))
	if err != nil {
		return r.fail(ctx, sess, mode, "create", state, err)
	}
	state = stateAccountAdjusted

	transactions, err := r.gateway.UpsertTransaction(ctx, sess, mode, transaction)
	if err != nil {
		return r.fail(ctx, sess, mode, "create", state, err)
	}
	state = stateTransactionPersisted

	r.logDone("create", state)
	return &MutationResult{Accounts: accounts, Transactions: transactions}, nil
}

// Edit replaces an existing transaction with new content, possibly targeting
// a different account. It is a two-phase compensating update and the order
// is mandatory: undo the old effect on the old account, re-fetch the target
// account after that write so a same-account edit sees the post-reversal
// balance, apply the new effect, then persist the replacement record under
// the old identifier.
func (r *Reconciler) Edit(ctx context.Context, sess domain.Session, mode domain.Mode, updated domain.Transaction) (*MutationResult, error) {
	if err := Validate(updated); err != nil {
		return nil, err
	}

	old, err := r.gateway.GetTransaction(ctx, sess, mode, updated.ID)
	if err != nil {
		return nil, err
	}

	state := statePending

	// Reversal phase: recompute the old account's balance with the old
	// transaction's effect undone.
	oldAccount, err := r.gateway.GetAccount(ctx, sess, mode, old.AccountID)
	switch {
	case err == nil:
		if _, err := r.gateway.UpsertAccount(ctx, sess, mode, oldAccount.ApplyDelta(old.SignedAmount().Neg())); err != nil {
			return r.fail(ctx, sess, mode, "edit", state, err)
		}
	case errors.Is(err, domain.ErrAccountNotFound):
		// The old account was deleted out from under the transaction.
		// There is no balance left to reverse.
		log.Warn().Str("account_id", old.AccountID).Msg("Edit reversal skipped, old account no longer exists")
	default:
		return r.fail(ctx, sess, mode, "edit", state, err)
	}

	// Re-fetch phase: read the (possibly same) target account after the
	// reversal write. Applying the new delta to a pre-reversal snapshot of
	// the same account would double-count or lose the old effect.
	target, err := r.gateway.GetAccount(ctx, sess, mode, updated.AccountID)
	if err != nil {
		return r.fail(ctx, sess, mode, "edit", state, err)
	}

	// Application phase.
	accounts, err := r.gateway.UpsertAccount(ctx, sess, mode, target.ApplyDelta(updated.SignedAmount()))
	if err != nil {
		return r.fail(ctx, sess, mode, "edit", state, err)
	}
	state = stateAccountAdjusted

	transactions, err := r.gateway.UpsertTransaction(ctx, sess, mode, updated)
	if err != nil {
		return r.fail(ctx, sess, mode, "edit", state, err)
	}
	state = stateTransactionPersisted

	r.logDone("edit", state)
	return &MutationResult{Accounts: accounts, Transactions: transactions}, nil
}

// Delete reverses the transaction's effect on its account, persists the
// account, then deletes the record. Deleting an id absent from the store is
// a no-op on balances and on the transaction list.
func (r *Reconciler) Delete(ctx context.Context, sess domain.Session, mode domain.Mode, id string) (*MutationResult, error) {
	transaction, err := r.gateway.GetTransaction(ctx, sess, mode, id)
	if errors.Is(err, domain.ErrTransactionNotFound) {
		return r.reload(ctx, sess, mode)
	}
	if err != nil {
		return nil, err
	}

	state := statePending

	var accounts []domain.Account
	account, err := r.gateway.GetAccount(ctx, sess, mode, transaction.AccountID)
	switch {
	case err == nil:
		accounts, err = r.gateway.UpsertAccount(ctx, sess, mode, account.ApplyDelta(transaction.SignedAmount().Neg()))
		if err != nil {
			return r.fail(ctx, sess, mode, "delete", state, err)
		}
		state = stateAccountAdjusted
	case errors.Is(err, domain.ErrAccountNotFound):
		log.Warn().Str("account_id", transaction.AccountID).Msg("Delete reversal skipped, account no longer exists")
		accounts, err = r.gateway.ListAccounts(ctx, sess, mode)
		if err != nil {
			return nil, err
		}
	default:
		return r.fail(ctx, sess, mode, "delete", state, err)
	}

	transactions, err := r.gateway.DeleteTransaction(ctx, sess, mode, id)
	if err != nil {
		return r.fail(ctx, sess, mode, "delete", state, err)
	}
	state = stateTransactionPersisted

	r.logDone("delete", state)
	return &MutationResult{Accounts: accounts, Transactions: transactions}, nil
}

// fail handles a mid-sequence failure. Recovery is resynchronization, never a
// rollback of the specific step and never a retry: the authoritative lists
// are reloaded and returned alongside the error so the caller never renders
// a view inconsistent with the store.
func (r *Reconciler) fail(ctx context.Context, sess domain.Session, mode domain.Mode, verb string, state mutationState, cause error) (*MutationResult, error) {
	log.Error().
		Err(cause).
		Str("verb", verb).
		Str("state", string(state)).
		Str("final_state", string(stateFailed)).
		Msg("Balance reconciliation failed mid-sequence, resynchronizing")

	result, reloadErr := r.reload(ctx, sess, mode)
	if reloadErr != nil {
		log.Error().Err(reloadErr).Msg("Resynchronization after failed mutation also failed")
		return nil, fmt.Errorf("%s failed at %s: %w", verb, state, cause)
	}
	return result, fmt.Errorf("%s failed at %s: %w", verb, state, cause)
}

// reload fetches the full authoritative state from the resolved store.
func (r *Reconciler) reload(ctx context.Context, sess domain.Session, mode domain.Mode) (*MutationResult, error) {
	accounts, err := r.gateway.ListAccounts(ctx, sess, mode)
	if err != nil {
		return nil, err
	}
	transactions, err := r.gateway.ListTransactions(ctx, sess, mode)
	if err != nil {
		return nil, err
	}
	return &MutationResult{Accounts: accounts, Transactions: transactions}, nil
}

func (r *Reconciler) logDone(verb string, state mutationState) {
	log.Debug().
		Str("verb", verb).
		Str("state", string(stateDone)).
		Str("last_step", string(state)).
		Msg("Balance reconciliation complete")
}
