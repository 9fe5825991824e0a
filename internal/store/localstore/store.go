package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// snapshot is the serialized blob format: the complete entity sets for
// offline operation, read and rewritten wholesale on every mutation.
type snapshot struct {
	Accounts     []domain.Account     `json:"accounts"`
	Transactions []domain.Transaction `json:"transactions"`
	Categories   []domain.Category    `json:"categories"`
}

// Store implements domain.Store over a single serialized snapshot blob.
// The ownerID parameter is ignored; the snapshot belongs to the one local
// session.
//
// Every mutation is a read-modify-write of the whole blob. The mutex
// serializes mutations within this process; the format itself remains unsafe
// under concurrent writers from separate processes.
type Store struct {
	blob BlobStore
	mu   sync.Mutex
}

// NewStore creates a snapshot store over the given blob backend.
func NewStore(blob BlobStore) *Store {
	return &Store{blob: blob}
}

var _ domain.Store = (*Store)(nil)

// load reads the current snapshot, seeding demo data when none exists yet.
// Every entity read from the blob is durable, so Persisted is set on the way
// out.
func (s *Store) load(ctx context.Context) (snapshot, error) {
	data, err := s.blob.Read(ctx)
	if err != nil {
		if err == ErrNoSnapshot {
			snap := seedSnapshot()
			markPersisted(&snap)
			return snap, nil
		}
		return snapshot{}, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return snapshot{}, fmt.Errorf("corrupt snapshot: %w", err)
	}
	markPersisted(&snap)
	return snap, nil
}

func (s *Store) save(ctx context.Context, snap snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return s.blob.Write(ctx, data)
}

func markPersisted(snap *snapshot) {
	for i := range snap.Accounts {
		snap.Accounts[i].Persisted = true
	}
	for i := range snap.Transactions {
		snap.Transactions[i].Persisted = true
	}
}

// ListAccounts returns all accounts in the snapshot.
func (s *Store) ListAccounts(ctx context.Context, _ string) ([]domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Accounts, nil
}

// GetAccount returns the account with the given id.
func (s *Store) GetAccount(ctx context.Context, _ string, id string) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.Accounts {
		if snap.Accounts[i].ID == id {
			account := snap.Accounts[i]
			return &account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// InsertAccount adds the account under a freshly synthesized id.
func (s *Store) InsertAccount(ctx context.Context, _ string, account domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	account.ID = uuid.NewString()
	account.Persisted = true
	snap.Accounts = append(snap.Accounts, account)

	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	return &account, nil
}

// UpdateAccount replaces the account with the matching id.
func (s *Store) UpdateAccount(ctx context.Context, _ string, account domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range snap.Accounts {
		if snap.Accounts[i].ID == account.ID {
			account.Persisted = true
			snap.Accounts[i] = account
			if err := s.save(ctx, snap); err != nil {
				return nil, err
			}
			return &account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// DeleteAccount removes the account with the given id. Absent ids are a
// no-op.
func (s *Store) DeleteAccount(ctx context.Context, _ string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := snap.Accounts[:0]
	for _, account := range snap.Accounts {
		if account.ID != id {
			kept = append(kept, account)
		}
	}
	snap.Accounts = kept
	return s.save(ctx, snap)
}

// ListTransactions returns all transactions in the snapshot.
func (s *Store) ListTransactions(ctx context.Context, _ string) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Transactions, nil
}

// GetTransaction returns the transaction with the given id.
func (s *Store) GetTransaction(ctx context.Context, _ string, id string) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range snap.Transactions {
		if snap.Transactions[i].ID == id {
			transaction := snap.Transactions[i]
			return &transaction, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// InsertTransaction adds the transaction under a freshly synthesized id.
func (s *Store) InsertTransaction(ctx context.Context, _ string, transaction domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	transaction.ID = uuid.NewString()
	transaction.Persisted = true
	snap.Transactions = append(snap.Transactions, transaction)

	if err := s.save(ctx, snap); err != nil {
		return nil, err
	}
	return &transaction, nil
}

// UpdateTransaction replaces the transaction with the matching id.
func (s *Store) UpdateTransaction(ctx context.Context, _ string, transaction domain.Transaction) (*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	for i := range snap.Transactions {
		if snap.Transactions[i].ID == transaction.ID {
			transaction.Persisted = true
			snap.Transactions[i] = transaction
			if err := s.save(ctx, snap); err != nil {
				return nil, err
			}
			return &transaction, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// DeleteTransaction removes the transaction with the given id. Absent ids
// are a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, _ string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := snap.Transactions[:0]
	for _, transaction := range snap.Transactions {
		if transaction.ID != id {
			kept = append(kept, transaction)
		}
	}
	snap.Transactions = kept
	return s.save(ctx, snap)
}
