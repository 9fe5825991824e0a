package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// MockStore is an in-memory implementation of domain.Store, partitioned by
// owner like the remote store (the empty owner plays the local partition).
// Exported Err fields inject failures per operation so tests can break a
// multi-step mutation at a chosen point.
type MockStore struct {
	mu           sync.Mutex
	accounts     map[string][]domain.Account
	transactions map[string][]domain.Transaction
	nextID       int

	ListAccountsErr  error
	GetAccountErr    error
	InsertAccountErr error
	UpdateAccountErr error
	DeleteAccountErr error

	ListTransactionsErr  error
	GetTransactionErr    error
	InsertTransactionErr error
	UpdateTransactionErr error
	DeleteTransactionErr error
}

// NewMockStore creates an empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		accounts:     make(map[string][]domain.Account),
		transactions: make(map[string][]domain.Transaction),
	}
}

var _ domain.Store = (*MockStore)(nil)

// SeedAccount places an account directly into an owner's partition
func (m *MockStore) SeedAccount(ownerID string, account domain.Account) domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if account.ID == "" {
		account.ID = m.synthesize()
	}
	account.Persisted = true
	m.accounts[ownerID] = append(m.accounts[ownerID], account)
	return account
}

// SeedTransaction places a transaction directly into an owner's partition
func (m *MockStore) SeedTransaction(ownerID string, transaction domain.Transaction) domain.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	if transaction.ID == "" {
		transaction.ID = m.synthesize()
	}
	transaction.Persisted = true
	m.transactions[ownerID] = append(m.transactions[ownerID], transaction)
	return transaction
}

func (m *MockStore) synthesize() string {
	m.nextID++
	return fmt.Sprintf("mock-%03d", m.nextID)
}

// ListAccounts returns the owner's accounts
func (m *MockStore) ListAccounts(_ context.Context, ownerID string) ([]domain.Account, error) {
	if m.ListAccountsErr != nil {
		return nil, m.ListAccountsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Account, len(m.accounts[ownerID]))
	copy(out, m.accounts[ownerID])
	return out, nil
}

// GetAccount returns the account with the given id
func (m *MockStore) GetAccount(_ context.Context, ownerID, id string) (*domain.Account, error) {
	if m.GetAccountErr != nil {
		return nil, m.GetAccountErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, account := range m.accounts[ownerID] {
		if account.ID == id {
			found := account
			return &found, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// InsertAccount adds the account under a synthesized id
func (m *MockStore) InsertAccount(_ context.Context, ownerID string, account domain.Account) (*domain.Account, error) {
	if m.InsertAccountErr != nil {
		return nil, m.InsertAccountErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	account.ID = m.synthesize()
	account.Persisted = true
	m.accounts[ownerID] = append(m.accounts[ownerID], account)
	return &account, nil
}

// UpdateAccount replaces the account with the matching id
func (m *MockStore) UpdateAccount(_ context.Context, ownerID string, account domain.Account) (*domain.Account, error) {
	if m.UpdateAccountErr != nil {
		return nil, m.UpdateAccountErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.accounts[ownerID] {
		if m.accounts[ownerID][i].ID == account.ID {
			account.Persisted = true
			m.accounts[ownerID][i] = account
			return &account, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

// DeleteAccount removes the account; absent ids are a no-op
func (m *MockStore) DeleteAccount(_ context.Context, ownerID, id string) error {
	if m.DeleteAccountErr != nil {
		return m.DeleteAccountErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.accounts[ownerID][:0]
	for _, account := range m.accounts[ownerID] {
		if account.ID != id {
			kept = append(kept, account)
		}
	}
	m.accounts[ownerID] = kept
	return nil
}

// ListTransactions returns the owner's transactions
func (m *MockStore) ListTransactions(_ context.Context, ownerID string) ([]domain.Transaction, error) {
	if m.ListTransactionsErr != nil {
		return nil, m.ListTransactionsErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Transaction, len(m.transactions[ownerID]))
	copy(out, m.transactions[ownerID])
	return out, nil
}

// GetTransaction returns the transaction with the given id
func (m *MockStore) GetTransaction(_ context.Context, ownerID, id string) (*domain.Transaction, error) {
	if m.GetTransactionErr != nil {
		return nil, m.GetTransactionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, transaction := range m.transactions[ownerID] {
		if transaction.ID == id {
			found := transaction
			return &found, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// InsertTransaction adds the transaction under a synthesized id
func (m *MockStore) InsertTransaction(_ context.Context, ownerID string, transaction domain.Transaction) (*domain.Transaction, error) {
	if m.InsertTransactionErr != nil {
		return nil, m.InsertTransactionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	transaction.ID = m.synthesize()
	transaction.Persisted = true
	m.transactions[ownerID] = append(m.transactions[ownerID], transaction)
	return &transaction, nil
}

// UpdateTransaction replaces the transaction with the matching id
func (m *MockStore) UpdateTransaction(_ context.Context, ownerID string, transaction domain.Transaction) (*domain.Transaction, error) {
	if m.UpdateTransactionErr != nil {
		return nil, m.UpdateTransactionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.transactions[ownerID] {
		if m.transactions[ownerID][i].ID == transaction.ID {
			transaction.Persisted = true
			m.transactions[ownerID][i] = transaction
			return &transaction, nil
		}
	}
	return nil, domain.ErrTransactionNotFound
}

// DeleteTransaction removes the transaction; absent ids are a no-op
func (m *MockStore) DeleteTransaction(_ context.Context, ownerID, id string) error {
	if m.DeleteTransactionErr != nil {
		return m.DeleteTransactionErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.transactions[ownerID][:0]
	for _, transaction := range m.transactions[ownerID] {
		if transaction.ID != id {
			kept = append(kept, transaction)
		}
	}
	m.transactions[ownerID] = kept
	return nil
}
