package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// ListTransactions retrieves all transactions for an owner.
func (s *Store) ListTransactions(ctx context.Context, ownerID string) ([]domain.Transaction, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, account_id, category_id, amount::text, kind, transaction_date, note
		FROM transactions
		WHERE owner_id = $1
		ORDER BY transaction_date, created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]domain.Transaction, 0)
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, rows.Err()
}

// GetTransaction retrieves a single transaction by id within an owner's
// partition.
func (s *Store) GetTransaction(ctx context.Context, ownerID, id string) (*domain.Transaction, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, account_id, category_id, amount::text, kind, transaction_date, note
		FROM transactions
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)

	transaction, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &transaction, nil
}

// InsertTransaction creates the transaction and lets the database assign its
// id.
func (s *Store) InsertTransaction(ctx context.Context, ownerID string, transaction domain.Transaction) (*domain.Transaction, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO transactions (owner_id, account_id, category_id, amount, kind, transaction_date, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, account_id, category_id, amount::text, kind, transaction_date, note
	`, ownerID, transaction.AccountID, transaction.CategoryID, transaction.Amount.String(), string(transaction.Kind), transaction.Date, transaction.Note)

	created, err := scanTransaction(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateTransaction performs a point update of an existing transaction
// record, keeping its identifier.
func (s *Store) UpdateTransaction(ctx context.Context, ownerID string, transaction domain.Transaction) (*domain.Transaction, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE transactions
		SET account_id = $3, category_id = $4, amount = $5, kind = $6, transaction_date = $7, note = $8, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING id, account_id, category_id, amount::text, kind, transaction_date, note
	`, ownerID, transaction.ID, transaction.AccountID, transaction.CategoryID, transaction.Amount.String(), string(transaction.Kind), transaction.Date, transaction.Note)

	updated, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteTransaction removes the transaction record. Deleting an absent id is
// a no-op.
func (s *Store) DeleteTransaction(ctx context.Context, ownerID, id string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM transactions
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	return err
}

func scanTransaction(row pgx.Row) (domain.Transaction, error) {
	var transaction domain.Transaction
	var amount string
	var kind string
	if err := row.Scan(&transaction.ID, &transaction.AccountID, &transaction.CategoryID, &amount, &kind, &transaction.Date, &transaction.Note); err != nil {
		return domain.Transaction{}, err
	}
	parsed, err := parseAmount(amount)
	if err != nil {
		return domain.Transaction{}, err
	}
	transaction.Amount = parsed
	transaction.Kind = domain.TransactionKind(kind)
	transaction.Persisted = true
	return transaction, nil
}
