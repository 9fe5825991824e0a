package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/hweliang/finbook-backend/internal/domain"
)

// ListAccounts retrieves all accounts for an owner.
func (s *Store) ListAccounts(ctx context.Context, ownerID string) ([]domain.Account, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, balance::text, institution, account_class, color
		FROM accounts
		WHERE owner_id = $1
		ORDER BY created_at
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// GetAccount retrieves a single account by id within an owner's partition.
func (s *Store) GetAccount(ctx context.Context, ownerID, id string) (*domain.Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, balance::text, institution, account_class, color
		FROM accounts
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)

	account, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

// InsertAccount creates the account and lets the database assign its id.
func (s *Store) InsertAccount(ctx context.Context, ownerID string, account domain.Account) (*domain.Account, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO accounts (owner_id, name, balance, institution, account_class, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, name, balance::text, institution, account_class, color
	`, ownerID, account.Name, account.Balance.String(), account.Institution, account.AccountClass, account.Color)

	created, err := scanAccount(row)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateAccount performs a point update of an existing account record.
func (s *Store) UpdateAccount(ctx context.Context, ownerID string, account domain.Account) (*domain.Account, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE accounts
		SET name = $3, balance = $4, institution = $5, account_class = $6, color = $7, updated_at = now()
		WHERE owner_id = $1 AND id = $2
		RETURNING id, name, balance::text, institution, account_class, color
	`, ownerID, account.ID, account.Name, account.Balance.String(), account.Institution, account.AccountClass, account.Color)

	updated, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount removes the account record. Deleting an absent id is a no-op.
func (s *Store) DeleteAccount(ctx context.Context, ownerID, id string) error {
	_, err := s.pool.Exec(ctx, `
		DELETE FROM accounts
		WHERE owner_id = $1 AND id = $2
	`, ownerID, id)
	return err
}

func scanAccount(row pgx.Row) (domain.Account, error) {
	var account domain.Account
	var balance string
	if err := row.Scan(&account.ID, &account.Name, &balance, &account.Institution, &account.AccountClass, &account.Color); err != nil {
		return domain.Account{}, err
	}
	parsed, err := parseAmount(balance)
	if err != nil {
		return domain.Account{}, err
	}
	account.Balance = parsed
	account.Persisted = true
	return account, nil
}
