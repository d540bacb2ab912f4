package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/guilherme-santos/calmeetings/internal"
)

const DriverName = "sqlite3"

var ErrAccountNotFound = errors.New("account not found")

// Storage keeps the accounts whose tokens the CLI uses to fetch meetings.
// Meetings themselves are never stored.
type Storage struct {
	db *sqlx.DB
}

func Open(filename string) (*Storage, error) {
	db, err := sql.Open(DriverName, filename)
	if err != nil {
		return nil, err
	}
	s := &Storage{
		db: sqlx.NewDb(db, DriverName),
	}
	if err := s.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return s, nil
}

func (s Storage) Close() error {
	return s.db.Close()
}

func (s Storage) AddAccount(ctx context.Context, account *internal.Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (id, platform, name, auth) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET auth=?;
	`, account.ID(), account.Platform.String(), account.Name, account.Auth, account.Auth)
	return err
}

func (s Storage) Account(ctx context.Context, id string) (*internal.Account, error) {
	var acc Account
	err := s.db.GetContext(ctx, &acc, `
		SELECT id, platform, name, auth, last_fetch, last_status
		FROM accounts
		WHERE id = ?
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return acc.Convert(), nil
}

func (s Storage) Accounts(ctx context.Context) ([]*internal.Account, error) {
	var accs []Account
	err := s.db.SelectContext(ctx, &accs, `
		SELECT id, platform, name, auth, last_fetch, last_status
		FROM accounts
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}

	res := make([]*internal.Account, len(accs))
	for i, a := range accs {
		res[i] = a.Convert()
	}
	return res, nil
}

func (s Storage) DeleteAccount(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrAccountNotFound, id)
	}
	return nil
}

// SaveLastFetch records when the meetings of an account were last read and
// how it went.
func (s Storage) SaveLastFetch(ctx context.Context, account *internal.Account, at time.Time, status string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE accounts SET last_fetch = ?, last_status = ? WHERE id = ?
	`, at.UTC(), status, account.ID())
	return err
}
