// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/safeballot/safeballot/db"
)

var ErrNotFound = errors.New("record not found")

// Querier is satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db      *sql.DB
	dialect db.Dialect
}

func New(conn *sql.DB, dialect db.Dialect) *Store {
	return &Store{db: conn, dialect: dialect}
}

// Queries runs statements against either the pool or one transaction.
type Queries struct {
	q       Querier
	dialect db.Dialect
}

// Reader returns Queries bound to the connection pool, outside any transaction.
func (s *Store) Reader() *Queries {
	return &Queries{q: s.db, dialect: s.dialect}
}

// WithTx runs fn inside one transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. Every statement issued by fn must go
// through the Queries it receives.
func (s *Store) WithTx(ctx context.Context, fn func(q *Queries) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: s.isolation()})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to roll back transaction", "error", err)
		}
	}()

	if err := fn(&Queries{q: tx, dialect: s.dialect}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) isolation() sql.IsolationLevel {
	if s.dialect == db.Postgres {
		return sql.LevelReadCommitted
	}
	// modernc.org/sqlite only accepts the default level.
	return sql.LevelDefault
}

func notFound(err error, what string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return fmt.Errorf("failed to query %s: %w", what, err)
}
