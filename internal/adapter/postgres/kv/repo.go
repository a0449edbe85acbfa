// Package kv implements the key/value store on a PostgreSQL table.
package kv

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	postgres "github.com/w-udagawa/vlingual-cards/internal/adapter/postgres"
)

const table = "kv_store"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Repo provides key/value persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
	tx *postgres.TxManager
}

// New creates a new key/value repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db, tx: postgres.NewTxManager(db)}
}

// Get returns the value of key and whether it exists.
func (r *Repo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := psql.Select("value").From(table).Where(sq.Eq{"name": key}).ToSql()
	if err != nil {
		return "", false, fmt.Errorf("build get: %w", err)
	}

	var value string
	err = postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, postgres.MapError(err, table, key)
	}
	return value, true, nil
}

// Set upserts value under key.
func (r *Repo) Set(ctx context.Context, key, value string) error {
	query, args, err := upsert(key, value).ToSql()
	if err != nil {
		return fmt.Errorf("build set: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, table, key)
	}
	return nil
}

// SetMany upserts every pair in one transaction, in key order.
func (r *Repo) SetMany(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return r.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, k := range keys {
			if err := r.Set(ctx, k, values[k]); err != nil {
				return err
			}
		}
		return nil
	})
}

// Remove deletes key. Removing a missing key is not an error.
func (r *Repo) Remove(ctx context.Context, key string) error {
	query, args, err := psql.Delete(table).Where(sq.Eq{"name": key}).ToSql()
	if err != nil {
		return fmt.Errorf("build remove: %w", err)
	}
	if _, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, table, key)
	}
	return nil
}

// Keys returns the keys starting with prefix in byte order.
func (r *Repo) Keys(ctx context.Context, prefix string) ([]string, error) {
	query, args, err := psql.Select("name").From(table).
		Where(sq.Expr(`name LIKE ? ESCAPE '\'`, EscapeLike(prefix)+"%")).
		OrderBy(`name COLLATE "C"`).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build keys: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, table, prefix)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, postgres.MapError(err, table, prefix)
	}
	return keys, nil
}

// Ping checks the connection.
func (r *Repo) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func upsert(key, value string) sq.InsertBuilder {
	return psql.Insert(table).
		Columns("name", "value").
		Values(key, value).
		Suffix("ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()")
}

// EscapeLike escapes LIKE wildcards so prefix matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
