package kv

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/w-udagawa/vlingual-cards/internal/domain"
)

const (
	selectValue = `SELECT value FROM kv_store WHERE name = $1`
	upsertValue = `INSERT INTO kv_store (name,value) VALUES ($1,$2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	deleteValue = `DELETE FROM kv_store WHERE name = $1`
	selectKeys  = `SELECT name FROM kv_store WHERE name LIKE $1 ESCAPE '\' ORDER BY name COLLATE "C"`
)

func newMockRepo(t *testing.T) (*Repo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return New(mock), mock
}

func q(sql string) string { return regexp.QuoteMeta(sql) }

func TestRepo_Get(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		want    string
		wantOK  bool
		wantErr bool
	}{
		{
			name: "found",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(q(selectValue)).
					WithArgs("theme_preference").
					WillReturnRows(pgxmock.NewRows([]string{"value"}).AddRow("dark"))
			},
			want:   "dark",
			wantOK: true,
		},
		{
			name: "missing",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(q(selectValue)).
					WithArgs("theme_preference").
					WillReturnError(pgx.ErrNoRows)
			},
		},
		{
			name: "database error",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(q(selectValue)).
					WithArgs("theme_preference").
					WillReturnError(errors.New("connection reset"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo, mock := newMockRepo(t)
			tt.setup(mock)

			got, ok, err := repo.Get(context.Background(), "theme_preference")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRepo_Set(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(q(upsertValue)).
		WithArgs("audio_enabled", "false").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Set(context.Background(), "audio_enabled", "false"))
}

func TestRepo_Set_MapsPgError(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(q(upsertValue)).
		WithArgs("k", "v").
		WillReturnError(&pgconn.PgError{Code: "22021"})

	err := repo.Set(context.Background(), "k", "v")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRepo_SetMany_InTransactionInKeyOrder(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(upsertValue)).WithArgs("a", "1").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(q(upsertValue)).WithArgs("b", "2").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SetMany(context.Background(), map[string]string{"b": "2", "a": "1"}))
}

func TestRepo_SetMany_RollsBackOnFailure(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(q(upsertValue)).WithArgs("a", "1").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(q(upsertValue)).WithArgs("b", "2").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.SetMany(context.Background(), map[string]string{"a": "1", "b": "2"})
	assert.ErrorContains(t, err, "disk full")
}

func TestRepo_SetMany_Empty(t *testing.T) {
	t.Parallel()
	repo, _ := newMockRepo(t)

	require.NoError(t, repo.SetMany(context.Background(), nil))
}

func TestRepo_Remove(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectExec(q(deleteValue)).
		WithArgs("vocab_progress").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Remove(context.Background(), "vocab_progress"))
}

func TestRepo_Keys_EscapesWildcards(t *testing.T) {
	t.Parallel()
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(q(selectKeys)).
		WithArgs(`vocab\_progress%`).
		WillReturnRows(pgxmock.NewRows([]string{"name"}).
			AddRow("vocab_progress").
			AddRow("vocab_progress:AAAAAAAAAAA"))

	keys, err := repo.Keys(context.Background(), "vocab_progress")
	require.NoError(t, err)
	assert.Equal(t, []string{"vocab_progress", "vocab_progress:AAAAAAAAAAA"}, keys)
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `a\_b\%c\\d`, EscapeLike(`a_b%c\d`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}
