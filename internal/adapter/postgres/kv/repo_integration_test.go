//go:build integration

package kv_test

import (
	"testing"

	"github.com/w-udagawa/vlingual-cards/internal/adapter/kvtest"
	"github.com/w-udagawa/vlingual-cards/internal/adapter/postgres/kv"
	"github.com/w-udagawa/vlingual-cards/internal/adapter/postgres/testhelper"
)

func TestRepo_Contract(t *testing.T) {
	pool := testhelper.SetupTestDB(t)

	kvtest.Run(t, func(t *testing.T) kvtest.Store {
		testhelper.TruncateKV(t, pool)
		return kv.New(pool)
	})
}
