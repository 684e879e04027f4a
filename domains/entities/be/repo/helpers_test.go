package repo

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

func newProvider(t *testing.T) (sproc.Provider, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	gw := sproc.New(db, zaptest.NewLogger(t), nil)
	return sproc.ProviderFunc(func(context.Context) (*sproc.Gateway, error) { return gw, nil }), mock
}

// unreachableProvider fails the test if any code path asks for a gateway.
func unreachableProvider(t *testing.T) sproc.Provider {
	return sproc.ProviderFunc(func(context.Context) (*sproc.Gateway, error) {
		t.Fatalf("unexpected database access")
		return nil, nil
	})
}

func callSQL(name string, params int) string {
	return "SET NOCOUNT ON; EXEC " + name + args(params)
}

func statusSQL(name string, params int) string {
	return "SET NOCOUNT ON; DECLARE @ret INT; EXEC @ret = " + name + args(params) + "; SELECT @ret AS ret"
}

const nextKeySQL = "SET NOCOUNT ON; DECLARE @key INT; EXEC spGetNextKey @p1, @key OUTPUT; SELECT @key AS next_key"

func args(n int) string {
	if n == 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("@p%d", i+1)
	}
	return " " + strings.Join(parts, ", ")
}

func expectNextKey(mock sqlmock.Sqlmock, table string, key int64) {
	mock.ExpectQuery(nextKeySQL).
		WithArgs(table).
		WillReturnRows(sqlmock.NewRows([]string{"next_key"}).AddRow(key))
}

func expectStatus(mock sqlmock.Sqlmock, name string, code int64, params ...driver.Value) {
	mock.ExpectQuery(statusSQL(name, len(params))).
		WithArgs(params...).
		WillReturnRows(sqlmock.NewRows([]string{"ret"}).AddRow(code))
}

// values converts a SaveParams list for WithArgs.
func values(params []any) []driver.Value {
	out := make([]driver.Value, len(params))
	for i, p := range params {
		out[i] = p
	}
	return out
}
