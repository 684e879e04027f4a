// Package sproc executes the vendor database's stored procedures using the
// positional calling convention every repository relies on.
package sproc

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	platformlogging "github.com/zenGate-Global/haulage-backoffice/platform/go/logging"
)

// NextKeyProcedure hands out surrogate keys per table.
const NextKeyProcedure = "spGetNextKey"

var (
	// ErrNoStatus is returned when a status batch completes without a status row.
	ErrNoStatus = errors.New("procedure returned no status")

	procedureName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// Queryer is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Gateway runs procedures against one tenant database.
type Gateway struct {
	db      Queryer
	logger  *zap.Logger
	metrics *Metrics
}

// New binds a gateway to an already tenant-scoped connection.
func New(db Queryer, logger *zap.Logger, metrics *Metrics) *Gateway {
	if db == nil {
		panic("sproc: db is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{db: db, logger: logger, metrics: metrics}
}

// Call executes "EXEC name @p1, @p2, ..." and returns the first result set.
// On failure the returned slice is empty, never nil.
func (g *Gateway) Call(ctx context.Context, name string, params ...any) ([]Row, error) {
	if err := checkName(name); err != nil {
		return []Row{}, err
	}

	start := time.Now()
	query := "SET NOCOUNT ON; EXEC " + name + placeholders(len(params))
	rows, err := g.query(ctx, query, params)
	if err != nil {
		g.fail(ctx, name, start, len(params), err)
		return []Row{}, fmt.Errorf("call %s: %w", name, err)
	}

	g.metrics.observe(name, outcomeOK, time.Since(start))
	return rows, nil
}

// CallForStatus executes the procedure and returns its RETURN value.
// StatusUnissued is returned together with the error when no status came back.
func (g *Gateway) CallForStatus(ctx context.Context, name string, params ...any) (int, error) {
	if err := checkName(name); err != nil {
		return StatusUnissued, err
	}

	start := time.Now()
	query := "SET NOCOUNT ON; DECLARE @ret INT; EXEC @ret = " + name + placeholders(len(params)) + "; SELECT @ret AS ret"
	code, err := g.scalar(ctx, query, "ret", params)
	if err != nil {
		g.fail(ctx, name, start, len(params), err)
		return StatusUnissued, fmt.Errorf("call %s: %w", name, err)
	}

	outcome := outcomeOK
	if code != SrvNormal {
		outcome = outcomeStatus
		platformlogging.Or(ctx, g.logger).Warn("stored procedure returned failure status",
			zap.String("procedure", name),
			zap.Int64("status", code),
			zap.String("status_text", StatusText(int(code))),
		)
	}
	g.metrics.observe(name, outcome, time.Since(start))
	return int(code), nil
}

// NextSurrogateKey asks spGetNextKey for the next key of table. Zero means failure.
func (g *Gateway) NextSurrogateKey(ctx context.Context, table string) (int64, error) {
	start := time.Now()
	query := "SET NOCOUNT ON; DECLARE @key INT; EXEC " + NextKeyProcedure + " @p1, @key OUTPUT; SELECT @key AS next_key"
	key, err := g.scalar(ctx, query, "next_key", []any{table})
	if err == nil && key <= 0 {
		err = fmt.Errorf("invalid key %d", key)
	}
	if err != nil {
		g.fail(ctx, NextKeyProcedure, start, 1, err)
		return 0, fmt.Errorf("next key for %s: %w", table, err)
	}

	g.metrics.observe(NextKeyProcedure, outcomeOK, time.Since(start))
	return key, nil
}

// Query runs inline SQL. Only the search paths use it; identifiers in the SQL
// come from entity descriptors, values travel as parameters.
func (g *Gateway) Query(ctx context.Context, query string, params ...any) ([]Row, error) {
	rows, err := g.query(ctx, query, params)
	if err != nil {
		platformlogging.Or(ctx, g.logger).Error("inline query failed", zap.Error(err))
		return []Row{}, err
	}
	return rows, nil
}

func (g *Gateway) query(ctx context.Context, query string, params []any) ([]Row, error) {
	rows, err := g.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// scalar reads column from the last row carrying it, walking every result set
// so rows emitted by the procedure itself are skipped.
func (g *Gateway) scalar(ctx context.Context, query, column string, params []any) (int64, error) {
	rows, err := g.db.QueryContext(ctx, query, params...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var (
		value int64
		found bool
	)
	for {
		set, err := scanRows(rows)
		if err != nil {
			return 0, err
		}
		for _, row := range set {
			if row.Has(column) && row.Value(column) != nil {
				value = row.Int64(column)
				found = true
			}
		}
		if !rows.NextResultSet() {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}
	if !found {
		return 0, ErrNoStatus
	}
	return value, nil
}

func (g *Gateway) fail(ctx context.Context, name string, start time.Time, params int, err error) {
	g.metrics.observe(name, outcomeError, time.Since(start))
	platformlogging.Or(ctx, g.logger).Error("stored procedure failed",
		zap.String("procedure", name),
		zap.Int("params", params),
		zap.Error(err),
	)
}

func checkName(name string) error {
	if !procedureName.MatchString(name) {
		return fmt.Errorf("invalid procedure name %q", name)
	}
	return nil
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("@p%d", i+1)
	}
	return " " + strings.Join(parts, ", ")
}

// Provider hands out the gateway bound to the tenant carried by ctx.
type Provider interface {
	Gateway(ctx context.Context) (*Gateway, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (*Gateway, error)

func (f ProviderFunc) Gateway(ctx context.Context) (*Gateway, error) {
	return f(ctx)
}
