// Package repo maps entity records onto the vendor database's stored
// procedures. Every call goes through a tenant-scoped sproc.Gateway.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/zenGate-Global/haulage-backoffice/platform/go/sproc"
)

// Repository sentinel errors.
var (
	ErrNotFound    = errors.New("entity not found")
	ErrUnsupported = errors.New("operation not supported for entity")
)

const autocompleteLimit = 20

// Record is implemented by every maintained entity struct.
type Record[T any] interface {
	EntityKey() Key
	WithKey(Key) T
	// EditedBy stamps the acting user sent as the trailing save parameter.
	EditedBy(userID string) T
	// Lifecycle returns the raw Active flag and the end date.
	Lifecycle() (active bool, endDate sproc.Date)
	// SaveParams is the exact positional parameter list of sp<Prefix>_Save.
	SaveParams() []any
}

// Suggestion is one autocomplete item.
type Suggestion struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Value  string `json:"value"`
	Active bool   `json:"active"`
}

// Repository is the data access contract of one entity type.
type Repository[T Record[T]] interface {
	Descriptor() Descriptor
	Get(ctx context.Context, key Key) (T, error)
	Save(ctx context.Context, record T) (Key, error)
	SearchByName(ctx context.Context, term string) (T, error)
	SearchForAutocomplete(ctx context.Context, term string, includeInactive bool) ([]Suggestion, error)
	Delete(ctx context.Context, key Key) error
}

// Table implements Repository for any entity described by a Descriptor.
type Table[T Record[T]] struct {
	desc     Descriptor
	gateways sproc.Provider
	scan     func(sproc.Row) T
}

// NewTable binds desc to the gateway provider. scan builds a record from a result row.
func NewTable[T Record[T]](desc Descriptor, gateways sproc.Provider, scan func(sproc.Row) T) *Table[T] {
	if gateways == nil {
		panic("gateway provider is required")
	}
	if scan == nil {
		panic("row scanner is required")
	}
	return &Table[T]{desc: desc, gateways: gateways, scan: scan}
}

func (t *Table[T]) Descriptor() Descriptor {
	return t.desc
}

// Get loads one record. The requested key is merged into the result because
// some procedures omit the key columns.
func (t *Table[T]) Get(ctx context.Context, key Key) (T, error) {
	var zero T
	if key.IsZero() {
		return zero, ErrNotFound
	}

	gw, err := t.gateways.Gateway(ctx)
	if err != nil {
		return zero, err
	}

	rows, err := gw.Call(ctx, t.desc.Procedure("Get"), key.Params()...)
	if err != nil {
		return zero, err
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return t.scan(rows[0]).WithKey(key), nil
}

// Save inserts or updates record. A zero surrogate key is replaced by a fresh
// one before the save procedure runs; the returned key is the one saved.
func (t *Table[T]) Save(ctx context.Context, record T) (Key, error) {
	gw, err := t.gateways.Gateway(ctx)
	if err != nil {
		return Key{}, err
	}

	key := record.EntityKey()
	if key.IsZero() {
		if t.desc.KeyKind != SurrogateKey {
			return Key{}, fmt.Errorf("save %s: %w", t.desc.Name, ErrInvalidKey)
		}
		id, err := gw.NextSurrogateKey(ctx, t.desc.Table)
		if err != nil {
			return Key{}, err
		}
		key = SurrogateID(id)
		record = record.WithKey(key)
	}

	procedure := t.desc.Procedure("Save")
	code, err := gw.CallForStatus(ctx, procedure, record.SaveParams()...)
	if err != nil {
		return Key{}, err
	}
	if err := sproc.CheckStatus(procedure, code); err != nil {
		return Key{}, err
	}
	return key, nil
}

// SearchByName tries an exact name match, then a substring match, preferring
// active rows. A blank term never reaches the database.
func (t *Table[T]) SearchByName(ctx context.Context, term string) (T, error) {
	var zero T
	term = strings.TrimSpace(term)
	if term == "" {
		return zero, ErrNotFound
	}

	gw, err := t.gateways.Gateway(ctx)
	if err != nil {
		return zero, err
	}

	rows, err := gw.Query(ctx, t.nameSearchSQL("="), term)
	if err != nil {
		return zero, fmt.Errorf("search %s: %w", t.desc.Plural, err)
	}
	if len(rows) == 0 {
		rows, err = gw.Query(ctx, t.nameSearchSQL("LIKE"), "%"+escapeLike(term)+"%")
		if err != nil {
			return zero, fmt.Errorf("search %s: %w", t.desc.Plural, err)
		}
	}
	if len(rows) == 0 {
		return zero, ErrNotFound
	}
	return t.scan(rows[0]), nil
}

// SearchForAutocomplete returns up to 20 matches on name or key. Active is
// derived from the end date, never from the Active column.
func (t *Table[T]) SearchForAutocomplete(ctx context.Context, term string, includeInactive bool) ([]Suggestion, error) {
	term = strings.TrimSpace(term)
	if len(term) < 1 {
		return []Suggestion{}, nil
	}

	gw, err := t.gateways.Gateway(ctx)
	if err != nil {
		return []Suggestion{}, err
	}

	rows, err := gw.Query(ctx, t.autocompleteSQL(includeInactive), "%"+escapeLike(term)+"%")
	if err != nil {
		return []Suggestion{}, fmt.Errorf("autocomplete %s: %w", t.desc.Plural, err)
	}

	out := make([]Suggestion, 0, len(rows))
	for _, row := range rows {
		id := row.String("suggestion_id")
		name := row.String("suggestion_label")
		out = append(out, Suggestion{
			ID:     id,
			Label:  fmt.Sprintf("%s (%s)", name, id),
			Value:  id,
			Active: !row.Date("suggestion_end").IsSet(),
		})
	}
	return out, nil
}

// Delete removes a row through sp<Prefix>_Delete. Only deletable entities expose it.
func (t *Table[T]) Delete(ctx context.Context, key Key) error {
	if !t.desc.Deletable {
		return fmt.Errorf("delete %s: %w", t.desc.Name, ErrUnsupported)
	}
	if key.IsZero() {
		return ErrNotFound
	}

	gw, err := t.gateways.Gateway(ctx)
	if err != nil {
		return err
	}

	procedure := t.desc.Procedure("Delete")
	code, err := gw.CallForStatus(ctx, procedure, key.Params()...)
	if err != nil {
		return err
	}
	if code == sproc.SrvNotFound {
		return ErrNotFound
	}
	return sproc.CheckStatus(procedure, code)
}

func (t *Table[T]) nameSearchSQL(op string) string {
	return fmt.Sprintf("SELECT TOP 1 * FROM %s WHERE %s %s @p1 ORDER BY %s DESC, %s",
		t.desc.Table, t.desc.NameExpr, op, t.desc.ActiveColumn, t.desc.NameExpr)
}

func (t *Table[T]) autocompleteSQL(includeInactive bool) string {
	d := t.desc
	var b strings.Builder
	fmt.Fprintf(&b, "SELECT TOP %d %s AS suggestion_id, %s AS suggestion_label, %s AS suggestion_end FROM %s",
		autocompleteLimit, d.idExpr(), d.NameExpr, d.EndDateColumn, d.Table)
	fmt.Fprintf(&b, " WHERE (UPPER(%s) LIKE UPPER(@p1) OR %s LIKE @p1)", d.NameExpr, d.idExpr())
	if !includeInactive {
		fmt.Fprintf(&b, " AND (%s IS NULL OR %s = '%s')", d.EndDateColumn, d.EndDateColumn, sproc.NoDate.Format("2006-01-02"))
	}
	fmt.Fprintf(&b, " ORDER BY %s", d.NameExpr)
	return b.String()
}

// escapeLike neutralises T-SQL LIKE wildcards in user input.
func escapeLike(term string) string {
	return strings.NewReplacer("[", "[[]", "%", "[%]", "_", "[_]").Replace(term)
}
