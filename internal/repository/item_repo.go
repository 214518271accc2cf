package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"catalog_api/internal/models"
	"catalog_api/internal/query"
)

// ItemSQLite stores catalog items as JSON documents and evaluates filters
// with SQLite's JSON functions.
type ItemSQLite struct {
	db *sql.DB
}

func NewItemSQLite(db *sql.DB) *ItemSQLite { return &ItemSQLite{db: db} }

var _ ItemRepo = (*ItemSQLite)(nil)

const (
	selectItemSQL     = `SELECT doc FROM items WHERE id = ?`
	insertItemSQL     = `INSERT INTO items (id, doc) VALUES (?, ?)`
	deleteItemSQL     = `DELETE FROM items WHERE id = ? RETURNING doc`
	deleteAllItemsSQL = `DELETE FROM items`

	listItemsPrefix = `SELECT doc FROM items`

	// Always-false predicate for conditions on unaddressable fields.
	matchNothing = `0`
)

// docPath converts a validated field name into a JSON path.
func docPath(field string) string { return "$." + field }

// List runs q against the collection and returns projected documents.
func (r *ItemSQLite) List(ctx context.Context, q query.Query) ([]models.Document, error) {
	stmt, args := buildListSQL(q)

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	out := make([]models.Document, 0, q.Limit)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode item document: %w", err)
		}
		out = append(out, q.Project(doc))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return out, nil
}

// buildListSQL renders the SELECT for q. All field paths and values are bound.
func buildListSQL(q query.Query) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(listItemsPrefix)

	if len(q.Filter) > 0 {
		conds := make([]string, 0, len(q.Filter))
		for _, c := range q.Filter {
			pred, pargs := conditionSQL(c)
			conds = append(conds, pred)
			args = append(args, pargs...)
		}
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(conds, " AND "))
	}

	b.WriteString(" ORDER BY ")
	for _, k := range q.Sort {
		b.WriteString("json_extract(doc, ?)")
		if k.Desc {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
		b.WriteString(", ")
		args = append(args, docPath(k.Field))
	}
	// insertion order breaks ties and is the default order
	b.WriteString("rowid ASC")

	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, q.Limit, q.Skip)

	return b.String(), args
}

func conditionSQL(c query.Condition) (string, []any) {
	if !query.ValidField(c.Field) {
		return matchNothing, nil
	}
	return valueSQL(docPath(c.Field), c.Value)
}

// valueSQL matches the JSON type as well as the value, so the number 1 does
// not match true and "5" does not match 5.
func valueSQL(path string, v query.Value) (string, []any) {
	switch v.Kind {
	case query.KindBool:
		if v.Bool {
			return `json_type(doc, ?) = 'true'`, []any{path}
		}
		return `json_type(doc, ?) = 'false'`, []any{path}
	case query.KindNumber:
		return `(json_type(doc, ?) IN ('integer', 'real') AND json_extract(doc, ?) = ?)`, []any{path, path, v.Number}
	case query.KindSet:
		if len(v.Set) == 0 {
			return matchNothing, nil
		}
		preds := make([]string, 0, len(v.Set))
		var args []any
		for _, m := range v.Set {
			p, a := valueSQL(path, m)
			preds = append(preds, p)
			args = append(args, a...)
		}
		return "(" + strings.Join(preds, " OR ") + ")", args
	default:
		return `(json_type(doc, ?) = 'text' AND json_extract(doc, ?) = ?)`, []any{path, path, v.String}
	}
}

// Get returns the item with the given id, or (nil, nil) when absent.
func (r *ItemSQLite) Get(ctx context.Context, id string) (*models.Item, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, selectItemSQL, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select item %q: %w", id, err)
	}
	return decodeItem(raw)
}

// Insert stores a new item document.
func (r *ItemSQLite) Insert(ctx context.Context, it models.Item) error {
	raw, err := json.Marshal(it)
	if err != nil {
		return fmt.Errorf("encode item: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, insertItemSQL, it.ID, string(raw)); err != nil {
		return fmt.Errorf("insert item %q: %w", it.ID, err)
	}
	return nil
}

// Update sets the given top-level fields in one statement and returns the
// resulting item, or (nil, nil) when no item has that id.
func (r *ItemSQLite) Update(ctx context.Context, id string, fields map[string]any) (*models.Item, error) {
	stmt, args, err := buildUpdateSQL(id, fields)
	if err != nil {
		return nil, err
	}
	var raw string
	err = r.db.QueryRowContext(ctx, stmt, args...).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update item %q: %w", id, err)
	}
	return decodeItem(raw)
}

// buildUpdateSQL renders a json_set over the sorted field names. Values are
// bound as JSON text and wrapped in json() so booleans stay booleans.
func buildUpdateSQL(id string, fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, errors.New("update item: no fields")
	}
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)

	pairs := make([]string, 0, len(names))
	args := make([]any, 0, 2*len(names)+1)
	for _, name := range names {
		if !query.ValidField(name) {
			return "", nil, fmt.Errorf("update item: invalid field %q", name)
		}
		raw, err := json.Marshal(fields[name])
		if err != nil {
			return "", nil, fmt.Errorf("encode field %q: %w", name, err)
		}
		pairs = append(pairs, "?, json(?)")
		args = append(args, docPath(name), string(raw))
	}
	args = append(args, id)

	stmt := `UPDATE items SET doc = json_set(doc, ` + strings.Join(pairs, ", ") + `) WHERE id = ? RETURNING doc`
	return stmt, args, nil
}

// Delete removes the item and returns it, or (nil, nil) when absent.
func (r *ItemSQLite) Delete(ctx context.Context, id string) (*models.Item, error) {
	var raw string
	err := r.db.QueryRowContext(ctx, deleteItemSQL, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete item %q: %w", id, err)
	}
	return decodeItem(raw)
}

// DeleteAll empties the collection. Used by the seeder only.
func (r *ItemSQLite) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, deleteAllItemsSQL); err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	return nil
}

func decodeItem(raw string) (*models.Item, error) {
	var it models.Item
	if err := json.Unmarshal([]byte(raw), &it); err != nil {
		return nil, fmt.Errorf("decode item document: %w", err)
	}
	return &it, nil
}
