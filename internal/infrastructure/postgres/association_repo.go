package postgres

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/henn-dt/carbonitor-v2/internal/domain"
)

// RowValues maps column names to SQL argument values. Slice values
// ([]int, []string) become membership checks (= ANY).
type RowValues map[string]any

// AssociationRepo is a generic repository over an association table with a
// declared set of key columns. Concrete repositories wrap it with their
// table name, column list and row scanner; the stringly-typed single-vs-multi
// column dispatch of a dynamic language is split into explicit methods
// (CreateForColumn vs CreateRows, DeleteForColumn vs DeleteForColumns).
//
// Every multi-row write is one SQL statement, so a batch either fully
// applies or fully fails.
type AssociationRepo[T any] struct {
	q       Querier
	table   string
	columns []string // all selectable columns, in scan order
	keyCols []string
	scan    func(scanner interface{ Scan(...any) error }) (*T, error)
}

// NewAssociationRepo builds the generic repository. scan must read exactly
// the declared columns in order.
func NewAssociationRepo[T any](q Querier, table string, columns, keyCols []string,
	scan func(scanner interface{ Scan(...any) error }) (*T, error)) *AssociationRepo[T] {
	return &AssociationRepo[T]{q: q, table: table, columns: columns, keyCols: keyCols, scan: scan}
}

// checkColumns guards generated SQL against undeclared column names.
func (r *AssociationRepo[T]) checkColumns(cols ...string) error {
	for _, c := range cols {
		found := false
		for _, known := range r.columns {
			if c == known {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("table %s has no column %q", r.table, c)
		}
	}
	return nil
}

func sortedKeys(m RowValues) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// quoteIdent double-quotes an identifier so generated SQL survives reserved
// words (the values column collides with VALUES).
func quoteIdent(name string) string {
	return `"` + name + `"`
}

func quoteIdents(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = quoteIdent(n)
	}
	return out
}

func isSliceArg(v any) bool {
	switch v.(type) {
	case []int, []int32, []int64, []string:
		return true
	}
	return false
}

// buildWhere renders "col = $n AND ..." over the filter map with
// deterministic column order, appending to args.
func buildWhere(filters RowValues, args *[]any) string {
	conds := make([]string, 0, len(filters))
	for _, col := range sortedKeys(filters) {
		v := filters[col]
		*args = append(*args, v)
		if isSliceArg(v) {
			conds = append(conds, fmt.Sprintf("%s = ANY($%d)", quoteIdent(col), len(*args)))
		} else {
			conds = append(conds, fmt.Sprintf("%s = $%d", quoteIdent(col), len(*args)))
		}
	}
	return strings.Join(conds, " AND ")
}

func (r *AssociationRepo[T]) selectList() string {
	return strings.Join(quoteIdents(r.columns), ", ")
}

func (r *AssociationRepo[T]) queryMany(query string, args []any) ([]*T, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	defer rows.Close()
	var out []*T
	for rows.Next() {
		rec, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", r.table, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", r.table, err)
	}
	return out, nil
}

// GetByKeys fetches the single record matching the declared key columns
// present in keys. Returns (nil, nil) when nothing matches.
func (r *AssociationRepo[T]) GetByKeys(keys RowValues) (*T, error) {
	keyFilters := RowValues{}
	for _, k := range r.keyCols {
		if v, ok := keys[k]; ok {
			keyFilters[k] = v
		}
	}
	if len(keyFilters) == 0 {
		return nil, fmt.Errorf("table %s: no key columns supplied", r.table)
	}
	records, err := r.GetFiltered(keyFilters)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// GetFiltered fetches every record matching all filters.
func (r *AssociationRepo[T]) GetFiltered(filters RowValues) ([]*T, error) {
	if err := r.checkColumns(sortedKeys(filters)...); err != nil {
		return nil, err
	}
	var args []any
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", r.selectList(), quoteIdent(r.table), buildWhere(filters, &args))
	return r.queryMany(query, args)
}

// GetColumnValues projects a single column over the matching records,
// yielding a flat sequence.
func (r *AssociationRepo[T]) GetColumnValues(column string, filters RowValues) ([]any, error) {
	if err := r.checkColumns(append([]string{column}, sortedKeys(filters)...)...); err != nil {
		return nil, err
	}
	var args []any
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", quoteIdent(column), quoteIdent(r.table), buildWhere(filters, &args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	defer rows.Close()
	var out []any
	for rows.Next() {
		var v any
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s.%s: %w", r.table, column, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// GetRelatedValues projects several columns, one record per match.
func (r *AssociationRepo[T]) GetRelatedValues(columns []string, filters RowValues) ([]RowValues, error) {
	if err := r.checkColumns(append(append([]string{}, columns...), sortedKeys(filters)...)...); err != nil {
		return nil, err
	}
	var args []any
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(quoteIdents(columns), ", "), quoteIdent(r.table), buildWhere(filters, &args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", r.table, err)
	}
	defer rows.Close()
	var out []RowValues
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", r.table, err)
		}
		rec := make(RowValues, len(columns))
		for i, col := range columns {
			rec[col] = vals[i]
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CreateForColumn cross-products a fixed base record with one value per row
// for the given column and inserts them all at once.
func (r *AssociationRepo[T]) CreateForColumn(column string, values []any, base RowValues) ([]*T, error) {
	rows := make([]RowValues, 0, len(values))
	for _, v := range values {
		row := RowValues{column: v}
		for k, bv := range base {
			row[k] = bv
		}
		rows = append(rows, row)
	}
	return r.CreateRows(rows)
}

// CreateRows inserts full partial records in a single multi-row statement
// and returns the created rows. Every input row must produce exactly one
// stored record; a duplicate key anywhere fails the whole batch with
// domain.ErrDuplicate.
func (r *AssociationRepo[T]) CreateRows(rows []RowValues) ([]*T, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	cols := sortedKeys(rows[0])
	if err := r.checkColumns(cols...); err != nil {
		return nil, err
	}
	var (
		args   []any
		groups = make([]string, 0, len(rows))
	)
	for _, row := range rows {
		if len(row) != len(cols) {
			return nil, fmt.Errorf("table %s: batch rows must share one column set", r.table)
		}
		ph := make([]string, 0, len(cols))
		for _, col := range cols {
			v, ok := row[col]
			if !ok {
				return nil, fmt.Errorf("table %s: batch rows must share one column set", r.table)
			}
			args = append(args, v)
			ph = append(ph, fmt.Sprintf("$%d", len(args)))
		}
		groups = append(groups, "("+strings.Join(ph, ", ")+")")
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s RETURNING %s",
		quoteIdent(r.table), strings.Join(quoteIdents(cols), ", "), strings.Join(groups, ", "), r.selectList())
	created, err := r.queryMany(query, args)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}
	if len(created) != len(rows) {
		return nil, fmt.Errorf("table %s: inserted %d of %d rows", r.table, len(created), len(rows))
	}
	return created, nil
}

// UpdateWhere applies the same column values to every record matching
// filters and returns the updated rows.
func (r *AssociationRepo[T]) UpdateWhere(set RowValues, filters RowValues) ([]*T, error) {
	if err := r.checkColumns(append(sortedKeys(set), sortedKeys(filters)...)...); err != nil {
		return nil, err
	}
	var args []any
	assigns := make([]string, 0, len(set))
	for _, col := range sortedKeys(set) {
		args = append(args, set[col])
		assigns = append(assigns, fmt.Sprintf("%s = $%d", quoteIdent(col), len(args)))
	}
	where := buildWhere(filters, &args)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s RETURNING %s",
		quoteIdent(r.table), strings.Join(assigns, ", "), where, r.selectList())
	return r.queryMany(query, args)
}

// DeleteForColumn removes every record whose column matches any of the
// values, narrowed by additional filters. Returns the number removed;
// deleting nothing is not an error.
func (r *AssociationRepo[T]) DeleteForColumn(column string, values []any, additional RowValues) (int, error) {
	if err := r.checkColumns(append([]string{column}, sortedKeys(additional)...)...); err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, nil
	}
	var args []any
	conds := make([]string, 0, len(values))
	for _, v := range values {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", quoteIdent(column), len(args)))
	}
	where := "(" + strings.Join(conds, " OR ") + ")"
	if len(additional) > 0 {
		where += " AND " + buildWhere(additional, &args)
	}
	return r.execDelete(where, args)
}

// DeleteForColumns removes every record matching any of the key-column
// combinations, narrowed by additional filters.
func (r *AssociationRepo[T]) DeleteForColumns(keys []RowValues, additional RowValues) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}
	var args []any
	groups := make([]string, 0, len(keys))
	for _, key := range keys {
		if err := r.checkColumns(sortedKeys(key)...); err != nil {
			return 0, err
		}
		groups = append(groups, "("+buildWhere(key, &args)+")")
	}
	where := "(" + strings.Join(groups, " OR ") + ")"
	if len(additional) > 0 {
		if err := r.checkColumns(sortedKeys(additional)...); err != nil {
			return 0, err
		}
		where += " AND " + buildWhere(additional, &args)
	}
	return r.execDelete(where, args)
}

func (r *AssociationRepo[T]) execDelete(where string, args []any) (int, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s", quoteIdent(r.table), where)
	tag, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", r.table, err)
	}
	return int(tag.RowsAffected()), nil
}
