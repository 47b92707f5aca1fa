/*
Copyright 2026 H2Database Contributors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
// Package linked implements the index contract on top of a remote table
// reached through database/sql. Every operation is translated into an
// equivalent parameterized statement against the remote side.
//
// NULL columns get special treatment throughout: they are never bound as
// parameters. An inserted NULL is written literally as NULL in the
// statement text, and delete/update predicates match NULL columns with
// IS NULL rather than = ?, because an equality comparison against a
// bound NULL parameter never matches under three-valued logic at the
// remote side either.
package linked

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/jimcoly/h2database/internal/index"
	"github.com/jimcoly/h2database/internal/types"
)

// StatementError wraps a remote-execution failure with the statement
// text that caused it. The original cause is preserved for errors.Is and
// errors.As.
type StatementError struct {
	SQL string
	Err error
}

func (e *StatementError) Error() string {
	return fmt.Sprintf("error accessing linked table: %s: %v", e.SQL, e.Err)
}

func (e *StatementError) Unwrap() error { return e.Err }

// Table wraps a connection to a remote table and caches prepared
// statements by their SQL text.
type Table struct {
	db      *sql.DB
	name    string
	columns []string

	mu    sync.Mutex
	stmts map[string]*sql.Stmt
}

// NewTable creates a linked table over an open database handle. name is
// the remote table name and columns are its column names in order.
func NewTable(db *sql.DB, name string, columns []string) *Table {
	return &Table{
		db:      db,
		name:    name,
		columns: columns,
		stmts:   make(map[string]*sql.Stmt),
	}
}

// Name returns the remote table name
func (t *Table) Name() string { return t.name }

// Columns returns the remote column names
func (t *Table) Columns() []string { return t.columns }

// prepared returns a cached prepared statement for the given SQL,
// preparing it on first use.
func (t *Table) prepared(query string) (*sql.Stmt, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if stmt, ok := t.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := t.db.Prepare(query)
	if err != nil {
		return nil, err
	}
	t.stmts[query] = stmt
	return stmt, nil
}

// Close closes all cached statements. The database handle stays open;
// the caller owns it.
func (t *Table) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var firstErr error
	for _, stmt := range t.stmts {
		if err := stmt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	t.stmts = make(map[string]*sql.Stmt)
	return firstErr
}

// Index translates the index contract into statements against a linked
// table.
type Index struct {
	table *Table
	name  string

	mu       sync.Mutex
	rowCount int64
}

var _ index.Index = (*Index)(nil)

// New creates an index over a linked table.
func New(table *Table, name string) *Index {
	return &Index{table: table, name: name}
}

// Name returns the name of the index
func (idx *Index) Name() string { return idx.name }

// Table returns the remote table name
func (idx *Index) Table() string { return idx.table.name }

func isNull(v types.Value) bool { return v.IsNull() }

// Add inserts a row into the remote table. NULL columns are written
// literally; everything else is bound positionally.
func (idx *Index) Add(row types.Row) error {
	var buff strings.Builder
	buff.WriteString("INSERT INTO ")
	buff.WriteString(idx.table.name)
	buff.WriteString(" VALUES(")
	for i, v := range row {
		if i > 0 {
			buff.WriteByte(',')
		}
		if isNull(v) {
			buff.WriteString("NULL")
		} else {
			buff.WriteByte('?')
		}
	}
	buff.WriteByte(')')
	query := buff.String()
	stmt, err := idx.table.prepared(query)
	if err != nil {
		return &StatementError{SQL: query, Err: err}
	}
	args := bindArgs(row)
	if _, err := stmt.Exec(args...); err != nil {
		return &StatementError{SQL: query, Err: err}
	}
	idx.mu.Lock()
	idx.rowCount++
	idx.mu.Unlock()
	return nil
}

// Remove deletes every remote row equal to the given row. NULL columns
// are matched with IS NULL.
func (idx *Index) Remove(row types.Row) error {
	var buff strings.Builder
	buff.WriteString("DELETE FROM ")
	buff.WriteString(idx.table.name)
	buff.WriteString(" WHERE ")
	for i, v := range row {
		if i > 0 {
			buff.WriteString(" AND ")
		}
		buff.WriteString(idx.table.columns[i])
		if isNull(v) {
			buff.WriteString(" IS NULL")
		} else {
			buff.WriteString("=?")
		}
	}
	query := buff.String()
	stmt, err := idx.table.prepared(query)
	if err != nil {
		return &StatementError{SQL: query, Err: err}
	}
	res, err := stmt.Exec(bindArgs(row)...)
	if err != nil {
		return &StatementError{SQL: query, Err: err}
	}
	if n, err := res.RowsAffected(); err == nil {
		idx.mu.Lock()
		idx.rowCount -= n
		idx.mu.Unlock()
	}
	return nil
}

// Update replaces oldRow with newRow in the remote table. The SET list
// binds every new column; the predicate matches old NULL columns with
// IS NULL.
func (idx *Index) Update(oldRow, newRow types.Row) error {
	var buff strings.Builder
	buff.WriteString("UPDATE ")
	buff.WriteString(idx.table.name)
	buff.WriteString(" SET ")
	for i := range newRow {
		if i > 0 {
			buff.WriteString(", ")
		}
		buff.WriteString(idx.table.columns[i])
		buff.WriteString("=?")
	}
	buff.WriteString(" WHERE ")
	for i, v := range oldRow {
		if i > 0 {
			buff.WriteString(" AND ")
		}
		buff.WriteString(idx.table.columns[i])
		if isNull(v) {
			buff.WriteString(" IS NULL")
		} else {
			buff.WriteString("=?")
		}
	}
	query := buff.String()
	stmt, err := idx.table.prepared(query)
	if err != nil {
		return &StatementError{SQL: query, Err: err}
	}
	args := make([]interface{}, 0, len(newRow)+len(oldRow))
	for _, v := range newRow {
		args = append(args, v.AsInterface())
	}
	args = append(args, bindArgs(oldRow)...)
	if _, err := stmt.Exec(args...); err != nil {
		return &StatementError{SQL: query, Err: err}
	}
	return nil
}

// Find selects the remote rows between first and last. NULL bound
// values leave their column unconstrained.
func (idx *Index) Find(first, last types.Row) (index.Cursor, error) {
	var buff strings.Builder
	for i, v := range first {
		if isNull(v) {
			continue
		}
		if buff.Len() != 0 {
			buff.WriteString(" AND ")
		}
		buff.WriteString(idx.table.columns[i])
		buff.WriteString(">=?")
	}
	for i, v := range last {
		if isNull(v) {
			continue
		}
		if buff.Len() != 0 {
			buff.WriteString(" AND ")
		}
		buff.WriteString(idx.table.columns[i])
		buff.WriteString("<=?")
	}
	query := "SELECT * FROM " + idx.table.name
	if buff.Len() > 0 {
		query += " WHERE " + buff.String()
	}
	stmt, err := idx.table.prepared(query)
	if err != nil {
		return nil, &StatementError{SQL: query, Err: err}
	}
	args := append(bindArgs(first), bindArgs(last)...)
	rows, err := stmt.Query(args...)
	if err != nil {
		return nil, &StatementError{SQL: query, Err: err}
	}
	return newCursor(rows), nil
}

// Cost estimates a remote lookup. Every call crosses the wire, so a
// flat penalty is added on top of the range estimate.
func (idx *Index) Cost(masks []int) float64 {
	idx.mu.Lock()
	rowCount := idx.rowCount
	idx.mu.Unlock()
	cost := 100.0
	if len(masks) > 0 && masks[0]&index.MaskEqual != 0 {
		return cost + lookupCost(rowCount)
	}
	if len(masks) > 0 && masks[0]&(index.MaskRangeStart|index.MaskRangeEnd) != 0 {
		return cost + lookupCost(rowCount) + float64(rowCount)/4
	}
	return cost + float64(rowCount)
}

// lookupCost approximates remote index depth as the number of decimal
// digits in the row count.
func lookupCost(rowCount int64) float64 {
	cost := 1
	for j := int64(10); j <= rowCount; j *= 10 {
		cost++
	}
	return float64(cost)
}

// Truncate is not supported on a passthrough index.
func (idx *Index) Truncate() error {
	return fmt.Errorf("truncate linked index %s: %w", idx.name, index.ErrUnsupported)
}

// Rename is not supported on a passthrough index.
func (idx *Index) Rename(string) error {
	return fmt.Errorf("rename linked index %s: %w", idx.name, index.ErrUnsupported)
}

// Close releases the cached statements of the underlying table.
func (idx *Index) Close() error {
	return idx.table.Close()
}

// bindArgs collects the non-NULL values of a row in order, matching the
// placeholders the statement builders emit.
func bindArgs(row types.Row) []interface{} {
	var args []interface{}
	for _, v := range row {
		if !isNull(v) {
			args = append(args, v.AsInterface())
		}
	}
	return args
}
