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
package index

import (
	"fmt"
	"sort"
	"sync"

	"github.com/jimcoly/h2database/internal/types"
)

// Memory is a sorted in-memory index. Rows are kept ordered by their
// leading columns under the index's collation, with NULL sorting first.
type Memory struct {
	name  string
	table string
	mode  *types.CompareMode

	mu   sync.RWMutex
	rows []types.Row
}

// NewMemory creates an empty in-memory index.
func NewMemory(name, table string, mode *types.CompareMode) *Memory {
	if mode == nil {
		mode = types.BinaryCompareMode()
	}
	return &Memory{name: name, table: table, mode: mode}
}

// Name returns the name of the index
func (m *Memory) Name() string { return m.name }

// Table returns the name of the table this index belongs to
func (m *Memory) Table() string { return m.table }

// compareRows orders rows column by column. NULL sorts before every
// non-NULL value so that ranges with NULL bounds stay well defined.
func (m *Memory) compareRows(a, b types.Row) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		av, bv := a[i], b[i]
		if av.IsNull() || bv.IsNull() {
			switch {
			case av.IsNull() && bv.IsNull():
				continue
			case av.IsNull():
				return -1
			default:
				return 1
			}
		}
		cmp, _, err := types.Compare(av, bv, m.mode)
		if err != nil || cmp == 0 {
			continue
		}
		return cmp
	}
	return len(a) - len(b)
}

// Add inserts a row at its sorted position.
func (m *Memory) Add(row types.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row = types.CloneRow(row)
	pos := sort.Search(len(m.rows), func(i int) bool {
		return m.compareRows(m.rows[i], row) >= 0
	})
	m.rows = append(m.rows, nil)
	copy(m.rows[pos+1:], m.rows[pos:])
	m.rows[pos] = row
	return nil
}

// Remove deletes the first row equal to the given row.
func (m *Memory) Remove(row types.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if m.rowsEqual(r, row) {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("index %s: row not found", m.name)
}

// Update replaces oldRow with newRow.
func (m *Memory) Update(oldRow, newRow types.Row) error {
	if err := m.Remove(oldRow); err != nil {
		return err
	}
	return m.Add(newRow)
}

func (m *Memory) rowsEqual(a, b types.Row) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !types.Equal(a[i], b[i], m.mode) {
			return false
		}
	}
	return true
}

// Find returns a cursor over the rows between first and last. NULL
// values in a bound row leave that column unconstrained.
func (m *Memory) Find(first, last types.Row) (Cursor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []types.Row
	for _, row := range m.rows {
		if m.inRange(row, first, last) {
			out = append(out, row)
		}
	}
	return &memoryCursor{rows: out, pos: -1}, nil
}

func (m *Memory) inRange(row, first, last types.Row) bool {
	for i, bound := range first {
		if bound.IsNull() || i >= len(row) {
			continue
		}
		cmp, unknown, err := types.Compare(row[i], bound, m.mode)
		if err != nil || unknown || cmp < 0 {
			return false
		}
	}
	for i, bound := range last {
		if bound.IsNull() || i >= len(row) {
			continue
		}
		cmp, unknown, err := types.Compare(row[i], bound, m.mode)
		if err != nil || unknown || cmp > 0 {
			return false
		}
	}
	return true
}

// Cost estimates a lookup: cheap for equality on the leading column,
// proportional to the row count otherwise.
func (m *Memory) Cost(masks []int) float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rowCount := len(m.rows)
	if len(masks) > 0 {
		if masks[0]&MaskEqual != 0 {
			return lookupCost(rowCount) + 1
		}
		if masks[0]&(MaskRangeStart|MaskRangeEnd) != 0 {
			return lookupCost(rowCount) + float64(rowCount)/4
		}
	}
	return float64(rowCount) + 1
}

// lookupCost approximates the tree depth for a row count: the number of
// decimal digits.
func lookupCost(rowCount int) float64 {
	cost := 1
	for j := 10; j <= rowCount; j *= 10 {
		cost++
	}
	return float64(cost)
}

// Truncate removes all rows.
func (m *Memory) Truncate() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = nil
	return nil
}

// Rename renames the index.
func (m *Memory) Rename(newName string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.name = newName
	return nil
}

// Close releases resources held by the index.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = nil
	return nil
}

// memoryCursor iterates a snapshot of matching rows.
type memoryCursor struct {
	rows []types.Row
	pos  int
}

func (c *memoryCursor) Next() bool {
	if c.pos+1 >= len(c.rows) {
		return false
	}
	c.pos++
	return true
}

func (c *memoryCursor) Row() types.Row {
	if c.pos < 0 || c.pos >= len(c.rows) {
		return nil
	}
	return c.rows[c.pos]
}

func (c *memoryCursor) Position() int { return c.pos }

func (c *memoryCursor) Err() error { return nil }

func (c *memoryCursor) Close() error { return nil }
