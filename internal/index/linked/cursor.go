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
package linked

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jimcoly/h2database/internal/common"
	"github.com/jimcoly/h2database/internal/types"
)

// cursor adapts a *sql.Rows result to the index cursor contract,
// converting driver values to typed SQL values as it goes.
type cursor struct {
	rows    *sql.Rows
	current types.Row
	pos     int
	err     error
	closed  bool
}

func newCursor(rows *sql.Rows) *cursor {
	return &cursor{rows: rows, pos: -1}
}

func (c *cursor) Next() bool {
	if c.closed || c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		return false
	}
	cols, err := c.rows.Columns()
	if err != nil {
		c.err = err
		return false
	}
	raw := make([]interface{}, len(cols))
	ptrs := common.GetScanBuffer(len(cols))
	defer common.PutScanBuffer(ptrs)
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := c.rows.Scan(ptrs...); err != nil {
		c.err = err
		return false
	}
	row := make(types.Row, len(raw))
	for i, v := range raw {
		row[i], err = fromDriver(v)
		if err != nil {
			c.err = err
			return false
		}
	}
	c.current = row
	c.pos++
	return true
}

func (c *cursor) Row() types.Row { return c.current }

func (c *cursor) Position() int { return c.pos }

func (c *cursor) Err() error { return c.err }

func (c *cursor) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.rows.Close()
}

// fromDriver converts a database/sql driver value to a typed SQL value.
func fromDriver(v interface{}) (types.Value, error) {
	switch x := v.(type) {
	case nil:
		return types.Null, nil
	case bool:
		return types.NewBoolean(x), nil
	case int64:
		return types.NewInteger(x), nil
	case float64:
		return types.NewFloat(x), nil
	case string:
		return types.NewText(x), nil
	case []byte:
		return types.NewText(string(x)), nil
	case time.Time:
		return types.NewTimestamp(x), nil
	default:
		return types.Null, fmt.Errorf("unsupported driver value type %T", v)
	}
}
