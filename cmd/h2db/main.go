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
package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jimcoly/h2database/internal/common"
	"github.com/jimcoly/h2database/internal/exec"
	"github.com/jimcoly/h2database/internal/index"
	"github.com/jimcoly/h2database/internal/index/linked"
	"github.com/jimcoly/h2database/internal/pattern"
	"github.com/jimcoly/h2database/internal/types"

	// Import driver
	_ "github.com/mattn/go-sqlite3"
)

var (
	ignoreCase bool
	escapeStr  string
	locale     string
	regexMode  bool

	distinct bool
	offset   int
	limit    int

	scanColumns string

	errColor = color.New(color.FgRed, color.Bold)
	okColor  = color.New(color.FgGreen)
)

var rootCmd = &cobra.Command{
	Use:   "h2db",
	Short: "h2db query engine CLI",
	Long: `h2db is an embedded relational query engine.
This CLI evaluates LIKE/REGEXP patterns, derives index range conditions,
runs set operations over inline row lists, and range-scans remote tables.
Without a subcommand it starts an interactive shell.`,
	Version: common.VersionMajor + "." + common.VersionMinor + "." + common.VersionPatch,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := NewCLI()
		if err != nil {
			return fmt.Errorf("error initializing shell: %v", err)
		}
		defer cli.Close()
		return cli.Run()
	},
}

var likeCmd = &cobra.Command{
	Use:   "like PATTERN [SUBJECT...]",
	Short: "Test a LIKE pattern and show its derived index conditions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLike(os.Stdout, args[0], args[1:])
	},
}

var setopCmd = &cobra.Command{
	Use:   "setop {union|unionall|except|intersect} LEFT RIGHT",
	Short: "Combine two inline row lists with a set operation",
	Long: `Combine two inline row lists. Rows are separated by ';' and values
by ','. Values parse as integers, floats, 'null', 'true'/'false', or text.

Example: h2db setop union "1,a;2,b" "2,b;3,c"`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSetop(os.Stdout, args[0], args[1], args[2])
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan DB TABLE [FIRST [LAST]]",
	Short: "Range-scan a table in a SQLite database through a linked index",
	Long: `Open a SQLite database and scan TABLE between the FIRST and LAST
rows (inclusive, ';'-separated values, '-' or omitted for unbounded).`,
	Args: cobra.RangeArgs(2, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		var first, last string
		if len(args) > 2 {
			first = args[2]
		}
		if len(args) > 3 {
			last = args[3]
		}
		return runScan(os.Stdout, args[0], args[1], first, last)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Case-insensitive comparison")
	rootCmd.PersistentFlags().StringVarP(&locale, "locale", "L", "", "Collation locale (e.g. en, tr); binary when empty")

	likeCmd.Flags().StringVarP(&escapeStr, "escape", "e", "", "LIKE escape character (default '\\')")
	likeCmd.Flags().BoolVarP(&regexMode, "regexp", "r", false, "Treat PATTERN as a regular expression")

	setopCmd.Flags().BoolVarP(&distinct, "distinct", "D", false, "Force duplicate elimination")
	setopCmd.Flags().IntVarP(&offset, "offset", "o", 0, "Rows to skip from the combined result")
	setopCmd.Flags().IntVarP(&limit, "limit", "l", -1, "Maximum rows to return (-1 for unlimited)")

	scanCmd.Flags().StringVarP(&scanColumns, "columns", "c", "", "Comma-separated column list (defaults to all table columns)")

	rootCmd.AddCommand(likeCmd, setopCmd, scanCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// compareMode builds the collation from the --locale and --ignore-case
// flags.
func compareMode() (*types.CompareMode, error) {
	if locale == "" {
		return types.BinaryCompareMode(), nil
	}
	return types.NewCompareMode(locale, ignoreCase)
}

// escapeRune parses the --escape flag. Empty means the default escape.
func escapeRune() (rune, error) {
	if escapeStr == "" {
		return pattern.DefaultEscape, nil
	}
	if utf8.RuneCountInString(escapeStr) != 1 {
		return 0, fmt.Errorf("escape must be a single character, got %q", escapeStr)
	}
	r, _ := utf8.DecodeRuneInString(escapeStr)
	return r, nil
}

// runLike compiles a pattern, matches it against the subjects, and
// prints the index range conditions a prefix pattern allows.
func runLike(out *os.File, patternText string, subjects []string) error {
	mode, err := compareMode()
	if err != nil {
		return err
	}

	var p *pattern.Pattern
	if regexMode {
		p, err = pattern.CompileRegexp(patternText, ignoreCase)
	} else {
		var esc rune
		esc, err = escapeRune()
		if err != nil {
			return err
		}
		p, err = pattern.Compile(patternText, esc, mode, ignoreCase)
	}
	if err != nil {
		return err
	}

	printPattern(out, p)

	if len(subjects) > 0 {
		t := newTable(out)
		t.AppendHeader(tableRow("SUBJECT", "MATCHES"))
		for _, s := range subjects {
			t.AppendRow(tableRow(s, strconv.FormatBool(p.Matches(s))))
		}
		t.Render()
	}

	conds := index.DeriveLike(p, "X", mode, ignoreCase)
	if len(conds) == 0 {
		fmt.Fprintln(out, "no index conditions (not prefix-anchored)")
		return nil
	}
	for _, c := range conds {
		okColor.Fprintf(out, "index condition: %s\n", c)
	}
	return nil
}

// printPattern dumps the compiled token list.
func printPattern(out *os.File, p *pattern.Pattern) {
	if p.IsRegexp() {
		fmt.Fprintln(out, "compiled: REGEXP")
		return
	}
	var b strings.Builder
	for i := 0; i < p.Len(); i++ {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch p.KindAt(i) {
		case pattern.Match:
			fmt.Fprintf(&b, "MATCH(%c)", p.RuneAt(i))
		default:
			b.WriteString(p.KindAt(i).String())
		}
	}
	fmt.Fprintf(out, "compiled: %s (min length %d)\n", b.String(), p.MinLength())
}

// runSetop parses two inline row lists and combines them.
func runSetop(out *os.File, opName, leftText, rightText string) error {
	mode, err := compareMode()
	if err != nil {
		return err
	}

	typ, err := parseSetOp(opName)
	if err != nil {
		return err
	}

	left, err := parseValues(leftText, mode)
	if err != nil {
		return fmt.Errorf("left side: %v", err)
	}
	right, err := parseValues(rightText, mode)
	if err != nil {
		return fmt.Errorf("right side: %v", err)
	}

	op := exec.NewSetOperation(typ, left, right, mode)
	if distinct {
		op.SetDistinct(true)
	}
	if offset > 0 {
		op.SetOffset(offset)
	}
	if limit >= 0 {
		op.SetLimit(limit)
	}

	result, err := op.Query(context.Background(), 0)
	if err != nil {
		return err
	}
	return printResult(out, op.Columns(), result)
}

func parseSetOp(name string) (exec.SetOpType, error) {
	switch strings.ToLower(name) {
	case "union":
		return exec.Union, nil
	case "unionall", "union-all":
		return exec.UnionAll, nil
	case "except":
		return exec.Except, nil
	case "intersect":
		return exec.Intersect, nil
	default:
		return 0, fmt.Errorf("unknown set operation %q", name)
	}
}

// parseValues builds a VALUES query from "v,v;v,v" text.
func parseValues(text string, mode *types.CompareMode) (*exec.Values, error) {
	var rows []types.Row
	for _, rowText := range strings.Split(text, ";") {
		if strings.TrimSpace(rowText) == "" {
			continue
		}
		var row types.Row
		for _, cell := range strings.Split(rowText, ",") {
			row = append(row, parseValue(strings.TrimSpace(cell)))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no rows")
	}

	columns := make([]exec.Column, len(rows[0]))
	for i := range columns {
		columns[i].Name = "C" + strconv.Itoa(i+1)
	}
	for _, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row has %d values, expected %d", len(row), len(columns))
		}
		for i, v := range row {
			columns[i].Type = types.HigherOrder(columns[i].Type, v.Type())
		}
	}
	for i := range columns {
		if columns[i].Type == types.NULL {
			columns[i].Type = types.TEXT
		}
	}
	return exec.NewValues(columns, rows, mode), nil
}

// parseValue types an inline cell: null, boolean, integer, float, text.
func parseValue(s string) types.Value {
	switch strings.ToLower(s) {
	case "null":
		return types.Null
	case "true":
		return types.NewBoolean(true)
	case "false":
		return types.NewBoolean(false)
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return types.NewInteger(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return types.NewFloat(f)
	}
	return types.NewText(s)
}

// runScan opens a SQLite database and scans one table through a linked
// index.
func runScan(out *os.File, dbPath, tableName, firstText, lastText string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("error opening database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("error connecting to database: %v", err)
	}

	columns, err := tableColumns(db, tableName)
	if err != nil {
		return err
	}

	table := linked.NewTable(db, tableName, columns)
	idx := linked.New(table, tableName+"_scan")
	defer idx.Close()

	first, err := parseBound(firstText, len(columns))
	if err != nil {
		return fmt.Errorf("first bound: %v", err)
	}
	last, err := parseBound(lastText, len(columns))
	if err != nil {
		return fmt.Errorf("last bound: %v", err)
	}

	cursor, err := idx.Find(first, last)
	if err != nil {
		return err
	}
	defer cursor.Close()

	t := newTable(out)
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	t.AppendHeader(tableRow(header...))

	count := 0
	for cursor.Next() {
		row := cursor.Row()
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		t.AppendRow(tableRow(cells...))
		count++
	}
	if err := cursor.Err(); err != nil {
		return err
	}
	t.Render()
	okColor.Fprintf(out, "%d %s in set\n", count, plural(count, "row", "rows"))
	return nil
}

// tableColumns resolves the column list, from --columns or the table
// itself.
func tableColumns(db *sql.DB, tableName string) ([]string, error) {
	if scanColumns != "" {
		return strings.Split(scanColumns, ","), nil
	}
	rows, err := db.Query("SELECT * FROM " + tableName + " LIMIT 0")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}

// parseBound parses "v;v;..." into a partial row; empty or "-" means
// unbounded.
func parseBound(text string, columnCount int) (types.Row, error) {
	if text == "" || text == "-" {
		return nil, nil
	}
	parts := strings.Split(text, ";")
	if len(parts) > columnCount {
		return nil, fmt.Errorf("%d values for %d columns", len(parts), columnCount)
	}
	row := make(types.Row, columnCount)
	for i := range row {
		row[i] = types.Null
	}
	for i, p := range parts {
		row[i] = parseValue(strings.TrimSpace(p))
	}
	return row, nil
}

// printResult renders a materialized result as a table.
func printResult(out *os.File, columns []exec.Column, result *exec.Result) error {
	t := newTable(out)
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c.Name
	}
	t.AppendHeader(tableRow(header...))

	result.Reset()
	for result.Next() {
		row := result.Row()
		cells := make([]interface{}, len(row))
		for i, v := range row {
			cells[i] = formatValue(v)
		}
		t.AppendRow(tableRow(cells...))
	}
	t.Render()

	n := result.RowCount()
	okColor.Fprintf(out, "%d %s in set\n", n, plural(n, "row", "rows"))
	return nil
}

// formatValue formats a value for display.
func formatValue(v types.Value) string {
	if v.IsNull() {
		return "NULL"
	}
	return v.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
