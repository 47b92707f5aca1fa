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
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jimcoly/h2database/internal/common"
)

// CLI is the interactive shell. Commands mirror the subcommands of the
// binary; session settings (escape, locale, case folding) persist
// between commands.
type CLI struct {
	historyFile   string
	readline      *readline.Instance
	isInteractive bool
}

// NewCLI creates a new shell instance.
func NewCLI() (*CLI, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	historyFile := homeDir + "/.h2db_history"

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[1;36m>\033[0m ",
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",

		HistorySearchFold: true, // Case-insensitive history search
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %v", err)
	}

	isInteractive := true
	if stat, err := os.Stdin.Stat(); err == nil {
		isInteractive = (stat.Mode() & os.ModeCharDevice) != 0
	}

	return &CLI{
		historyFile:   historyFile,
		readline:      rl,
		isInteractive: isInteractive,
	}, nil
}

// Run starts the shell loop.
func (c *CLI) Run() error {
	if c.isInteractive {
		fmt.Println(common.VersionString)
		fmt.Println("Enter commands, 'help' for assistance, or 'exit' to quit.")
		fmt.Println("Use Up/Down arrows for history, Ctrl+R to search history.")
		fmt.Println()
	}

	for {
		line, err := c.readline.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				break
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch strings.ToLower(line) {
		case "exit", "quit", "\\q":
			return nil
		case "help", "\\h", "\\?":
			c.printHelp()
			continue
		case "version":
			fmt.Println(common.VersionString)
			continue
		}

		c.readline.SaveHistory(line)

		start := time.Now()
		err = c.dispatch(line)
		elapsed := time.Since(start)

		if err != nil {
			errColor.Fprintf(os.Stderr, "Error: %v\n", err)
		} else if c.isInteractive {
			okColor.Printf("Done in %v\n", elapsed)
		}
	}
	return nil
}

// dispatch parses one command line and runs it.
func (c *CLI) dispatch(line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "like", "regexp":
		if len(args) < 1 {
			return fmt.Errorf("usage: %s PATTERN [SUBJECT...]", cmd)
		}
		regexMode = cmd == "regexp"
		return runLike(os.Stdout, args[0], args[1:])
	case "setop":
		if len(args) != 3 {
			return fmt.Errorf("usage: setop {union|unionall|except|intersect} LEFT RIGHT")
		}
		return runSetop(os.Stdout, args[0], args[1], args[2])
	case "scan":
		if len(args) < 2 || len(args) > 4 {
			return fmt.Errorf("usage: scan DB TABLE [FIRST [LAST]]")
		}
		var first, last string
		if len(args) > 2 {
			first = args[2]
		}
		if len(args) > 3 {
			last = args[3]
		}
		return runScan(os.Stdout, args[0], args[1], first, last)
	case "escape":
		if len(args) != 1 {
			return fmt.Errorf("usage: escape CHAR")
		}
		escapeStr = args[0]
		return nil
	case "locale":
		if len(args) != 1 {
			return fmt.Errorf("usage: locale TAG (or 'binary')")
		}
		if strings.EqualFold(args[0], "binary") {
			locale = ""
		} else {
			locale = args[0]
		}
		return nil
	case "ignorecase":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			return fmt.Errorf("usage: ignorecase {on|off}")
		}
		ignoreCase = args[0] == "on"
		return nil
	default:
		return fmt.Errorf("unknown command %q, try 'help'", cmd)
	}
}

// splitArgs splits a command line on whitespace, honoring single and
// double quotes.
func splitArgs(line string) ([]string, error) {
	var args []string
	var cur strings.Builder
	var quote rune
	inArg := false

	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inArg = true
		case r == ' ' || r == '\t':
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inArg {
		args = append(args, cur.String())
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return args, nil
}

// printHelp displays help information
func (c *CLI) printHelp() {
	fmt.Println("\033[1mh2db Shell Commands:\033[0m")
	fmt.Println("")
	fmt.Println("  \033[1;33mQuery Commands:\033[0m")
	fmt.Println("    like PATTERN [SUBJECT...]   Test a LIKE pattern, show index conditions")
	fmt.Println("    regexp PATTERN [SUBJECT...] Test a regular expression pattern")
	fmt.Println("    setop OP LEFT RIGHT         Combine row lists (union, unionall, except, intersect)")
	fmt.Println("    scan DB TABLE [FIRST [LAST]] Range-scan a SQLite table")
	fmt.Println("")
	fmt.Println("  \033[1;33mSession Settings:\033[0m")
	fmt.Println("    escape CHAR                 Set the LIKE escape character")
	fmt.Println("    locale TAG                  Set the collation locale ('binary' resets)")
	fmt.Println("    ignorecase {on|off}         Toggle case-insensitive comparison")
	fmt.Println("")
	fmt.Println("  \033[1;33mSpecial Commands:\033[0m")
	fmt.Println("    version                     Show engine version")
	fmt.Println("    exit, quit, \\q              Exit the shell")
	fmt.Println("    help, \\h, \\?               Show this help message")
	fmt.Println("")
	fmt.Println("  Row lists: rows separated by ';', values by ','.")
	fmt.Println("  Example: setop union \"1,a;2,b\" \"2,b;3,c\"")
	fmt.Println("")
}

// newTable creates a table writer with the shell's styling.
func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleRounded)
	t.Style().Options.SeparateRows = false
	return t
}

// tableRow converts cells to a table row.
func tableRow(cells ...interface{}) table.Row {
	return table.Row(cells)
}

// Close closes the shell and cleans up resources
func (c *CLI) Close() error {
	if c.readline != nil {
		return c.readline.Close()
	}
	return nil
}
