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
// Package pattern compiles SQL LIKE and REGEXP patterns and evaluates
// them against subject strings. A compiled LIKE pattern is a sequence of
// (character, token kind) pairs that a recursive backtracking matcher
// walks; a compiled REGEXP pattern delegates to the regexp engine with
// anchored full-match semantics.
package pattern

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/jimcoly/h2database/internal/types"
)

// DefaultEscape is the escape character used when a LIKE condition has
// no ESCAPE clause. Callers thread it explicitly into Compile.
const DefaultEscape = '\\'

// TokenKind classifies one compiled pattern token.
type TokenKind int

const (
	// Match consumes exactly one subject character equal to the token's
	// character under the active collation
	Match TokenKind = iota
	// One consumes exactly one subject character, any character ('_')
	One
	// Any consumes zero or more subject characters ('%')
	Any
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case Match:
		return "MATCH"
	case One:
		return "ONE"
	case Any:
		return "ANY"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrDanglingEscape is returned when the escape character is the
	// last character of the pattern
	ErrDanglingEscape = errors.New("LIKE escape character at end of pattern")
	// ErrInvalidEscape is returned when the escaped character is not
	// '_', '%' or the escape character itself
	ErrInvalidEscape = errors.New("LIKE escape must be followed by '_', '%' or the escape character")
)

// Pattern is a compiled LIKE or REGEXP pattern. It is owned by the
// condition that compiled it; sharing across goroutines is safe only
// after compilation completes under a single writer.
type Pattern struct {
	chars  []rune
	kinds  []TokenKind
	length int
	escape rune

	// minLength is the number of tokens that consume at least one
	// subject character. The (Any, One) -> (One, Any) normalization
	// makes this a valid pre-check before backtracking.
	minLength int

	mode       *types.CompareMode
	ignoreCase bool

	// regexp mode
	regex       bool
	source      string
	regexIgnore bool
	re          *regexp.Regexp
}

// Compile tokenizes a LIKE pattern with the given escape character.
// Consecutive '%' collapse into a single Any token, and every adjacent
// (Any, One) pair is swapped to (One, Any) in a single forward sweep so
// that a minimum-length pre-check can run before matching.
func Compile(p string, escape rune, mode *types.CompareMode, ignoreCase bool) (*Pattern, error) {
	if mode == nil {
		mode = types.BinaryCompareMode()
	}
	runes := []rune(p)
	cp := &Pattern{
		chars:      make([]rune, 0, len(runes)),
		kinds:      make([]TokenKind, 0, len(runes)),
		escape:     escape,
		mode:       mode,
		ignoreCase: ignoreCase,
	}
	lastAny := false
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		var kind TokenKind
		switch {
		case c == escape:
			if i >= len(runes)-1 {
				return nil, fmt.Errorf("invalid pattern %s: %w", markAt(runes, i), ErrDanglingEscape)
			}
			i++
			c = runes[i]
			if c != '_' && c != '%' && c != escape {
				return nil, fmt.Errorf("invalid pattern %s: %w", markAt(runes, i), ErrInvalidEscape)
			}
			kind = Match
			lastAny = false
		case c == '%':
			if lastAny {
				continue
			}
			kind = Any
			lastAny = true
		case c == '_':
			kind = One
		default:
			kind = Match
			lastAny = false
		}
		cp.chars = append(cp.chars, c)
		cp.kinds = append(cp.kinds, kind)
	}
	cp.length = len(cp.kinds)
	for i := 0; i < cp.length-1; i++ {
		if cp.kinds[i] == Any && cp.kinds[i+1] == One {
			cp.kinds[i] = One
			cp.kinds[i+1] = Any
			cp.chars[i], cp.chars[i+1] = cp.chars[i+1], cp.chars[i]
		}
	}
	for _, k := range cp.kinds {
		if k != Any {
			cp.minLength++
		}
	}
	return cp, nil
}

// CompileRegexp compiles a REGEXP pattern. Matching is anchored: the
// pattern must match the entire subject.
func CompileRegexp(p string, ignoreCase bool) (*Pattern, error) {
	src := p
	if ignoreCase {
		src = "(?i)" + src
	}
	re, err := regexp.Compile(`\A(?:` + src + `)\z`)
	if err != nil {
		return nil, fmt.Errorf("invalid regexp pattern %q: %w", p, err)
	}
	return &Pattern{
		regex:       true,
		source:      p,
		regexIgnore: ignoreCase,
		re:          re,
	}, nil
}

// markAt renders the pattern with a [*] marker at the offending index,
// for error messages.
func markAt(runes []rune, i int) string {
	return fmt.Sprintf("%q[*]%q", string(runes[:i]), string(runes[i:]))
}

// Matches reports whether the subject matches the whole pattern.
func (p *Pattern) Matches(subject string) bool {
	if p.regex {
		return p.re.MatchString(subject)
	}
	runes := []rune(subject)
	if len(runes) < p.minLength {
		return false
	}
	return p.matchAt(runes, 0, 0)
}

// matchAt is the recursive backtracking matcher over the
// (tokenIndex, subjectIndex) state pair. For Any it tries every
// consumption length from zero up to the remaining subject length and
// succeeds on the first split point that lets the rest of the pattern
// match. Worst case is exponential in the number of wildcards.
func (p *Pattern) matchAt(s []rune, pi, si int) bool {
	for ; pi < p.length; pi++ {
		switch p.kinds[pi] {
		case Match:
			if si >= len(s) || !p.equalRunes(p.chars[pi], s[si]) {
				return false
			}
			si++
		case One:
			if si >= len(s) {
				return false
			}
			si++
		case Any:
			if pi == p.length-1 {
				// trailing wildcard matches any remainder
				return true
			}
			for next := si; next <= len(s); next++ {
				if p.matchAt(s, pi+1, next) {
					return true
				}
			}
			return false
		}
	}
	return si == len(s)
}

// equalRunes compares one pattern character to one subject character
// under the pattern's collation and case-sensitivity.
func (p *Pattern) equalRunes(a, b rune) bool {
	return p.mode.CompareStrings(string(a), string(b), p.ignoreCase) == 0
}

// IsRegexp reports whether the pattern was compiled in REGEXP mode.
func (p *Pattern) IsRegexp() bool { return p.regex }

// Escape returns the escape character the pattern was compiled with.
func (p *Pattern) Escape() rune { return p.escape }

// Len returns the number of compiled tokens.
func (p *Pattern) Len() int { return p.length }

// KindAt returns the kind of token i.
func (p *Pattern) KindAt(i int) TokenKind { return p.kinds[i] }

// RuneAt returns the match character of token i.
func (p *Pattern) RuneAt(i int) rune { return p.chars[i] }

// MinLength returns the minimum subject length any match requires.
func (p *Pattern) MinLength() int { return p.minLength }

// Mode returns the collation the pattern compares under.
func (p *Pattern) Mode() *types.CompareMode { return p.mode }

// IgnoreCase reports whether Match tokens fold case.
func (p *Pattern) IgnoreCase() bool { return p.ignoreCase }
