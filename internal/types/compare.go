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
package types

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// CompareMode is a pluggable collation: it decides how TEXT values order
// relative to each other. The zero-configuration mode compares strings
// bytewise. A locale-backed mode delegates to an x/text collator.
//
// A CompareMode is immutable after construction and safe for concurrent
// use only if the underlying collator is not shared across goroutines
// mid-comparison; callers that evaluate conditions from multiple
// goroutines must establish a happens-before edge after construction.
type CompareMode struct {
	name            string
	coll            *collate.Collator
	collIgnoreCase  *collate.Collator
	caseInsensitive bool
}

// BinaryCompareMode returns the default mode: bytewise string order.
func BinaryCompareMode() *CompareMode {
	return &CompareMode{name: "BINARY"}
}

// NewCompareMode returns a collation for the given BCP 47 locale tag,
// for example "en" or "tr-TR". caseInsensitive makes every string
// comparison under this mode ignore case regardless of the per-condition
// flag.
func NewCompareMode(locale string, caseInsensitive bool) (*CompareMode, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("invalid collation locale %q: %w", locale, err)
	}
	return &CompareMode{
		name:            locale,
		coll:            collate.New(tag),
		collIgnoreCase:  collate.New(tag, collate.IgnoreCase),
		caseInsensitive: caseInsensitive,
	}, nil
}

// Name returns the collation name ("BINARY" for the default mode).
func (m *CompareMode) Name() string { return m.name }

// CompareStrings compares two strings under this collation, returning
// -1, 0 or 1. ignoreCase folds case for this one comparison; a
// case-insensitive mode folds case always.
func (m *CompareMode) CompareStrings(a, b string, ignoreCase bool) int {
	ignoreCase = ignoreCase || m.caseInsensitive
	if m.coll == nil {
		if ignoreCase {
			a = strings.ToUpper(a)
			b = strings.ToUpper(b)
		}
		return strings.Compare(a, b)
	}
	if ignoreCase {
		return m.collIgnoreCase.CompareString(a, b)
	}
	return m.coll.CompareString(a, b)
}

// Compare compares two values under the given mode and returns
// (cmp, unknown, err). unknown is true whenever either side is NULL:
// NULL compares as neither less, equal nor greater, and the caller must
// propagate the unknown result (three-valued logic). NULL involvement is
// never an error.
//
// Values of different types are compared after converting the
// lower-ranked side to the higher-ranked type.
func Compare(a, b Value, mode *CompareMode) (int, bool, error) {
	if a.IsNull() || b.IsNull() {
		return 0, true, nil
	}
	if mode == nil {
		mode = BinaryCompareMode()
	}
	target := HigherOrder(a.Type(), b.Type())
	ca, err := a.Convert(target)
	if err != nil {
		return 0, false, err
	}
	cb, err := b.Convert(target)
	if err != nil {
		return 0, false, err
	}
	switch target {
	case BOOLEAN:
		ab, _ := ca.AsBoolean()
		bb, _ := cb.AsBoolean()
		switch {
		case ab == bb:
			return 0, false, nil
		case bb:
			return -1, false, nil
		default:
			return 1, false, nil
		}
	case INTEGER:
		ai, _ := ca.AsInt64()
		bi, _ := cb.AsInt64()
		switch {
		case ai < bi:
			return -1, false, nil
		case ai > bi:
			return 1, false, nil
		default:
			return 0, false, nil
		}
	case FLOAT:
		af, _ := ca.AsFloat64()
		bf, _ := cb.AsFloat64()
		switch {
		case af < bf:
			return -1, false, nil
		case af > bf:
			return 1, false, nil
		default:
			return 0, false, nil
		}
	case TIMESTAMP:
		at, _ := ca.AsTimestamp()
		bt, _ := cb.AsTimestamp()
		switch {
		case at.Before(bt):
			return -1, false, nil
		case at.After(bt):
			return 1, false, nil
		default:
			return 0, false, nil
		}
	case TEXT:
		as, _ := ca.AsString()
		bs, _ := cb.AsString()
		return mode.CompareStrings(as, bs, false), false, nil
	}
	return 0, false, fmt.Errorf("cannot compare %s and %s", a.Type(), b.Type())
}

// Equal reports value equality with DISTINCT semantics: unlike Compare,
// two NULLs are considered equal here, so duplicate elimination folds
// NULL rows together the way SQL DISTINCT requires.
func Equal(a, b Value, mode *CompareMode) bool {
	if a.IsNull() || b.IsNull() {
		return a.IsNull() && b.IsNull()
	}
	cmp, _, err := Compare(a, b, mode)
	return err == nil && cmp == 0
}
