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
	"strings"

	"github.com/jimcoly/h2database/internal/pattern"
	"github.com/jimcoly/h2database/internal/types"
)

// successorProbeLimit caps how many candidate successor characters the
// upper-bound search tries before falling back to an open-ended range.
// The cap and the silent fallback are deliberate: widening or tightening
// it could change which rows a range scan returns relative to a full
// scan under unusual collations.
const successorProbeLimit = 1999

// DeriveLike turns a compiled, constant LIKE pattern on a column into
// sargable index conditions.
//
// A pattern that does not start with a literal character is not
// derivable and yields nil (the whole result set must be scanned). A
// pattern with no wildcards yields a single Equal condition. Otherwise
// the longest literal prefix becomes a BiggerEqual lower bound, paired
// where possible with a Smaller upper bound built by probing successor
// characters of the prefix's last character until one collation-compares
// strictly greater than the prefix. When no successor is found within
// the probe budget only the lower bound is emitted; the open-ended upper
// range is an accepted approximation, not a failure.
func DeriveLike(p *pattern.Pattern, column string, mode *types.CompareMode, ignoreCase bool) []Condition {
	if p == nil || p.IsRegexp() {
		return nil
	}
	if p.Len() == 0 || p.KindAt(0) != pattern.Match {
		return nil
	}
	if mode == nil {
		mode = types.BinaryCompareMode()
	}
	var buff strings.Builder
	maxMatch := 0
	for maxMatch < p.Len() && p.KindAt(maxMatch) == pattern.Match {
		buff.WriteRune(p.RuneAt(maxMatch))
		maxMatch++
	}
	begin := buff.String()
	if maxMatch == p.Len() {
		return []Condition{{Column: column, Op: Equal, Bound: types.NewText(begin)}}
	}
	conds := []Condition{{Column: column, Op: BiggerEqual, Bound: types.NewText(begin)}}
	prefix := []rune(begin)
	last := prefix[len(prefix)-1]
	for i := 1; i <= successorProbeLimit; i++ {
		end := string(prefix[:len(prefix)-1]) + string(last+rune(i))
		if mode.CompareStrings(begin, end, ignoreCase) == -1 {
			conds = append(conds, Condition{Column: column, Op: Smaller, Bound: types.NewText(end)})
			break
		}
	}
	return conds
}
