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
package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilderPool(t *testing.T) {
	b := GetBuilder()
	b.WriteString("hello")
	PutBuilder(b)

	// a reused builder comes back empty
	b = GetBuilder()
	assert.Equal(t, 0, b.Len())
	PutBuilder(b)
}

func TestScanBufferPool(t *testing.T) {
	for _, n := range []int{1, 8, 9, 33, 100} {
		buf := GetScanBuffer(n)
		assert.Len(t, buf, n)
		for i := range buf {
			buf[i] = i
		}
		PutScanBuffer(buf)
	}
}
