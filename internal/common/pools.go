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
// Package common provides shared types and utilities
package common

import (
	"strings"
	"sync"
)

// Global sync.Pool for string builders used by hot row-encoding paths
// to reduce allocations
var builderPool = &sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

// GetBuilder returns a reset string builder from the pool.
func GetBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

// PutBuilder returns a builder to the pool. Builders that grew past
// 4KB are dropped so a single huge row does not pin memory.
func PutBuilder(b *strings.Builder) {
	if b.Cap() > 4096 {
		return
	}
	builderPool.Put(b)
}

// Global sync.Pools for scan buffers, bucketed by column count
var (
	smallScanBufferPool = &sync.Pool{
		New: func() interface{} {
			return make([]interface{}, 0, 8) // For small number of columns
		},
	}

	mediumScanBufferPool = &sync.Pool{
		New: func() interface{} {
			return make([]interface{}, 0, 32) // For medium number of columns
		},
	}

	largeScanBufferPool = &sync.Pool{
		New: func() interface{} {
			return make([]interface{}, 0, 64) // For large number of columns
		},
	}
)

func scanBufferPool(columnCount int) *sync.Pool {
	if columnCount <= 8 {
		return smallScanBufferPool
	} else if columnCount <= 32 {
		return mediumScanBufferPool
	}
	return largeScanBufferPool
}

// GetScanBuffer returns a scan buffer with the given length.
func GetScanBuffer(columnCount int) []interface{} {
	buf := scanBufferPool(columnCount).Get().([]interface{})
	if cap(buf) < columnCount {
		return make([]interface{}, columnCount)
	}
	return buf[:columnCount]
}

// PutScanBuffer returns a scan buffer to the appropriate pool.
func PutScanBuffer(buf []interface{}) {
	clear(buf)
	//nolint:staticcheck // SA6002: slice headers are small, this is fine
	scanBufferPool(cap(buf)).Put(buf[:0])
}
