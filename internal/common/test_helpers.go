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
	"os"
	"runtime"
	"testing"
	"time"
)

// TempDir creates a temporary directory that is cleaned up when the
// test ends. Cleanup retries on Windows, where database files can still
// be held open briefly after Close.
func TempDir(t *testing.T) string {
	t.Helper()

	prefix := "h2db-" + t.Name() + "-"
	dir, err := os.MkdirTemp("", prefix)
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		maxRetries := 1
		if runtime.GOOS == "windows" {
			time.Sleep(100 * time.Millisecond)
			maxRetries = 5
		}

		var lastErr error
		for i := 0; i < maxRetries; i++ {
			if err := os.RemoveAll(dir); err == nil {
				return
			} else {
				lastErr = err
			}
			if runtime.GOOS == "windows" && i < maxRetries-1 {
				time.Sleep(time.Duration(100*(i+1)) * time.Millisecond)
			}
		}
		if lastErr != nil {
			t.Logf("Warning: failed to remove temp dir %q after %d attempts: %v", dir, maxRetries, lastErr)
		}
	})

	return dir
}
