// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"io"
	"testing"
)

// Stopper is an interface for types with a Stop method returning an error,
// commonly server types.
type Stopper interface {
	Stop() error
}

// MustStop stops the given Stopper. Shutdown errors during cleanup are
// logged, not fatal.
func MustStop(t testing.TB, s Stopper) {
	t.Helper()
	if err := s.Stop(); err != nil {
		t.Logf("warning: stop returned error: %v", err)
	}
}

// MustClose closes the given io.Closer. The test fails immediately if the
// close fails.
func MustClose(t testing.TB, c io.Closer) {
	t.Helper()
	if err := c.Close(); err != nil {
		t.Fatalf("failed to close: %v", err)
	}
}
