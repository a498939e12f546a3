package index

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures no goroutines leak across this package's tests. The
// staging/commit/backend machinery here is meant to be safe for
// concurrent callers, so a leaked goroutine from a half-finished batch
// write would be a real bug, not test noise.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
