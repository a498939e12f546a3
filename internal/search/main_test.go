package search_test

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures the errgroup fan-out in Search doesn't leak a
// goroutine when one query token's candidate generation fails.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
