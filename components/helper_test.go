package components

import (
	"testing"
)

func TestAdvisoryLockKey(t *testing.T) {
	// Test 1 - the key is deterministic so concurrent loads of the same table
	// contend for the same lock.
	k1 := AdvisoryLockKey("airpipe.load.listings")
	k2 := AdvisoryLockKey("airpipe.load.listings")
	if k1 != k2 {
		t.Fatalf("expected a stable key; got %v and %v", k1, k2)
	}
	// Test 2 - unrelated tables get unrelated keys.
	k3 := AdvisoryLockKey("airpipe.load.calendar")
	if k1 == k3 {
		t.Fatalf("expected distinct keys for distinct tables; got %v for both", k1)
	}
}
