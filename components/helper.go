package components

import (
	"hash/fnv"
)

// AdvisoryLockKey hashes name into the signed 64-bit key space used by
// pg_advisory_lock so unrelated tables never share a lock.
func AdvisoryLockKey(name string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(name))
	return int64(h.Sum64())
}
