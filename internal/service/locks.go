package service

import (
	"hash/fnv"
	"sync"
)

const lockStripes = 256

// sessionLocks serializes read-modify-write cycles per session inside one
// process. Sessions share stripes, so unrelated sessions may occasionally wait
// on each other.
type sessionLocks struct {
	stripes [lockStripes]sync.Mutex
}

func (l *sessionLocks) lock(sessionID string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(sessionID))
	m := &l.stripes[h.Sum32()%lockStripes]
	m.Lock()
	return m.Unlock
}
