package fingerprint

import (
	"sync"
	"sync/atomic"
)

// Tunables.
const (
	NumOfShards = 64
	shardMask   = NumOfShards - 1
)

// Set is an append-only set of fingerprints safe for concurrent use.
// A fingerprint always lands in the same shard, so inserts of equal fingerprints
// are serialized by that shard's mutex.
type Set struct {
	len    int64 // total number of fingerprints (atomic)
	shards [NumOfShards]shard
}

type shard struct {
	sync.Mutex
	// hash -> fingerprints sharing it (almost always one)
	buckets map[uint64][]Fingerprint
	_       [48]byte // cacheline padding
}

func NewSet() *Set {
	s := &Set{}
	for i := range s.shards {
		s.shards[i].buckets = make(map[uint64][]Fingerprint)
	}
	return s
}

// Insert adds fp and reports whether it was absent.
// Of several goroutines inserting equal fingerprints exactly one observes true.
func (s *Set) Insert(fp Fingerprint) (inserted bool) {
	h := fp.Hash()
	sh := &s.shards[h&shardMask]

	sh.Lock()
	defer sh.Unlock()

	bucket := sh.buckets[h]
	for _, existing := range bucket {
		if existing.Equal(fp) {
			return false
		}
	}
	sh.buckets[h] = append(bucket, fp)
	atomic.AddInt64(&s.len, 1)

	return true
}

func (s *Set) Contains(fp Fingerprint) bool {
	h := fp.Hash()
	sh := &s.shards[h&shardMask]

	sh.Lock()
	defer sh.Unlock()

	for _, existing := range sh.buckets[h] {
		if existing.Equal(fp) {
			return true
		}
	}
	return false
}

func (s *Set) Len() int64 {
	return atomic.LoadInt64(&s.len)
}
