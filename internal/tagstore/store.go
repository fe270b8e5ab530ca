// Package tagstore implements the symbolic tag table: a fixed set of
// named DINT tags whose values are replaced with a fresh pseudo-random
// reading on every read.
package tagstore

import (
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// DataTypeDINT is the CIP type code carried alongside a tag's value.
const DataTypeDINT = 0x00C4

// MinValue and MaxValue bound the pseudo-random readings this store
// produces.
const (
	MinValue int32 = -1_000_000
	MaxValue int32 = 1_000_000
)

// Tag is one named, volatile DINT value.
type Tag struct {
	Name               string
	PositionalAddress  string
	mu                 sync.Mutex
	value              int32
	lastReadAt         time.Time
}

// Store holds an immutable set of tags, constructed once at startup.
type Store struct {
	tags      []*Tag
	byName    map[string]*Tag
	byAddress map[string]*Tag

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New builds a store of count tags, named Sensor1A, Sensor2A, ... and
// addressed Tag_1, Tag_2, ..., seeded from seed for reproducible
// pseudo-random readings in tests.
func New(count int, seed int64) *Store {
	s := &Store{
		byName:    make(map[string]*Tag, count),
		byAddress: make(map[string]*Tag, count),
		rng:       rand.New(rand.NewSource(seed)),
	}
	for i := 1; i <= count; i++ {
		t := &Tag{
			Name:              fmt.Sprintf("Sensor%dA", i),
			PositionalAddress: fmt.Sprintf("Tag_%d", i),
		}
		s.tags = append(s.tags, t)
		s.byName[t.Name] = t
		s.byAddress[t.PositionalAddress] = t
	}
	return s
}

// Len returns the number of tags in the store.
func (s *Store) Len() int { return len(s.tags) }

// Resolve looks a tag up by, in order: exact name, positional address,
// then a trailing decimal index parsed out of the query as a 1-based
// position in the tag list. This mirrors the best-effort resolution
// order a Read_Tag request is allowed to use.
func (s *Store) Resolve(query string) (*Tag, bool) {
	if query == "" {
		return nil, false
	}
	if t, ok := s.byName[query]; ok {
		return t, true
	}
	if t, ok := s.byAddress[query]; ok {
		return t, true
	}
	if idx, ok := trailingIndex(query); ok && idx >= 1 && idx <= len(s.tags) {
		return s.tags[idx-1], true
	}
	return nil, false
}

// Read refreshes tag's value with a fresh pseudo-random reading and
// returns it together with the read timestamp, appearing atomic to
// the caller.
func (s *Store) Read(tag *Tag, now time.Time) (int32, time.Time) {
	s.rngMu.Lock()
	v := MinValue + int32(s.rng.Int63n(int64(MaxValue)-int64(MinValue)+1))
	s.rngMu.Unlock()

	tag.mu.Lock()
	tag.value = v
	tag.lastReadAt = now
	tag.mu.Unlock()
	return v, now
}

func trailingIndex(query string) (int, bool) {
	end := len(query)
	start := end
	for start > 0 && query[start-1] >= '0' && query[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, false
	}
	n := 0
	for _, c := range query[start:end] {
		n = n*10 + int(c-'0')
	}
	return n, true
}
