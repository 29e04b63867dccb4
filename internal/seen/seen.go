// Package seen implements a prefix-bucketed set of 64-bit key hashes, used
// by the staging builder as its O(1)-amortized duplicate check. Only the
// xxhash digests are stored and compared, with no byte-for-byte comparison
// afterwards: two distinct keys with equal digests count as duplicates. It
// is adapted from
// the teacher's bucketteer package, which buckets signature hashes by their
// first two bytes for the same reason: a map keyed on the full hash would
// work, but bucketing by prefix keeps each bucket's slice short and mirrors
// how bucketteer.Writer partitions its own hash lists.
package seen

import "github.com/cespare/xxhash/v2"

// Size selects the initial capacity of the set's bucket map. It does not
// change how many prefix buckets exist or how many hashes share one: both
// sizes bucket by the key's first two bytes.
type Size uint8

const (
	Small Size = iota
	Large
)

// Set records which keys have already been staged within a
// single key class (exact, head wildcard, or tail wildcard). It is not
// safe for concurrent use; the staging builder is single-threaded.
type Set struct {
	buckets map[uint16][]uint64
}

// New returns an empty Set sized for small or large expected key counts.
func New(size Size) *Set {
	initialCap := 256
	if size == Large {
		initialCap = 4096
	}
	return &Set{buckets: make(map[uint16][]uint64, initialCap)}
}

func prefixOf(key []byte) uint16 {
	switch len(key) {
	case 0:
		return 0
	case 1:
		return uint16(key[0]) << 8
	default:
		return uint16(key[0])<<8 | uint16(key[1])
	}
}

// Check reports whether key has already been marked seen.
func (s *Set) Check(key []byte) bool {
	h := xxhash.Sum64(key)
	for _, existing := range s.buckets[prefixOf(key)] {
		if existing == h {
			return true
		}
	}
	return false
}

// Mark records key as seen. Callers should call Check first; Mark does not
// itself check for duplicates.
func (s *Set) Mark(key []byte) {
	p := prefixOf(key)
	s.buckets[p] = append(s.buckets[p], xxhash.Sum64(key))
}

// Len returns the total number of hashes recorded across all buckets.
func (s *Set) Len() int {
	n := 0
	for _, b := range s.buckets {
		n += len(b)
	}
	return n
}
