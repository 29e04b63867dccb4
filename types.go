package vhostindex

// Value is the payload stored per key: a machine-word-sized handle the
// caller interprets (an index into the caller's own configuration slice, a
// small integer ID, or a uintptr obtained from unsafe.Pointer if the caller
// truly wants pointer semantics). The zero Value is reserved: it marks an
// empty bucket slot and the terminator of a packed element chain, so it can
// never be returned from a successful lookup. Staging an explicit zero
// Value fails with ErrZeroValue.
type Value uint64

// StagingType selects the initial capacity of the prefix-bucketed
// collision-detection set used while staging keys. StagingLarge presizes
// the set for larger key sets; both types bucket keys by the same two-byte
// prefix, so the number of buckets does not depend on it.
type StagingType uint8

const (
	StagingSmall StagingType = iota
	StagingLarge
)

// Flags controls per-key behavior of Builder.AddKey, mirroring the two
// flags the structure this package follows accepts per key.
type Flags struct {
	// WildcardKeys must be set for AddKey to accept a key that classifies
	// as a head or tail wildcard. Absent this flag, any such key is a hard
	// error (ErrWildcardRejected): the caller must opt in to wildcard
	// classification key by key, exact keys are always accepted regardless
	// of this flag.
	WildcardKeys bool

	// ReadonlyKey asserts raw is already lowercase, skipping FoldLower's
	// case-folding pass over it. AddKey never mutates the caller's raw
	// slice either way — it always stages into a freshly copied buffer —
	// so the "read-only" half of the original contract is moot in this
	// port; ReadonlyKey exists solely to skip redundant folding work when
	// the caller already guarantees lowercase input.
	ReadonlyKey bool
}

// Status reports the outcome of a single Builder.AddKey call.
type Status uint8

const (
	// StatusOK means the key was classified, canonicalized, and staged.
	StatusOK Status = iota
	// StatusBusy means the key collided with a previously staged key in
	// the same class, or an exact key and a "."-prefixed head wildcard
	// named the same domain; the key was not staged.
	StatusBusy
	// StatusDeclined means the key failed classification (malformed, or a
	// wildcard when wildcards are rejected); the key was not staged.
	StatusDeclined
)

// pointerWidth is the width, in bytes, of the value slot and the element
// length/padding arithmetic in a packed element. The layout assumes a
// 64-bit host; this matches every deployment target of the teacher's own
// on-disk formats (compactindexsized, bucketteer), which fix the same
// width for their entry strides.
const pointerWidth = 8

// defaultCacheLine is the bucket byte-granularity rounding unit used by the
// compactor's arena layout step when Config.CacheLine is left at zero.
const defaultCacheLine = 64

func alignUp(n, a uint64) uint64 {
	return (n + a - 1) / a * a
}
