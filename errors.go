package vhostindex

import "errors"

// Sentinel errors returned during staging and compaction. Callers should
// compare against these with errors.Is; wrapped context is always attached
// via fmt.Errorf("...: %w", err).
var (
	// ErrMalformedKey is returned when a raw key fails classification: it is
	// empty, contains an embedded NUL or a double dot, carries more than one
	// '*', or places its single '*' somewhere other than a recognized
	// wildcard position.
	ErrMalformedKey = errors.New("vhostindex: malformed key")

	// ErrDuplicateKey is returned when a key, after wildcard-class-specific
	// affix stripping and lowercasing, collides with a key already staged
	// in the same class, or when an exact key and a "."-prefixed head
	// wildcard name the same domain (in either staging order).
	ErrDuplicateKey = errors.New("vhostindex: duplicate key")

	// ErrWildcardRejected is returned when a key classifies as a wildcard
	// but the Flags passed to that AddKey call do not set WildcardKeys.
	ErrWildcardRejected = errors.New("vhostindex: wildcard keys not accepted")

	// ErrZeroValue is returned when a caller attempts to stage a key with
	// the zero Value. The zero value is reserved to mark an empty bucket
	// slot and the terminator of a packed element chain, exactly as a null
	// pointer is reserved in the C structure this package's layout follows;
	// it can never be a valid lookup result.
	ErrZeroValue = errors.New("vhostindex: value must be non-zero")

	// ErrTooLarge is returned by the compactor when a single packed element
	// plus its bucket terminator exceeds Config.BucketSize, or when a bucket
	// at the chosen bucket count would need more than 65536 minus
	// Config.CacheLine bytes. Exhausting Config.MaxSize without every
	// bucket fitting BucketSize is not an error: the compactor logs a
	// warning and builds with MaxSize buckets.
	ErrTooLarge = errors.New("vhostindex: key set does not fit within bucket_size at max_size")

	// ErrOutOfMemory is returned when the arena required to hold a
	// compacted table would exceed what this process is willing to
	// allocate.
	ErrOutOfMemory = errors.New("vhostindex: arena allocation too large")
)
