// Package vhostindex is an immutable, compile-once string-to-value lookup
// structure with first-class support for two-sided wildcard patterns
// ("*.example.com", ".example.com", "www.example.*"). It is meant to sit at
// the name-resolution core of a web server or proxy: build one Handle per
// configuration reload from a set of classified keys, then let any number
// of goroutines call its Find* methods without synchronization.
//
// # Design
//
// A Handle is built in two phases. During staging (see Builder), callers
// submit raw keys one at a time; the builder classifies each as an exact
// key, a head wildcard ("*.example.com" / ".example.com"), or a tail
// wildcard ("www.example.*"), rejecting malformed input and duplicates
// along the way. Once staging is complete, Build compacts each of the
// three key classes into flat hashtables (see Header) and composes the two
// wildcard classes into trees of nested tables linked by tagged leaves (see
// WildcardTable), cache-line-aware and laid out in a single contiguous
// arena per table.
//
// Once built, a Handle is frozen: FindExact, FindWildcardHead,
// FindWildcardTail, and the combined Find are pure reads over immutable
// memory and carry no locks.
//
// This package does not implement a memory pool, a lowercase table (beyond
// the concrete ASCII table it ships), a logging sink, or a dynamic array —
// those are treated as external collaborators per the design this package
// follows; Go's garbage-collected slices and log/slog stand in for them
// directly.
package vhostindex
