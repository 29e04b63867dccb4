package vhostindex

// Hash computes the streaming multiply-add recurrence h = h*31 + b over
// every byte of b, starting at h = 0. This is the only hash used to place
// and compare entries in a frozen table: its output must be reproduced
// exactly by any reader of a compacted Handle, so it is fixed, not
// pluggable, regardless of what other hash functions this package uses
// internally during staging.
func Hash(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h = h*31 + uint64(c)
	}
	return h
}

// asciiLower is the concrete instantiation of the lowercase translation
// table: a 256-entry, ASCII-aware lookup used by HashFold and FoldLower. A
// reimplementation is free to swap this for a locale-aware table; this one
// only folds 'A'-'Z'.
var asciiLower = func() [256]byte {
	var t [256]byte
	for i := range t {
		t[i] = byte(i)
	}
	for c := byte('A'); c <= 'Z'; c++ {
		t[c] = c + ('a' - 'A')
	}
	return t
}()

// HashFold computes Hash over the lowercased form of b without allocating.
func HashFold(b []byte) uint64 {
	var h uint64
	for _, c := range b {
		h = h*31 + uint64(asciiLower[c])
	}
	return h
}

// FoldLower lowercases src into dst (which must have length >= len(src))
// and returns Hash of the lowercased bytes, computed in the same pass. This
// is the bulk routine staging uses to both canonicalize a raw key and seed
// its hash in one scan.
func FoldLower(dst, src []byte) uint64 {
	var h uint64
	for i, c := range src {
		lc := asciiLower[c]
		dst[i] = lc
		h = h*31 + uint64(lc)
	}
	return h
}
