package vhostindex

import (
	"bytes"
	"encoding/binary"
)

// Header is a frozen flat hashtable: a bucket-pointer array over a single
// contiguous arena holding packed elements. It is the shape spec.md calls
// the "flat table" and is reused verbatim both for the three top-level key
// classes (exact, head wildcard, tail wildcard) and, one level further
// down, for every node of a composed wildcard tree (see WildcardTable),
// exactly as compactindexsized.Header is reused for every bucket
// regardless of what it ultimately indexes.
//
// A bucket slot holds -1 when empty, or the byte offset into Arena where
// that bucket's packed element chain begins.
type Header struct {
	Size    uint64
	Buckets []int64
	Arena   []byte
}

// emptyBucket marks a bucket slot with no elements.
const emptyBucket = -1

// eltSize returns the number of bytes a packed element with a name of the
// given length occupies: a pointer-width value slot, then a 16-bit length
// and the name bytes, padded so the next element starts at pointer-width
// alignment.
func eltSize(nameLen int) uint64 {
	return pointerWidth + alignUp(uint64(nameLen+2), pointerWidth)
}

// encodeElement writes a packed element at the front of dst and returns how
// many bytes it consumed. dst must have at least eltSize(len(name)) bytes.
// value must be non-zero; the caller is responsible for reserving zero for
// the terminator.
func encodeElement(dst []byte, value uint64, name []byte) int {
	binary.LittleEndian.PutUint64(dst[0:8], value)
	binary.LittleEndian.PutUint16(dst[8:10], uint16(len(name)))
	copy(dst[10:10+len(name)], name)
	return int(eltSize(len(name)))
}

// writeTerminator writes the pointer-width null value slot that marks the
// end of a bucket's element chain.
func writeTerminator(dst []byte) int {
	binary.LittleEndian.PutUint64(dst[0:8], 0)
	return pointerWidth
}

// decodeElement reads one packed element from the front of buf. ok is false
// when the element is the terminator (value slot zero), in which case name
// and advance are meaningless.
func decodeElement(buf []byte) (value uint64, name []byte, advance int, ok bool) {
	value = binary.LittleEndian.Uint64(buf[0:8])
	if value == 0 {
		return 0, nil, 0, false
	}
	l := binary.LittleEndian.Uint16(buf[8:10])
	name = buf[10 : 10+int(l)]
	advance = int(eltSize(int(l)))
	return value, name, advance, true
}

// find walks the bucket chain for hash, comparing stored names against
// name byte-for-byte, and returns the stored value (or 0, false if no
// element matches or the bucket is empty).
func (h *Header) find(hash uint64, name []byte) (uint64, bool) {
	if h == nil || h.Size == 0 {
		return 0, false
	}
	b := h.Buckets[hash%h.Size]
	if b == emptyBucket {
		return 0, false
	}
	buf := h.Arena[b:]
	off := 0
	for {
		value, stored, advance, ok := decodeElement(buf[off:])
		if !ok {
			return 0, false
		}
		if bytes.Equal(stored, name) {
			return value, true
		}
		off += advance
	}
}
