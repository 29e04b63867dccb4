package vhostindex

import (
	"bytes"
)

// EntryPoint identifies which of a Handle's lookup paths produced a result,
// used for logging and for the combined Find's return value.
type EntryPoint uint8

const (
	EntryNone EntryPoint = iota
	EntryExact
	EntryWildcardHead
	EntryWildcardTail
)

func (e EntryPoint) String() string {
	switch e {
	case EntryExact:
		return "exact"
	case EntryWildcardHead:
		return "wildcard_head"
	case EntryWildcardTail:
		return "wildcard_tail"
	default:
		return "none"
	}
}

func lastDotSplit(name []byte) (segment, rest []byte, hasRest bool) {
	idx := bytes.LastIndexByte(name, '.')
	if idx < 0 {
		return name, nil, false
	}
	return name[idx+1:], name[:idx], true
}

func firstDotSplit(name []byte) (segment, rest []byte, hasDot bool) {
	idx := bytes.IndexByte(name, '.')
	if idx < 0 {
		return nil, nil, false
	}
	return name[:idx], name[idx+1:], true
}

// findWildcardHead implements find_wc_head: walk name from its last label
// toward its first, descending into the composed tree one tagged leaf at a
// time.
func findWildcardHead(t *WildcardTable, name []byte) (Value, bool) {
	if t == nil {
		return 0, false
	}
	segment, rest, hasRest := lastDotSplit(name)
	leafIdx, found := t.find(Hash(segment), segment)
	if !found {
		return t.Value, t.Value != 0
	}
	leaf := t.Leaves[leafIdx-1]
	switch leaf.tag {
	case tagPlain:
		return leaf.value, leaf.value != 0
	case tagPlainWildcardOnly:
		if !hasRest {
			return 0, false
		}
		return leaf.value, leaf.value != 0
	case tagChild, tagChildWildcardOnly:
		if !hasRest {
			if leaf.tag == tagChildWildcardOnly {
				return 0, false
			}
			return leaf.child.Value, leaf.child.Value != 0
		}
		if v, ok := findWildcardHead(leaf.child, rest); ok {
			return v, true
		}
		return leaf.child.Value, leaf.child.Value != 0
	}
	return 0, false
}

// findWildcardTail implements find_wc_tail: walk name from its first label
// toward its last, descending into the composed tree one tagged leaf at a
// time. Unlike the head variant, a name with no dot left is not looked up
// at all: at the top level that is a miss, and one level down the caller
// then falls back to that child's embedded value.
func findWildcardTail(t *WildcardTable, name []byte) (Value, bool) {
	if t == nil {
		return 0, false
	}
	segment, rest, hasDot := firstDotSplit(name)
	if !hasDot {
		return 0, false
	}
	leafIdx, found := t.find(Hash(segment), segment)
	if !found {
		return t.Value, t.Value != 0
	}
	leaf := t.Leaves[leafIdx-1]
	if leaf.tag == tagChild || leaf.tag == tagChildWildcardOnly {
		if v, ok := findWildcardTail(leaf.child, rest); ok {
			return v, true
		}
		return leaf.child.Value, leaf.child.Value != 0
	}
	return leaf.value, leaf.value != 0
}
