package vhostindex

import (
	"sort"
	"strings"
)

// taggedLeaf is the payload attached to one parent-segment entry in a
// WildcardTable: either a plain value (optionally restricted to
// wildcard-only matches) or a pointer to a deeper WildcardTable. spec.md
// describes this as two tag bits stolen from a pointer's low bits; this
// package instead follows the small tagged-variant record alternative it
// sanctions, at the cost of one extra word per leaf, since Go gives no
// portable way to guarantee alignment on an arbitrary caller Value.
type taggedLeaf struct {
	tag   uint8 // 0: plain; 1: plain, wildcard-only; 2: child; 3: child, wildcard-only
	value Value
	child *WildcardTable
}

const (
	tagPlain             = 0
	tagPlainWildcardOnly = 1
	tagChild             = 2
	tagChildWildcardOnly = 3
)

// WildcardTable is a flat Header plus the value for the prefix that
// terminates exactly at this node (spec.md's "wildcard table": a flat
// table whose header prepends a single value field). Header's packed
// elements store, per segment, a 1-based index into Leaves; 0 stays
// reserved as Header's own terminator sentinel, which is why leaf indices
// are 1-based rather than 0-based.
type WildcardTable struct {
	Header
	Value  Value
	Leaves []taggedLeaf
}

// wcMember is one canonical key still being threaded through the
// recursive composer: suffix is what remains of its canonical form after
// all segments consumed by ancestor recursions have been stripped.
type wcMember struct {
	suffix       string
	wildcardOnly bool
	value        Value
}

func splitFirstSegment(suffix string) (seg, rest string, hasRest bool) {
	if idx := strings.IndexByte(suffix, '.'); idx >= 0 {
		return suffix[:idx], suffix[idx+1:], true
	}
	return suffix, "", false
}

// composeWildcard recursively partitions members by their leading
// dot-segment and compacts one WildcardTable per recursion level, the same
// shape for both head and tail canonical forms (head members walk the
// reversed-label string top-down; tail members walk the natural string
// left-to-right; the partitioning code does not care which). literalValue
// is the value that terminates exactly at this node's own prefix (0 if
// none), supplied by the caller that is recursing into this level.
func composeWildcard(class string, members []wcMember, literalValue Value, cfg Config) (*WildcardTable, error) {
	groups := make(map[string][]wcMember)
	var segs []string
	for _, m := range members {
		seg, rest, hasRest := splitFirstSegment(m.suffix)
		if _, ok := groups[seg]; !ok {
			segs = append(segs, seg)
		}
		groups[seg] = append(groups[seg], wcMember{suffix: rest, wildcardOnly: m.wildcardOnly, value: m.value})
		_ = hasRest
	}
	sort.Strings(segs)

	var parents []stagedElement
	var leaves []taggedLeaf

	for _, seg := range segs {
		var literal *wcMember
		var subInput []wcMember
		for _, m := range groups[seg] {
			if m.suffix == "" {
				mm := m
				literal = &mm
			} else {
				subInput = append(subInput, m)
			}
		}

		var leaf taggedLeaf
		if len(subInput) > 0 {
			childLiteral := Value(0)
			tag := uint8(tagChild)
			if literal != nil {
				childLiteral = literal.value
				if literal.wildcardOnly {
					tag = tagChildWildcardOnly
				}
			}
			child, err := composeWildcard(class, subInput, childLiteral, cfg)
			if err != nil {
				return nil, err
			}
			leaf = taggedLeaf{tag: tag, child: child}
		} else {
			// literal must be non-nil: staging-time duplicate detection
			// guarantees at most one member fully terminates at this
			// segment with no deeper members in the group.
			tag := uint8(tagPlain)
			if literal.wildcardOnly {
				tag = tagPlainWildcardOnly
			}
			leaf = taggedLeaf{tag: tag, value: literal.value}
		}

		leaves = append(leaves, leaf)
		segBytes := []byte(seg)
		parents = append(parents, stagedElement{
			name:  segBytes,
			hash:  Hash(segBytes),
			value: uint64(len(leaves)), // 1-based
		})
	}

	header, err := compactElements(class, parents, cfg)
	if err != nil {
		return nil, err
	}
	return &WildcardTable{Header: *header, Value: literalValue, Leaves: leaves}, nil
}

// buildHeadWildcard composes the head-wildcard tree from staged canonical
// keys, or returns nil if there are none.
func buildHeadWildcard(keys []canonicalKey, cfg Config) (*WildcardTable, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	members := make([]wcMember, len(keys))
	for i, k := range keys {
		members[i] = wcMember{suffix: k.suffix, wildcardOnly: k.wildcardOnly, value: k.value}
	}
	return composeWildcard("head_wildcard", members, 0, cfg)
}

// buildTailWildcard composes the tail-wildcard tree from staged canonical
// keys, or returns nil if there are none.
func buildTailWildcard(keys []canonicalKey, cfg Config) (*WildcardTable, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	members := make([]wcMember, len(keys))
	for i, k := range keys {
		members[i] = wcMember{suffix: k.suffix, wildcardOnly: false, value: k.value}
	}
	return composeWildcard("tail_wildcard", members, 0, cfg)
}
