package vhostindex

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rpcpool/vhostindex/internal/seen"
	"github.com/valyala/bytebufferpool"
)

type keyClass uint8

const (
	classExact keyClass = iota
	classHeadWildcard
	classTailWildcard
)

// classify determines which of the three key classes raw belongs to, per
// the wildcard placement rules: a leading '.' or "*." marks a head
// wildcard, a trailing ".*" marks a tail wildcard, anything else with a
// stray '*' is malformed, and a key with none of these is exact. remainder
// is the domain portion with the classification-specific affix stripped
// (not yet lowercased or canonicalized).
func classify(raw []byte) (class keyClass, wildcardOnly bool, remainder []byte, ok bool) {
	if len(raw) == 0 {
		return 0, false, nil, false
	}
	if bytes.IndexByte(raw, 0) >= 0 {
		return 0, false, nil, false
	}
	if bytes.Contains(raw, []byte("..")) {
		return 0, false, nil, false
	}
	starCount := bytes.Count(raw, []byte("*"))
	if starCount > 1 {
		return 0, false, nil, false
	}

	switch {
	case raw[0] == '.':
		if starCount > 0 {
			return 0, false, nil, false
		}
		rem := raw[1:]
		if len(rem) == 0 {
			return 0, false, nil, false
		}
		return classHeadWildcard, false, rem, true

	case len(raw) >= 2 && raw[0] == '*' && raw[1] == '.':
		rem := raw[2:]
		if len(rem) == 0 {
			return 0, false, nil, false
		}
		return classHeadWildcard, true, rem, true

	case len(raw) >= 2 && raw[len(raw)-2] == '.' && raw[len(raw)-1] == '*':
		rem := raw[:len(raw)-2]
		if len(rem) == 0 {
			return 0, false, nil, false
		}
		return classTailWildcard, false, rem, true

	case starCount > 0:
		return 0, false, nil, false

	default:
		return classExact, false, raw, true
	}
}

// canonicalKey is a staged wildcard key in its canonical composer form:
// for a head wildcard, the lowercased domain with dot segments reversed
// ("*.example.com" -> "com.example"); for a tail wildcard, the lowercased
// domain left as-is ("www.example.*" -> "www.example"). wildcardOnly is
// true only for head wildcards that originated from "*." (no bare literal
// match allowed); tail wildcards never set it.
type canonicalKey struct {
	suffix       string
	wildcardOnly bool
	value        Value
}

func reverseDotJoin(b []byte) string {
	parts := strings.Split(string(b), ".")
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, ".")
}

// Builder accumulates keys across the three classes spec.md defines, ahead
// of a call to Build. It is not safe for concurrent use; feed it from a
// single goroutine during a reload, as the teacher's own disk-backed
// builders (compactindexsized.Builder) are used.
type Builder struct {
	cfg Config

	exact  []stagedElement
	headWC []canonicalKey
	tailWC []canonicalKey

	seenExact *seen.Set
	seenHead  *seen.Set
	seenTail  *seen.Set
}

// NewBuilder returns an empty Builder configured by cfg.
func NewBuilder(cfg Config) *Builder {
	size := seen.Small
	if cfg.StagingType == StagingLarge {
		size = seen.Large
	}
	return &Builder{
		cfg:       cfg.normalized(),
		seenExact: seen.New(size),
		seenHead:  seen.New(size),
		seenTail:  seen.New(size),
	}
}

// AddKey classifies, canonicalizes, and stages raw with the given value.
// It returns StatusOK on success, StatusDeclined if raw is malformed, or a
// wildcard and flags.WildcardKeys is not set (wildcard acceptance is
// opt-in, not opt-out: a bare Flags{} hard-declines any head or tail
// wildcard), or StatusBusy if raw's lowercased, affix-stripped form
// collides with a key already staged in the same class (an exact key and a
// "."-prefixed head wildcard for the same domain also collide with each
// other). The returned error carries the reason
// even on a non-OK status, for logging.
func (b *Builder) AddKey(raw []byte, value Value, flags Flags) (Status, error) {
	if value == 0 {
		return StatusDeclined, fmt.Errorf("key %q: %w", raw, ErrZeroValue)
	}

	class, wildcardOnly, remainder, ok := classify(raw)
	if !ok {
		return StatusDeclined, fmt.Errorf("key %q: %w", raw, ErrMalformedKey)
	}
	if class != classExact && !flags.WildcardKeys {
		return StatusDeclined, fmt.Errorf("key %q: %w", raw, ErrWildcardRejected)
	}

	var lower []byte
	var hash uint64
	if flags.ReadonlyKey {
		lower = append([]byte(nil), remainder...)
		hash = Hash(lower)
	} else {
		lowerBuf := bytebufferpool.Get()
		defer bytebufferpool.Put(lowerBuf)
		lowerBuf.Reset()
		lowerBuf.B = append(lowerBuf.B, make([]byte, len(remainder))...)
		hash = FoldLower(lowerBuf.B, remainder)
		lower = append([]byte(nil), lowerBuf.B...)
	}

	switch class {
	case classExact:
		if b.seenExact.Check(lower) {
			return StatusBusy, fmt.Errorf("key %q: %w", raw, ErrDuplicateKey)
		}
		b.seenExact.Mark(lower)
		b.exact = append(b.exact, stagedElement{name: lower, hash: hash, value: uint64(value)})
		return StatusOK, nil

	case classHeadWildcard:
		if b.seenHead.Check(lower) {
			return StatusBusy, fmt.Errorf("key %q: %w", raw, ErrDuplicateKey)
		}
		if !wildcardOnly && b.seenExact.Check(lower) {
			return StatusBusy, fmt.Errorf("key %q: %w", raw, ErrDuplicateKey)
		}
		b.seenHead.Mark(lower)
		if !wildcardOnly {
			b.seenExact.Mark(lower)
		}
		b.headWC = append(b.headWC, canonicalKey{
			suffix:       reverseDotJoin(lower),
			wildcardOnly: wildcardOnly,
			value:        value,
		})
		return StatusOK, nil

	case classTailWildcard:
		if b.seenTail.Check(lower) {
			return StatusBusy, fmt.Errorf("key %q: %w", raw, ErrDuplicateKey)
		}
		b.seenTail.Mark(lower)
		b.tailWC = append(b.tailWC, canonicalKey{
			suffix: string(lower),
			value:  value,
		})
		return StatusOK, nil
	}

	panic("vhostindex: unreachable key class")
}

// Len reports how many keys have been staged per class so far.
func (b *Builder) Len() (exact, headWildcard, tailWildcard int) {
	return len(b.exact), len(b.headWC), len(b.tailWC)
}
