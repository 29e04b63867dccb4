package vhostindex

import (
	"fmt"

	"github.com/rpcpool/vhostindex/internal/diag"
	"github.com/rpcpool/vhostindex/internal/metrics"
)

// Handle is the combined, frozen lookup structure spec.md describes: an
// exact flat table plus the two wildcard trees, built once by Build and
// safe for concurrent reads from any number of goroutines thereafter.
type Handle struct {
	exact        *Header
	headWildcard *WildcardTable
	tailWildcard *WildcardTable

	Diag *diag.Set
}

// Build compacts a Builder's staged keys into a frozen Handle. The
// Builder must not be reused afterward; Build does not copy its staged
// slices, it consumes them directly into the compacted arenas.
func Build(b *Builder, cfg Config) (*Handle, error) {
	cfg = cfg.normalized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	exact, err := compactElements("exact", b.exact, cfg)
	if err != nil {
		return nil, fmt.Errorf("compacting exact table: %w", err)
	}

	head, err := buildHeadWildcard(b.headWC, cfg)
	if err != nil {
		return nil, fmt.Errorf("composing head wildcard table: %w", err)
	}

	tail, err := buildTailWildcard(b.tailWC, cfg)
	if err != nil {
		return nil, fmt.Errorf("composing tail wildcard table: %w", err)
	}

	d := diag.New(cfg.Name)
	d.Put("exact_keys", fmt.Sprintf("%d", len(b.exact)))
	d.Put("head_wildcard_keys", fmt.Sprintf("%d", len(b.headWC)))
	d.Put("tail_wildcard_keys", fmt.Sprintf("%d", len(b.tailWC)))

	return &Handle{exact: exact, headWildcard: head, tailWildcard: tail, Diag: d}, nil
}

// lowered returns a lowercased copy of name together with its hash,
// folding in a single pass via FoldLower.
func lowered(name []byte) ([]byte, uint64) {
	dst := make([]byte, len(name))
	h := FoldLower(dst, name)
	return dst, h
}

// FindExact looks up name against the exact key class only. name need not
// be pre-lowercased.
func (h *Handle) FindExact(name []byte) (Value, bool) {
	lc, hash := lowered(name)
	v, ok := h.exact.find(hash, lc)
	recordLookup(EntryExact, ok)
	return Value(v), ok
}

// FindWildcardHead looks up name against the head-wildcard class only
// ("*.example.com", ".example.com"). name need not be pre-lowercased.
func (h *Handle) FindWildcardHead(name []byte) (Value, bool) {
	lc, _ := lowered(name)
	v, ok := findWildcardHead(h.headWildcard, lc)
	recordLookup(EntryWildcardHead, ok)
	return v, ok
}

// FindWildcardTail looks up name against the tail-wildcard class only
// ("www.example.*"). name need not be pre-lowercased.
func (h *Handle) FindWildcardTail(name []byte) (Value, bool) {
	lc, _ := lowered(name)
	v, ok := findWildcardTail(h.tailWildcard, lc)
	recordLookup(EntryWildcardTail, ok)
	return v, ok
}

// Find implements the combined lookup algorithm: exact first, then head
// wildcard, then tail wildcard, returning the entry point that resolved
// the query.
func (h *Handle) Find(name []byte) (Value, EntryPoint, bool) {
	lc, hash := lowered(name)

	if v, ok := h.exact.find(hash, lc); ok {
		recordLookup(EntryExact, true)
		return Value(v), EntryExact, true
	}
	if v, ok := findWildcardHead(h.headWildcard, lc); ok {
		recordLookup(EntryWildcardHead, true)
		return v, EntryWildcardHead, true
	}
	if v, ok := findWildcardTail(h.tailWildcard, lc); ok {
		recordLookup(EntryWildcardTail, true)
		return v, EntryWildcardTail, true
	}
	recordLookup(EntryNone, false)
	return 0, EntryNone, false
}

// DebugSnapshot captures a handful of build-time counters for operator
// debug tooling (cmd/vhostindex's inspect subcommand): bucket counts per
// class, one arena byte total summed over the exact table and the
// top-level table of each wildcard tree (nested wildcard tables are not
// counted), plus the deepest nesting level reached by either wildcard
// tree. It carries no wire format of its own; see
// internal/diag.Dump for the byte encoding used to persist one.
func (h *Handle) DebugSnapshot() diag.Snapshot {
	snap := diag.Snapshot{
		BuildID:      h.Diag.BuildID,
		ExactBuckets: uint32(h.exact.Size),
		ArenaBytes:   uint64(len(h.exact.Arena)),
	}
	if h.headWildcard != nil {
		snap.HeadBuckets = uint32(h.headWildcard.Size)
		snap.ArenaBytes += uint64(len(h.headWildcard.Arena))
		snap.WildcardDepth = max32(snap.WildcardDepth, wildcardDepth(h.headWildcard))
	}
	if h.tailWildcard != nil {
		snap.TailBuckets = uint32(h.tailWildcard.Size)
		snap.ArenaBytes += uint64(len(h.tailWildcard.Arena))
		snap.WildcardDepth = max32(snap.WildcardDepth, wildcardDepth(h.tailWildcard))
	}
	return snap
}

// wildcardDepth returns how many nested WildcardTable levels t's deepest
// branch reaches, counting t itself as depth 1.
func wildcardDepth(t *WildcardTable) uint32 {
	if t == nil {
		return 0
	}
	var deepest uint32
	for _, leaf := range t.Leaves {
		if leaf.child != nil {
			if d := wildcardDepth(leaf.child); d > deepest {
				deepest = d
			}
		}
	}
	return deepest + 1
}

func max32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func recordLookup(ep EntryPoint, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	metrics.LookupTotal.WithLabelValues(ep.String(), result).Inc()
}
