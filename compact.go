package vhostindex

import (
	"fmt"
	"log/slog"

	"github.com/rpcpool/vhostindex/internal/metrics"
	"github.com/rpcpool/vhostindex/internal/pipeline"
)

// stagedElement is a single name/value pair ready for compaction: its hash
// already computed (via Hash, over the lowercased canonical name) and its
// value already resolved to the raw uint64 that will land in the packed
// element's value slot. For the exact class this is the caller's Value;
// for a wildcard composer's parent-segment tables it is a 1-based index
// into that level's leaves.
type stagedElement struct {
	name  []byte
	hash  uint64
	value uint64
}

// compactElements runs the flat-table compactor's six steps (size search,
// bucket sizing, arena layout, fill, terminate, publish) over elements and
// returns the resulting frozen Header. class is a label used purely for
// metrics/log correlation ("exact", "head_wildcard", or "tail_wildcard";
// every recursion level of a composed wildcard tree shares its top-level
// class label).
func compactElements(class string, elements []stagedElement, cfg Config) (*Header, error) {
	cfg = cfg.normalized()

	if len(elements) == 0 {
		return &Header{Size: 1, Buckets: []int64{emptyBucket}}, nil
	}

	capacity := cfg.BucketSize - pointerWidth
	n := uint64(len(elements))

	var chosenSize uint64
	var dataBytes []uint64

	chain := pipeline.New()

	chain.Then("size_search", func() error {
		for _, e := range elements {
			if need := eltSize(len(e.name)) + pointerWidth; need > cfg.BucketSize {
				return fmt.Errorf("%w: element %q needs %d bytes (bucket_size %d)", ErrTooLarge, e.name, need, cfg.BucketSize)
			}
		}

		perEntryCost := capacity / (2 * pointerWidth)
		start := n / max64(perEntryCost, 1)
		if start < 1 {
			start = 1
		}
		if cfg.MaxSize > 10000 && n*100 < cfg.MaxSize {
			if cfg.MaxSize > 1000 {
				start = cfg.MaxSize - 1000
			}
			if start < 1 {
				start = 1
			}
		}

		found := false
		for s := start; s <= cfg.MaxSize; s++ {
			// Widened to uint64 from the 16-bit per-bucket counter this step
			// is modeled on: a bucket's byte total is checked against
			// capacity on every increment below, so there is no wrap to
			// rely on or guard against, and a plain uint64 avoids needing a
			// second overflow check when BucketSize is large.
			cnt := make([]uint64, s)
			ok := true
			for _, e := range elements {
				b := e.hash % s
				cnt[b] += eltSize(len(e.name))
				if cnt[b] > capacity {
					ok = false
					break
				}
			}
			if ok {
				chosenSize = s
				dataBytes = cnt
				found = true
				break
			}
		}
		if !found {
			metrics.SuboptimalLayouts.WithLabelValues(class).Inc()
			slog.Warn("vhostindex: suboptimal table layout, falling back to max_size",
				"class", class, "max_size", cfg.MaxSize, "elements", n)
			chosenSize = cfg.MaxSize
			dataBytes = make([]uint64, chosenSize)
			for _, e := range elements {
				b := e.hash % chosenSize
				dataBytes[b] += eltSize(len(e.name))
			}
		}
		metrics.BucketsChosen.WithLabelValues(class).Set(float64(chosenSize))
		return nil
	})

	var regionSize []uint64
	var arenaSize uint64

	chain.Then("bucket_sizing", func() error {
		regionSize = make([]uint64, chosenSize)
		limit := uint64(65536) - cfg.CacheLine
		for i, db := range dataBytes {
			if db == 0 {
				continue
			}
			total := db + pointerWidth
			if total > limit {
				return fmt.Errorf("%w: bucket %d would need %d bytes (limit %d)", ErrTooLarge, i, total, limit)
			}
			regionSize[i] = alignUp(total, cfg.CacheLine)
			arenaSize += regionSize[i]
		}
		return nil
	})

	var bucketOffset []int64
	var arena []byte

	chain.Then("arena_layout", func() error {
		if arenaSize > (1 << 34) {
			return fmt.Errorf("%w: requested arena of %d bytes", ErrOutOfMemory, arenaSize)
		}
		bucketOffset = make([]int64, chosenSize)
		var cursor uint64
		for i, rs := range regionSize {
			if rs == 0 {
				bucketOffset[i] = emptyBucket
				continue
			}
			bucketOffset[i] = int64(cursor)
			cursor += rs
		}
		arena = make([]byte, arenaSize+cfg.CacheLine)
		metrics.ArenaBytes.WithLabelValues(class).Set(float64(len(arena)))
		return nil
	})

	chain.Then("fill_and_terminate", func() error {
		cursor := make([]uint64, chosenSize)
		for i, off := range bucketOffset {
			if off != emptyBucket {
				cursor[i] = uint64(off)
			}
		}
		for _, e := range elements {
			b := e.hash % chosenSize
			adv := encodeElement(arena[cursor[b]:], e.value, e.name)
			cursor[b] += uint64(adv)
		}
		for i, rs := range regionSize {
			if rs == 0 {
				continue
			}
			writeTerminator(arena[cursor[i]:])
		}
		return nil
	})

	if err := chain.Err(); err != nil {
		return nil, err
	}

	return &Header{Size: chosenSize, Buckets: bucketOffset, Arena: arena}, nil
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
