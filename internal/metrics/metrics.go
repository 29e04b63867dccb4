// Package metrics exposes the Prometheus counters and gauges emitted during
// table builds and lookups. It is adapted from the teacher's metrics
// package: promauto-registered collectors against the default registry,
// one file, grouped by subsystem.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BucketsChosen records the bucket count the size-search step settled
	// on for the most recently compacted table, labeled by class.
	BucketsChosen = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vhostindex_buckets_chosen",
		Help: "Bucket count chosen by the flat-table compactor's size search, by key class.",
	}, []string{"class"})

	// ArenaBytes records the arena size, in bytes, of the most recently
	// compacted table, labeled by class.
	ArenaBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "vhostindex_arena_bytes",
		Help: "Arena size in bytes of the most recently compacted table, by key class.",
	}, []string{"class"})

	// SuboptimalLayouts counts compactions that exhausted MaxSize during
	// the size search and fell back to the suboptimal_layout warning path.
	SuboptimalLayouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vhostindex_suboptimal_layouts_total",
		Help: "Count of table compactions that could not find a bucket count honoring bucket_size within max_size.",
	}, []string{"class"})

	// LookupTotal counts Find* calls, labeled by entry point and whether
	// the lookup hit or missed.
	LookupTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vhostindex_lookup_total",
		Help: "Count of lookups against a Handle, by entry point and result.",
	}, []string{"entry_point", "result"})
)
