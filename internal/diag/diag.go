// Package diag carries a small ordered key-value diagnostic set alongside
// each built Handle, so warnings and errors logged during a rebuild can be
// correlated across log lines. It is adapted from the teacher's indexmeta
// package, stripped of its CID/borsh on-disk framing: this structure has no
// wire format of its own, it is purely an in-memory tag set plus an
// optional debug byte dump for operator tooling.
package diag

import (
	"fmt"

	"github.com/gagliardetto/binary"
	"github.com/google/uuid"
)

// Entry is a single ordered key-value diagnostic tag.
type Entry struct {
	Key   string
	Value string
}

// Set is an ordered, append-only collection of diagnostic tags plus a
// build ID minted once per Handle build.
type Set struct {
	BuildID string
	entries []Entry
}

// New returns a Set tagged with name and a freshly minted build ID.
func New(name string) *Set {
	s := &Set{BuildID: uuid.NewString()}
	s.Put("name", name)
	s.Put("build_id", s.BuildID)
	return s
}

// Put appends or replaces the entry for key, preserving first-insertion
// order for keys that are being set for the first time.
func (s *Set) Put(key, value string) {
	for i, e := range s.entries {
		if e.Key == key {
			s.entries[i].Value = value
			return
		}
	}
	s.entries = append(s.entries, Entry{Key: key, Value: value})
}

// Get returns the value for key, if present.
func (s *Set) Get(key string) (string, bool) {
	for _, e := range s.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return "", false
}

// Entries returns the tags in insertion order.
func (s *Set) Entries() []Entry {
	return s.entries
}

func (s *Set) String() string {
	out := ""
	for i, e := range s.entries {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%s=%s", e.Key, e.Value)
	}
	return out
}

// Snapshot is the shape of the optional debug byte dump: a handful of
// build-time counters, not an index format. It exists purely for operator
// debug tooling built on top of this package, not for any wire protocol
// a Handle itself speaks.
type Snapshot struct {
	BuildID       string
	ExactBuckets  uint32
	HeadBuckets   uint32
	TailBuckets   uint32
	ArenaBytes    uint64
	WildcardDepth uint32
}

// Dump borsh-encodes snap. Kept as a thin wrapper so the gagliardetto/binary
// dependency has a concrete, exercised caller beyond the codec itself.
func Dump(snap Snapshot) ([]byte, error) {
	return binary.MarshalBorsh(&snap)
}

// Load decodes a Snapshot previously produced by Dump.
func Load(b []byte) (Snapshot, error) {
	var snap Snapshot
	err := binary.UnmarshalBorsh(&snap, b)
	return snap, err
}
