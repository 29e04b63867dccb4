package diag

import "testing"

func TestNewSetsNameAndBuildID(t *testing.T) {
	s := New("prod-vhosts")
	name, ok := s.Get("name")
	if !ok || name != "prod-vhosts" {
		t.Fatalf("Get(name) = %q, %v", name, ok)
	}
	if s.BuildID == "" {
		t.Fatal("BuildID should not be empty")
	}
	buildID, ok := s.Get("build_id")
	if !ok || buildID != s.BuildID {
		t.Fatalf("Get(build_id) = %q, want %q", buildID, s.BuildID)
	}
}

func TestPutReplacesExistingKey(t *testing.T) {
	s := New("x")
	s.Put("name", "y")
	if got, _ := s.Get("name"); got != "y" {
		t.Fatalf("Get(name) = %q, want y", got)
	}
	// replacing should not duplicate the entry
	count := 0
	for _, e := range s.Entries() {
		if e.Key == "name" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one name entry, got %d", count)
	}
}

func TestDumpLoadRoundTrip(t *testing.T) {
	snap := Snapshot{
		BuildID:       "abc",
		ExactBuckets:  7,
		HeadBuckets:   3,
		TailBuckets:   1,
		ArenaBytes:    4096,
		WildcardDepth: 2,
	}
	b, err := Dump(snap)
	if err != nil {
		t.Fatalf("Dump: %v", err)
	}
	got, err := Load(b)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != snap {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, snap)
	}
}
