package vhostindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarioExactCaseInsensitivity covers property 1 (case-insensitive
// exact matching) and the tight bucket/size constraints a small deployment
// might use.
func TestScenarioExactCaseInsensitivity(t *testing.T) {
	cfg := DefaultConfig("scenario-a")
	cfg.BucketSize = 64
	cfg.MaxSize = 7

	b := NewBuilder(cfg)
	for k, v := range map[string]Value{
		"Example.COM":     0x1,
		"www.example.com": 0x2,
	} {
		status, err := b.AddKey([]byte(k), v, Flags{})
		require.Equal(t, StatusOK, status, "%v", err)
	}
	h, err := Build(b, cfg)
	require.NoError(t, err)

	v, ok := h.FindExact([]byte("example.com"))
	require.True(t, ok)
	require.EqualValues(t, 0x1, v)

	v, ok = h.FindExact([]byte("WWW.EXAMPLE.COM"))
	require.True(t, ok)
	require.EqualValues(t, 0x2, v)
}

// TestScenarioHeadWildcardLiteralAllowed covers the ".example.com" form:
// matches the bare domain and every depth of subdomain beneath it.
func TestScenarioHeadWildcardLiteralAllowed(t *testing.T) {
	h := buildHandle(t, map[string]Value{".example.com": 0xA})
	for _, host := range []string{"example.com", "a.example.com", "deep.a.example.com"} {
		v, ok := h.Find([]byte(host))
		require.True(t, ok, host)
		require.EqualValues(t, 0xA, v, host)
	}
	_, _, ok := h.Find([]byte("example.org"))
	require.False(t, ok)
}

// TestScenarioHeadWildcardOnly covers the "*.example.com" form: matches
// any subdomain but never the bare domain itself.
func TestScenarioHeadWildcardOnly(t *testing.T) {
	h := buildHandle(t, map[string]Value{"*.example.com": 0xB})
	_, _, ok := h.Find([]byte("example.com"))
	require.False(t, ok)
	v, _, ok := h.Find([]byte("a.example.com"))
	require.True(t, ok)
	require.EqualValues(t, 0xB, v)
}

// TestScenarioTailWildcard covers "www.example.*": matches www.example
// plus any suffix, but not the bare prefix with nothing following.
func TestScenarioTailWildcard(t *testing.T) {
	h := buildHandle(t, map[string]Value{"www.example.*": 0xC})
	for _, host := range []string{"www.example.com", "www.example.co.uk"} {
		v, _, ok := h.Find([]byte(host))
		require.True(t, ok, host)
		require.EqualValues(t, 0xC, v, host)
	}
	_, _, ok := h.Find([]byte("www.example"))
	require.False(t, ok)
}

// TestScenarioCrossClassDuplicate covers the collision rule: an exact key
// and a head wildcard whose literal matches it are rejected as duplicates
// regardless of staging order.
func TestScenarioCrossClassDuplicate(t *testing.T) {
	b := NewBuilder(DefaultConfig("scenario-e"))
	status, err := b.AddKey([]byte("example.com"), 1, Flags{})
	require.Equal(t, StatusOK, status)
	require.NoError(t, err)

	status, err = b.AddKey([]byte(".example.com"), 2, Flags{WildcardKeys: true})
	require.Equal(t, StatusBusy, status)
	require.ErrorIs(t, err, ErrDuplicateKey)

	b2 := NewBuilder(DefaultConfig("scenario-e-rev"))
	status, err = b2.AddKey([]byte(".example.com"), 2, Flags{WildcardKeys: true})
	require.Equal(t, StatusOK, status, "%v", err)
	status, err = b2.AddKey([]byte("example.com"), 1, Flags{})
	require.Equal(t, StatusBusy, status)
	require.ErrorIs(t, err, ErrDuplicateKey)
}

// TestScenarioCombinedPrecedence covers the combined lookup order: exact,
// then head wildcard, then tail wildcard.
func TestScenarioCombinedPrecedence(t *testing.T) {
	h := buildHandle(t, map[string]Value{
		"a.example.com": 1,
		"*.example.com": 2,
		"a.example.*":   3,
	})

	v, ep, ok := h.Find([]byte("a.example.com"))
	require.True(t, ok)
	require.Equal(t, EntryExact, ep)
	require.EqualValues(t, 1, v)

	v, ep, ok = h.Find([]byte("b.example.com"))
	require.True(t, ok)
	require.Equal(t, EntryWildcardHead, ep)
	require.EqualValues(t, 2, v)

	v, ep, ok = h.Find([]byte("a.example.net"))
	require.True(t, ok)
	require.Equal(t, EntryWildcardTail, ep)
	require.EqualValues(t, 3, v)
}

// TestPropertyFrozenTableIdempotence covers property 7: repeated lookups
// against a built Handle never mutate its backing arenas.
func TestPropertyFrozenTableIdempotence(t *testing.T) {
	h := buildHandle(t, map[string]Value{
		"example.com":   1,
		"*.example.com": 2,
		"www.example.*": 3,
	})

	snapshot := func() []byte {
		var out []byte
		out = append(out, h.exact.Arena...)
		if h.headWildcard != nil {
			out = append(out, h.headWildcard.Arena...)
		}
		if h.tailWildcard != nil {
			out = append(out, h.tailWildcard.Arena...)
		}
		return out
	}

	before := snapshot()
	for i := 0; i < 100; i++ {
		h.Find([]byte("a.example.com"))
		h.Find([]byte("example.com"))
		h.Find([]byte("www.example.org"))
		h.Find([]byte("nope.invalid"))
	}
	require.Equal(t, before, snapshot())
}

// TestHandleDebugSnapshot covers Handle.DebugSnapshot: bucket counts and
// arena bytes reflect all three compacted classes, and wildcard depth
// reflects the deepest composed tree.
func TestHandleDebugSnapshot(t *testing.T) {
	h := buildHandle(t, map[string]Value{
		"example.org":     1,
		"*.a.example.com": 2,
		"*.b.example.com": 3,
		".example.com":    4,
		"www.example.*":   5,
	})

	snap := h.DebugSnapshot()
	require.Equal(t, h.Diag.BuildID, snap.BuildID)
	require.True(t, snap.ExactBuckets > 0)
	require.True(t, snap.HeadBuckets > 0)
	require.True(t, snap.TailBuckets > 0)
	require.True(t, snap.ArenaBytes > 0)
	// The head wildcard tree composes one WildcardTable per label of
	// "a.example.com" / "b.example.com" ("com", then "example", then
	// "a"/"b"), so it nests 3 levels deep.
	require.EqualValues(t, 3, snap.WildcardDepth)
}

// TestPropertyRejectsMalformedKeys covers property 2: structurally invalid
// keys are declined, never silently accepted.
func TestPropertyRejectsMalformedKeys(t *testing.T) {
	b := NewBuilder(DefaultConfig("malformed"))
	for _, raw := range []string{"", ".", "*", "*.", ".*", "a..b", "a*b", "a\x00b", "a*.b*.c"} {
		status, err := b.AddKey([]byte(raw), 1, Flags{})
		require.Equal(t, StatusDeclined, status, "key %q", raw)
		require.ErrorIs(t, err, ErrMalformedKey, "key %q", raw)
	}
}
