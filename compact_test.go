package vhostindex

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func elt(name string, value uint64) stagedElement {
	n := []byte(name)
	return stagedElement{name: n, hash: Hash(n), value: value}
}

func TestCompactElementsEmpty(t *testing.T) {
	h, err := compactElements("test", nil, DefaultConfig("t"))
	require.NoError(t, err)
	require.EqualValues(t, 1, h.Size)
	v, ok := h.find(Hash([]byte("anything")), []byte("anything"))
	require.False(t, ok)
	require.Zero(t, v)
}

func TestCompactElementsRoundTrip(t *testing.T) {
	elements := []stagedElement{
		elt("example.com", 0x1),
		elt("www.example.com", 0x2),
		elt("mail.example.com", 0x3),
		elt("a.b.c.d.example.org", 0x4),
	}
	h, err := compactElements("test", elements, DefaultConfig("t"))
	require.NoError(t, err)

	for _, e := range elements {
		v, ok := h.find(e.hash, e.name)
		require.True(t, ok, "expected to find %s", e.name)
		require.EqualValues(t, e.value, v)
	}

	v, ok := h.find(Hash([]byte("nope.example.com")), []byte("nope.example.com"))
	require.False(t, ok)
	require.Zero(t, v)
}

func TestCompactElementsTooLarge(t *testing.T) {
	cfg := DefaultConfig("t")
	cfg.BucketSize = 24 // barely fits one small element plus terminator
	cfg.MaxSize = 1     // force every element into the same bucket

	elements := []stagedElement{
		elt("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", 1),
		elt("bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", 2),
	}
	_, err := compactElements("test", elements, cfg)
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestCompactElementsManyElementsDistinct(t *testing.T) {
	cfg := DefaultConfig("t")
	cfg.MaxSize = 101
	var elements []stagedElement
	for i := 0; i < 50; i++ {
		name := string(rune('a'+i%26)) + string(rune('0'+i%10))
		elements = append(elements, elt(name+".example.com", uint64(i+1)))
	}
	h, err := compactElements("test", elements, cfg)
	require.NoError(t, err)
	for _, e := range elements {
		v, ok := h.find(e.hash, e.name)
		require.True(t, ok)
		require.Equal(t, e.value, v)
	}
}
