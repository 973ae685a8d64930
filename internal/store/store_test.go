package store

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHistoryStore_RoundTrip(t *testing.T) {
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	defer s.Close()

	const url = "https://example/full/abc123.jpg"

	require.False(t, s.Has(url))
	require.NoError(t, s.Add(url, "abc123.jpg"))
	require.True(t, s.Has(url))

	records, err := s.All()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, url, records[0].SourceURL)
	require.Equal(t, "abc123.jpg", records[0].Filename)
	require.False(t, records[0].DownloadedAt.IsZero())
}

func TestHistoryStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, s.Add("https://example/a.jpg", "a.jpg"))
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	require.True(t, s2.Has("https://example/a.jpg"))
	require.False(t, s2.Has("https://example/b.jpg"))
}

func TestHistoryStore_MemoryOnly(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Add("https://example/a.jpg", "a.jpg"))
	require.False(t, s.Has("https://example/a.jpg"), "memory-only store remembers nothing")
}
