package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "causalflow.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, path
}

func TestSQLiteLoadEmpty(t *testing.T) {
	s, _ := openTestStore(t)
	text, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestSQLiteSaveAndLoad(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "A+B\n\"x - y\"-C\n"))
	text, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "A+B\n\"x - y\"-C\n", text)

	require.NoError(t, s.Save(ctx, "replaced"))
	text, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "replaced", text)
}

func TestSQLitePersistsAcrossOpen(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "kept+value"))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	text, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "kept+value", text)
}

func TestSQLiteUseAfterClose(t *testing.T) {
	s, _ := openTestStore(t)
	require.NoError(t, s.Close())

	err := s.Save(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Load(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("seed")

	text, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "seed", text)

	require.NoError(t, m.Save(ctx, "next"))
	text, err = m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "next", text)

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Save(ctx, "late"), ErrClosed)
}

func TestMemoryStoreHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewMemoryStore("").Save(ctx, "x"), context.Canceled)
}

var _ Store = (*SQLiteStore)(nil)
var _ Store = (*MemoryStore)(nil)
