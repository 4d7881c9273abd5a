package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSet(t *testing.T) {
	m, err := NewMemory("")
	require.NoError(t, err)
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "@Medicalife:patients")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Set(ctx, "@Medicalife:patients", `[]`))
	v, ok, err := m.Get(ctx, "@Medicalife:patients")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestMemoryPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cache.gob")
	ctx := context.Background()

	first, err := NewMemory(path)
	require.NoError(t, err)
	require.NoError(t, first.Set(ctx, "key", `[{"id":"p1"}]`))

	_, err = os.Stat(path)
	require.NoError(t, err)

	second, err := NewMemory(path)
	require.NoError(t, err)
	v, ok, err := second.Get(ctx, "key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"p1"}]`, v)
}

func TestMemoryRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.gob")
	require.NoError(t, os.WriteFile(path, []byte("not gob"), 0o600))

	_, err := NewMemory(path)
	assert.Error(t, err)
}
