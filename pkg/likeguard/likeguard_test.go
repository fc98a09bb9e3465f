package likeguard

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuardMarkAndSeen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liked.json")

	g, err := Open(path)
	require.NoError(t, err)

	assert.False(t, g.Seen(7))
	require.NoError(t, g.Mark(7))
	assert.True(t, g.Seen(7))

	// Marking twice is a no-op.
	require.NoError(t, g.Mark(7))
	assert.True(t, g.Seen(7))
}

func TestGuardUnmarkRollsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liked.json")

	g, err := Open(path)
	require.NoError(t, err)

	require.NoError(t, g.Mark(7))
	require.NoError(t, g.Unmark(7))
	assert.False(t, g.Seen(7))

	// Unmarking an unknown ID is harmless.
	require.NoError(t, g.Unmark(42))
}

func TestGuardPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liked.json")

	g, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, g.Mark(1))
	require.NoError(t, g.Mark(2))
	require.NoError(t, g.Unmark(2))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.True(t, reopened.Seen(1))
	assert.False(t, reopened.Seen(2))
}

func TestGuardConcurrentMarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "liked.json")

	g, err := Open(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id uint) {
			defer wg.Done()
			assert.NoError(t, g.Mark(id))
		}(uint(i % 5))
	}
	wg.Wait()

	for i := uint(0); i < 5; i++ {
		assert.True(t, g.Seen(i))
	}
}
