package rom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "game.ch8")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestRead(t *testing.T) {
	path := writeFile(t, []byte{0x00, 0xE0, 0x12, 0x00})

	data, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0xE0, 0x12, 0x00}, data)
}

func TestReadLimits(t *testing.T) {
	_, err := Read(writeFile(t, nil))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Read(writeFile(t, make([]byte, MaxSize+1)))
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err := Read(writeFile(t, make([]byte, MaxSize)))
	require.NoError(t, err)
	assert.Len(t, data, MaxSize)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.ch8"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
