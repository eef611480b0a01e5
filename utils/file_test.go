package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, "config.json")

	assert.False(t, FileExists(filename))

	assert.NoError(t, os.WriteFile(filename, []byte("{}"), 0644))
	assert.True(t, FileExists(filename))
}
