package utils

import (
	"errors"
	"io/fs"
	"os"
)

// FileExists reports whether filename can be stat'ed.
// Permission errors count as existing so the caller surfaces them when opening the file.
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return !errors.Is(err, fs.ErrNotExist)
}
