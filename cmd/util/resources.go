package util

import (
	"os"
)

// MkdirAll creates a directory and its parents if they don't exist.
func MkdirAll(path string) {
	Assert(os.MkdirAll(path, 0755), "Could not create directory '%s'", path)
}
