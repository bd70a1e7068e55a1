// Package fileutil implements file utilities.
package fileutil

import "os"

// Exist returns true if a file or directory exists.
func Exist(name string) bool {
	if name == "" {
		return false
	}
	if _, err := os.Stat(name); err != nil {
		return false
	}
	return true
}
