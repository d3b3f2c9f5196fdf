//go:build !linux

package player

import "os"

// cbreak is a no-op here; keys arrive once Enter is pressed.
func cbreak(f *os.File) (func(), error) {
	return func() {}, nil
}
