//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package sink

import (
	"errors"
	"os"
)

func Size(f *os.File) (cols, rows int, err error) {
	return 0, 0, errors.New("sink: terminal size unavailable on this platform")
}
