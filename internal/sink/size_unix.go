//go:build linux || darwin || freebsd || netbsd || openbsd

package sink

import (
	"os"

	"golang.org/x/sys/unix"
)

// Size reports the terminal size of f in character cells.
func Size(f *os.File) (cols, rows int, err error) {
	ws, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
	if err != nil {
		return 0, 0, err
	}
	return int(ws.Col), int(ws.Row), nil
}
