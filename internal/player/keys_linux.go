package player

import (
	"os"

	isatty "github.com/mattn/go-isatty"
	"golang.org/x/sys/unix"
)

// cbreak turns off line buffering and echo on f so single key presses can be
// read. The returned function restores the previous mode.
func cbreak(f *os.File) (func(), error) {
	fd := int(f.Fd())
	if !isatty.IsTerminal(f.Fd()) {
		return func() {}, nil
	}
	old, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return nil, err
	}
	t := *old
	t.Lflag &^= unix.ICANON | unix.ECHO
	t.Cc[unix.VMIN] = 1
	t.Cc[unix.VTIME] = 0
	if err = unix.IoctlSetTermios(fd, unix.TCSETS, &t); err != nil {
		return nil, err
	}
	return func() { unix.IoctlSetTermios(fd, unix.TCSETS, old) }, nil
}
