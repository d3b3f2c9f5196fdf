package player

import (
	"bufio"
	"io"
	"os"
)

// Keys switches f to single-key input where supported and forwards every key
// read from it. The channel is closed when f is exhausted. Call restore
// before exiting.
func Keys(f *os.File) (keys <-chan rune, restore func(), err error) {
	restore, err = cbreak(f)
	if err != nil {
		return nil, nil, err
	}
	return readKeys(f), restore, nil
}

func readKeys(r io.Reader) <-chan rune {
	ch := make(chan rune, 8)
	go func() {
		defer close(ch)
		br := bufio.NewReader(r)
		for {
			k, _, err := br.ReadRune()
			if err != nil {
				return
			}
			ch <- k
		}
	}()
	return ch
}
