package main

import (
	"io"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pkg/term"
)

// keys is a non-blocking key source. A Read with no key waiting
// returns zero bytes, so the processor keeps running between key presses.
type keys struct {
	pressed chan byte
}

func (k *keys) Read(buff []byte) (n int, err error) {
	if len(buff) == 0 {
		return
	}

	select {
	case ch, ok := <-k.pressed:
		if !ok {
			err = io.EOF
			return
		}
		buff[0] = ch
		n = 1
	default:
	}

	return
}

// openTerminal puts the controlling terminal in cbreak mode, and returns a
// key source for it, and a function to restore the terminal.
// If stdin is not a terminal, stdin is returned as is.
func openTerminal() (input io.Reader, restore func()) {
	restore = func() {}
	input = os.Stdin

	if !isatty.IsTerminal(os.Stdin.Fd()) {
		return
	}

	tty, err := term.Open("/dev/tty", term.CBreakMode)
	if err != nil {
		log.Printf("tty: %v", err)
		return
	}

	var once sync.Once
	restore = func() {
		once.Do(func() {
			tty.Restore()
			tty.Close()
		})
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-interrupt
		restore()
		log.Fatalf("%v", sig)
	}()

	k := &keys{pressed: make(chan byte, 16)}
	go func() {
		defer close(k.pressed)
		var one [1]byte
		for {
			n, err := tty.Read(one[:])
			if err != nil {
				return
			}
			if n == 1 {
				k.pressed <- one[0]
			}
		}
	}()

	input = k

	return
}
