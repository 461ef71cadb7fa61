package io

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
)

const (
	KEYBOARD_BASE     = 0x9000            // Base of the keyboard buffer.
	KEYBOARD_HEAD     = KEYBOARD_BASE + 0 // Index of the oldest key.
	KEYBOARD_SIZE     = KEYBOARD_BASE + 1 // Number of buffered keys.
	KEYBOARD_DATA     = KEYBOARD_BASE + 2 // Circular key buffer.
	KEYBOARD_CAPACITY = 16                // Words in the key buffer.
)

// Key codes that are not printable ASCII.
const (
	KEY_BACKSPACE = 0x10
	KEY_RETURN    = 0x11
	KEY_INSERT    = 0x12
	KEY_DELETE    = 0x13
	KEY_UP        = 0x80
	KEY_DOWN      = 0x81
	KEY_LEFT      = 0x82
	KEY_RIGHT     = 0x83
	KEY_SHIFT     = 0x90
	KEY_CONTROL   = 0x91
)

var _keyboard_defines = map[string]string{
	"KEYBOARD_BASE":     fmt.Sprintf("0x%x", KEYBOARD_BASE),
	"KEYBOARD_HEAD":     fmt.Sprintf("0x%x", KEYBOARD_HEAD),
	"KEYBOARD_SIZE":     fmt.Sprintf("0x%x", KEYBOARD_SIZE),
	"KEYBOARD_DATA":     fmt.Sprintf("0x%x", KEYBOARD_DATA),
	"KEYBOARD_CAPACITY": fmt.Sprintf("%d", KEYBOARD_CAPACITY),
	"KEY_BACKSPACE":     fmt.Sprintf("0x%x", KEY_BACKSPACE),
	"KEY_RETURN":        fmt.Sprintf("0x%x", KEY_RETURN),
	"KEY_INSERT":        fmt.Sprintf("0x%x", KEY_INSERT),
	"KEY_DELETE":        fmt.Sprintf("0x%x", KEY_DELETE),
	"KEY_UP":            fmt.Sprintf("0x%x", KEY_UP),
	"KEY_DOWN":          fmt.Sprintf("0x%x", KEY_DOWN),
	"KEY_LEFT":          fmt.Sprintf("0x%x", KEY_LEFT),
	"KEY_RIGHT":         fmt.Sprintf("0x%x", KEY_RIGHT),
	"KEY_SHIFT":         fmt.Sprintf("0x%x", KEY_SHIFT),
	"KEY_CONTROL":       fmt.Sprintf("0x%x", KEY_CONTROL),
}

// Keyboard is the producer side of the keyboard ring buffer.
//
// The processor consumes keys by reading the key at KEYBOARD_DATA+head,
// advancing head modulo KEYBOARD_CAPACITY, and decrementing the size.
// The keyboard only ever appends, and only while the buffer has room.
type Keyboard struct {
	Input io.Reader // Source of key presses.

	Ignored int // Input bytes with no key code.

	closed bool
}

var _ Device = (*Keyboard)(nil)

// Defines returns an iter of defines for the keyboard.
func (kb *Keyboard) Defines() iter.Seq2[string, string] {
	return maps.All(_keyboard_defines)
}

// KeyCode translates an input byte to a key code.
func KeyCode(ch byte) (key uint16, err error) {
	switch {
	case ch >= 0x20 && ch < 0x7f:
		key = uint16(ch)
	case ch == '\b' || ch == 0x7f:
		key = KEY_BACKSPACE
	case ch == '\n' || ch == '\r':
		key = KEY_RETURN
	default:
		err = ErrKeyCode(ch)
	}

	return
}

// Reset clears the key buffer.
func (kb *Keyboard) Reset(mem Memory) {
	mem.Poke(KEYBOARD_HEAD, 0)
	mem.Poke(KEYBOARD_SIZE, 0)
	for n := range uint16(KEYBOARD_CAPACITY) {
		mem.Poke(KEYBOARD_DATA+n, 0)
	}
}

// Push appends a key to the buffer, returning false if the buffer is full.
func (kb *Keyboard) Push(mem Memory, key uint16) bool {
	size := mem.Peek(KEYBOARD_SIZE)
	if size >= KEYBOARD_CAPACITY {
		return false
	}

	head := mem.Peek(KEYBOARD_HEAD)
	mem.Poke(KEYBOARD_DATA+(head+size)%KEYBOARD_CAPACITY, key)
	mem.Poke(KEYBOARD_SIZE, size+1)

	return true
}

// Closed is true once the input has been exhausted.
func (kb *Keyboard) Closed() bool {
	return kb.closed
}

// Update reads at most one byte of input, if the buffer has room for it.
func (kb *Keyboard) Update(mem Memory) (err error) {
	if kb.Input == nil || kb.closed {
		return
	}

	if mem.Peek(KEYBOARD_SIZE) >= KEYBOARD_CAPACITY {
		return
	}

	var one [1]byte
	n, err := kb.Input.Read(one[:])
	if errors.Is(err, io.EOF) {
		kb.closed = true
		err = nil
	}
	if err != nil {
		err = errors.Join(ErrKeyboardInput, err)
		return
	}
	if n == 0 {
		return
	}

	key, kerr := KeyCode(one[0])
	if kerr != nil {
		kb.Ignored++
		return
	}

	kb.Push(mem, key)

	return
}
