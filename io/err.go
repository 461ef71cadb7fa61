package io

import (
	"github.com/ezrec/dcpu/translate"
)

var f = translate.From

var (
	// Device errors
	ErrKeyboardInput = translate.Error("keyboard input")
	ErrDisplayOutput = translate.Error("display output")
)

// ErrKeyCode is an input byte with no keyboard code.
type ErrKeyCode byte

func (ek ErrKeyCode) Error() string {
	return f("byte 0x%02x has no key code", byte(ek))
}
