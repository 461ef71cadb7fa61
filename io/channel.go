// Package io provides the host side of the DCPU-16 memory mapped peripherals.
// The keyboard feeds a ring buffer in processor memory from an io.Reader, and
// the display renders the character cell framebuffer to an io.Writer.
// Devices only ever use ordinary word reads and writes of processor memory.
package io

import (
	"iter"
)

// Memory is the processor memory, as seen by a device.
type Memory interface {
	// Peek reads the word at an address.
	Peek(addr uint16) uint16
	// Poke writes the word at an address.
	Poke(addr uint16, value uint16)
}

// Device defines the interface for all memory mapped devices.
type Device interface {
	// Defines returns the assembler equates describing the device.
	Defines() iter.Seq2[string, string]
	// Reset returns the device, and its memory region, to power-on state.
	Reset(mem Memory)
	// Update synchronizes the device with processor memory.
	Update(mem Memory) error
}
