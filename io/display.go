package io

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"maps"
	"strings"
)

const (
	DISPLAY_BASE    = 0x8000                         // Base of the framebuffer.
	DISPLAY_COLUMNS = 32                             // Cells per row.
	DISPLAY_ROWS    = 12                             // Rows of cells.
	DISPLAY_SIZE    = DISPLAY_COLUMNS * DISPLAY_ROWS // Words in the framebuffer.
	DISPLAY_COLORS  = 16                             // Palette entries.
	DISPLAY_GLYPHS  = 0x80                           // Glyphs in the font.
	DISPLAY_ASCII   = 0x20                           // ASCII code of glyph 0.
	DISPLAY_CURSOR  = '_'                            // Rendering of a blinking blank cell.
	DISPLAY_UNKNOWN = '?'                            // Rendering of a glyph with no ASCII form.
)

// Separates rendered frames.
var displayRule = strings.Repeat("-", DISPLAY_COLUMNS)

var _display_defines = map[string]string{
	"DISPLAY_BASE":    fmt.Sprintf("0x%x", DISPLAY_BASE),
	"DISPLAY_COLUMNS": fmt.Sprintf("%d", DISPLAY_COLUMNS),
	"DISPLAY_ROWS":    fmt.Sprintf("%d", DISPLAY_ROWS),
	"DISPLAY_SIZE":    fmt.Sprintf("%d", DISPLAY_SIZE),
	"DISPLAY_COLORS":  fmt.Sprintf("%d", DISPLAY_COLORS),
	"DISPLAY_GLYPHS":  fmt.Sprintf("0x%x", DISPLAY_GLYPHS),
}

// Cell is a decoded framebuffer word.
type Cell struct {
	Fg    uint8 // Foreground palette index.
	Bg    uint8 // Background palette index.
	Blink bool  // Cell blinks.
	Glyph uint8 // Font glyph index.
}

// DecodeCell splits a framebuffer word into its fields.
func DecodeCell(word uint16) Cell {
	return Cell{
		Fg:    uint8(word >> 12),
		Bg:    uint8((word >> 8) & (DISPLAY_COLORS - 1)),
		Blink: (word>>7)&1 == 1,
		Glyph: uint8(word & (DISPLAY_GLYPHS - 1)),
	}
}

// Word encodes the cell as a framebuffer word.
func (cell Cell) Word() uint16 {
	word := uint16(cell.Fg%DISPLAY_COLORS)<<12 | uint16(cell.Bg%DISPLAY_COLORS)<<8 | uint16(cell.Glyph%DISPLAY_GLYPHS)
	if cell.Blink {
		word |= 1 << 7
	}
	return word
}

// Rune returns the ASCII rendering of the cell.
func (cell Cell) Rune() rune {
	ch := rune(cell.Glyph) + DISPLAY_ASCII
	switch {
	case cell.Blink && ch == ' ':
		return DISPLAY_CURSOR
	case ch >= 0x7f:
		return DISPLAY_UNKNOWN
	}
	return ch
}

// Display renders the character cell framebuffer as text.
type Display struct {
	Output io.Writer // Destination of rendered frames.

	Frames int // Frames written.

	last  [DISPLAY_SIZE]uint16
	drawn bool
}

var _ Device = (*Display)(nil)

// Defines returns an iter of defines for the display.
func (disp *Display) Defines() iter.Seq2[string, string] {
	return maps.All(_display_defines)
}

// Reset forgets the last rendered frame. Processor memory is untouched.
func (disp *Display) Reset(mem Memory) {
	clear(disp.last[:])
	disp.drawn = false
	disp.Frames = 0
}

// Text returns the framebuffer as rows of text, with trailing blanks removed.
func (disp *Display) Text(mem Memory) (rows []string) {
	var row strings.Builder
	for y := range uint16(DISPLAY_ROWS) {
		row.Reset()
		for x := range uint16(DISPLAY_COLUMNS) {
			cell := DecodeCell(mem.Peek(DISPLAY_BASE + y*DISPLAY_COLUMNS + x))
			row.WriteRune(cell.Rune())
		}
		rows = append(rows, strings.TrimRight(row.String(), " "))
	}

	return
}

// Update writes a new frame to the output, if the framebuffer has changed
// since the last frame written.
func (disp *Display) Update(mem Memory) (err error) {
	if disp.Output == nil {
		return
	}

	var frame [DISPLAY_SIZE]uint16
	for n := range frame {
		frame[n] = mem.Peek(DISPLAY_BASE + uint16(n))
	}

	if disp.drawn && frame == disp.last {
		return
	}

	text := strings.Join(disp.Text(mem), "\n") + "\n" + displayRule + "\n"
	_, err = io.WriteString(disp.Output, text)
	if err != nil {
		err = errors.Join(ErrDisplayOutput, err)
		return
	}

	disp.last = frame
	disp.drawn = true
	disp.Frames++

	return
}
