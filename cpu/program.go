package cpu

import (
	"iter"
)

// Opcode is the assembled output of a single source line.
type Opcode struct {
	LineNo int      // Source line number.
	Ip     int      // Word offset of the first code.
	Words  []string // Source words, without the label.
	Codes  []Code   // Generated instructions or data words.
}

// Len returns the number of words the opcode occupies.
func (op *Opcode) Len() (size int) {
	for _, code := range op.Codes {
		size += code.Len()
	}
	return
}

// Program is an assembled program.
type Program struct {
	Opcodes []Opcode
	Label   map[string]int // Map of labels to word offsets.
}

// Debug locates the source of a word in a program.
type Debug struct {
	*Opcode
	Index int // Index into Opcode.Codes
}

// Debug returns the opcode that generated the word at ip. If no opcode
// covers ip, the returned Debug has a nil Opcode.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n := range prog.Opcodes {
		op := &prog.Opcodes[n]
		addr := op.Ip
		for index, code := range op.Codes {
			if int(ip) >= addr && int(ip) < addr+code.Len() {
				dbg = Debug{
					Opcode: op,
					Index:  index,
				}
				return
			}
			addr += code.Len()
		}
	}

	return
}

// Binary returns the program as a word stream, to be loaded at address 0.
func (prog *Program) Binary() (bins []uint16) {
	for _, code := range prog.Codes() {
		bins = append(bins, code.Words()...)
	}

	return
}

// Codes iterates over every code in the program, with its address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(ip uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			ip := uint16(op.Ip)
			for _, code := range op.Codes {
				if !yield(ip, code) {
					return
				}
				ip += uint16(code.Len())
			}
		}
	}
}
