package cpu

import (
	"fmt"
	"strings"
)

// Register is a general purpose register index.
type Register int

//go:generate go tool stringer -linecomment -type=Register
const (
	REG_A = Register(0) // A
	REG_B = Register(1) // B
	REG_C = Register(2) // C
	REG_X = Register(3) // X
	REG_Y = Register(4) // Y
	REG_Z = Register(5) // Z
	REG_I = Register(6) // I
	REG_J = Register(7) // J
)

// BasicOp is a two operand opcode, held in bits 0-4 of the instruction word.
type BasicOp int

//go:generate go tool stringer -linecomment -type=BasicOp
const (
	OP_SET = BasicOp(0x01) // SET
	OP_ADD = BasicOp(0x02) // ADD
	OP_SUB = BasicOp(0x03) // SUB
	OP_MUL = BasicOp(0x04) // MUL
	OP_MLI = BasicOp(0x05) // MLI
	OP_DIV = BasicOp(0x06) // DIV
	OP_DVI = BasicOp(0x07) // DVI
	OP_MOD = BasicOp(0x08) // MOD
	OP_MDI = BasicOp(0x09) // MDI
	OP_AND = BasicOp(0x0a) // AND
	OP_BOR = BasicOp(0x0b) // BOR
	OP_XOR = BasicOp(0x0c) // XOR
	OP_SHR = BasicOp(0x0d) // SHR
	OP_ASR = BasicOp(0x0e) // ASR
	OP_SHL = BasicOp(0x0f) // SHL
	OP_IFB = BasicOp(0x10) // IFB
	OP_IFC = BasicOp(0x11) // IFC
	OP_IFE = BasicOp(0x12) // IFE
	OP_IFN = BasicOp(0x13) // IFN
	OP_IFG = BasicOp(0x14) // IFG
	OP_IFA = BasicOp(0x15) // IFA
	OP_IFL = BasicOp(0x16) // IFL
	OP_IFU = BasicOp(0x17) // IFU
	OP_ADX = BasicOp(0x1a) // ADX
	OP_SBX = BasicOp(0x1b) // SBX
	OP_STI = BasicOp(0x1e) // STI
	OP_STD = BasicOp(0x1f) // STD
)

// SpecialOp is a one operand opcode, held in bits 5-9 of an instruction
// word whose low 5 bits are zero.
type SpecialOp int

//go:generate go tool stringer -linecomment -type=SpecialOp
const (
	SPECIAL_JSR = SpecialOp(0x01) // JSR
	SPECIAL_INT = SpecialOp(0x08) // INT
	SPECIAL_IAG = SpecialOp(0x09) // IAG
	SPECIAL_IAS = SpecialOp(0x0a) // IAS
	SPECIAL_RFI = SpecialOp(0x0b) // RFI
	SPECIAL_IAQ = SpecialOp(0x0c) // IAQ
	SPECIAL_HWN = SpecialOp(0x10) // HWN
	SPECIAL_HWQ = SpecialOp(0x11) // HWQ
	SPECIAL_HWI = SpecialOp(0x12) // HWI
)

// basicCycles is the base cycle cost of each basic opcode.
var basicCycles = map[BasicOp]int{
	OP_SET: 1,
	OP_ADD: 2,
	OP_SUB: 2,
	OP_MUL: 2,
	OP_MLI: 2,
	OP_DIV: 3,
	OP_DVI: 3,
	OP_MOD: 3,
	OP_MDI: 3,
	OP_AND: 1,
	OP_BOR: 1,
	OP_XOR: 1,
	OP_SHR: 1,
	OP_ASR: 1,
	OP_SHL: 1,
	OP_IFB: 2,
	OP_IFC: 2,
	OP_IFE: 2,
	OP_IFN: 2,
	OP_IFG: 2,
	OP_IFA: 2,
	OP_IFL: 2,
	OP_IFU: 2,
	OP_ADX: 3,
	OP_SBX: 3,
	OP_STI: 2,
	OP_STD: 2,
}

// specialCycles is the base cycle cost of each special opcode.
var specialCycles = map[SpecialOp]int{
	SPECIAL_JSR: 3,
	SPECIAL_INT: 4,
	SPECIAL_IAG: 1,
	SPECIAL_IAS: 1,
	SPECIAL_RFI: 3,
	SPECIAL_IAQ: 2,
	SPECIAL_HWN: 2,
	SPECIAL_HWQ: 4,
	SPECIAL_HWI: 4,
}

// Valid returns true if the opcode is defined.
func (op BasicOp) Valid() bool {
	_, ok := basicCycles[op]
	return ok
}

// Cycles returns the base cycle cost of the opcode.
func (op BasicOp) Cycles() int {
	return basicCycles[op]
}

// Conditional returns true for the IFx family.
func (op BasicOp) Conditional() bool {
	return op >= OP_IFB && op <= OP_IFU
}

// Valid returns true if the opcode is defined.
func (op SpecialOp) Valid() bool {
	_, ok := specialCycles[op]
	return ok
}

// Cycles returns the base cycle cost of the opcode.
func (op SpecialOp) Cycles() int {
	return specialCycles[op]
}

// Implemented returns false for the interrupt and hardware opcodes
// that decode but have no behavior.
func (op SpecialOp) Implemented() bool {
	switch op {
	case SPECIAL_INT, SPECIAL_RFI, SPECIAL_IAQ, SPECIAL_HWQ, SPECIAL_HWI:
		return false
	}
	return true
}

// Code represents a single encoded instruction: the opcode word followed by
// the extra words its operands consume, b's before a's.
type Code struct {
	Word       uint16
	Immediates []uint16
	Data       bool // Word is data, not an instruction.
}

// MakeCodeBasic creates a two operand instruction.
func MakeCodeBasic(op BasicOp, b, a Value, imms ...uint16) Code {
	return Code{
		Word:       (a.Code() << 10) | ((b.Code() & 0x1f) << 5) | (uint16(op) & 0x1f),
		Immediates: imms,
	}
}

// MakeCodeSpecial creates a one operand instruction.
func MakeCodeSpecial(op SpecialOp, a Value, imms ...uint16) Code {
	return Code{
		Word:       (a.Code() << 10) | ((uint16(op) & 0x1f) << 5),
		Immediates: imms,
	}
}

// Special returns true if the word encodes a special instruction.
func (code Code) Special() bool {
	return code.Word&0x1f == 0
}

// Fields splits the instruction word into its opcode and operand fields.
// For a special instruction, op is the special opcode and b is zero.
func (code Code) Fields() (op, b, a uint16) {
	word := code.Word
	a = (word >> 10) & 0x3f
	if code.Special() {
		op = (word >> 5) & 0x1f
		return
	}
	op = word & 0x1f
	b = (word >> 5) & 0x1f
	return
}

// ImmediateNeed returns the number of extra words the operands consume.
// It only inspects the operand fields, so it is defined for any word.
func (code Code) ImmediateNeed() (need int) {
	_, b, a := code.Fields()
	if nextWordCode(a) {
		need++
	}
	if !code.Special() && nextWordCode(b) {
		need++
	}
	return
}

// Len returns the length of the instruction in words.
func (code Code) Len() int {
	return 1 + len(code.Immediates)
}

// Words returns the encoded instruction as a word stream.
func (code Code) Words() []uint16 {
	return append([]uint16{code.Word}, code.Immediates...)
}

// Decode decodes the instruction word.
func (code Code) Decode() (Instruction, error) {
	return Decode(code.Word)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	if code.Data {
		return fmt.Sprintf("DAT 0x%04x", code.Word)
	}

	ins, err := code.Decode()
	if err != nil {
		return fmt.Sprintf("DAT 0x%04x", code.Word)
	}

	return ins.Format(code.Immediates)
}

// nextWordCode returns true if the operand field consumes a next word.
func nextWordCode(field uint16) bool {
	return (field >= 0x10 && field <= 0x17) || field == 0x1a || field == 0x1e || field == 0x1f
}

// basicMap maps mnemonics to basic opcodes.
var basicMap = map[string]BasicOp{}

// specialMap maps mnemonics to special opcodes.
var specialMap = map[string]SpecialOp{}

func init() {
	for op := range basicCycles {
		basicMap[strings.ToLower(op.String())] = op
	}
	for op := range specialCycles {
		specialMap[strings.ToLower(op.String())] = op
	}
}
