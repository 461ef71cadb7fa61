package cpu

import (
	"errors"
	"fmt"
)

// Instruction is a decoded instruction word, either a BasicInstruction or
// a SpecialInstruction.
type Instruction interface {
	// Len returns the length of the encoded instruction in words.
	Len() int
	// Cycles returns the cycle cost, not counting a failed conditional.
	Cycles() int
	// Encode packs the instruction with its extra words.
	Encode(imms ...uint16) Code
	// Format returns the assembly text, given the extra words.
	Format(imms []uint16) string
	String() string
}

// BasicInstruction is a two operand instruction. B is the destination.
type BasicInstruction struct {
	Op BasicOp
	B  Value
	A  Value
}

// SpecialInstruction is a one operand instruction.
type SpecialInstruction struct {
	Op SpecialOp
	A  Value
}

var _ Instruction = BasicInstruction{}
var _ Instruction = SpecialInstruction{}

// Decode decodes an instruction word.
func Decode(word uint16) (ins Instruction, err error) {
	code := Code{Word: word}
	op, b, a := code.Fields()

	aval, err := DecodeValue(a, SIDE_A)
	if err != nil {
		err = errors.Join(ErrOperandA, err)
		return
	}

	if code.Special() {
		sop := SpecialOp(op)
		if !sop.Valid() {
			err = ErrOpcodeInvalid
			return
		}
		ins = SpecialInstruction{Op: sop, A: aval}
		return
	}

	bop := BasicOp(op)
	if !bop.Valid() {
		err = ErrOpcodeInvalid
		return
	}

	bval, err := DecodeValue(b, SIDE_B)
	if err != nil {
		err = errors.Join(ErrOperandB, err)
		return
	}

	ins = BasicInstruction{Op: bop, B: bval, A: aval}
	return
}

func (ins BasicInstruction) Len() int {
	return 1 + ins.B.Words() + ins.A.Words()
}

func (ins BasicInstruction) Cycles() int {
	return ins.Op.Cycles() + ins.B.Cycles() + ins.A.Cycles()
}

func (ins BasicInstruction) Encode(imms ...uint16) Code {
	return MakeCodeBasic(ins.Op, ins.B, ins.A, imms...)
}

func (ins BasicInstruction) Format(imms []uint16) string {
	b, a := ins.B.String(), ins.A.String()
	if ins.B.Words() > 0 && len(imms) > 0 {
		b = ins.B.Format(imms[0])
		imms = imms[1:]
	}
	if ins.A.Words() > 0 && len(imms) > 0 {
		a = ins.A.Format(imms[0])
	}
	return fmt.Sprintf("%v %v, %v", ins.Op, b, a)
}

func (ins BasicInstruction) String() string {
	return ins.Format(nil)
}

func (ins SpecialInstruction) Len() int {
	return 1 + ins.A.Words()
}

func (ins SpecialInstruction) Cycles() int {
	return ins.Op.Cycles() + ins.A.Cycles()
}

func (ins SpecialInstruction) Encode(imms ...uint16) Code {
	return MakeCodeSpecial(ins.Op, ins.A, imms...)
}

func (ins SpecialInstruction) Format(imms []uint16) string {
	a := ins.A.String()
	if ins.A.Words() > 0 && len(imms) > 0 {
		a = ins.A.Format(imms[0])
	}
	return fmt.Sprintf("%v %v", ins.Op, a)
}

func (ins SpecialInstruction) String() string {
	return ins.Format(nil)
}
