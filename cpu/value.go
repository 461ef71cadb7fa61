package cpu

import (
	"fmt"
)

// ValueType is the addressing mode of a decoded operand.
type ValueType int

//go:generate go tool stringer -linecomment -type=ValueType
const (
	VALUE_REGISTER            = ValueType(0)  // reg
	VALUE_REGISTER_DEREF      = ValueType(1)  // [reg]
	VALUE_REGISTER_NEXT_DEREF = ValueType(2)  // [next+reg]
	VALUE_PUSH                = ValueType(3)  // push
	VALUE_POP                 = ValueType(4)  // pop
	VALUE_PEEK                = ValueType(5)  // peek
	VALUE_PICK                = ValueType(6)  // pick
	VALUE_SP                  = ValueType(7)  // sp
	VALUE_PC                  = ValueType(8)  // pc
	VALUE_EX                  = ValueType(9)  // ex
	VALUE_NEXT_DEREF          = ValueType(10) // [next]
	VALUE_NEXT                = ValueType(11) // next
	VALUE_LITERAL             = ValueType(12) // literal
)

// Side is the operand field a value is decoded from.
type Side int

//go:generate go tool stringer -linecomment -type=Side
const (
	SIDE_A = Side(0) // a
	SIDE_B = Side(1) // b
)

// Value is a decoded operand.
type Value struct {
	Type     ValueType
	Side     Side
	Register Register // Register for the VALUE_REGISTER* types.
	Literal  uint16   // Inline literal for VALUE_LITERAL.
}

// DecodeValue decodes a 6-bit a field or a 5-bit b field.
func DecodeValue(code uint16, side Side) (val Value, err error) {
	val.Side = side

	switch {
	case side == SIDE_B && code > 0x1f:
		err = ErrValueInvalid
	case code <= 0x07:
		val.Type = VALUE_REGISTER
		val.Register = Register(code)
	case code <= 0x0f:
		val.Type = VALUE_REGISTER_DEREF
		val.Register = Register(code - 0x08)
	case code <= 0x17:
		val.Type = VALUE_REGISTER_NEXT_DEREF
		val.Register = Register(code - 0x10)
	case code == 0x18 && side == SIDE_A:
		val.Type = VALUE_POP
	case code == 0x18:
		val.Type = VALUE_PUSH
	case code == 0x19:
		val.Type = VALUE_PEEK
	case code == 0x1a:
		val.Type = VALUE_PICK
	case code == 0x1b:
		val.Type = VALUE_SP
	case code == 0x1c:
		val.Type = VALUE_PC
	case code == 0x1d:
		val.Type = VALUE_EX
	case code == 0x1e:
		val.Type = VALUE_NEXT_DEREF
	case code == 0x1f:
		val.Type = VALUE_NEXT
	case code <= 0x3f:
		// Inline literals cover [-1, 30].
		val.Type = VALUE_LITERAL
		val.Literal = uint16(int16(code) - 0x21)
	default:
		err = ErrValueInvalid
	}

	return
}

// MakeValue creates a value of a type that carries no register or literal.
func MakeValue(typ ValueType, side Side) Value {
	return Value{Type: typ, Side: side}
}

// MakeRegister creates a register mode value.
func MakeRegister(typ ValueType, side Side, reg Register) Value {
	return Value{Type: typ, Side: side, Register: reg}
}

// MakeLiteral creates an inline literal value.
func MakeLiteral(literal uint16) Value {
	return Value{Type: VALUE_LITERAL, Side: SIDE_A, Literal: literal}
}

// InlineLiteral returns true if the literal fits in an a field.
func InlineLiteral(literal uint16) bool {
	v := int16(literal)
	return v >= -1 && v <= 30
}

// Code returns the operand field encoding of the value.
func (val Value) Code() uint16 {
	switch val.Type {
	case VALUE_REGISTER:
		return uint16(val.Register)
	case VALUE_REGISTER_DEREF:
		return uint16(val.Register) + 0x08
	case VALUE_REGISTER_NEXT_DEREF:
		return uint16(val.Register) + 0x10
	case VALUE_PUSH, VALUE_POP:
		return 0x18
	case VALUE_PEEK:
		return 0x19
	case VALUE_PICK:
		return 0x1a
	case VALUE_SP:
		return 0x1b
	case VALUE_PC:
		return 0x1c
	case VALUE_EX:
		return 0x1d
	case VALUE_NEXT_DEREF:
		return 0x1e
	case VALUE_NEXT:
		return 0x1f
	case VALUE_LITERAL:
		return uint16(int16(val.Literal) + 0x21)
	}

	panic("unknown value type")
}

// Words returns the number of extra words the value consumes.
func (val Value) Words() int {
	switch val.Type {
	case VALUE_REGISTER_NEXT_DEREF, VALUE_PICK, VALUE_NEXT_DEREF, VALUE_NEXT:
		return 1
	}
	return 0
}

// Cycles returns the extra cycle cost of evaluating the value.
func (val Value) Cycles() int {
	return val.Words()
}

// Format returns the assembly text of the value, given its extra word.
func (val Value) Format(next uint16) string {
	return val.format(fmt.Sprintf("%#x", next))
}

// String returns the assembly text of the value, with a placeholder for
// its extra word.
func (val Value) String() string {
	return val.format("<next>")
}

func (val Value) format(next string) string {
	switch val.Type {
	case VALUE_REGISTER:
		return val.Register.String()
	case VALUE_REGISTER_DEREF:
		return fmt.Sprintf("[%v]", val.Register)
	case VALUE_REGISTER_NEXT_DEREF:
		return fmt.Sprintf("[%v+%v]", next, val.Register)
	case VALUE_PUSH:
		return "PUSH"
	case VALUE_POP:
		return "POP"
	case VALUE_PEEK:
		return "PEEK"
	case VALUE_PICK:
		return "PICK " + next
	case VALUE_SP:
		return "SP"
	case VALUE_PC:
		return "PC"
	case VALUE_EX:
		return "EX"
	case VALUE_NEXT_DEREF:
		return "[" + next + "]"
	case VALUE_NEXT:
		return next
	case VALUE_LITERAL:
		return fmt.Sprintf("%#x", val.Literal)
	}

	return val.Type.String()
}

// KindClass is the storage class of an evaluated operand.
type KindClass int

//go:generate go tool stringer -linecomment -type=KindClass
const (
	KIND_LITERAL  = KindClass(0) // literal
	KIND_REGISTER = KindClass(1) // register
	KIND_PC       = KindClass(2) // pc
	KIND_SP       = KindClass(3) // sp
	KIND_EX       = KindClass(4) // ex
	KIND_MEMORY   = KindClass(5) // memory
)

// Kind is an operand evaluated against live processor state.
type Kind struct {
	Class KindClass
	Index uint16 // Literal value, register number or memory address.
}

// Eval resolves the value into a storage location.
// Evaluation consumes extra words at PC and adjusts SP, so it must
// happen exactly once per operand, b before a.
func (val Value) Eval(cpu *Cpu) (kind Kind) {
	switch val.Type {
	case VALUE_REGISTER:
		kind = Kind{KIND_REGISTER, uint16(val.Register)}
	case VALUE_REGISTER_DEREF:
		kind = Kind{KIND_MEMORY, cpu.Register[val.Register]}
	case VALUE_REGISTER_NEXT_DEREF:
		kind = Kind{KIND_MEMORY, cpu.Register[val.Register] + cpu.nextWord()}
	case VALUE_PUSH:
		cpu.Sp--
		kind = Kind{KIND_MEMORY, cpu.Sp}
	case VALUE_POP:
		kind = Kind{KIND_MEMORY, cpu.Sp}
		cpu.Sp++
	case VALUE_PEEK:
		kind = Kind{KIND_MEMORY, cpu.Sp}
	case VALUE_PICK:
		kind = Kind{KIND_MEMORY, cpu.Sp + cpu.nextWord()}
	case VALUE_SP:
		kind = Kind{Class: KIND_SP}
	case VALUE_PC:
		kind = Kind{Class: KIND_PC}
	case VALUE_EX:
		kind = Kind{Class: KIND_EX}
	case VALUE_NEXT_DEREF:
		kind = Kind{KIND_MEMORY, cpu.nextWord()}
	case VALUE_NEXT:
		kind = Kind{KIND_LITERAL, cpu.nextWord()}
	case VALUE_LITERAL:
		kind = Kind{KIND_LITERAL, val.Literal}
	default:
		panic("unknown value type")
	}

	return
}
