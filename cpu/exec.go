package cpu

import (
	"errors"
)

// read returns the current contents of an evaluated operand.
func (cpu *Cpu) read(kind Kind) uint16 {
	switch kind.Class {
	case KIND_LITERAL:
		return kind.Index
	case KIND_REGISTER:
		return cpu.Register[kind.Index&(REGISTER_COUNT-1)]
	case KIND_PC:
		return cpu.Pc
	case KIND_SP:
		return cpu.Sp
	case KIND_EX:
		return cpu.Ex
	case KIND_MEMORY:
		return cpu.Memory[kind.Index]
	}

	panic("unknown kind")
}

// write stores into an evaluated operand. Writes to literals are discarded.
func (cpu *Cpu) write(kind Kind, value uint16) {
	switch kind.Class {
	case KIND_LITERAL:
		// discarded
	case KIND_REGISTER:
		cpu.Register[kind.Index&(REGISTER_COUNT-1)] = value
	case KIND_PC:
		cpu.Pc = value
	case KIND_SP:
		cpu.Sp = value
	case KIND_EX:
		cpu.Ex = value
	case KIND_MEMORY:
		cpu.Memory[kind.Index] = value
	default:
		panic("unknown kind")
	}
}

// Execute evaluates the operands of a decoded instruction, b before a, and
// performs its operation. PC must already point past the instruction word.
// Returns true in skip if the next instruction should be skipped.
func (cpu *Cpu) Execute(ins Instruction) (skip bool, err error) {
	switch ins := ins.(type) {
	case BasicInstruction:
		b := ins.B.Eval(cpu)
		a := ins.A.Eval(cpu)
		cpu.Cycles += ins.Cycles()
		skip, err = cpu.doBasic(ins.Op, b, a)
	case SpecialInstruction:
		a := ins.A.Eval(cpu)
		cpu.Cycles += ins.Cycles()
		err = cpu.doSpecial(ins.Op, a)
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// doBasic performs a two operand operation on resolved operands.
func (cpu *Cpu) doBasic(op BasicOp, b_kind, a_kind Kind) (skip bool, err error) {
	// Operands are already resolved, so they may be read in any order.
	b := cpu.read(b_kind)
	a := cpu.read(a_kind)

	switch op {
	case OP_SET:
		cpu.write(b_kind, a)
	case OP_ADD:
		sum := uint32(b) + uint32(a)
		cpu.Ex = uint16(sum >> 16)
		cpu.write(b_kind, uint16(sum))
	case OP_SUB:
		if a > b {
			cpu.Ex = 0xffff
		} else {
			cpu.Ex = 0
		}
		cpu.write(b_kind, b-a)
	case OP_MUL:
		product := uint32(b) * uint32(a)
		cpu.Ex = uint16(product >> 16)
		cpu.write(b_kind, uint16(product))
	case OP_MLI:
		product := int32(int16(b)) * int32(int16(a))
		cpu.Ex = uint16(product >> 16)
		cpu.write(b_kind, uint16(product))
	case OP_DIV:
		if a == 0 {
			cpu.Ex = 0
			cpu.write(b_kind, 0)
		} else {
			cpu.Ex = uint16((uint32(b) << 16) / uint32(a))
			cpu.write(b_kind, b/a)
		}
	case OP_DVI:
		if a == 0 {
			cpu.Ex = 0
			cpu.write(b_kind, 0)
		} else {
			sb, sa := int64(int16(b)), int64(int16(a))
			cpu.Ex = uint16((sb << 16) / sa)
			cpu.write(b_kind, uint16(sb/sa))
		}
	case OP_MOD:
		if a == 0 {
			cpu.write(b_kind, 0)
		} else {
			cpu.write(b_kind, b%a)
		}
	case OP_MDI:
		if a == 0 {
			cpu.write(b_kind, 0)
		} else {
			cpu.write(b_kind, uint16(int32(int16(b))%int32(int16(a))))
		}
	case OP_AND:
		cpu.write(b_kind, b&a)
	case OP_BOR:
		cpu.write(b_kind, b|a)
	case OP_XOR:
		cpu.write(b_kind, b^a)
	case OP_SHR:
		cpu.Ex = uint16((uint32(b) << 16) >> a)
		cpu.write(b_kind, b>>a)
	case OP_ASR:
		cpu.Ex = uint16((uint32(b) << 16) >> a)
		cpu.write(b_kind, uint16(int16(b)>>a))
	case OP_SHL:
		cpu.Ex = uint16((uint32(b) << a) >> 16)
		cpu.write(b_kind, b<<a)
	case OP_IFB:
		skip = (b & a) == 0
	case OP_IFC:
		skip = (b & a) != 0
	case OP_IFE:
		skip = b != a
	case OP_IFN:
		skip = b == a
	case OP_IFG:
		skip = !(b > a)
	case OP_IFA:
		skip = !(int16(b) > int16(a))
	case OP_IFL:
		skip = !(b < a)
	case OP_IFU:
		skip = !(int16(b) < int16(a))
	case OP_ADX:
		sum := uint32(b) + uint32(a) + uint32(cpu.Ex)
		if sum > 0xffff {
			cpu.Ex = 0x0001
		} else {
			cpu.Ex = 0
		}
		cpu.write(b_kind, uint16(sum))
	case OP_SBX:
		diff := int32(b) - int32(a) + int32(cpu.Ex)
		switch {
		case diff < 0:
			cpu.Ex = 0xffff
		case diff > 0xffff:
			cpu.Ex = 0x0001
		default:
			cpu.Ex = 0
		}
		cpu.write(b_kind, uint16(diff))
	case OP_STI:
		cpu.write(b_kind, a)
		cpu.Register[REG_I]++
		cpu.Register[REG_J]++
	case OP_STD:
		cpu.write(b_kind, a)
		cpu.Register[REG_I]--
		cpu.Register[REG_J]--
	default:
		err = ErrOpcodeInvalid
	}

	return
}

// doSpecial performs a one operand operation on a resolved operand.
func (cpu *Cpu) doSpecial(op SpecialOp, a_kind Kind) (err error) {
	if !op.Implemented() {
		err = errors.Join(ErrNotImplemented, ErrSpecialOp(op))
		return
	}

	a := cpu.read(a_kind)

	switch op {
	case SPECIAL_JSR:
		// Operand evaluation has already moved PC past this instruction.
		cpu.Push(cpu.Pc)
		cpu.Pc = a
	case SPECIAL_IAG:
		cpu.write(a_kind, cpu.Ia)
	case SPECIAL_IAS:
		cpu.Ia = a
	case SPECIAL_HWN:
		// No hardware is attached.
		cpu.write(a_kind, 0)
	default:
		err = ErrOpcodeInvalid
	}

	return
}
