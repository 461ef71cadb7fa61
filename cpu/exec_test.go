package cpu

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecBasic(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		op    BasicOp
		b, a  uint16
		ex    uint16
		value uint16
		want  uint16
		skip  bool
	}){
		{OP_SET, 0, 5, 0, 5, 0, false},
		{OP_ADD, 0xffff, 1, 0, 0, 1, false},
		{OP_ADD, 1, 2, 7, 3, 0, false},
		{OP_SUB, 0, 1, 0, 0xffff, 0xffff, false},
		{OP_SUB, 5, 3, 7, 2, 0, false},
		{OP_MUL, 0x1000, 0x10, 0, 0, 1, false},
		{OP_MLI, 0xffff, 2, 0, 0xfffe, 0xffff, false},
		{OP_DIV, 10, 3, 0, 3, 0x5555, false},
		{OP_DIV, 5, 0, 7, 0, 0, false},
		{OP_DVI, 0xfff6, 3, 0, 0xfffd, 0xaaab, false},
		{OP_DVI, 5, 0, 7, 0, 0, false},
		{OP_MOD, 10, 3, 7, 1, 7, false},
		{OP_MOD, 10, 0, 7, 0, 7, false},
		{OP_MDI, 0xfff9, 16, 7, 0xfff9, 7, false},
		{OP_MDI, 0xfff9, 0, 7, 0, 7, false},
		{OP_AND, 0xff0f, 0x0ff0, 7, 0x0f00, 7, false},
		{OP_BOR, 0xf000, 0x000f, 7, 0xf00f, 7, false},
		{OP_XOR, 0xffff, 0x0f0f, 7, 0xf0f0, 7, false},
		{OP_SHR, 0x8001, 1, 0, 0x4000, 0x8000, false},
		{OP_ASR, 0x8001, 1, 0, 0xc000, 0x8000, false},
		{OP_SHL, 0x8001, 1, 0, 0x0002, 0x0001, false},
		{OP_SHL, 0x1234, 40, 0, 0, 0, false},
		{OP_IFB, 0x0f, 0xf0, 7, 0x0f, 7, true},
		{OP_IFB, 0x0f, 0x01, 7, 0x0f, 7, false},
		{OP_IFC, 0x0f, 0xf0, 7, 0x0f, 7, false},
		{OP_IFC, 0x0f, 0x01, 7, 0x0f, 7, true},
		{OP_IFE, 1, 1, 7, 1, 7, false},
		{OP_IFE, 1, 2, 7, 1, 7, true},
		{OP_IFN, 1, 1, 7, 1, 7, true},
		{OP_IFN, 1, 2, 7, 1, 7, false},
		{OP_IFG, 0xffff, 1, 7, 0xffff, 7, false},
		{OP_IFG, 1, 2, 7, 1, 7, true},
		{OP_IFA, 0xffff, 1, 7, 0xffff, 7, true},
		{OP_IFA, 2, 0xffff, 7, 2, 7, false},
		{OP_IFL, 1, 2, 7, 1, 7, false},
		{OP_IFL, 2, 1, 7, 2, 7, true},
		{OP_IFU, 0xffff, 1, 7, 0xffff, 7, false},
		{OP_IFU, 1, 0xffff, 7, 1, 7, true},
		{OP_ADX, 0xffff, 0, 1, 0, 1, false},
		{OP_ADX, 1, 2, 3, 6, 0, false},
		{OP_SBX, 0, 1, 0, 0xffff, 0xffff, false},
		{OP_SBX, 5, 1, 1, 5, 0, false},
		{OP_SBX, 0xffff, 0, 0xffff, 0xfffe, 1, false},
	}

	for _, entry := range table {
		name := fmt.Sprintf("%v 0x%x, 0x%x (EX=0x%x)", entry.op, entry.b, entry.a, entry.ex)

		cpu := NewCpu()
		cpu.Register[REG_A] = entry.b
		cpu.Register[REG_B] = entry.a
		cpu.Ex = entry.ex

		ins := BasicInstruction{
			Op: entry.op,
			B:  MakeRegister(VALUE_REGISTER, SIDE_B, REG_A),
			A:  MakeRegister(VALUE_REGISTER, SIDE_A, REG_B),
		}
		skip, err := cpu.Execute(ins)
		assert.NoError(err, name)
		assert.Equal(entry.skip, skip, name)
		assert.Equal(entry.value, cpu.Register[REG_A], name)
		assert.Equal(entry.want, cpu.Ex, name)
		assert.Equal(entry.a, cpu.Register[REG_B], name)
		assert.Equal(entry.op.Cycles(), cpu.Cycles, name)
	}
}

func TestExecBlockCopy(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Register[REG_I] = 0x1000
	cpu.Register[REG_J] = 0x2000
	cpu.Memory[0x1000] = 0x55

	ins := BasicInstruction{
		Op: OP_STI,
		B:  MakeRegister(VALUE_REGISTER_DEREF, SIDE_B, REG_J),
		A:  MakeRegister(VALUE_REGISTER_DEREF, SIDE_A, REG_I),
	}
	_, err := cpu.Execute(ins)
	assert.NoError(err)
	assert.Equal(uint16(0x55), cpu.Memory[0x2000])
	assert.Equal(uint16(0x1001), cpu.Register[REG_I])
	assert.Equal(uint16(0x2001), cpu.Register[REG_J])

	ins.Op = OP_STD
	_, err = cpu.Execute(ins)
	assert.NoError(err)
	assert.Equal(uint16(0x1000), cpu.Register[REG_I])
	assert.Equal(uint16(0x2000), cpu.Register[REG_J])
}

func TestExecLiteralWrite(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Memory[0] = 0x1234
	cpu.Register[REG_A] = 9

	ins := BasicInstruction{
		Op: OP_ADD,
		B:  MakeValue(VALUE_NEXT, SIDE_B),
		A:  MakeRegister(VALUE_REGISTER, SIDE_A, REG_A),
	}
	_, err := cpu.Execute(ins)
	assert.NoError(err)
	assert.Equal(uint16(0x1234), cpu.Memory[0])
	assert.Equal(uint16(9), cpu.Register[REG_A])
	assert.Equal(uint16(1), cpu.Pc)
}

func TestExecSpecial(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Pc = 0x10
	cpu.Register[REG_A] = 0x200

	_, err := cpu.Execute(SpecialInstruction{Op: SPECIAL_JSR, A: MakeRegister(VALUE_REGISTER, SIDE_A, REG_A)})
	assert.NoError(err)
	assert.Equal(uint16(0x200), cpu.Pc)
	assert.Equal(uint16(0xfffe), cpu.Sp)
	assert.Equal(uint16(0x10), cpu.Memory[0xfffe])

	_, err = cpu.Execute(SpecialInstruction{Op: SPECIAL_IAS, A: MakeLiteral(7)})
	assert.NoError(err)
	assert.Equal(uint16(7), cpu.Ia)

	_, err = cpu.Execute(SpecialInstruction{Op: SPECIAL_IAG, A: MakeRegister(VALUE_REGISTER, SIDE_A, REG_B)})
	assert.NoError(err)
	assert.Equal(uint16(7), cpu.Register[REG_B])

	cpu.Register[REG_C] = 5
	_, err = cpu.Execute(SpecialInstruction{Op: SPECIAL_HWN, A: MakeRegister(VALUE_REGISTER, SIDE_A, REG_C)})
	assert.NoError(err)
	assert.Equal(uint16(0), cpu.Register[REG_C])

	for _, op := range []SpecialOp{SPECIAL_INT, SPECIAL_RFI, SPECIAL_IAQ, SPECIAL_HWQ, SPECIAL_HWI} {
		assert.False(op.Implemented(), op.String())
		_, err = cpu.Execute(SpecialInstruction{Op: op, A: MakeLiteral(0)})
		assert.ErrorIs(err, ErrNotImplemented, op.String())
		assert.ErrorIs(err, ErrSpecialOp(op), op.String())
	}
}

func TestExecEvaluationOrder(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	cpu.Push(0x11)
	cpu.Push(0x22)

	// b is pushed before a is popped, so a sees the new top of stack.
	ins := BasicInstruction{
		Op: OP_SET,
		B:  MakeValue(VALUE_PUSH, SIDE_B),
		A:  MakeValue(VALUE_POP, SIDE_A),
	}
	_, err := cpu.Execute(ins)
	assert.NoError(err)
	assert.Equal(uint16(0xfffd), cpu.Sp)
	assert.Equal(uint16(0), cpu.Memory[0xfffc])
	assert.Equal(uint16(0x22), cpu.Memory[0xfffd])
}
