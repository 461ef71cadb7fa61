package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeRoundTrip(t *testing.T) {
	assert := assert.New(t)

	for op := range basicCycles {
		for b := range uint16(0x20) {
			for a := range uint16(0x40) {
				word := (a << 10) | (b << 5) | uint16(op)
				ins, err := Decode(word)
				if !assert.NoError(err, "%04x", word) {
					return
				}
				basic, ok := ins.(BasicInstruction)
				if !assert.True(ok, "%04x", word) {
					return
				}
				assert.Equal(op, basic.Op)
				assert.Equal(SIDE_B, basic.B.Side)
				assert.Equal(SIDE_A, basic.A.Side)
				if !assert.Equal(word, ins.Encode().Word) {
					return
				}
				assert.Equal(1+Code{Word: word}.ImmediateNeed(), ins.Len())
			}
		}
	}

	for op := range specialCycles {
		for a := range uint16(0x40) {
			word := (a << 10) | (uint16(op) << 5)
			ins, err := Decode(word)
			if !assert.NoError(err, "%04x", word) {
				return
			}
			special, ok := ins.(SpecialInstruction)
			if !assert.True(ok, "%04x", word) {
				return
			}
			assert.Equal(op, special.Op)
			assert.Equal(word, ins.Encode().Word)
			assert.Equal(1+Code{Word: word}.ImmediateNeed(), ins.Len())
		}
	}
}

func TestDecodeInvalid(t *testing.T) {
	assert := assert.New(t)

	table := []uint16{
		0x0000, // special 0x00
		0x0040, // special 0x02
		0x0260, // special 0x13
		0x0018, // basic 0x18
		0x001c, // basic 0x1c
	}

	for _, word := range table {
		_, err := Decode(word)
		assert.ErrorIs(err, ErrOpcodeInvalid, "%04x", word)
	}
}

func TestInstructionString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code Code
		text string
		len  int
		cyc  int
	}){
		{Code{Word: 0x7c01, Immediates: []uint16{0x0030}}, "SET A, 0x30", 2, 2},
		{Code{Word: 0x0601, Immediates: []uint16{0x0010}}, "SET [0x10+A], B", 2, 2},
		{Code{Word: 0x8802}, "ADD A, 0x1", 1, 2},
		{Code{Word: 0x6701}, "SET PUSH, PEEK", 1, 1},
		{Code{Word: 0x7fc1, Immediates: []uint16{0x1000, 0x0020}}, "SET [0x1000], 0x20", 3, 3},
		{Code{Word: 0x7c20, Immediates: []uint16{0x1234}}, "JSR 0x1234", 2, 4},
		{Code{Word: 0x0120}, "IAG A", 1, 1},
		{Code{Word: 0x0000}, "DAT 0x0000", 1, 0},
	}

	for _, entry := range table {
		assert.Equal(entry.text, entry.code.String())
		assert.Equal(entry.len, entry.code.Len(), entry.text)
		ins, err := entry.code.Decode()
		if err != nil {
			continue
		}
		assert.Equal(entry.len, ins.Len(), entry.text)
		assert.Equal(entry.cyc, ins.Cycles(), entry.text)
		assert.Equal(entry.len-1, entry.code.ImmediateNeed(), entry.text)
	}
}

func TestMakeCode(t *testing.T) {
	assert := assert.New(t)

	code := MakeCodeBasic(OP_SET, MakeRegister(VALUE_REGISTER, SIDE_B, REG_A), MakeValue(VALUE_NEXT, SIDE_A), 0x30)
	assert.Equal([]uint16{0x7c01, 0x0030}, code.Words())

	code = MakeCodeSpecial(SPECIAL_JSR, MakeValue(VALUE_NEXT, SIDE_A), 0x1234)
	assert.Equal([]uint16{0x7c20, 0x1234}, code.Words())
	assert.True(code.Special())

	op, b, a := code.Fields()
	assert.Equal(uint16(SPECIAL_JSR), op)
	assert.Equal(uint16(0), b)
	assert.Equal(uint16(0x1f), a)
}

func TestOpcodeNames(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(OP_SET, basicMap["set"])
	assert.Equal(OP_STD, basicMap["std"])
	assert.Equal(SPECIAL_JSR, specialMap["jsr"])
	assert.Equal(SPECIAL_HWI, specialMap["hwi"])
	assert.Equal(len(basicCycles), len(basicMap))
	assert.Equal(len(specialCycles), len(specialMap))

	assert.True(OP_IFU.Conditional())
	assert.False(OP_ADX.Conditional())
	assert.False(SPECIAL_INT.Implemented())
	assert.True(SPECIAL_IAS.Implemented())
	assert.Equal("BasicOp(24)", BasicOp(0x18).String())
}
