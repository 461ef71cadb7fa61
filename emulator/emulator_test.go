package emulator

import (
	"bytes"
	"errors"
	"maps"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/dcpu/cpu"
	"github.com/ezrec/dcpu/io"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu.Memory)
	assert.Equal(REFRESH_TICKS, emu.RefreshTicks)
	assert.Equal(2, len(emu.Devices()))

	// Nothing loaded, so the first word is not an instruction.
	assert.NoError(emu.Reset())
	_, err := emu.Tick()
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)
}

// doRunSingle runs a straight line program, ending in a halt loop.
func doRunSingle(emu *Emulator, program []string, input []byte, t *testing.T) (output []byte) {
	assert := assert.New(t)

	err := emu.Assemble(strings.Join(program, "\n"))
	if !assert.NoError(err) {
		t.FailNow()
	}

	emu.Keyboard.Input = bytes.NewReader(input)
	display_output := &bytes.Buffer{}
	emu.Display.Output = display_output

	err = emu.Reset()
	assert.NoError(err)

	var done bool
	prog := emu.Program
	for _, op := range prog.Opcodes {
		assert.Equal(op.LineNo, emu.LineNo())
		here := program[emu.LineNo()-1]
		assert.Equal(op.Ip, emu.Ip(), here)
		assert.Equal(op.Codes[0], emu.Code(), here)
		debug := prog.Debug(emu.Cpu.Pc)
		assert.Equal(0, debug.Index, here)
		done, err = emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		if done {
			break
		}
	}
	assert.True(done)

	done, err = emu.Tick()
	assert.NoError(err)
	assert.True(done)

	output = display_output.Bytes()
	return
}

func TestEmulatorRegisters(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"SET A, 0x10",
		"SET B, 0x20",
		"ADD B, A",
		"SET C, [data]",
		"SET X, [data+1]",
		"SUB X, 1",
		":halt SET PC, halt",
		":data DAT 0x30, 0x40",
	}

	output := doRunSingle(emu, program, nil, t)

	assert.Equal(uint16(0x10), emu.Cpu.Register[cpu.REG_A])
	assert.Equal(uint16(0x30), emu.Cpu.Register[cpu.REG_B])
	assert.Equal(uint16(0x30), emu.Cpu.Register[cpu.REG_C])
	assert.Equal(uint16(0x3f), emu.Cpu.Register[cpu.REG_X])
	assert.Equal(uint16(0), emu.Cpu.Ex)
	assert.Equal(7, emu.Ticks())
	assert.Less(emu.Ticks(), emu.Cycles())

	// Finishing always draws the display.
	assert.Equal(1, emu.Display.Frames)
	assert.True(strings.HasSuffix(string(output), "--\n"))
}

func TestEmulatorEqu(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		".equ CONST_10 0x10",
		"SET A, CONST_10",
		"SET B, $(CONST_10 + CONST_10)",
		".equ CONST_30 $(2 * CONST_10 + CONST_10)",
		"SET C, CONST_30",
		"SET X, $(LINENO * 8 + 0x10)",
		"SET Y, DISPLAY_ROWS",
		"SET Z, $(DISPLAY_BASE + DISPLAY_SIZE)",
		":halt SET PC, halt",
	}

	doRunSingle(emu, program, nil, t)

	assert.Equal(uint16(0x10), emu.Cpu.Register[cpu.REG_A])
	assert.Equal(uint16(0x20), emu.Cpu.Register[cpu.REG_B])
	assert.Equal(uint16(0x30), emu.Cpu.Register[cpu.REG_C])
	assert.Equal(uint16(0x40), emu.Cpu.Register[cpu.REG_X])
	assert.Equal(uint16(io.DISPLAY_ROWS), emu.Cpu.Register[cpu.REG_Y])
	assert.Equal(uint16(io.DISPLAY_BASE+io.DISPLAY_SIZE), emu.Cpu.Register[cpu.REG_Z])
}

func TestEmulatorDisplay(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"SET I, 0",
		":next SET A, [message+I]",
		"IFE A, 0",
		"SET PC, halt",
		"SUB A, 0x20",
		"BOR A, 0xf000",
		"SET [DISPLAY_BASE+I], A",
		"ADD I, 1",
		"SET PC, next",
		":halt SET PC, halt",
		":message DAT \"Hi, DCPU!\", 0",
	}

	err := emu.Assemble(strings.Join(program, "\n"))
	if !assert.NoError(err) {
		return
	}
	out := &bytes.Buffer{}
	emu.Display.Output = out
	emu.RefreshTicks = 1000

	assert.NoError(emu.Reset())
	assert.NoError(emu.Run(0))
	assert.True(emu.Cpu.Finished())

	assert.Equal("Hi, DCPU!", emu.Display.Text(emu.Cpu.Memory)[0])
	assert.Equal(1, emu.Display.Frames)
	assert.True(strings.HasPrefix(out.String(), "Hi, DCPU!\n\n"))
}

// The keyboard terminal firmware of the LEM display.
var terminal = []string{
	"; Initial screen coord",
	"SET I, 0",
	"; FG color idx",
	"SET X, 15",
	"; BG color idx",
	"SET Y, 0",
	"SET A, 0",
	"SET PC, set_blink",
	"",
	":loop",
	"  IFE [KEYBOARD_SIZE], 0",
	"  SET PC, loop",
	"  SET B, [KEYBOARD_HEAD]",
	"  SET A, [KEYBOARD_DATA+B]",
	"  ADD B, 1",
	"  MOD B, KEYBOARD_CAPACITY",
	"  SET [KEYBOARD_HEAD], B",
	"  SUB [KEYBOARD_SIZE], 1",
	"  IFE A, KEY_BACKSPACE",
	"  SET PC, del_char",
	"  IFL A, 0x20",
	"  SET PC, loop",
	"  IFG A, 0x7f",
	"  SET PC, loop",
	"  SUB A, 0x20",
	"",
	":add_char",
	"  SET J, 0",
	"  BOR J, A",
	"  SHL X, 12",
	"  BOR J, X",
	"  SHR X, 12",
	"  SHL Y, 8",
	"  BOR J, Y",
	"  SHR Y, 8",
	"  SET [DISPLAY_BASE+I], J",
	"  ADD I, 1",
	"  SET PC, set_blink",
	"",
	":del_char",
	"  IFE I, 0",
	"  SET PC, loop",
	"  SET [DISPLAY_BASE+I], 0",
	"  SUB I, 1",
	"  SET PC, set_blink",
	"",
	":set_blink",
	"  SET J, 1",
	"  SHL J, 7",
	"  SET [DISPLAY_BASE+I], J",
	"  SET PC, loop",
}

func TestEmulatorTerminal(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	err := emu.Assemble(strings.Join(terminal, "\n"))
	if !assert.NoError(err) {
		return
	}

	emu.Keyboard.Input = strings.NewReader("HI\b!")
	out := &bytes.Buffer{}
	emu.Display.Output = out
	emu.RefreshTicks = 1

	assert.NoError(emu.Reset())

	// The terminal never finishes, it waits for more keys.
	assert.NoError(emu.Run(1000))
	assert.False(emu.Cpu.Finished())
	assert.True(emu.Keyboard.Closed())
	assert.Equal(1000, emu.Ticks())

	mem := emu.Cpu.Memory
	assert.Equal(uint16(0xf028), mem[io.DISPLAY_BASE+0])
	assert.Equal(uint16(0xf001), mem[io.DISPLAY_BASE+1])
	assert.Equal(uint16(0x0080), mem[io.DISPLAY_BASE+2])
	assert.Equal(uint16(0), mem[io.KEYBOARD_SIZE])
	assert.Equal(uint16(4), mem[io.KEYBOARD_HEAD])
	assert.Equal(uint16(2), emu.Cpu.Register[cpu.REG_I])

	rows := emu.Display.Text(mem)
	assert.Equal("H!_", rows[0])

	// Every framebuffer change is a frame, and the last frame is the final state.
	assert.Equal(10, emu.Display.Frames)
	frames := strings.Split(out.String(), strings.Repeat("-", io.DISPLAY_COLUMNS)+"\n")
	assert.Equal(11, len(frames))
	assert.True(strings.HasPrefix(frames[0], "\n"))
	assert.True(strings.HasPrefix(frames[1], "_\n"))
	assert.True(strings.HasPrefix(frames[5], "HI_\n"))
	assert.True(strings.HasPrefix(frames[7], "H_\n"))
	assert.True(strings.HasPrefix(frames[9], "H!_\n"))
}

func TestEmulatorNotImplemented(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"INT 1",
		"SET A, 1",
		":halt SET PC, halt",
	}
	assert.NoError(emu.Assemble(strings.Join(program, "\n")))
	assert.NoError(emu.Reset())

	done, err := emu.Tick()
	assert.False(done)
	assert.ErrorIs(err, cpu.ErrNotImplemented)
	assert.ErrorIs(err, cpu.ErrSpecialOp(cpu.SPECIAL_INT))

	var rt_err *ErrRuntime
	assert.True(errors.As(err, &rt_err))
	assert.Equal(1, rt_err.LineNo)
	assert.Equal(uint16(0), rt_err.Pc)

	// Run logs and continues past stubbed features.
	assert.NoError(emu.Reset())
	assert.NoError(emu.Run(0))
	assert.True(emu.Cpu.Finished())
	assert.Equal(uint16(1), emu.Cpu.Register[cpu.REG_A])
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"SET A, 1",
		"DAT 0x0000",
	}
	assert.NoError(emu.Assemble(strings.Join(program, "\n")))
	assert.NoError(emu.Reset())

	done, err := emu.Tick()
	assert.NoError(err)
	assert.False(done)

	done, err = emu.Tick()
	assert.True(done)
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)

	var rt_err *ErrRuntime
	assert.True(errors.As(err, &rt_err))
	assert.Equal(2, rt_err.LineNo)
	assert.Equal(uint16(1), rt_err.Pc)
	assert.True(strings.HasPrefix(err.Error(), "line 2 (pc 0x0001) "))

	// Finished emulators stay finished.
	done, err = emu.Tick()
	assert.True(done)
	assert.NoError(err)

	assert.NoError(emu.Reset())
	err = emu.Run(0)
	assert.ErrorIs(err, cpu.ErrOpcodeInvalid)
}

func TestEmulatorAssembleError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	prog := emu.Program

	err := emu.Assemble("SET A, [B+C]\nFOO")
	var asm_err cpu.ErrAssembly
	assert.True(errors.As(err, &asm_err))
	assert.Equal(2, len(asm_err))

	// The previous program is kept.
	assert.Equal(prog, emu.Program)
}

func TestEmulatorResetTooLarge(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Program = &cpu.Program{
		Opcodes: []cpu.Opcode{
			{LineNo: 1, Codes: make([]cpu.Code, cpu.MEMORY_SIZE+1)},
		},
	}

	assert.ErrorIs(emu.Reset(), cpu.ErrProgramTooLarge)
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	defines := maps.Collect(emu.Defines())

	assert.Equal("0xffff", defines["STACK_START"])
	assert.Equal("0x9000", defines["KEYBOARD_BASE"])
	assert.Equal("0x8000", defines["DISPLAY_BASE"])
	assert.Equal("64", defines["REFRESH_TICKS"])
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.Verbose = true

	program := []string{
		"SET A, 0x10",
		":halt SET PC, halt",
	}

	doRunSingle(emu, program, nil, t)
	assert.True(emu.Cpu.Verbose)
	assert.Equal(uint16(0x10), emu.Cpu.Register[cpu.REG_A])
}
