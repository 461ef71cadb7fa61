// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"

	"github.com/ezrec/dcpu/cpu"
	"github.com/ezrec/dcpu/internal"
	"github.com/ezrec/dcpu/io"
)

const (
	REFRESH_TICKS = 64 // Default ticks between display refreshes.
)

var _emulator_defines = map[string]string{
	"REFRESH_TICKS": fmt.Sprintf("%v", REFRESH_TICKS),
}

var _ io.Memory = (*cpu.Memory)(nil)

// Emulator state. CPU + memory mapped devices.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently running program listing.

	Keyboard io.Keyboard // Keyboard ring buffer.
	Display  io.Display  // Character cell display.

	RefreshTicks int // Ticks between display refreshes.

	sinceRefresh int
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:          cpu.NewCpu(),
		Program:      &cpu.Program{},
		RefreshTicks: REFRESH_TICKS,
	}

	return
}

// Devices returns the memory mapped devices, in update order.
func (emu *Emulator) Devices() []io.Device {
	return []io.Device{&emu.Keyboard, &emu.Display}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		emu.Keyboard.Defines(),
		emu.Display.Defines(),
	)
}

// Assemble a program, with all of the emulator defines available to it.
func (emu *Emulator) Assemble(source string) (err error) {
	asm := &cpu.Assembler{Verbose: emu.Verbose}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return
	}

	emu.Program = prog

	return
}

// Reset the processor, load the program, and reset the devices.
func (emu *Emulator) Reset() (err error) {
	binary := emu.Program.Binary()
	if len(binary) > cpu.MEMORY_SIZE {
		err = cpu.ErrProgramTooLarge
		return
	}

	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Cpu.Load(binary)

	for _, dev := range emu.Devices() {
		dev.Reset(emu.Cpu.Memory)
	}
	emu.sinceRefresh = 0

	if emu.Verbose {
		log.Printf("emulator: loaded %d words", len(binary))
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Cycles returns the total cycles consumed since a reset.
func (emu *Emulator) Cycles() int {
	return emu.Cpu.Cycles
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Pc)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	for ip, code := range emu.Program.Codes() {
		if emu.Cpu.Pc == ip {
			return code
		}
	}

	return cpu.Code{}
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// refresh brings the display up to date.
func (emu *Emulator) refresh() (err error) {
	emu.sinceRefresh = 0
	return emu.Display.Update(emu.Cpu.Memory)
}

// Tick performs a single tick of the emulator.
// Stubbed processor features are reported with an error wrapping
// cpu.ErrNotImplemented, and the emulator may be ticked again.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Finished() {
		done = true
		return
	}

	lineno := emu.LineNo()
	pc := emu.Cpu.Pc
	defer func() {
		if err != nil {
			err = &ErrRuntime{LineNo: lineno, Pc: pc, Err: err}
		}
	}()

	err = emu.Keyboard.Update(emu.Cpu.Memory)
	if err != nil {
		return
	}

	err = emu.Cpu.Tick()

	done = emu.Cpu.Finished()
	emu.sinceRefresh++
	if done || emu.sinceRefresh >= emu.RefreshTicks {
		rerr := emu.refresh()
		if err == nil {
			err = rerr
		}
	}

	return
}

// Run ticks the emulator until the program finishes, or until maxTicks
// instructions have executed when maxTicks is positive.
// Stubbed processor features are logged and skipped.
func (emu *Emulator) Run(maxTicks int) (err error) {
	for ticks := 0; maxTicks <= 0 || ticks < maxTicks; ticks++ {
		var done bool
		done, err = emu.Tick()
		if errors.Is(err, cpu.ErrNotImplemented) {
			log.Printf("emulator: %v", err)
			err = nil
		}
		if err != nil || done {
			return
		}
	}

	err = emu.refresh()

	return
}
