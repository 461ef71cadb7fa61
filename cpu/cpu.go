package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

// State is the run state of a processor.
type State int

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_RUNNING  = State(0) // running
	STATE_FINISHED = State(1) // finished
)

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("0x%x", MEMORY_SIZE),
	"STACK_START": fmt.Sprintf("0x%x", STACK_START),
}

// Cpu is the simulation context for a DCPU-16 processor.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Register [REGISTER_COUNT]uint16 // General purpose registers.
	Memory   *Memory                // Main memory.

	Pc uint16 // Program counter.
	Sp uint16 // Stack pointer.
	Ex uint16 // Excess register.
	Ia uint16 // Interrupt address.

	State State // Run state.

	Cycles int // Cycle counter.
	Ticks  int // Executed instruction counter.
}

// NewCpu creates a new processor with cleared memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: &Memory{},
	}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Zeros statistics counters.
// - Sets SP to the top of memory.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	clear(cpu.Register[:])
	clear(cpu.Memory[:])
	cpu.Pc = 0
	cpu.Sp = STACK_START
	cpu.Ex = 0
	cpu.Ia = 0
	cpu.State = STATE_RUNNING
	cpu.Cycles = 0
	cpu.Ticks = 0
}

// Load copies a program into memory at address 0, and starts execution
// from there.
func (cpu *Cpu) Load(words []uint16) {
	if cpu.Verbose {
		log.Printf("cpu: load %d words", len(words))
	}

	cpu.Memory.Load(words)
	cpu.Pc = 0
	cpu.State = STATE_RUNNING
}

// Finished returns true once the processor has stopped.
func (cpu *Cpu) Finished() bool {
	return cpu.State == STATE_FINISHED
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var lines []string
	for n, val := range cpu.Register {
		lines = append(lines, fmt.Sprintf("% 5s: %04X", Register(n), val))
	}
	lines = append(lines,
		fmt.Sprintf("% 5s: %04X", "PC", cpu.Pc),
		fmt.Sprintf("% 5s: %04X", "SP", cpu.Sp),
		fmt.Sprintf("% 5s: %04X", "EX", cpu.Ex),
		fmt.Sprintf("% 5s: %04X", "IA", cpu.Ia),
		fmt.Sprintf("% 5s: %v", "state", cpu.State),
		fmt.Sprintf("% 5s: %d", "cycle", cpu.Cycles),
	)

	return strings.Join(lines, "\n") + "\n"
}

// nextWord reads the word at PC, and advances PC.
func (cpu *Cpu) nextWord() (word uint16) {
	word = cpu.Memory[cpu.Pc]
	cpu.Pc++
	return
}

// Fetch decodes the instruction at PC, without executing it.
func (cpu *Cpu) Fetch() (ins Instruction, err error) {
	word := cpu.Memory[cpu.Pc]
	ins, err = Decode(word)
	if err != nil {
		err = errors.Join(ErrOpcode(word), err)
	}
	return
}

// Tick executes a single instruction.
//
// A processor whose PC is unchanged by an instruction has finished, and
// further ticks do nothing. An undecodable word also finishes the
// processor, and is returned as an error. Unimplemented instructions
// return an error wrapping ErrNotImplemented, but leave the processor
// running.
func (cpu *Cpu) Tick() (err error) {
	if cpu.State == STATE_FINISHED {
		return
	}

	start := cpu.Pc

	ins, err := cpu.Fetch()
	if err != nil {
		cpu.State = STATE_FINISHED
		return
	}

	if cpu.Verbose {
		log.Printf("%04x: %v", start, ins.Format(cpu.Memory[start+1:min(int(start)+ins.Len(), MEMORY_SIZE)]))
	}

	cpu.Pc++
	cpu.Ticks++

	skip, err := cpu.Execute(ins)
	if err != nil && !errors.Is(err, ErrNotImplemented) {
		cpu.State = STATE_FINISHED
		return
	}

	if skip {
		var next Instruction
		next, err = cpu.Fetch()
		if err != nil {
			cpu.State = STATE_FINISHED
			return
		}
		if cpu.Verbose {
			log.Printf("%04x: skip %v", cpu.Pc, next)
		}
		cpu.Pc += uint16(next.Len())
		cpu.Cycles++
	}

	if cpu.Pc == start {
		if cpu.Verbose {
			log.Printf("cpu: finished at %04x", start)
		}
		cpu.State = STATE_FINISHED
	}

	return
}
