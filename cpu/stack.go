package cpu

// Push decrements SP, and stores a word at the new top of stack.
func (cpu *Cpu) Push(value uint16) {
	cpu.Sp--
	cpu.Memory[cpu.Sp] = value
}

// Pop reads the word at the top of stack, and increments SP.
func (cpu *Cpu) Pop() (value uint16) {
	value = cpu.Memory[cpu.Sp]
	cpu.Sp++
	return
}

// Peek reads the word at the top of stack.
func (cpu *Cpu) Peek() uint16 {
	return cpu.Memory[cpu.Sp]
}

// Depth returns the number of words pushed since reset.
func (cpu *Cpu) Depth() int {
	return (STACK_START - int(cpu.Sp)) & 0xffff
}
