package cpu

const (
	REGISTER_COUNT = 8       // General purpose registers.
	MEMORY_SIZE    = 0x10000 // Words of memory.
	STACK_START    = 0xffff  // Initial stack pointer.
)

// Memory is the flat, word addressed memory of a processor.
// Every uint16 is a valid address, so accesses wrap around naturally.
type Memory [MEMORY_SIZE]uint16

// Peek reads the word at an address.
func (mem *Memory) Peek(addr uint16) uint16 {
	return mem[addr]
}

// Poke writes the word at an address.
func (mem *Memory) Poke(addr uint16, value uint16) {
	mem[addr] = value
}

// Load copies words into memory, starting at address 0.
// Words beyond the end of memory are ignored.
func (mem *Memory) Load(words []uint16) {
	copy(mem[:], words)
}
