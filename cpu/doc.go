// Package cpu implements the DCPU-16 processor and its assembler.
//
// The processor is word addressed: eight 16-bit general-purpose registers
// (A, B, C, X, Y, Z, I, J), 65536 words of memory, and the PC, SP, EX and IA
// special registers. Each Tick fetches, decodes and executes one instruction.
//
// Instructions are either basic (an opcode with a destination operand b and a
// source operand a) or special (an opcode with a single operand a). Operands
// are decoded into a Value (the static addressing mode), then evaluated against
// the live processor into a Kind (the storage location the opcode reads and
// writes). Evaluation may consume words following the opcode and adjust SP, so
// operands are always evaluated b first, then a.
//
// The assembler is a two pass, line oriented assembler. The first pass parses
// every line and assigns each label its word offset, the second pass resolves
// label references and emits the word stream.
package cpu
