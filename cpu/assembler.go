// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a two pass assembler for the DCPU-16.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to word offsets.
	Equate    map[string]string // Map of equates.
}

// statement is a single parsed source line, awaiting label resolution.
type statement struct {
	lineNo int
	line   string
	ip     int
	words  []string

	data    bool
	basic   BasicOp
	special SpecialOp
	b, a    operand
	items   []operand
}

// Len returns the length of the statement in words.
func (st *statement) Len() int {
	switch {
	case st.data:
		return len(st.items)
	case st.special != 0:
		return 1 + st.a.value.Words()
	case st.basic != 0:
		return 1 + st.b.value.Words() + st.a.value.Words()
	}
	return 0
}

// emit resolves the labels of the statement, and generates its codes.
func (st *statement) emit(labels map[string]int) (codes []Code, err error) {
	if st.data {
		for _, item := range st.items {
			var word uint16
			word, err = item.resolve(labels)
			if err != nil {
				return
			}
			codes = append(codes, Code{Word: word, Data: true})
		}
		return
	}

	var imms []uint16
	operands := []operand{st.a}
	if st.basic != 0 {
		operands = []operand{st.b, st.a}
	}
	for _, op := range operands {
		if op.value.Words() == 0 {
			continue
		}
		var imm uint16
		imm, err = op.resolve(labels)
		if err != nil {
			return
		}
		imms = append(imms, imm)
	}

	if st.basic != 0 {
		codes = append(codes, MakeCodeBasic(st.basic, st.b.value, st.a.value, imms...))
	} else {
		codes = append(codes, MakeCodeSpecial(st.special, st.a.value, imms...))
	}

	return
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value uint16, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		if !labelRegexp.MatchString(key) || strings.Contains(key, ".") {
			continue
		}
		var lit uint16
		lit, err = parseLiteral(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(int(lit))
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok || st_int64 < -0x8000 || st_int64 > 0xffff {
		err = ErrParseExpression(expr)
		return
	}
	value = uint16(st_int64)
	return
}

// expand replaces every $(...) outside of double quotes with its value.
// An unclosed $( is left as is.
func (asm *Assembler) expand(text string) (string, error) {
	var out strings.Builder
	quoted := false

	for n := 0; n < len(text); n++ {
		ch := text[n]
		if ch == '"' {
			quoted = !quoted
		}
		if quoted || ch != '$' || n+1 >= len(text) || text[n+1] != '(' {
			out.WriteByte(ch)
			continue
		}

		depth := 0
		end := -1
		for m := n + 1; m < len(text) && end < 0; m++ {
			switch text[m] {
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					end = m
				}
			}
		}
		if end < 0 {
			out.WriteString(text[n:])
			break
		}

		value, err := asm.parenEval(text[n+2 : end])
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&out, "%#x", value)
		n = end
	}

	return out.String(), nil
}

// stripComment removes a ';' comment, ignoring any inside double quotes.
func stripComment(text string) string {
	quoted := false
	for n, ch := range text {
		switch {
		case ch == '"':
			quoted = !quoted
		case ch == ';' && !quoted:
			return text[:n]
		}
	}
	return text
}

// substitute replaces equates in every identifier outside of double quotes.
func (asm *Assembler) substitute(text string) string {
	var out strings.Builder
	quoted := false
	ident := -1

	flush := func(end int) {
		if ident < 0 {
			return
		}
		word := text[ident:end]
		if equ, ok := asm.Equate[word]; ok && !isDigit(word[0]) {
			out.WriteString(equ)
		} else {
			out.WriteString(word)
		}
		ident = -1
	}

	for n := 0; n < len(text); n++ {
		ch := text[n]
		word_char := ch == '_' || ch == '.' ||
			(ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || isDigit(ch)
		if !quoted && word_char {
			if ident < 0 {
				ident = n
			}
			continue
		}
		flush(n)
		if ch == '"' {
			quoted = !quoted
		}
		out.WriteByte(ch)
	}
	flush(len(text))

	return out.String()
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

// parseLabel splits a leading ':label' from the line.
func parseLabel(line string) (label string, rest string, err error) {
	if !strings.HasPrefix(line, ":") {
		rest = line
		return
	}

	label, rest, _ = strings.Cut(line[1:], " ")
	if n := strings.IndexAny(label, "\t"); n >= 0 {
		rest = label[n:] + " " + rest
		label = label[:n]
	}
	rest = strings.TrimSpace(rest)

	switch {
	case !labelRegexp.MatchString(label):
		err = ErrLabelInvalid
	case reserved(label):
		err = ErrLabelReserved
	}

	return
}

// parseLine parses a single source line. A nil statement with a nil error
// is a line that generates no code.
func (asm *Assembler) parseLine(line string, lineno int, ip int) (st *statement, err error) {
	// Set line number.
	asm.Equate["LINENO"] = strconv.Itoa(lineno)

	line, err = asm.expand(line)
	if err != nil {
		return
	}

	words := strings.Fields(line)
	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if strings.EqualFold(words[0], ".equ") {
		if len(words) != 3 || !labelRegexp.MatchString(words[1]) || reserved(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		_, ok = asm.Label[words[1]]
		if ok {
			err = ErrEquateLabel
			return
		}
		asm.Equate[words[1]] = asm.substitute(words[2])
		return
	}

	label, line, err := parseLabel(line)
	if err != nil {
		return
	}
	if len(label) > 0 {
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		_, ok = asm.Equate[label]
		if ok {
			err = ErrLabelEquate
			return
		}
		asm.Label[label] = ip
	}

	line = asm.substitute(line)
	if len(line) == 0 {
		return
	}

	mnemonic, args, _ := strings.Cut(line, " ")
	if n := strings.IndexAny(mnemonic, "\t"); n >= 0 {
		args = mnemonic[n:] + " " + args
		mnemonic = mnemonic[:n]
	}
	mnemonic = strings.ToLower(mnemonic)

	st = &statement{
		lineNo: lineno,
		ip:     ip,
		words:  strings.Fields(line),
	}

	if mnemonic == "dat" {
		st.data = true
		st.items, err = parseData(args)
		return
	}

	basic, is_basic := basicMap[mnemonic]
	special, is_special := specialMap[mnemonic]
	if !is_basic && !is_special {
		err = ErrMnemonic(mnemonic)
		return
	}

	operands := splitOperands(args)
	if len(operands) == 1 && len(strings.TrimSpace(operands[0])) == 0 {
		operands = nil
	}

	if is_special {
		switch {
		case len(operands) < 1:
			err = ErrOperandMissing
		case len(operands) > 1:
			err = ErrOpcodeExtraArgs
		default:
			st.special = special
			st.a, err = parseOperand(operands[0], SIDE_A)
		}
		return
	}

	switch {
	case len(operands) < 2:
		err = ErrOperandMissing
		return
	case len(operands) > 2:
		err = ErrOpcodeExtraArgs
		return
	}

	st.basic = basic
	st.b, err = parseOperand(operands[0], SIDE_B)
	if err != nil {
		return
	}
	st.a, err = parseOperand(operands[1], SIDE_A)

	return
}

// Parse assembles an input stream into a Program.
//
// Every line is parsed before any error is reported, and all diagnostics
// are returned together as an ErrAssembly. An undefined label stops
// assembly at the first line that references it.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	asm.Label = make(map[string]int, 16)
	asm.Opcode = asm.Opcode[:0]
	asm.Equate = maps.Clone(sysEquate)
	maps.Insert(asm.Equate, maps.All(asm.predefine))

	var statements []*statement
	var errs ErrAssembly
	var ip int
	var lineno int

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line := strings.TrimSpace(stripComment(text))

		st, line_err := asm.parseLine(line, lineno, ip)
		if line_err == nil && st != nil && ip+st.Len() > MEMORY_SIZE {
			line_err = ErrProgramTooLarge
		}
		if line_err != nil {
			errs = append(errs, ErrSyntax{LineNo: lineno, Line: strings.TrimSpace(text), Err: line_err})
			continue
		}
		if st == nil {
			continue
		}

		st.line = strings.TrimSpace(text)
		statements = append(statements, st)
		ip += st.Len()
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	if len(errs) > 0 {
		err = errs
		return
	}

	// Resolve labels and emit code.
	for _, st := range statements {
		var codes []Code
		codes, err = st.emit(asm.Label)
		if err != nil {
			err = ErrAssembly{ErrSyntax{LineNo: st.lineNo, Line: st.line, Err: err}}
			return
		}
		asm.Opcode = append(asm.Opcode, Opcode{
			LineNo: st.lineNo,
			Ip:     st.ip,
			Words:  st.words,
			Codes:  codes,
		})
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
		Label:   maps.Clone(asm.Label),
	}

	return
}

// Assemble assembles source text into a word stream.
func Assemble(source string) (words []uint16, err error) {
	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(source))
	if err != nil {
		return
	}

	words = prog.Binary()
	return
}
