package cpu

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// operand is a parsed operand, before label resolution.
type operand struct {
	value Value  // Addressing mode.
	imm   uint16 // Next word, or offset added to the label.
	label string // Label to resolve in the second pass.
}

// resolve returns the next word of the operand, given the label map.
func (op operand) resolve(labels map[string]int) (imm uint16, err error) {
	imm = op.imm
	if len(op.label) == 0 {
		return
	}

	addr, ok := labels[op.label]
	if !ok {
		err = ErrLabelMissing(op.label)
		return
	}

	imm += uint16(addr)
	return
}

// termType is the class of a single operand term.
type termType int

const (
	termRegister termType = iota
	termKeyword
	termLiteral
	termLabel
)

// term is a single word of an operand.
type term struct {
	typ      termType
	register Register
	keyword  ValueType
	literal  uint16
	label    string
}

var registerMap = map[string]Register{
	"a": REG_A,
	"b": REG_B,
	"c": REG_C,
	"x": REG_X,
	"y": REG_Y,
	"z": REG_Z,
	"i": REG_I,
	"j": REG_J,
}

var keywordMap = map[string]ValueType{
	"push": VALUE_PUSH,
	"pop":  VALUE_POP,
	"peek": VALUE_PEEK,
	"pick": VALUE_PICK,
	"sp":   VALUE_SP,
	"pc":   VALUE_PC,
	"ex":   VALUE_EX,
}

var labelRegexp = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*$`)

// reserved returns true if the name is a register or operand keyword.
func reserved(name string) bool {
	lower := strings.ToLower(name)
	_, is_reg := registerMap[lower]
	_, is_key := keywordMap[lower]
	return is_reg || is_key
}

// parseLiteral parses a decimal or 0x prefixed hexadecimal number.
// Negative decimals are stored as two's complement.
func parseLiteral(word string) (value uint16, err error) {
	if strings.HasPrefix(word, "0x") || strings.HasPrefix(word, "0X") {
		var v64 uint64
		v64, err = strconv.ParseUint(word[2:], 16, 16)
		if err != nil {
			err = ErrParseNumber(word)
			return
		}
		value = uint16(v64)
		return
	}

	v64, err := strconv.ParseInt(word, 10, 32)
	if err != nil || v64 < -0x8000 || v64 > 0xffff {
		err = ErrParseNumber(word)
		return
	}

	value = uint16(v64)
	return
}

// parseTerm classifies a single operand word.
func parseTerm(word string) (t term, err error) {
	lower := strings.ToLower(word)

	if reg, ok := registerMap[lower]; ok {
		t = term{typ: termRegister, register: reg}
		return
	}

	if key, ok := keywordMap[lower]; ok {
		t = term{typ: termKeyword, keyword: key}
		return
	}

	if len(word) > 0 && (word[0] == '-' || unicode.IsDigit(rune(word[0]))) {
		var value uint16
		value, err = parseLiteral(word)
		if err != nil {
			return
		}
		t = term{typ: termLiteral, literal: value}
		return
	}

	if labelRegexp.MatchString(word) {
		t = term{typ: termLabel, label: word}
		return
	}

	err = ErrParseValue(word)
	return
}

// nextOperand creates an operand from a literal or label term.
func nextOperand(typ ValueType, side Side, t term) operand {
	return operand{
		value: MakeValue(typ, side),
		imm:   t.literal,
		label: t.label,
	}
}

// parseOperand parses the text of a single instruction operand.
func parseOperand(text string, side Side) (op operand, err error) {
	text = strings.TrimSpace(text)
	if len(text) == 0 {
		err = ErrOperandMissing
		return
	}

	opens := strings.Count(text, "[")
	closes := strings.Count(text, "]")
	if opens > 0 || closes > 0 {
		if opens != 1 || closes != 1 || text[0] != '[' || text[len(text)-1] != ']' {
			err = ErrBracketUnbalanced
			return
		}
		inner := strings.Map(func(r rune) rune {
			if unicode.IsSpace(r) {
				return -1
			}
			return r
		}, text[1:len(text)-1])
		return parseDereference(inner, side)
	}

	if strings.Contains(text, "+") {
		err = ErrAdditionUnbracketed
		return
	}

	fields := strings.Fields(text)
	if strings.EqualFold(fields[0], "pick") {
		return parsePick(fields[1:], side)
	}
	if len(fields) > 1 {
		err = ErrParseValue(text)
		return
	}

	t, err := parseTerm(fields[0])
	if err != nil {
		return
	}

	switch t.typ {
	case termRegister:
		op.value = MakeRegister(VALUE_REGISTER, side, t.register)
	case termKeyword:
		switch {
		case t.keyword == VALUE_PUSH && side == SIDE_A:
			err = ErrPushSource
		case t.keyword == VALUE_POP && side == SIDE_B:
			err = ErrPopDestination
		case t.keyword == VALUE_PICK:
			op.value = MakeValue(VALUE_PICK, side)
		default:
			op.value = MakeValue(t.keyword, side)
		}
	case termLiteral:
		if side == SIDE_A && InlineLiteral(t.literal) {
			op.value = MakeLiteral(t.literal)
		} else {
			op = nextOperand(VALUE_NEXT, side, t)
		}
	case termLabel:
		op = nextOperand(VALUE_NEXT, side, t)
	}

	return
}

// parsePick parses the stack offset of a PICK operand.
func parsePick(words []string, side Side) (op operand, err error) {
	switch len(words) {
	case 0:
		op.value = MakeValue(VALUE_PICK, side)
	case 1:
		var t term
		t, err = parseTerm(words[0])
		if err != nil {
			return
		}
		if t.typ != termLiteral && t.typ != termLabel {
			err = ErrPickSyntax
			return
		}
		op = nextOperand(VALUE_PICK, side, t)
	default:
		err = ErrPickSyntax
	}

	return
}

// parseDereference parses the whitespace free contents of a bracketed operand.
func parseDereference(inner string, side Side) (op operand, err error) {
	if len(inner) == 0 {
		err = ErrOperandMissing
		return
	}

	parts := strings.Split(inner, "+")
	switch len(parts) {
	case 1:
		var t term
		t, err = parseTerm(parts[0])
		if err != nil {
			return
		}
		switch {
		case t.typ == termRegister:
			op.value = MakeRegister(VALUE_REGISTER_DEREF, side, t.register)
		case t.typ == termLiteral, t.typ == termLabel:
			op = nextOperand(VALUE_NEXT_DEREF, side, t)
		case t.typ == termKeyword && t.keyword == VALUE_SP:
			op.value = MakeValue(VALUE_PEEK, side)
		default:
			err = ErrDereferenceInvalid
		}
		return
	case 2:
		// handled below
	default:
		err = ErrAdditionMultiple
		return
	}

	if len(parts[0]) == 0 || len(parts[1]) == 0 {
		err = ErrAdditionForm
		return
	}

	lhs, err := parseTerm(parts[0])
	if err != nil {
		return
	}
	rhs, err := parseTerm(parts[1])
	if err != nil {
		return
	}

	// Put the register or stack pointer on the right.
	if lhs.typ == termRegister || lhs.typ == termKeyword {
		lhs, rhs = rhs, lhs
	}

	offset := lhs.typ == termLiteral || lhs.typ == termLabel
	switch {
	case offset && rhs.typ == termRegister:
		op = nextOperand(VALUE_REGISTER_NEXT_DEREF, side, lhs)
		op.value.Register = rhs.register
	case offset && rhs.typ == termKeyword && rhs.keyword == VALUE_SP:
		op = nextOperand(VALUE_PICK, side, lhs)
	case lhs.typ == termLiteral && rhs.typ == termLiteral:
		op.value = MakeValue(VALUE_NEXT_DEREF, side)
		op.imm = lhs.literal + rhs.literal
	case lhs.typ == termLabel && rhs.typ == termLiteral:
		op = nextOperand(VALUE_NEXT_DEREF, side, lhs)
		op.imm = rhs.literal
	case lhs.typ == termLiteral && rhs.typ == termLabel:
		op = nextOperand(VALUE_NEXT_DEREF, side, rhs)
		op.imm = lhs.literal
	default:
		err = ErrAdditionForm
	}

	return
}

// parseData parses the comma separated items of a DAT directive.
func parseData(text string) (data []operand, err error) {
	items := splitOperands(text)
	if len(items) == 1 && len(strings.TrimSpace(items[0])) == 0 {
		err = ErrOperandMissing
		return
	}

	for _, item := range items {
		item = strings.TrimSpace(item)
		if len(item) == 0 {
			err = ErrOperandMissing
			return
		}

		if item[0] == '"' {
			if len(item) < 2 || item[len(item)-1] != '"' {
				err = ErrStringUnterminated
				return
			}
			for _, ch := range []byte(item[1 : len(item)-1]) {
				if ch < 0x20 || ch > 0x7e {
					err = ErrStringRange(ch)
					return
				}
				data = append(data, operand{value: MakeValue(VALUE_NEXT, SIDE_A), imm: uint16(ch)})
			}
			continue
		}

		var t term
		t, err = parseTerm(item)
		if err != nil {
			return
		}
		if t.typ != termLiteral && t.typ != termLabel {
			err = ErrParseValue(item)
			return
		}
		data = append(data, nextOperand(VALUE_NEXT, SIDE_A, t))
	}

	return
}

// splitOperands splits text on commas that are outside of double quotes.
func splitOperands(text string) (items []string) {
	quoted := false
	start := 0
	for n, ch := range text {
		switch {
		case ch == '"':
			quoted = !quoted
		case ch == ',' && !quoted:
			items = append(items, text[start:n])
			start = n + 1
		}
	}
	items = append(items, text[start:])

	return
}
