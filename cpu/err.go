package cpu

import (
	"strings"

	"github.com/ezrec/dcpu/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrNotImplemented = translate.Error("not implemented")

	// Instruction decode errors
	ErrOpcodeInvalid = translate.Error("opcode invalid")
	ErrValueInvalid  = translate.Error("value invalid")
	ErrOperandA      = translate.Error("operand a")
	ErrOperandB      = translate.Error("operand b")

	// Assembler errors
	ErrEquateSyntax        = translate.Error(".equ syntax")
	ErrEquateDuplicate     = translate.Error(".equ duplicated")
	ErrEquateLabel         = translate.Error(".equ name is already a label")
	ErrLabelEquate         = translate.Error("label name is already an .equ")
	ErrLabelDuplicate      = translate.Error("label duplicated")
	ErrLabelInvalid        = translate.Error("label invalid")
	ErrLabelReserved       = translate.Error("label is a reserved word")
	ErrOpcodeExtraArgs     = translate.Error("excessive arguments")
	ErrOperandMissing      = translate.Error("operand missing")
	ErrBracketUnbalanced   = translate.Error("unbalanced brackets")
	ErrDereferenceInvalid  = translate.Error("cannot dereference")
	ErrAdditionMultiple    = translate.Error("only one '+' allowed inside brackets")
	ErrAdditionUnbracketed = translate.Error("addition must be dereferenced")
	ErrAdditionForm        = translate.Error("addition must be [literal+register], [label+register] or [label+literal]")
	ErrPushSource          = translate.Error("PUSH is only valid as operand b")
	ErrPopDestination      = translate.Error("POP is only valid as operand a")
	ErrPickSyntax          = translate.Error("PICK syntax")
	ErrStringUnterminated  = translate.Error("unterminated string")
	ErrProgramTooLarge     = translate.Error("program exceeds memory")
)

// ErrMnemonic is an unrecognized instruction name.
type ErrMnemonic string

func (em ErrMnemonic) Error() string {
	return f("'%v' is not an instruction", string(em))
}

// ErrStringRange is a data string character outside of printable ASCII.
type ErrStringRange byte

func (es ErrStringRange) Error() string {
	return f("character 0x%02x is not printable ASCII", byte(es))
}

// ErrLabelMissing is a reference to a label that is never defined.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode is a word that cannot be decoded as an instruction.
type ErrOpcode uint16

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x", uint16(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax is a single assembler diagnostic.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrAssembly is the batch of diagnostics from one failed assembly.
type ErrAssembly []ErrSyntax

func (err ErrAssembly) Error() string {
	return strings.Join(err.Lines(), "\n")
}

// Lines returns each diagnostic as a line numbered string.
func (err ErrAssembly) Lines() (lines []string) {
	for _, se := range err {
		lines = append(lines, se.Error())
	}
	return
}

func (err ErrAssembly) Unwrap() (errs []error) {
	for _, se := range err {
		errs = append(errs, se)
	}
	return
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrSpecialOp names the special opcode behind an ErrNotImplemented.
type ErrSpecialOp SpecialOp

func (es ErrSpecialOp) Error() string {
	return f("%v", SpecialOp(es))
}
