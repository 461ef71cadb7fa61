package emulator

import (
	"github.com/ezrec/dcpu/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int    // Source line, or 0 if unknown.
	Pc     uint16 // Address of the failing instruction.
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d (pc 0x%04x) %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
