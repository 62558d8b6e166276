// Package emu provides functional CHIP-8 emulation.
package emu

import (
	"errors"
	"fmt"

	"github.com/sarchlab/c8sim/insts"
)

var (
	// ErrStackOverflow is returned when CALL is executed with a full stack.
	ErrStackOverflow = errors.New("call stack overflow")

	// ErrStackUnderflow is returned when RET is executed with an empty stack.
	ErrStackUnderflow = errors.New("call stack underflow")

	// ErrAddressOutOfRange is wrapped by every AddressError.
	ErrAddressOutOfRange = errors.New("address out of range")

	// ErrProgramTooLarge is returned when a ROM does not fit in program memory.
	ErrProgramTooLarge = errors.New("program too large")

	// ErrMaxInstructions is returned once the instruction limit is reached.
	ErrMaxInstructions = errors.New("max instructions reached")
)

// AddressError reports a memory access that runs past the end of memory.
type AddressError struct {
	Addr uint16
	Size int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("access of %d bytes at 0x%04X: %v", e.Size, e.Addr, ErrAddressOutOfRange)
}

// Unwrap allows errors.Is(err, ErrAddressOutOfRange).
func (e *AddressError) Unwrap() error {
	return ErrAddressOutOfRange
}

// IsFatal reports whether err leaves the machine in a state that cannot be
// meaningfully resumed. Decode failures and the instruction limit are not
// fatal: PC already points past the offending opcode.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	var unknown *insts.UnknownOpcodeError
	if errors.As(err, &unknown) {
		return false
	}
	return !errors.Is(err, ErrMaxInstructions)
}
