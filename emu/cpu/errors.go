package cpu

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode  = errors.New("unknown opcode")
	ErrStackOverflow  = errors.New("stack overflow")
	ErrStackUnderflow = errors.New("stack underflow")
	ErrInvalidFont    = errors.New("no font sprite for value")
	ErrROMTooLarge    = errors.New("ROM too big")
)

// DecodeError reports an instruction word that matches no opcode pattern.
// Addr is zero when the word was decoded outside of a running machine.
type DecodeError struct {
	Addr uint16
	Word uint16
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unknown opcode %04X at %03X", e.Word, e.Addr)
}

func (e *DecodeError) Unwrap() error { return ErrUnknownOpcode }

func unknownOpcode(word uint16) error {
	return &DecodeError{Word: word}
}
