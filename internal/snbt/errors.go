package snbt

import (
	"errors"
	"fmt"
)

// Sentinel errors for fragment parsing.
var (
	// ErrAbsent is returned for empty input or an empty compound.
	ErrAbsent = errors.New("fragment is empty")

	// ErrMalformed is returned when the fragment cannot be parsed or has no item id.
	ErrMalformed = errors.New("malformed fragment")
)

// SyntaxError describes where parsing stopped.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("snbt: %s at offset %d", e.Msg, e.Offset)
}

// Unwrap lets errors.Is match ErrMalformed.
func (e *SyntaxError) Unwrap() error {
	return ErrMalformed
}
