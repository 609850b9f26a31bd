package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidDataLength is the match target for every codec length failure.
	// Use errors.Is; the concrete error is an *InvalidDataLengthError carrying
	// the offending protocol and length.
	ErrInvalidDataLength = errors.New("invalid data length")

	// ErrUnknownProtocol is returned by the Dispatcher when no executor is
	// registered for the requested protocol. Nothing is decoded in that case.
	ErrUnknownProtocol = errors.New("unknown protocol")

	// ErrInvalidAmount is returned for a nil or non-positive input amount.
	ErrInvalidAmount = errors.New("amount in must be positive")
)

// InvalidDataLengthError reports a packed payload whose length does not match
// the protocol's layout formula. It is raised before any field is read and
// before any external call.
type InvalidDataLengthError struct {
	Protocol Protocol
	Length   int
	Want     string
}

func (e *InvalidDataLengthError) Error() string {
	return fmt.Sprintf("%s: invalid data length %d, want %s", e.Protocol, e.Length, e.Want)
}

// Is makes every InvalidDataLengthError match ErrInvalidDataLength.
func (e *InvalidDataLengthError) Is(target error) bool {
	return target == ErrInvalidDataLength
}
