package predecode

import (
	"errors"
	"fmt"
)

// ErrMalformedEnvelope is the only hard pre-decoding failure
// Record should be dropped when it is encountered
var ErrMalformedEnvelope = errors.New("malformed queue envelope")

// EnvelopeError carries the offending record for diagnostics
type EnvelopeError struct {
	Raw    []byte
	Reason string
}

func (e EnvelopeError) Error() string {
	return fmt.Sprintf("%s: %s in [%s]", ErrMalformedEnvelope, e.Reason, string(e.Raw))
}

func (e EnvelopeError) Unwrap() error { return ErrMalformedEnvelope }

// ErrInvalidTimestamp is returned when a calendar field can not be used
type ErrInvalidTimestamp struct {
	Field, Value string
}

func (e ErrInvalidTimestamp) Error() string {
	return fmt.Sprintf("invalid timestamp %s: [%s]", e.Field, e.Value)
}
