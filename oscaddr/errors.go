package oscaddr

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedAddress is returned for address strings that are not a
	// rooted, slash-delimited sequence of non-empty segments.
	ErrMalformedAddress = errors.New("malformed address")

	// ErrCaptureTypeMismatch is returned when a captured segment cannot be
	// converted to its declared type, or a value cannot be rendered for it.
	ErrCaptureTypeMismatch = errors.New("capture type mismatch")

	// ErrNoRouteMatched is returned when no declared route matches an address.
	ErrNoRouteMatched = errors.New("no route matched")

	// ErrDuplicateRoute is returned by NewTable when two declarations collide.
	ErrDuplicateRoute = errors.New("duplicate route")

	ErrInvalidTemplate  = errors.New("invalid route template")
	ErrInvalidVariant   = errors.New("invalid variant type")
	ErrUnknownVariant   = errors.New("unknown variant")
	ErrArgumentMismatch = errors.New("argument mismatch")
)

// AddressError describes an address string rejected by ParsePath.
type AddressError struct {
	Address string
	Reason  string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrMalformedAddress, e.Address, e.Reason)
}

func (e *AddressError) Unwrap() error { return ErrMalformedAddress }

// NoRouteError carries the address that failed to match any route.
type NoRouteError struct {
	Address string
}

func (e *NoRouteError) Error() string {
	return fmt.Sprintf("%s: %q", ErrNoRouteMatched, e.Address)
}

func (e *NoRouteError) Unwrap() error { return ErrNoRouteMatched }

// DuplicateRouteError names the two declarations that collide.
type DuplicateRouteError struct {
	First  string
	Second string
	Reason string
}

func (e *DuplicateRouteError) Error() string {
	return fmt.Sprintf("%s: %s and %s: %s", ErrDuplicateRoute, e.First, e.Second, e.Reason)
}

func (e *DuplicateRouteError) Unwrap() error { return ErrDuplicateRoute }

// CaptureError describes a capture whose text or value does not fit its
// declared type.
type CaptureError struct {
	Field string
	Type  CaptureType
	Text  string
	Err   error
}

func (e *CaptureError) Error() string {
	name := e.Field
	if name == "" {
		name = "(anonymous)"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: capture %s of type %s: %q: %v", ErrCaptureTypeMismatch, name, e.Type, e.Text, e.Err)
	}
	return fmt.Sprintf("%s: capture %s of type %s: %q", ErrCaptureTypeMismatch, name, e.Type, e.Text)
}

func (e *CaptureError) Unwrap() error { return ErrCaptureTypeMismatch }

// ArgumentError describes an argument that cannot be bound to a variant field.
type ArgumentError struct {
	Index int
	Field string
	Value interface{}
}

func (e *ArgumentError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: field %s: missing argument", ErrArgumentMismatch, e.Field)
	}
	return fmt.Sprintf("%s: argument %d (%T) cannot be assigned to field %s", ErrArgumentMismatch, e.Index, e.Value, e.Field)
}

func (e *ArgumentError) Unwrap() error { return ErrArgumentMismatch }
