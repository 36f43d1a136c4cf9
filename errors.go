package mpschema

import (
	"errors"
	"fmt"
	"strings"
)

// Error is the common taxonomy every converter-pipeline failure belongs
// to. Concrete error types below all satisfy it, and all wrap an
// underlying cause where one exists so errors.Is/errors.As chains work the
// same way they do throughout the teacher codebase's transport/http and
// middleware packages.
type Error interface {
	error
	mpschemaError()
}

type baseError struct {
	msg string
	err error
}

func (e *baseError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s", e.msg, e.err)
	}
	return e.msg
}
func (e *baseError) Unwrap() error { return e.err }
func (e *baseError) mpschemaError() {}

// InvalidCodeError: the next token is of a type the converter cannot
// consume.
type InvalidCodeError struct{ baseError }

func NewInvalidCodeError(op string, err error) *InvalidCodeError {
	return &InvalidCodeError{baseError{msg: "invalid code for " + op, err: err}}
}

// NotEnoughBytesError: buffer underflow on a synchronous read.
type NotEnoughBytesError struct{ baseError }

func NewNotEnoughBytesError(op string, err error) *NotEnoughBytesError {
	return &NotEnoughBytesError{baseError{msg: "not enough bytes for " + op, err: err}}
}

// UnexpectedLengthError: array/map header length does not match the
// required shape.
type UnexpectedLengthError struct{ baseError }

func NewUnexpectedLengthError(msg string) *UnexpectedLengthError {
	return &UnexpectedLengthError{baseError{msg: msg}}
}

// UnknownAliasError: a union alias is not in the dispatch table.
type UnknownAliasError struct{ baseError }

func NewUnknownAliasError(shape ShapeID, alias Alias) *UnknownAliasError {
	var a string
	if alias.Kind == AliasInt {
		a = fmt.Sprintf("%d", alias.Int)
	} else {
		a = alias.Str
	}
	return &UnknownAliasError{baseError{msg: fmt.Sprintf("%s: unknown alias %q", shape.String(), a)}}
}

// UnknownSubtypeError: a runtime type is not among the declared subtypes
// of a union base.
type UnknownSubtypeError struct{ baseError }

func NewUnknownSubtypeError(shape ShapeID, typeName string) *UnknownSubtypeError {
	return &UnknownSubtypeError{baseError{msg: fmt.Sprintf("%s: %s is not a declared subtype", shape.String(), typeName)}}
}

// DepthExceededError: nested depth breached max_depth.
type DepthExceededError struct{ baseError }

func NewDepthExceededError(maxDepth int) *DepthExceededError {
	return &DepthExceededError{baseError{msg: fmt.Sprintf("max depth of %d exceeded", maxDepth)}}
}

// CancelledError: the context's cancellation signal was observed.
type CancelledError struct{ baseError }

func NewCancelledError(err error) *CancelledError {
	return &CancelledError{baseError{msg: "serialization cancelled", err: err}}
}

// ReceiverClosedError: an async writer's pipe has stopped accepting bytes.
type ReceiverClosedError struct{ baseError }

func NewReceiverClosedError(err error) *ReceiverClosedError {
	return &ReceiverClosedError{baseError{msg: "receiver has stopped listening", err: err}}
}

// DoublePropertyAssignmentError: the same property position was set twice
// during one object deserialization.
type DoublePropertyAssignmentError struct{ baseError }

func NewDoublePropertyAssignmentError(shape ShapeID, property string) *DoublePropertyAssignmentError {
	return &DoublePropertyAssignmentError{baseError{msg: fmt.Sprintf("%s: property %q assigned more than once", shape.String(), property)}}
}

// MissingRequiredPropertyError: one or more required properties were never
// assigned.
type MissingRequiredPropertyError struct{ baseError }

func NewMissingRequiredPropertyError(shape ShapeID, properties []string) *MissingRequiredPropertyError {
	return &MissingRequiredPropertyError{baseError{msg: fmt.Sprintf("%s: missing required properties: %s", shape.String(), strings.Join(properties, ", "))}}
}

// NotSupportedError: the operation is unsupported on this converter (e.g.
// reading into a write-only shape).
type NotSupportedError struct{ baseError }

func NewNotSupportedError(msg string) *NotSupportedError {
	return &NotSupportedError{baseError{msg: msg}}
}

// IsCancelled reports whether err is, or wraps, a CancelledError.
func IsCancelled(err error) bool {
	var c *CancelledError
	return errors.As(err, &c)
}
