// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package serialize implements the format-polymorphic Serializer facade
// (spec.md §4.1): a uniform typed I/O contract over a wire.Format and an
// ioc.Channel, with mode bitmask state, typed begin/end framing,
// AutoCalc two-pass size computation, and InitMode read-time allocation.
package serialize

import "fmt"

// Mode is the sticky bitmask carried by a Serializer (spec.md §3).
// Exactly one of Read/Write/Calc is set outside of a SetMode
// reconfiguration performed at nesting depth 0.
type Mode uint16

const (
	ModeRead Mode = 1 << iota
	ModeWrite
	ModeCalc
	ModeNoHeader
	ModeAutoCalc
	ModeInitMode
	ModeStreamNormal
	ModeStreamLoop
)

func (m Mode) directionBits() Mode { return m & (ModeRead | ModeWrite | ModeCalc) }

func (m Mode) directionCount() int {
	n := 0
	for _, b := range []Mode{ModeRead, ModeWrite, ModeCalc} {
		if m&b != 0 {
			n++
		}
	}
	return n
}

func (m Mode) String() string {
	var parts []string
	add := func(b Mode, name string) {
		if m&b != 0 {
			parts = append(parts, name)
		}
	}
	add(ModeRead, "Read")
	add(ModeWrite, "Write")
	add(ModeCalc, "Calc")
	add(ModeNoHeader, "NoHeader")
	add(ModeAutoCalc, "AutoCalc")
	add(ModeInitMode, "InitMode")
	add(ModeStreamNormal, "StreamNormal")
	add(ModeStreamLoop, "StreamLoop")
	if len(parts) == 0 {
		return "(none)"
	}
	out := parts[0]
	for _, p := range parts[1:] {
		out += "|" + p
	}
	return out
}

// ErrorKind enumerates the serializer's own sticky error classes,
// distinct from (but wrapping) ioc.ErrorKind for channel-origin errors.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrBadMode
	ErrBadFormat
	ErrTypeMismatch
	ErrNestingImbalance
	ErrLengthMismatch
	ErrNotInitialized
	ErrChannel
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "None"
	case ErrBadMode:
		return "BadMode"
	case ErrBadFormat:
		return "BadFormat"
	case ErrTypeMismatch:
		return "TypeMismatch"
	case ErrNestingImbalance:
		return "NestingImbalance"
	case ErrLengthMismatch:
		return "LengthMismatch"
	case ErrNotInitialized:
		return "NotInitialized"
	case ErrChannel:
		return "Channel"
	default:
		return "Unknown"
	}
}

// Error is the sticky error type returned by Serializer operations.
type Error struct {
	Kind  ErrorKind
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("serialize: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("serialize: %s", e.Kind)
}

func (e *Error) Unwrap() error { return e.cause }
func (e *Error) Cause() error  { return e.cause }

func newError(kind ErrorKind, cause error) *Error { return &Error{Kind: kind, cause: cause} }

func newErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, cause: fmt.Errorf(format, args...)}
}
