// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrorKind enumerates the sticky error taxonomy a Channel or Driver can
// report, mirroring IOChannelError from the reference implementation.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrBadAccess
	ErrBadFormatSpecifier
	ErrBadInternalBuffer
	ErrBadOpenString
	ErrBadSeek
	ErrBadSize
	ErrBadMemPointer
	ErrBadMemMapSize
	ErrBadSeekWhence
	ErrNoEndSeekOnMemory
	ErrIOOnClosedChannel
	ErrBadDelimiters
	ErrBadMode
	ErrBadCloseFlags
	ErrBadShmName
	ErrSocketRead
	ErrSocketWrite
	ErrNotDefined
	ErrLowLevelShortWrite
	ErrBadStdInMode
	ErrBadStdOutMode
	ErrBadFlags
	ErrBadOpenArg
	ErrBadMemFlags
	ErrUnableToConnect
	ErrSocketTimeout
	ErrCallbackWrite
	ErrCallbackRead
	ErrExists
	ErrIsDir
	ErrAccess
	ErrNameTooLong
	ErrNoEnt
	ErrNotDir
	ErrNoDev
	ErrNoDevice
	ErrReadOnlyFs
	ErrTextBusy
	ErrFault
	ErrLoop
	ErrNoSpc
	ErrNoMem
	ErrMaxFiles
	ErrNFile
	ErrInterrupted
	ErrAgain
	ErrIO
	ErrBadFd
	ErrInvalid
	ErrFileTooBig
	ErrPipe
	ErrSPipe
	ErrOverflow
	ErrTooUnget
	ErrNotSupported
)

var errorKindNames = map[ErrorKind]string{
	ErrNone:               "none",
	ErrBadAccess:          "bad access mode for stream direction",
	ErrBadFormatSpecifier: "bad printf/scanf format specifier",
	ErrBadInternalBuffer:  "bad internal buffer size",
	ErrBadOpenString:      "bad open-string or undefined stream",
	ErrBadSeek:            "seek not supported on this driver",
	ErrBadSize:            "bad size argument",
	ErrBadMemPointer:      "bad memory pointer",
	ErrBadMemMapSize:      "bad memory-mapped size",
	ErrBadSeekWhence:      "bad seek whence",
	ErrNoEndSeekOnMemory:  "SeekEnd not allowed on memory streams",
	ErrIOOnClosedChannel:  "I/O on a closed channel",
	ErrBadDelimiters:      "bad delimiters in open-string",
	ErrBadMode:            "bad mode bits",
	ErrBadCloseFlags:      "bad close flags",
	ErrBadShmName:         "shared-memory name must start with '/'",
	ErrSocketRead:         "low-level socket read failed",
	ErrSocketWrite:        "low-level socket write failed",
	ErrNotDefined:         "error description not defined",
	ErrLowLevelShortWrite: "low-level write wrote fewer bytes than requested",
	ErrBadStdInMode:       "StdIn can only be opened read-only",
	ErrBadStdOutMode:      "StdOut/StdErr can only be opened write-only",
	ErrBadFlags:           "bad access flags",
	ErrBadOpenArg:         "bad open argument",
	ErrBadMemFlags:        "bad memory flags",
	ErrUnableToConnect:    "unable to connect",
	ErrSocketTimeout:      "socket connection timed out",
	ErrCallbackWrite:      "printf callback returned an error",
	ErrCallbackRead:       "scanf callback returned an error",
	ErrExists:             "path already exists",
	ErrIsDir:              "path is a directory",
	ErrAccess:             "permission denied",
	ErrNameTooLong:        "name too long",
	ErrNoEnt:              "no such file or directory",
	ErrNotDir:             "not a directory",
	ErrNoDev:              "no such device",
	ErrNoDevice:           "refers to a special file",
	ErrReadOnlyFs:         "read-only filesystem",
	ErrTextBusy:           "text file busy",
	ErrFault:              "bad address",
	ErrLoop:               "too many symbolic links",
	ErrNoSpc:              "no space left on device",
	ErrNoMem:              "out of memory",
	ErrMaxFiles:           "too many open files (process)",
	ErrNFile:              "too many open files (system)",
	ErrInterrupted:        "interrupted system call",
	ErrAgain:              "resource temporarily unavailable",
	ErrIO:                 "I/O error",
	ErrBadFd:              "bad file descriptor",
	ErrInvalid:            "invalid argument",
	ErrFileTooBig:         "file too large",
	ErrPipe:               "broken pipe",
	ErrSPipe:              "illegal seek",
	ErrOverflow:           "value too large for type",
	ErrTooUnget:           "unget buffer exhausted",
	ErrNotSupported:       "operation not supported by this driver",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "unknown error"
}

// Error is the sticky error type carried by a Channel. It wraps an
// optional underlying cause (a driver/syscall error) via pkg/errors so
// diagnostics retain the original error chain.
type Error struct {
	Kind  ErrorKind
	Errno int
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("ioc: %s: %v", e.Kind, e.cause)
	}
	return fmt.Sprintf("ioc: %s", e.Kind)
}

// Cause implements the github.com/pkg/errors Causer interface.
func (e *Error) Cause() error { return e.cause }

// Unwrap supports errors.Is/errors.As against the wrapped cause.
func (e *Error) Unwrap() error { return e.cause }

func newError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, cause: errors.WithStack(cause)}
}

func newErrorf(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, cause: errors.Errorf(format, args...)}
}
