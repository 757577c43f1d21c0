// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"
)

// errEOF is the sentinel a driver's Read returns to signal end-of-stream;
// it is simply io.EOF, named locally so driver files read more plainly.
var errEOF = io.EOF

// notSupported builds the sticky error a Driver method returns when it
// does not implement the requested operation (spec.md §4.3).
func notSupported(op string) error {
	return newErrorf(ErrNotSupported, "ioc: %s not supported by this driver", op)
}

// wrapDriverErr maps a raw driver/syscall error into an *Error carrying
// the appropriate ErrorKind, preserving the original as Cause().
func wrapDriverErr(err error) *Error {
	if err == nil {
		return nil
	}
	var ie *Error
	if errors.As(err, &ie) {
		return ie
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return newError(errnoToKind(errno), err)
	}
	if os.IsNotExist(err) {
		return newError(ErrNoEnt, err)
	}
	if os.IsExist(err) {
		return newError(ErrExists, err)
	}
	if os.IsPermission(err) {
		return newError(ErrAccess, err)
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return newError(ErrSocketTimeout, err)
	}
	return newError(ErrIO, err)
}

func errnoToKind(errno syscall.Errno) ErrorKind {
	switch errno {
	case syscall.EEXIST:
		return ErrExists
	case syscall.EISDIR:
		return ErrIsDir
	case syscall.EACCES:
		return ErrAccess
	case syscall.ENAMETOOLONG:
		return ErrNameTooLong
	case syscall.ENOENT:
		return ErrNoEnt
	case syscall.ENOTDIR:
		return ErrNotDir
	case syscall.ENXIO:
		return ErrNoDev
	case syscall.ENODEV:
		return ErrNoDevice
	case syscall.EROFS:
		return ErrReadOnlyFs
	case syscall.ETXTBSY:
		return ErrTextBusy
	case syscall.EFAULT:
		return ErrFault
	case syscall.ELOOP:
		return ErrLoop
	case syscall.ENOSPC:
		return ErrNoSpc
	case syscall.ENOMEM:
		return ErrNoMem
	case syscall.EMFILE:
		return ErrMaxFiles
	case syscall.ENFILE:
		return ErrNFile
	case syscall.EINTR:
		return ErrInterrupted
	case syscall.EAGAIN:
		return ErrAgain
	case syscall.EIO:
		return ErrIO
	case syscall.EBADF:
		return ErrBadFd
	case syscall.EINVAL:
		return ErrInvalid
	case syscall.EFBIG:
		return ErrFileTooBig
	case syscall.EPIPE:
		return ErrPipe
	case syscall.ESPIPE:
		return ErrSPipe
	case syscall.EOVERFLOW:
		return ErrOverflow
	default:
		return ErrNotDefined
	}
}

// Copy relays bytes from src to dst until src reports EOF, the way
// framer.Forwarder relays whole messages from a source to a destination
// channel — but at the byte level, since framing here is the
// Serializer's concern rather than a dedicated message boundary. It
// reuses a single internal buffer across the whole copy, matching the
// Forwarder's zero-steady-state-allocation buffer reuse.
func Copy(dst, src *Channel) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, err := src.Read(buf)
		if n > 0 {
			wn, werr := dst.Write(buf[:n])
			total += int64(wn)
			if werr != nil {
				return total, werr
			}
			if wn < n {
				return total, io.ErrShortWrite
			}
		}
		if err != nil {
			return total, err
		}
		if n == 0 && src.EOF() {
			return total, nil
		}
	}
}

// ParseModeString parses a "+"-joined token list such as "RDONLY" or
// "WRONLY+CREATE+TRUNCATE" into a Mode bitmask.
func ParseModeString(s string) (Mode, error) {
	var m Mode
	for _, tok := range strings.Split(s, "+") {
		tok = strings.ToUpper(strings.TrimSpace(tok))
		switch tok {
		case "":
			continue
		case "RDONLY":
			m |= ModeRdOnly
		case "WRONLY":
			m |= ModeWrOnly
		case "RDWR":
			m |= ModeRdWr
		case "CREATE", "CREAT":
			m |= ModeCreate
		case "TRUNCATE", "TRUNC":
			m |= ModeTruncate
		case "APPEND":
			m |= ModeAppend
		case "CLOSE":
			m |= ModeClose
		case "NOTCLOSE", "NOT_CLOSE":
			m |= ModeNotClose
		default:
			return 0, fmt.Errorf("ioc: unknown mode token %q", tok)
		}
	}
	return m, nil
}

// ParsePermString parses a 3-digit octal-like string, e.g. "644", into a
// Perm bitmask using the conventional POSIX rwx-per-class meaning.
func ParsePermString(s string) (Perm, error) {
	s = strings.TrimSpace(s)
	if len(s) != 3 {
		return 0, fmt.Errorf("ioc: bad perm string %q: want 3 octal digits", s)
	}
	var bits [3]uint8
	for i := 0; i < 3; i++ {
		if s[i] < '0' || s[i] > '7' {
			return 0, fmt.Errorf("ioc: bad perm digit %q", s[i])
		}
		bits[i] = s[i] - '0'
	}
	var p Perm
	classBits := [3][3]Perm{
		{PermUserRead, PermUserWrite, PermUserExec},
		{PermGroupRead, PermGroupWrite, PermGroupExec},
		{PermOtherRead, PermOtherWrite, PermOtherExec},
	}
	for i, b := range bits {
		if b&4 != 0 {
			p |= classBits[i][0]
		}
		if b&2 != 0 {
			p |= classBits[i][1]
		}
		if b&1 != 0 {
			p |= classBits[i][2]
		}
	}
	return p, nil
}
