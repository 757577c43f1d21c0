// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ioc implements a driver-polymorphic byte channel (IOChannel):
// uniform read/write/seek/flush over pluggable transports (files,
// sockets, shared memory, process stdio, in-memory buffers, pipes), with
// scoped unget, auto-resizing write buffering, per-direction timeouts,
// and a sticky error surface. See code.hybscloud.com/tbserialize/SPEC_FULL.md §6.3.
package ioc

import (
	"strings"
	"time"

	"code.hybscloud.com/tbserialize/refval"
	"github.com/golang/glog"
)

const defaultUngetCapacity = 16

// Channel is the IOChannel facade bound to exactly one driver instance.
// A Channel is not safe for concurrent use; it is owned by one caller at
// a time (spec.md §5).
type Channel struct {
	scheme string
	driver driverImpl
	mode   Mode
	typ    Type

	isOpen bool

	// LIFO unget stack: ungetBuf[len-1] is the next byte Read will return.
	ungetBuf []byte
	ungetCap int

	writeBuf   []byte
	writeIdx   int
	useWrBuf   bool
	autoResize bool

	readTimeout  time.Duration
	writeTimeout time.Duration

	err *Error
	eof bool
}

// New constructs an unopened Channel with the default unget capacity.
func New() *Channel {
	return &Channel{ungetCap: defaultUngetCapacity}
}

// Init rebinds the unget buffer capacity before Open. ungetCapacity must
// be > 0; a non-positive value is silently coerced to the default.
func (c *Channel) Init(ungetCapacity int) {
	if ungetCapacity <= 0 {
		ungetCapacity = defaultUngetCapacity
	}
	c.ungetCap = ungetCapacity
}

// Open opens the channel on the scheme named by url ("Scheme://path"),
// per spec.md §4.3/§6.2. params carries driver-specific options already
// parsed from an open-string; pass nil if none apply.
func (c *Channel) Open(url string, mode Mode, perm Perm, params *refval.List) error {
	if c.isOpen {
		return c.setErr(newErrorf(ErrBadOpenString, "ioc: Open called on an already-open channel"))
	}
	if !mode.Valid() {
		return c.setErr(newErrorf(ErrBadMode, "ioc: invalid mode bits %#x", uint32(mode)))
	}
	scheme, rest, err := splitScheme(url)
	if err != nil {
		return c.setErr(newError(ErrBadOpenString, err))
	}
	factory, ok := lookup(scheme)
	if !ok {
		return c.setErr(newErrorf(ErrBadOpenString, "ioc: unknown scheme %q", scheme))
	}
	d := factory()
	args := OpenArgs{URL: url, Path: rest, Mode: mode, Perm: perm, Params: params}
	if err := d.Open(args); err != nil {
		return c.setErr(wrapDriverErr(err))
	}
	c.scheme = strings.ToLower(scheme)
	c.driver = d
	c.mode = mode
	c.typ = d.Type()
	c.isOpen = true
	c.eof = false
	c.err = nil
	if glog.V(2) {
		glog.V(2).Infof("ioc: opened %s (mode=%#x)", url, uint32(mode))
	}
	return nil
}

// OpenFromString parses s as an open-string (spec.md §6.1) and opens the
// resulting channel. The "stream" key (or the bare first token) supplies
// the scheme URL; "mode" and "perm" map to Mode/Perm flags via
// ParseModeString/ParsePermString when present, otherwise default to
// ModeRdOnly/DefaultPerm.
func (c *Channel) OpenFromString(s string) error {
	list, err := refval.Parse(s)
	if err != nil {
		return c.setErr(newError(ErrBadOpenString, err))
	}
	keys := OpenArgs{Params: list}
	url, ok := keys.Param("stream")
	if !ok {
		return c.setErr(newErrorf(ErrBadOpenString, "ioc: open-string missing stream=Scheme://path"))
	}
	mode := ModeRdOnly
	if m, ok := keys.Param("mode"); ok {
		parsed, perr := ParseModeString(m)
		if perr != nil {
			return c.setErr(newError(ErrBadMode, perr))
		}
		mode = parsed
	}
	perm := Perm(DefaultPerm)
	if p, ok := keys.Param("perm"); ok {
		parsed, perr := ParsePermString(p)
		if perr != nil {
			return c.setErr(newError(ErrBadOpenArg, perr))
		}
		perm = parsed
	}
	return c.Open(url, mode, perm, list)
}

// Read reads up to len(buf) bytes, first draining the unget stack (LIFO),
// then the driver. It returns (0, nil with EOF set) at end-of-stream and
// (-1, err) when the channel is not open or not readable. A driver
// failure returns the number of bytes already placed in buf (unget bytes
// plus any driver bytes) together with the error, not -1.
func (c *Channel) Read(buf []byte) (int, error) {
	if err := c.requireOpen(); err != nil {
		return -1, err
	}
	if !c.mode.CanRead() {
		return -1, c.setErr(newErrorf(ErrBadAccess, "ioc: Read on a write-only channel"))
	}
	if len(buf) == 0 {
		return 0, nil
	}
	n := 0
	// Drain unget stack first (invariant (b): never mix unget bytes with
	// driver bytes in the same returned slice position simultaneously —
	// but we may return driver bytes after exhausting the stack).
	for n < len(buf) && len(c.ungetBuf) > 0 {
		last := len(c.ungetBuf) - 1
		buf[n] = c.ungetBuf[last]
		c.ungetBuf = c.ungetBuf[:last]
		n++
	}
	if n == len(buf) {
		return n, nil
	}
	if c.eof {
		return n, nil
	}
	dn, err := c.driver.Read(buf[n:])
	if dn > 0 {
		n += dn
	}
	if err != nil {
		if err == errEOF {
			c.eof = true
			return n, nil
		}
		return n, c.setErr(wrapDriverErr(err))
	}
	if dn == 0 {
		c.eof = true
	}
	return n, nil
}

// ReadBlock loops until exactly len(buf) bytes are transferred or an
// error/EOF occurs.
func (c *Channel) ReadBlock(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			if c.eof {
				return total, nil
			}
			return total, c.setErr(newErrorf(ErrIO, "ioc: ReadBlock made no progress"))
		}
	}
	return total, nil
}

// Write writes buf, looping on short writes until all bytes are accepted,
// the driver reports an error, or a driver Write makes no progress
// (ErrLowLevelShortWrite). The loop does not consult IsWritePossible or
// the write timeout between attempts. When write buffering is enabled, bytes are appended
// to the internal buffer instead of reaching the driver immediately.
func (c *Channel) Write(buf []byte) (int, error) {
	if err := c.requireOpen(); err != nil {
		return -1, err
	}
	if !c.mode.CanWrite() {
		return -1, c.setErr(newErrorf(ErrBadAccess, "ioc: Write on a read-only channel"))
	}
	if c.useWrBuf {
		return c.bufferedWrite(buf)
	}
	return c.writeThrough(buf)
}

func (c *Channel) writeThrough(buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := c.driver.Write(buf[total:])
		if n > 0 {
			total += n
		}
		if err != nil {
			return total, c.setErr(wrapDriverErr(err))
		}
		if n == 0 {
			return total, c.setErr(newErrorf(ErrLowLevelShortWrite, "ioc: driver Write made no progress"))
		}
	}
	return total, nil
}

// WriteBlock is an alias of Write: Write already loops until completion
// or error, matching spec.md's WriteBlock contract.
func (c *Channel) WriteBlock(buf []byte) (int, error) { return c.Write(buf) }

func (c *Channel) bufferedWrite(buf []byte) (int, error) {
	total := 0
	for len(buf) > 0 {
		space := len(c.writeBuf) - c.writeIdx
		if space == 0 {
			if c.autoResize {
				c.growWriteBuf()
				space = len(c.writeBuf) - c.writeIdx
			} else {
				if err := c.flushLocked(); err != nil {
					return total, err
				}
				space = len(c.writeBuf) - c.writeIdx
			}
		}
		n := len(buf)
		if n > space {
			n = space
		}
		copy(c.writeBuf[c.writeIdx:], buf[:n])
		c.writeIdx += n
		total += n
		buf = buf[n:]
	}
	return total, nil
}

func (c *Channel) growWriteBuf() {
	newSize := len(c.writeBuf) * 2
	if newSize == 0 {
		newSize = 4096
	}
	grown := make([]byte, newSize)
	copy(grown, c.writeBuf[:c.writeIdx])
	c.writeBuf = grown
}

// Unget pushes buf back onto the channel (most-recently-ungot byte read
// first). Fails with ErrTooUnget if it would exceed the unget capacity.
func (c *Channel) Unget(buf []byte) error {
	if err := c.requireOpen(); err != nil {
		return err
	}
	if len(c.ungetBuf)+len(buf) > c.ungetCap {
		return c.setErr(newErrorf(ErrTooUnget, "ioc: unget would exceed capacity %d", c.ungetCap))
	}
	// Push in reverse so that buf[0] is popped first, then buf[1], ...:
	// a single multi-byte Unget call is replayed by Read in its original
	// order, while repeated Unget calls stay LIFO with respect to each
	// other (the most recent call's bytes are read first).
	for i := len(buf) - 1; i >= 0; i-- {
		c.ungetBuf = append(c.ungetBuf, buf[i])
	}
	c.eof = false
	return nil
}

// Peek reads n bytes without consuming them: equivalent to Read followed
// by Unget of whatever was actually read.
func (c *Channel) Peek(n int) ([]byte, error) {
	buf := make([]byte, n)
	got, err := c.Read(buf)
	if got > 0 {
		if uerr := c.Unget(buf[:got]); uerr != nil {
			return buf[:got], uerr
		}
	}
	return buf[:got], err
}

// Seek repositions the channel, failing with ErrBadSeek on drivers that
// do not support positioning.
func (c *Channel) Seek(offset int64, whence Whence) (int64, error) {
	if err := c.requireOpen(); err != nil {
		return -1, err
	}
	pos, err := c.driver.Seek(offset, whence)
	if err != nil {
		return -1, c.setErr(wrapDriverErr(err))
	}
	c.eof = false
	return pos, nil
}

func (c *Channel) Tell() (int64, error) { return c.Seek(0, SeekCurrent) }

func (c *Channel) Rewind() error {
	_, err := c.Seek(0, SeekStart)
	return err
}

// Flush forces any buffered write bytes to the driver.
func (c *Channel) Flush() error {
	if err := c.requireOpen(); err != nil {
		return err
	}
	return c.flushLocked()
}

func (c *Channel) flushLocked() error {
	if c.writeIdx > 0 {
		if _, err := c.writeThrough(c.writeBuf[:c.writeIdx]); err != nil {
			return err
		}
		c.writeIdx = 0
	}
	if err := c.driver.Flush(); err != nil {
		return c.setErr(wrapDriverErr(err))
	}
	return nil
}

// IsReadDataAvailable polls the driver for readability, bounded by
// timeout (0 = non-blocking poll).
func (c *Channel) IsReadDataAvailable(timeout time.Duration) bool {
	if len(c.ungetBuf) > 0 {
		return true
	}
	if p, ok := c.driver.(interface {
		PollRead(time.Duration) bool
	}); ok {
		return p.PollRead(timeout)
	}
	// Drivers without a native poll are assumed always-ready (files,
	// memory buffers); this matches spec.md's "blocking mode relies on
	// driver semantics" for non-pollable transports.
	return true
}

// IsWritePossible polls the driver for writability, bounded by timeout.
func (c *Channel) IsWritePossible(timeout time.Duration) bool {
	if p, ok := c.driver.(interface {
		PollWrite(time.Duration) bool
	}); ok {
		return p.PollWrite(timeout)
	}
	return true
}

func (c *Channel) SetReadTimeout(d time.Duration)  { c.readTimeout = d }
func (c *Channel) SetWriteTimeout(d time.Duration) { c.writeTimeout = d }

// EOF reports whether end-of-stream has been observed; it stays set until
// ResetIndexes, a successful Unget or Seek, or a fresh Open.
func (c *Channel) EOF() bool { return c.eof }

// ResetIndexes clears the sticky EOF flag without touching the error
// state, mirroring the reference implementation's resetIndexes.
func (c *Channel) ResetIndexes() { c.eof = false }

func (c *Channel) IsErrorOccurred() bool { return c.err != nil }

func (c *Channel) GetErrorNumber() ErrorKind {
	if c.err == nil {
		return ErrNone
	}
	return c.err.Kind
}

func (c *Channel) GetErrorDescription() string {
	if c.err == nil {
		return ErrNone.String()
	}
	return c.err.Error()
}

func (c *Channel) CleanError() { c.err = nil }

// SetWriteBuffer installs a caller-supplied, fixed-size write buffer and
// disables auto-resize.
func (c *Channel) SetWriteBuffer(buf []byte) {
	c.writeBuf = buf
	c.writeIdx = 0
	c.useWrBuf = true
	c.autoResize = false
}

// SetUseWriteBuffering toggles write buffering. If autoResize is
// requested but no buffer has been supplied via SetWriteBuffer yet, a
// default internal buffer is allocated. Returns false if autoResize is
// requested while a user-supplied fixed buffer is already installed
// (spec.md §4.3).
func (c *Channel) SetUseWriteBuffering(on, autoResize bool) bool {
	if !on {
		c.useWrBuf = false
		return true
	}
	if autoResize && c.writeBuf != nil && !c.autoResize {
		// A fixed user buffer is already installed; cannot retrofit
		// auto-resize onto caller-owned memory.
		return false
	}
	c.useWrBuf = true
	c.autoResize = autoResize
	if c.writeBuf == nil {
		c.writeBuf = make([]byte, 4096)
	}
	return true
}

// GetProperty retrieves a driver-specific property (e.g. the underlying
// socket from a Tcp channel).
func (c *Channel) GetProperty(name string) (interface{}, error) {
	if err := c.requireOpen(); err != nil {
		return nil, err
	}
	v, err := c.driver.GetProperty(name)
	if err != nil {
		return nil, c.setErr(wrapDriverErr(err))
	}
	return v, nil
}

// SetProperty sets a driver-specific property.
func (c *Channel) SetProperty(name string, value interface{}) error {
	if c.driver == nil {
		return c.setErr(newErrorf(ErrIOOnClosedChannel, "ioc: SetProperty before Open"))
	}
	if err := c.driver.SetProperty(name, value); err != nil {
		return c.setErr(wrapDriverErr(err))
	}
	return nil
}

// Close flushes (unless NotClose semantics apply to buffering only —
// buffering is always flushed) and closes the underlying driver.
func (c *Channel) Close() error {
	if !c.isOpen {
		return nil
	}
	var ferr error
	if c.useWrBuf {
		ferr = c.flushLocked()
	}
	err := c.driver.Close()
	c.isOpen = false
	if err != nil {
		return c.setErr(wrapDriverErr(err))
	}
	return ferr
}

// Clear resets the channel to a fresh, unopened state, releasing buffers.
func (c *Channel) Clear() {
	*c = Channel{ungetCap: c.ungetCap}
	if c.ungetCap == 0 {
		c.ungetCap = defaultUngetCapacity
	}
}

// Type reports the classification of the underlying OS resource.
func (c *Channel) Type() Type { return c.typ }

// Scheme reports the lower-cased scheme name used to Open this channel.
func (c *Channel) Scheme() string { return c.scheme }

func (c *Channel) requireOpen() error {
	if !c.isOpen {
		return c.setErr(newErrorf(ErrIOOnClosedChannel, "ioc: operation on a closed channel"))
	}
	if c.err != nil {
		return c.err
	}
	return nil
}

func (c *Channel) setErr(e *Error) *Error {
	c.err = e
	return e
}
