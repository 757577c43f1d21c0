// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"net"
	"time"
)

func init() { Register("Socket", func() driverImpl { return &socketDriver{} }) }

var connRegistry = map[string]net.Conn{}

// BindConn registers an already-connected net.Conn under key so it can be
// wrapped via the "pointer" open-string param (or, without one, as the
// URL path, Socket://key).
func BindConn(key string, conn net.Conn) string {
	connRegistry[key] = conn
	return key
}

type socketDriver struct {
	conn    net.Conn
	pending []byte // byte stashed by PollRead's non-destructive readiness probe
}

func (d *socketDriver) Open(args OpenArgs) error {
	key, ok := args.Param("pointer")
	if !ok {
		key = args.Path
	}
	conn, ok := connRegistry[key]
	if !ok {
		return newErrorf(ErrUnableToConnect, "ioc: Socket:// unknown pointer %q", key)
	}
	d.conn = conn
	return nil
}

func (d *socketDriver) Read(p []byte) (int, error) {
	return pollingRead(d.conn, &d.pending, p)
}

func (d *socketDriver) Write(p []byte) (int, error) {
	n, err := d.conn.Write(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketWrite)
	}
	return n, nil
}

func (d *socketDriver) Flush() error { return nil }
func (d *socketDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: Socket:// does not support Seek")
}
func (d *socketDriver) Close() error { return d.conn.Close() }
func (d *socketDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "conn":
		return d.conn, nil
	case "localAddr":
		return d.conn.LocalAddr(), nil
	case "remoteAddr":
		return d.conn.RemoteAddr(), nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *socketDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *socketDriver) Type() Type { return TypeSocket }

func (d *socketDriver) PollRead(timeout time.Duration) bool {
	return pollConnRead(d.conn, timeout, &d.pending)
}

func (d *socketDriver) PollWrite(timeout time.Duration) bool {
	return pollConnWrite(d.conn, timeout)
}

// wrapSocketErr classifies a net.Conn error as SocketTimeout when it was
// a deadline exceeded, or the given default kind otherwise.
func wrapSocketErr(err error, kind ErrorKind) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(net.Error); ok && ne.Timeout() {
		return newError(ErrSocketTimeout, err)
	}
	return newError(kind, err)
}

// pollConnRead implements IsReadDataAvailable for net.Conn-backed
// drivers. Go's net package exposes no select()-style readiness check
// that doesn't consume bytes, so this sets a short read deadline and
// reads a single byte; any byte it gets is stashed in *pending so the
// next Read (via pollingRead) returns it first, the same stash-ahead
// trick Channel itself uses for Unget.
func pollConnRead(conn net.Conn, timeout time.Duration, pending *[]byte) bool {
	if len(*pending) > 0 {
		return true
	}
	deadline := time.Now()
	if timeout > 0 {
		deadline = deadline.Add(timeout)
	}
	_ = conn.SetReadDeadline(deadline)
	b := make([]byte, 1)
	n, _ := conn.Read(b)
	_ = conn.SetReadDeadline(time.Time{})
	if n > 0 {
		*pending = append(*pending, b[:n]...)
		return true
	}
	return false
}

// pollConnWrite reports optimistic writability: TCP/socket send buffers
// rarely fill in practice, and Go's net package has no non-blocking
// writability probe either, so the timeout instead bounds the
// subsequent Write call via SetWriteDeadline.
func pollConnWrite(conn net.Conn, timeout time.Duration) bool { return true }

// pollingRead drains any byte stashed by pollConnRead before reading
// more from conn, so a PollRead probe never loses data.
func pollingRead(conn net.Conn, pending *[]byte, p []byte) (int, error) {
	n := copy(p, *pending)
	*pending = (*pending)[n:]
	if n == len(p) {
		return n, nil
	}
	m, err := conn.Read(p[n:])
	if err != nil {
		if n > 0 {
			return n, nil
		}
		return n, wrapSocketErr(err, ErrSocketRead)
	}
	return n + m, nil
}
