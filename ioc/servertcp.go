// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"net"
	"strconv"
	"time"
)

func init() { Register("ServerTcp", func() driverImpl { return &serverTCPDriver{} }) }

// serverTCPDriver accepts exactly one client connection per Open, per
// spec.md's single-channel-per-object model: a server that needs to
// serve many clients opens one Channel per accepted connection.
type serverTCPDriver struct {
	ln      net.Listener
	conn    net.Conn
	pending []byte // byte stashed by PollRead's non-destructive readiness probe
}

func (d *serverTCPDriver) Open(args OpenArgs) error {
	port, ok := args.Param("port")
	if !ok {
		return newErrorf(ErrBadOpenArg, "ioc: ServerTcp:// requires port=")
	}
	ln, err := net.Listen("tcp", net.JoinHostPort("", port))
	if err != nil {
		return newError(ErrUnableToConnect, err)
	}
	d.ln = ln
	waitTimeout := 0 * time.Second
	if ws, ok := args.Param("waitClientTimeout"); ok {
		if ms, err := strconv.Atoi(ws); err == nil {
			waitTimeout = time.Duration(ms) * time.Microsecond
		}
	}
	if waitTimeout > 0 {
		if tl, ok := ln.(*net.TCPListener); ok {
			_ = tl.SetDeadline(time.Now().Add(waitTimeout))
		}
	}
	conn, err := ln.Accept()
	if err != nil {
		ln.Close()
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return newError(ErrSocketTimeout, err)
		}
		return newError(ErrUnableToConnect, err)
	}
	d.conn = conn
	return nil
}

func (d *serverTCPDriver) Read(p []byte) (int, error) {
	return pollingRead(d.conn, &d.pending, p)
}

func (d *serverTCPDriver) Write(p []byte) (int, error) {
	n, err := d.conn.Write(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketWrite)
	}
	return n, nil
}

func (d *serverTCPDriver) Flush() error { return nil }
func (d *serverTCPDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: ServerTcp:// does not support Seek")
}
func (d *serverTCPDriver) Close() error {
	var err error
	if d.conn != nil {
		err = d.conn.Close()
	}
	if d.ln != nil {
		if lerr := d.ln.Close(); lerr != nil && err == nil {
			err = lerr
		}
	}
	return err
}
func (d *serverTCPDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "conn":
		return d.conn, nil
	case "listener":
		return d.ln, nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *serverTCPDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *serverTCPDriver) Type() Type { return TypeSocket }
func (d *serverTCPDriver) PollRead(timeout time.Duration) bool {
	return pollConnRead(d.conn, timeout, &d.pending)
}
func (d *serverTCPDriver) PollWrite(timeout time.Duration) bool { return pollConnWrite(d.conn, timeout) }
