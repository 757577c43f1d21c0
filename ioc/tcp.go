// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"net"
	"time"
)

func init() { Register("Tcp", func() driverImpl { return &tcpDriver{} }) }

type tcpDriver struct {
	conn    net.Conn
	pending []byte // byte stashed by PollRead's non-destructive readiness probe
}

func (d *tcpDriver) Open(args OpenArgs) error {
	host, _ := args.Param("host")
	port, ok := args.Param("port")
	if !ok {
		return newErrorf(ErrBadOpenArg, "ioc: Tcp:// requires port=")
	}
	addr := net.JoinHostPort(host, port)
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return newError(ErrSocketTimeout, err)
		}
		return newError(ErrUnableToConnect, err)
	}
	d.conn = conn
	return nil
}

func (d *tcpDriver) Read(p []byte) (int, error) {
	return pollingRead(d.conn, &d.pending, p)
}

func (d *tcpDriver) Write(p []byte) (int, error) {
	n, err := d.conn.Write(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketWrite)
	}
	return n, nil
}

func (d *tcpDriver) Flush() error { return nil }
func (d *tcpDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: Tcp:// does not support Seek")
}
func (d *tcpDriver) Close() error { return d.conn.Close() }
func (d *tcpDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "conn":
		return d.conn, nil
	case "remoteAddr":
		return d.conn.RemoteAddr(), nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *tcpDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *tcpDriver) Type() Type { return TypeSocket }
func (d *tcpDriver) PollRead(timeout time.Duration) bool  { return pollConnRead(d.conn, timeout, &d.pending) }
func (d *tcpDriver) PollWrite(timeout time.Duration) bool { return pollConnWrite(d.conn, timeout) }
