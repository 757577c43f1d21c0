// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"net"
	"time"
)

func init() { Register("Udp", func() driverImpl { return &udpDriver{} }) }

type udpDriver struct {
	conn net.Conn
}

func (d *udpDriver) Open(args OpenArgs) error {
	host, _ := args.Param("host")
	port, ok := args.Param("port")
	if !ok {
		return newErrorf(ErrBadOpenArg, "ioc: Udp:// requires port=")
	}
	addr := net.JoinHostPort(host, port)
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return newError(ErrUnableToConnect, err)
	}
	d.conn = conn
	return nil
}

func (d *udpDriver) Read(p []byte) (int, error) {
	n, err := d.conn.Read(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketRead)
	}
	return n, nil
}

func (d *udpDriver) Write(p []byte) (int, error) {
	n, err := d.conn.Write(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketWrite)
	}
	return n, nil
}

func (d *udpDriver) Flush() error { return nil }
func (d *udpDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: Udp:// does not support Seek")
}
func (d *udpDriver) Close() error { return d.conn.Close() }
func (d *udpDriver) GetProperty(name string) (interface{}, error) {
	if name == "conn" {
		return d.conn, nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *udpDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *udpDriver) Type() Type { return TypeSocket }

// PollRead reports optimistic readiness rather than using tcp.go/socket.go's
// stash-ahead probe: a UDP Read returns at most one whole datagram, and any
// unread remainder of that datagram is discarded by the kernel, so probing
// with a 1-byte Read would silently truncate the next real read.
func (d *udpDriver) PollRead(timeout time.Duration) bool  { return true }
func (d *udpDriver) PollWrite(timeout time.Duration) bool { return pollConnWrite(d.conn, timeout) }
