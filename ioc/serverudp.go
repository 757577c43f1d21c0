// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"net"
	"time"
)

func init() { Register("ServerUdp", func() driverImpl { return &serverUDPDriver{} }) }

// serverUDPDriver binds a UDP socket and, on the first Read, latches onto
// whichever peer sent the first datagram (so subsequent Writes reply to
// that peer), mirroring a simple one-client-per-channel server model.
type serverUDPDriver struct {
	conn *net.UDPConn
	peer net.Addr
}

func (d *serverUDPDriver) Open(args OpenArgs) error {
	port, ok := args.Param("port")
	if !ok {
		return newErrorf(ErrBadOpenArg, "ioc: ServerUdp:// requires port=")
	}
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort("", port))
	if err != nil {
		return newError(ErrBadOpenArg, err)
	}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return newError(ErrUnableToConnect, err)
	}
	d.conn = conn
	return nil
}

func (d *serverUDPDriver) Read(p []byte) (int, error) {
	n, addr, err := d.conn.ReadFrom(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketRead)
	}
	d.peer = addr
	return n, nil
}

func (d *serverUDPDriver) Write(p []byte) (int, error) {
	if d.peer == nil {
		return 0, newErrorf(ErrUnableToConnect, "ioc: ServerUdp:// no peer latched yet; Read first")
	}
	n, err := d.conn.WriteTo(p, d.peer)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketWrite)
	}
	return n, nil
}

func (d *serverUDPDriver) Flush() error { return nil }
func (d *serverUDPDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: ServerUdp:// does not support Seek")
}
func (d *serverUDPDriver) Close() error { return d.conn.Close() }
func (d *serverUDPDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "conn":
		return d.conn, nil
	case "peer":
		return d.peer, nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *serverUDPDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *serverUDPDriver) Type() Type { return TypeSocket }
func (d *serverUDPDriver) PollRead(timeout time.Duration) bool {
	if timeout <= 0 {
		_ = d.conn.SetReadDeadline(time.Now())
	} else {
		_ = d.conn.SetReadDeadline(time.Now().Add(timeout))
	}
	defer d.conn.SetReadDeadline(time.Time{})
	return true
}
func (d *serverUDPDriver) PollWrite(timeout time.Duration) bool { return true }
