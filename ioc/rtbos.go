// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"time"
)

func init() { Register("RTBOS", func() driverImpl { return &rtbosDriver{} }) }

// rtbosDriver implements the RTBOS:// request/response protocol:
// connect to host:port, send a single "data[@format]\n" request line,
// and expose the response body via Read. See spec.md §6.2/§9 for the
// field list and the blocking/retryTimeout resolution below.
type rtbosDriver struct {
	conn    net.Conn
	r       *bufio.Reader
	req     string
	retry   int
	retryTO time.Duration
	block   bool
}

func (d *rtbosDriver) Open(args OpenArgs) error {
	hostPortData := args.Path
	idx := strings.Index(hostPortData, "/")
	if idx < 0 {
		return newErrorf(ErrBadOpenArg, "ioc: RTBOS:// requires host:port/data")
	}
	hostPort := hostPortData[:idx]
	rest := hostPortData[idx+1:]

	data := rest
	format := ""
	if at := strings.LastIndex(rest, "@"); at >= 0 {
		data = rest[:at]
		format = rest[at+1:]
	}
	if v, ok := args.Param("data"); ok {
		data = v
	}
	if v, ok := args.Param("format"); ok {
		format = v
	}
	req := data
	if format != "" {
		req += "@" + format
	}

	retry := 0
	if v, ok := args.Param("retry"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			retry = n
		}
	}
	retryTO := 5 * time.Second
	if v, ok := args.Param("retryTimeout"); ok {
		if ms, err := strconv.Atoi(v); err == nil {
			retryTO = time.Duration(ms) * time.Millisecond
		}
	}
	blocking := false
	if v, ok := args.Param("blocking"); ok {
		blocking = v == "1" || strings.EqualFold(v, "true")
	}

	var conn net.Conn
	var err error
	for attempt := 0; attempt <= retry; attempt++ {
		conn, err = net.DialTimeout("tcp", hostPort, retryTO)
		if err == nil {
			break
		}
	}
	if err != nil {
		return newError(ErrUnableToConnect, err)
	}
	if _, err := conn.Write([]byte(req + "\n")); err != nil {
		conn.Close()
		return newError(ErrSocketWrite, err)
	}

	d.conn = conn
	d.r = bufio.NewReader(conn)
	d.req = req
	d.retry = retry
	d.retryTO = retryTO
	d.block = blocking
	return nil
}

// Read returns response bytes. Per the Open Question resolution
// (SPEC_FULL.md §6.3/DESIGN.md): blocking=1 performs a plain blocking
// read, ignoring retryTimeout entirely; blocking=0 (default) treats
// retryTimeout as the read deadline, surfacing SocketTimeout if it
// elapses before any bytes arrive.
func (d *rtbosDriver) Read(p []byte) (int, error) {
	if d.block {
		_ = d.conn.SetReadDeadline(time.Time{})
	} else {
		_ = d.conn.SetReadDeadline(time.Now().Add(d.retryTO))
	}
	n, err := d.r.Read(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketRead)
	}
	return n, nil
}

func (d *rtbosDriver) Write(p []byte) (int, error) {
	n, err := d.conn.Write(p)
	if err != nil {
		return n, wrapSocketErr(err, ErrSocketWrite)
	}
	return n, nil
}

func (d *rtbosDriver) Flush() error { return nil }
func (d *rtbosDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: RTBOS:// does not support Seek")
}
func (d *rtbosDriver) Close() error { return d.conn.Close() }
func (d *rtbosDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "request":
		return d.req, nil
	case "conn":
		return d.conn, nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *rtbosDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *rtbosDriver) Type() Type { return TypeSocket }
