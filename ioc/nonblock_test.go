// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc_test

import (
	"net"
	"testing"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/refval"
)

func TestChannel_TryRead_WouldBlockThenSucceeds(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, _ := ln.Accept()
		accepted <- conn
	}()

	host, port, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	params := &refval.List{}
	params.Push("host", host)
	params.Push("port", port)

	c := ioc.New()
	if err := c.Open("Tcp://", ioc.ModeRdWr, ioc.DefaultPerm, params); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	srv := <-accepted
	defer srv.Close()

	buf := make([]byte, 8)
	if _, err := c.TryRead(buf); err != iox.ErrWouldBlock {
		t.Fatalf("TryRead with no data pending = %v, want iox.ErrWouldBlock", err)
	}

	if _, err := srv.Write([]byte("hi")); err != nil {
		t.Fatalf("server Write: %v", err)
	}
	time.Sleep(50 * time.Millisecond)

	n, err := c.TryRead(buf)
	if err != nil {
		t.Fatalf("TryRead after data arrives: %v", err)
	}
	if string(buf[:n]) != "hi" {
		t.Fatalf("TryRead = %q, want %q", buf[:n], "hi")
	}
}
