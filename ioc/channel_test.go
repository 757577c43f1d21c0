// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc_test

import (
	"path/filepath"
	"testing"

	"code.hybscloud.com/tbserialize/ioc"
)

func TestFile_WriteThenRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")

	w := ioc.New()
	if err := w.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open write: %v", err)
	}
	if _, err := w.Write([]byte("hello, channel")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r := ioc.New()
	if err := r.Open("File://"+path, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open read: %v", err)
	}
	defer r.Close()

	buf := make([]byte, 64)
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got := string(buf[:n]); got != "hello, channel" {
		t.Fatalf("Read = %q, want %q", got, "hello, channel")
	}
}

func TestChannel_UngetPreservesOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unget.bin")
	w := ioc.New()
	if err := w.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open write: %v", err)
	}
	if _, err := w.Write([]byte("abc")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	c := ioc.New()
	if err := c.Open("File://"+path, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	buf := make([]byte, 1)
	if _, err := c.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if buf[0] != 'a' {
		t.Fatalf("Read = %q, want 'a'", buf[0])
	}
	if err := c.Unget([]byte{'z', 'y'}); err != nil {
		t.Fatalf("Unget: %v", err)
	}
	got := make([]byte, 3)
	n, err := c.Read(got)
	if err != nil {
		t.Fatalf("Read after Unget: %v", err)
	}
	if n != 3 || string(got) != "zyb" {
		t.Fatalf("Read after Unget = %q, want %q (a single Unget call replays in original order)", got[:n], "zyb")
	}
}

func TestChannel_Peek_IsNonConsuming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "peek.bin")
	w := ioc.New()
	w.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil)
	w.Write([]byte("peekme"))
	w.Close()

	c := ioc.New()
	if err := c.Open("File://"+path, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	peeked, err := c.Peek(4)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if string(peeked) != "peek" {
		t.Fatalf("Peek = %q, want %q", peeked, "peek")
	}

	full := make([]byte, 6)
	n, err := c.Read(full)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(full[:n]) != "peekme" {
		t.Fatalf("Read after Peek = %q, want %q (Peek must not consume)", full[:n], "peekme")
	}
}

func TestChannel_DoubleOpen_Fails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.bin")
	c := ioc.New()
	if err := c.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()
	if err := c.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate, ioc.DefaultPerm, nil); err == nil {
		t.Fatalf("expected error re-opening an already-open channel")
	}
}

func TestChannel_UnknownScheme(t *testing.T) {
	c := ioc.New()
	if err := c.Open("Bogus://nope", ioc.ModeRdOnly, ioc.DefaultPerm, nil); err == nil {
		t.Fatalf("expected error for unknown scheme")
	}
}

func TestCopy_RelaysAllBytes(t *testing.T) {
	srcPath := filepath.Join(t.TempDir(), "src.bin")
	dstPath := filepath.Join(t.TempDir(), "dst.bin")

	w := ioc.New()
	if err := w.Open("File://"+srcPath, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open src write: %v", err)
	}
	want := "the quick brown fox jumps over the lazy dog"
	if _, err := w.Write([]byte(want)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	w.Close()

	src := ioc.New()
	if err := src.Open("File://"+srcPath, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open src read: %v", err)
	}
	defer src.Close()

	dst := ioc.New()
	if err := dst.Open("File://"+dstPath, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open dst: %v", err)
	}

	n, err := ioc.Copy(dst, src)
	if err != nil {
		t.Fatalf("Copy: %v", err)
	}
	if n != int64(len(want)) {
		t.Fatalf("Copy returned %d, want %d", n, len(want))
	}
	dst.Close()

	r := ioc.New()
	if err := r.Open("File://"+dstPath, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open dst read: %v", err)
	}
	defer r.Close()
	got := make([]byte, len(want)+8)
	rn, err := r.Read(got)
	if err != nil {
		t.Fatalf("Read dst: %v", err)
	}
	if string(got[:rn]) != want {
		t.Fatalf("dst content = %q, want %q", got[:rn], want)
	}
}

func TestChannel_EOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eof.bin")
	w := ioc.New()
	w.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil)
	w.Write([]byte("ab"))
	w.Close()

	c := ioc.New()
	c.Open("File://"+path, ioc.ModeRdOnly, ioc.DefaultPerm, nil)
	defer c.Close()

	buf := make([]byte, 2)
	if _, err := c.Read(buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	n, err := c.Read(buf)
	if err != nil {
		t.Fatalf("Read past end: %v", err)
	}
	if n != 0 {
		t.Fatalf("Read past end = %d bytes, want 0", n)
	}
	if !c.EOF() {
		t.Fatalf("expected EOF() true after reading past end")
	}
}
