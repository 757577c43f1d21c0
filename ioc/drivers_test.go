// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc_test

import (
	"testing"

	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/refval"
)

func TestMem_CreateWriteReadRoundtrip(t *testing.T) {
	params := &refval.List{}
	params.Push("size", "16")

	c := ioc.New()
	if err := c.Open("Mem://", ioc.ModeWrOnly|ioc.ModeCreate, ioc.DefaultPerm, params); err != nil {
		t.Fatalf("Open Create: %v", err)
	}
	if _, err := c.Write([]byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	size, err := c.GetProperty("size")
	if err != nil {
		t.Fatalf("GetProperty(size): %v", err)
	}
	if size.(int) != 16 {
		t.Fatalf("size = %v, want 16", size)
	}
	buf, err := c.GetProperty("bytes")
	if err != nil {
		t.Fatalf("GetProperty(bytes): %v", err)
	}
	if string(buf.([]byte)[:5]) != "hello" {
		t.Fatalf("bytes = %q, want prefix %q", buf, "hello")
	}
	c.Close()
}

func TestMem_BindBufferSharesUnderlyingBytes(t *testing.T) {
	backing := make([]byte, 8)
	key := ioc.BindBuffer("shared-buf", backing)

	params := &refval.List{}
	params.Push("pointer", key)

	c := ioc.New()
	if err := c.Open("Mem://", ioc.ModeWrOnly, ioc.DefaultPerm, params); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := c.Write([]byte("abcd")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	c.Close()

	if string(backing[:4]) != "abcd" {
		t.Fatalf("backing = %q, want prefix %q (Mem:// must write through the bound buffer)", backing, "abcd")
	}
}

func TestNull_DiscardsWritesAndAlwaysEOF(t *testing.T) {
	c := ioc.New()
	if err := c.Open("Null://", ioc.ModeRdWr, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer c.Close()

	n, err := c.Write([]byte("discarded"))
	if err != nil || n != len("discarded") {
		t.Fatalf("Write = (%d, %v), want (%d, nil)", n, err, len("discarded"))
	}
	buf := make([]byte, 4)
	rn, rerr := c.Read(buf)
	if rerr != nil {
		t.Fatalf("Read: %v", rerr)
	}
	if rn != 0 {
		t.Fatalf("Read = %d bytes, want 0", rn)
	}
	if !c.EOF() {
		t.Fatalf("expected Null:// to report EOF immediately")
	}
}

func TestRand_SameSeedProducesSameBytes(t *testing.T) {
	params := &refval.List{}
	params.Push("key", "42")

	c1 := ioc.New()
	if err := c1.Open("Rand://Chars", ioc.ModeRdOnly, ioc.DefaultPerm, params); err != nil {
		t.Fatalf("Open c1: %v", err)
	}
	defer c1.Close()
	c2 := ioc.New()
	if err := c2.Open("Rand://Chars", ioc.ModeRdOnly, ioc.DefaultPerm, params); err != nil {
		t.Fatalf("Open c2: %v", err)
	}
	defer c2.Close()

	b1 := make([]byte, 32)
	b2 := make([]byte, 32)
	if _, err := c1.Read(b1); err != nil {
		t.Fatalf("Read c1: %v", err)
	}
	if _, err := c2.Read(b2); err != nil {
		t.Fatalf("Read c2: %v", err)
	}
	if string(b1) != string(b2) {
		t.Fatalf("two Rand:// channels with the same key produced different bytes")
	}
}
