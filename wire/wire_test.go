// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire_test

import (
	"path/filepath"
	"testing"

	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/wire"
)

func openWrite(t *testing.T, path string) *ioc.Channel {
	t.Helper()
	c := ioc.New()
	if err := c.Open("File://"+path, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("open write: %v", err)
	}
	return c
}

func openRead(t *testing.T, path string) *ioc.Channel {
	t.Helper()
	c := ioc.New()
	c.Init(512)
	if err := c.Open("File://"+path, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		t.Fatalf("open read: %v", err)
	}
	return c
}

func TestLookup_KnownFormats(t *testing.T) {
	for _, name := range []string{"Binary", "Ascii", "Xml", "Matlab"} {
		f, err := wire.Lookup(name)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if f.Name() != name {
			t.Fatalf("Lookup(%q).Name() = %q", name, f.Name())
		}
	}
}

func TestLookup_Unknown(t *testing.T) {
	if _, err := wire.Lookup("Yaml"); err == nil {
		t.Fatalf("expected error for unregistered format")
	}
}

func TestBinary_HeaderAndPrimitiveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary.bin")

	wf, _ := wire.Lookup("Binary")
	wc := openWrite(t, path)
	if err := wf.WriteHeader(wc, wire.Header{Type: "Point", Name: "p", Size: 8}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := wf.WritePrimitive(wc, "x", wire.KInt, int32(42)); err != nil {
		t.Fatalf("WritePrimitive: %v", err)
	}
	if err := wf.WritePrimitive(wc, "y", wire.KInt, int32(-7)); err != nil {
		t.Fatalf("WritePrimitive: %v", err)
	}
	if err := wf.WriteEndBaseType(wc); err != nil {
		t.Fatalf("WriteEndBaseType: %v", err)
	}
	wc.Close()

	rf, _ := wire.Lookup("Binary")
	rc := openRead(t, path)
	defer rc.Close()

	h, err := rf.ReadHeader(rc)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Type != "Point" || h.Name != "p" || h.Size != 8 {
		t.Fatalf("ReadHeader = %+v", h)
	}
	xv, err := rf.ReadPrimitive(rc, "x", wire.KInt)
	if err != nil || xv.(int32) != 42 {
		t.Fatalf("ReadPrimitive x = %v, %v", xv, err)
	}
	yv, err := rf.ReadPrimitive(rc, "y", wire.KInt)
	if err != nil || yv.(int32) != -7 {
		t.Fatalf("ReadPrimitive y = %v, %v", yv, err)
	}
}

func TestBinary_ArrayRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary_array.bin")

	wf, _ := wire.Lookup("Binary")
	wc := openWrite(t, path)
	in := []int32{1, 2, 3, 4, 5}
	if err := wf.WriteArray(wc, "a", wire.KInt, in); err != nil {
		t.Fatalf("WriteArray: %v", err)
	}
	wc.Close()

	rf, _ := wire.Lookup("Binary")
	rc := openRead(t, path)
	defer rc.Close()
	out, err := rf.ReadArray(rc, "a", wire.KInt, 0)
	if err != nil {
		t.Fatalf("ReadArray: %v", err)
	}
	got := out.([]int32)
	if len(got) != len(in) {
		t.Fatalf("ReadArray len = %d, want %d", len(got), len(in))
	}
	for i := range in {
		if got[i] != in[i] {
			t.Fatalf("ReadArray[%d] = %d, want %d", i, got[i], in[i])
		}
	}
}

func TestBinary_LittleEndianOption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "binary_le.bin")

	wf, _ := wire.Lookup("Binary")
	wc := openWrite(t, path)
	if err := wf.WriteHeader(wc, wire.Header{Type: "T", Name: "n", Options: "LITTLE_ENDIAN"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := wf.WritePrimitive(wc, "v", wire.KUInt, uint32(0x01020304)); err != nil {
		t.Fatalf("WritePrimitive: %v", err)
	}
	wc.Close()

	rf, _ := wire.Lookup("Binary")
	rc := openRead(t, path)
	defer rc.Close()
	if _, err := rf.ReadHeader(rc); err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	v, err := rf.ReadPrimitive(rc, "v", wire.KUInt)
	if err != nil || v.(uint32) != 0x01020304 {
		t.Fatalf("ReadPrimitive = %v, %v, want 0x01020304 (little-endian round trip)", v, err)
	}
}

func TestAscii_HeaderAndPrimitiveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascii.txt")

	wf, _ := wire.Lookup("Ascii")
	wc := openWrite(t, path)
	if err := wf.WriteHeader(wc, wire.Header{Type: "BBDMTag", Name: "tag"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	var ts int64 = 123456789
	if err := wf.WritePrimitive(wc, "timestep", wire.KLL, ts); err != nil {
		t.Fatalf("WritePrimitive: %v", err)
	}
	if err := wf.WriteStringQuoted(wc, "instanceName", "left", 0); err != nil {
		t.Fatalf("WriteStringQuoted: %v", err)
	}
	if err := wf.WriteEndBaseType(wc); err != nil {
		t.Fatalf("WriteEndBaseType: %v", err)
	}
	wc.Close()

	rf, _ := wire.Lookup("Ascii")
	rc := openRead(t, path)
	defer rc.Close()

	h, err := rf.ReadHeader(rc)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Type != "BBDMTag" || h.Name != "tag" {
		t.Fatalf("ReadHeader = %+v", h)
	}
	got, err := rf.ReadPrimitive(rc, "timestep", wire.KLL)
	if err != nil || got.(int64) != ts {
		t.Fatalf("ReadPrimitive timestep = %v, %v", got, err)
	}
	name, err := rf.ReadStringQuoted(rc, "instanceName", 0)
	if err != nil || name != "left" {
		t.Fatalf("ReadStringQuoted = %q, %v", name, err)
	}
	if err := rf.ReadEndBaseType(rc); err != nil {
		t.Fatalf("ReadEndBaseType: %v", err)
	}
}

func TestAscii_PeekHeader_NonConsuming(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascii_peek.txt")

	wf, _ := wire.Lookup("Ascii")
	wc := openWrite(t, path)
	wf.WriteHeader(wc, wire.Header{Type: "Base2DI32", Name: "origin"})
	wf.WritePrimitive(wc, "x", wire.KInt, int32(1))
	wf.WritePrimitive(wc, "y", wire.KInt, int32(2))
	wf.WriteEndBaseType(wc)
	wc.Close()

	rf, _ := wire.Lookup("Ascii")
	rc := openRead(t, path)
	defer rc.Close()

	peeked, err := rf.PeekHeader(rc)
	if err != nil {
		t.Fatalf("PeekHeader: %v", err)
	}
	if peeked.Type != "Base2DI32" || peeked.Name != "origin" {
		t.Fatalf("PeekHeader = %+v", peeked)
	}
	// PeekHeader must not consume: a real ReadHeader should still see it.
	h, err := rf.ReadHeader(rc)
	if err != nil {
		t.Fatalf("ReadHeader after PeekHeader: %v", err)
	}
	if h.Type != "Base2DI32" || h.Name != "origin" {
		t.Fatalf("ReadHeader after PeekHeader = %+v", h)
	}
}

func TestAscii_WithTypeFalseOmitsTypeToken(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ascii_notype.txt")

	wf, _ := wire.Lookup("Ascii")
	wf.Configure("WITH_TYPE=FALSE")
	wc := openWrite(t, path)
	if err := wf.WriteHeader(wc, wire.Header{Type: "Ignored", Name: "n"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	wc.Close()

	rf, _ := wire.Lookup("Ascii")
	rf.Configure("WITH_TYPE=FALSE")
	rc := openRead(t, path)
	defer rc.Close()
	h, err := rf.ReadHeader(rc)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Name != "n" {
		t.Fatalf("ReadHeader = %+v, want name %q", h, "n")
	}
}

func TestXml_HeaderAndPrimitiveRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xml.txt")

	wf, _ := wire.Lookup("Xml")
	wc := openWrite(t, path)
	if err := wf.WriteHeader(wc, wire.Header{Type: "Base2DI32", Name: "origin"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := wf.WritePrimitive(wc, "x", wire.KInt, int32(3)); err != nil {
		t.Fatalf("WritePrimitive: %v", err)
	}
	cw, ok := wf.(wire.CloseTagWriter)
	if !ok {
		t.Fatalf("Xml format does not implement CloseTagWriter")
	}
	if err := cw.WriteCloseTag(wc, "Base2DI32"); err != nil {
		t.Fatalf("WriteCloseTag: %v", err)
	}
	wc.Close()

	rf, _ := wire.Lookup("Xml")
	rc := openRead(t, path)
	defer rc.Close()
	h, err := rf.ReadHeader(rc)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.Type != "Base2DI32" || h.Name != "origin" {
		t.Fatalf("ReadHeader = %+v", h)
	}
	v, err := rf.ReadPrimitive(rc, "x", wire.KInt)
	if err != nil || v.(int32) != 3 {
		t.Fatalf("ReadPrimitive = %v, %v", v, err)
	}
	if err := rf.ReadEndBaseType(rc); err != nil {
		t.Fatalf("ReadEndBaseType: %v", err)
	}
}

func TestMatlab_WritesAssignmentStatements(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matlab.m")

	wf, _ := wire.Lookup("Matlab")
	wc := openWrite(t, path)
	if err := wf.WriteHeader(wc, wire.Header{Type: "Base2DI32", Name: "origin"}); err != nil {
		t.Fatalf("WriteHeader: %v", err)
	}
	if err := wf.WritePrimitive(wc, "x", wire.KInt, int32(9)); err != nil {
		t.Fatalf("WritePrimitive: %v", err)
	}
	if err := wf.WriteEndBaseType(wc); err != nil {
		t.Fatalf("WriteEndBaseType: %v", err)
	}
	wc.Close()

	rc := openRead(t, path)
	defer rc.Close()
	buf := make([]byte, 256)
	n, _ := rc.Read(buf)
	out := string(buf[:n])
	if !contains(out, "origin.x = 9;") {
		t.Fatalf("Matlab output = %q, want it to contain %q", out, "origin.x = 9;")
	}
}

func contains(s, sub string) bool {
	return len(s) >= len(sub) && (func() bool {
		for i := 0; i+len(sub) <= len(s); i++ {
			if s[i:i+len(sub)] == sub {
				return true
			}
		}
		return false
	})()
}
