// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package basetypes_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"code.hybscloud.com/tbserialize/basetypes"
	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/typereg"
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

// TestBBDMTag_AsciiRoundtrip is scenario S1: the reference BBDM timestep
// and instance name round-trip through the Ascii format.
func TestBBDMTag_AsciiRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bbdmtag.txt")

	in := &basetypes.BBDMTag{Timestep: 123456789, InstanceName: "left"}
	wc := openWrite(t, path)
	ws := serialize.New()
	ws.Init(wc, serialize.ModeWrite)
	ws.SetFormat("Ascii", "")
	if err := in.Serialize("tag", ws); err != nil {
		t.Fatalf("Serialize (write): %v", err)
	}
	wc.Close()

	rc := openRead(t, path)
	defer rc.Close()
	rs := serialize.New()
	rs.Init(rc, serialize.ModeRead)
	rs.SetFormat("Ascii", "")
	out := &basetypes.BBDMTag{}
	if err := out.Serialize("tag", rs); err != nil {
		t.Fatalf("Serialize (read): %v", err)
	}
	if out.Timestep != in.Timestep || out.InstanceName != in.InstanceName {
		t.Fatalf("got %+v, want %+v", out, in)
	}
}

// TestBase2DI32_AutoCalcBinaryRoundtrip is scenario S2: the Serializer's
// AutoCalc size-calc pass over a small geometry type.
func TestBase2DI32_AutoCalcBinaryRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base2di32.bin")

	in := &basetypes.Base2DI32{X: 7, Y: -3}
	wc := openWrite(t, path)
	ws := serialize.New()
	ws.Init(wc, serialize.ModeWrite|serialize.ModeAutoCalc)
	ws.SetFormat("Binary", "")
	if err := in.Serialize("origin", ws); err != nil {
		t.Fatalf("Serialize (write): %v", err)
	}
	wc.Close()

	rc := openRead(t, path)
	defer rc.Close()
	rs := serialize.New()
	rs.Init(rc, serialize.ModeRead)
	rs.SetFormat("Binary", "")
	out := &basetypes.Base2DI32{}
	if err := out.Serialize("origin", rs); err != nil {
		t.Fatalf("Serialize (read): %v", err)
	}
	if out.X != in.X || out.Y != in.Y {
		t.Fatalf("got %+v, want %+v", out, in)
	}
	if got := rs.GetPayloadSize(); got != 8 {
		t.Fatalf("GetPayloadSize() = %d, want 8 (two Int fields)", got)
	}
}

// TestMemI8_InitModeAllocation is scenario S3: MemI8's buffer is
// reallocated from the stream's own length on Read with InitMode set,
// regardless of its Go zero value (nil) going in.
func TestMemI8_InitModeAllocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memi8.txt")

	in := &basetypes.MemI8{Data: []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x00}}
	wc := openWrite(t, path)
	ws := serialize.New()
	ws.Init(wc, serialize.ModeWrite)
	ws.SetFormat("Ascii", "")
	if err := in.Serialize("buf", ws); err != nil {
		t.Fatalf("Serialize (write): %v", err)
	}
	wc.Close()

	rc := openRead(t, path)
	defer rc.Close()
	rs := serialize.New()
	rs.Init(rc, serialize.ModeRead)
	rs.SetInitMode(true)
	rs.SetFormat("Ascii", "")

	out := &basetypes.MemI8{}
	if out.Data != nil {
		t.Fatalf("precondition: Data must start nil")
	}
	if err := out.Serialize("buf", rs); err != nil {
		t.Fatalf("Serialize (read): %v", err)
	}
	if len(out.Data) != len(in.Data) {
		t.Fatalf("len(Data) = %d, want %d", len(out.Data), len(in.Data))
	}
	for i := range in.Data {
		if out.Data[i] != in.Data[i] {
			t.Fatalf("Data[%d] = %#x, want %#x", i, out.Data[i], in.Data[i])
		}
	}
}

// TestComposite_AllFormatsRoundtrip is scenario S4: a type exercising
// every primitive, array, nested-struct, and struct-array operation
// round-trips through every registered wire format.
func TestComposite_AllFormatsRoundtrip(t *testing.T) {
	for _, format := range []string{"Binary", "Ascii", "Xml"} {
		format := format
		t.Run(format, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "composite."+format)

			in := &basetypes.Composite{
				Tag:     basetypes.BBDMTag{Timestep: 42, InstanceName: "cam0"},
				C:       'c',
				SC:      -1,
				UC:      200,
				SI:      -1000,
				USI:     2000,
				I:       -100000,
				UI:      100000,
				LI:      -1 << 40,
				ULI:     1 << 40,
				LL:      -1 << 50,
				ULL:     1 << 50,
				F:       1.5,
				D:       2.25,
				Label:   "composite",
				Ints:    []int32{1, 2, 3},
				Doubles: []float64{1.1, 2.2},
				Bytes:   []byte{9, 8, 7},
				Origin:  basetypes.Base2DI32{X: 1, Y: 2},
				Bounds: basetypes.Base2DRect{
					Origin: basetypes.Base2DPoint{X: 0, Y: 0},
					Size:   basetypes.Base2DSize{Width: 10, Height: 20},
				},
				Points: []basetypes.Base2DPoint{{X: 1, Y: 1}, {X: 2, Y: 2}},
			}

			wc := openWrite(t, path)
			ws := serialize.New()
			ws.Init(wc, serialize.ModeWrite|serialize.ModeAutoCalc)
			ws.SetFormat(format, "")
			if err := in.Serialize("composite", ws); err != nil {
				t.Fatalf("Serialize (write): %v", err)
			}
			wc.Close()

			rc := openRead(t, path)
			defer rc.Close()
			rs := serialize.New()
			rs.Init(rc, serialize.ModeRead)
			rs.SetFormat(format, "")

			out := &basetypes.Composite{}
			if err := out.Serialize("composite", rs); err != nil {
				t.Fatalf("Serialize (read): %v", err)
			}

			if out.Tag != in.Tag {
				t.Fatalf("Tag = %+v, want %+v", out.Tag, in.Tag)
			}
			if out.I != in.I || out.UI != in.UI || out.LL != in.LL || out.ULL != in.ULL {
				t.Fatalf("scalar mismatch: got %+v", out)
			}
			if out.F != in.F || out.D != in.D {
				t.Fatalf("float mismatch: got F=%v D=%v", out.F, out.D)
			}
			if out.Label != in.Label {
				t.Fatalf("Label = %q, want %q", out.Label, in.Label)
			}
			if len(out.Ints) != len(in.Ints) || len(out.Doubles) != len(in.Doubles) || len(out.Bytes) != len(in.Bytes) {
				t.Fatalf("array length mismatch: got %+v", out)
			}
			if out.Origin != in.Origin {
				t.Fatalf("Origin = %+v, want %+v", out.Origin, in.Origin)
			}
			if out.Bounds != in.Bounds {
				t.Fatalf("Bounds = %+v, want %+v", out.Bounds, in.Bounds)
			}
			if len(out.Points) != len(in.Points) {
				t.Fatalf("Points length = %d, want %d", len(out.Points), len(in.Points))
			}
			for i := range in.Points {
				if out.Points[i] != in.Points[i] {
					t.Fatalf("Points[%d] = %+v, want %+v", i, out.Points[i], in.Points[i])
				}
			}
		})
	}
}

// TestBase2DI32_MatlabNoHeaderEmitsOnlyAssignments is scenario S6: writing
// a value with the Matlab format and NoHeader suppresses the
// "% begin"/"% end" framing comments, leaving only the executable
// "path = value;" assignment statements.
func TestBase2DI32_MatlabNoHeaderEmitsOnlyAssignments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "base2di32.m")

	in := &basetypes.Base2DI32{X: 9, Y: -4}
	wc := openWrite(t, path)
	ws := serialize.New()
	ws.Init(wc, serialize.ModeWrite|serialize.ModeNoHeader)
	ws.SetFormat("Matlab", "")
	if err := in.Serialize("origin", ws); err != nil {
		t.Fatalf("Serialize (write): %v", err)
	}
	wc.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	got := string(data)
	if strings.Contains(got, "% begin") || strings.Contains(got, "% end") {
		t.Fatalf("Matlab output with NoHeader must omit begin/end comments, got %q", got)
	}
	want := "x = 9;\ny = -4;\n"
	if got != want {
		t.Fatalf("Matlab output = %q, want %q", got, want)
	}
}

func TestTypeRegistry_HasBaseTypes(t *testing.T) {
	for _, name := range []string{"Base2DI32", "Base2DPoint", "Base2DSize", "Base2DRect", "MemI8", "BBDMTag", "Composite"} {
		if _, err := typereg.Lookup(name); err != nil {
			t.Fatalf("typereg.Lookup(%q): %v", name, err)
		}
		if _, err := typereg.New(name); err != nil {
			t.Fatalf("typereg.New(%q): %v", name, err)
		}
	}
}
