// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package refval_test

import (
	"testing"

	"code.hybscloud.com/tbserialize/refval"
)

func TestParse_SixPairs(t *testing.T) {
	s := `Reference1=Value1 Reference2=Value2 Reference3=Value3 Reference4=Value4 Reference5=Value5 Reference6=Value6`
	l, err := refval.Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if got := l.Len(); got != 6 {
		t.Fatalf("Len() = %d, want 6", got)
	}
	v, ok := l.Find("Reference4")
	if !ok || v != "Value4" {
		t.Fatalf("Find(Reference4) = %q, %v", v, ok)
	}
}

func TestPush_Shadows(t *testing.T) {
	s := `Reference1=Value1 Reference2=Value2`
	l, err := refval.Parse(s)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	l.Push("Reference7", "Value7")
	v, ok := l.Find("Reference7")
	if !ok || v != "Value7" {
		t.Fatalf("Find(Reference7) = %q, %v", v, ok)
	}
	v1, ok := l.Find("Reference1")
	if !ok || v1 != "Value1" {
		t.Fatalf("Find(Reference1) = %q, %v, want Value1 untouched", v1, ok)
	}
	v2, ok := l.Find("Reference2")
	if !ok || v2 != "Value2" {
		t.Fatalf("Find(Reference2) = %q, %v, want Value2 untouched", v2, ok)
	}
}

func TestParse_QuotedValues(t *testing.T) {
	l, err := refval.Parse(`name="hello world" mode='RDONLY' esc="a\"b"`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, _ := l.Find("name"); v != "hello world" {
		t.Fatalf("name = %q", v)
	}
	if v, _ := l.Find("mode"); v != "RDONLY" {
		t.Fatalf("mode = %q", v)
	}
	if v, _ := l.Find("esc"); v != `a"b` {
		t.Fatalf("esc = %q", v)
	}
}

func TestParse_BareSchemeFirstToken(t *testing.T) {
	l, err := refval.Parse(`File:///tmp/x mode=RDONLY`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	v, ok := l.Find("stream")
	if !ok || v != "File:///tmp/x" {
		t.Fatalf("stream = %q, %v", v, ok)
	}
}

func TestParse_UnterminatedQuote(t *testing.T) {
	if _, err := refval.Parse(`name="unterminated`); err == nil {
		t.Fatalf("expected error for unterminated quote")
	}
}

func TestFind_Missing(t *testing.T) {
	l, _ := refval.Parse(`a=1`)
	if _, ok := l.Find("missing"); ok {
		t.Fatalf("expected missing key to not be found")
	}
}

func TestClear(t *testing.T) {
	l, _ := refval.Parse(`a=1 b=2`)
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("Len() after Clear = %d, want 0", l.Len())
	}
}
