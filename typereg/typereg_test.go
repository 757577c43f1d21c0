// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package typereg_test

import (
	"testing"

	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/typereg"
)

type probe struct{ n int }

func TestRegisterLookupNew(t *testing.T) {
	typereg.Register("Probe", func(ptr interface{}, name string, s *serialize.Serializer) error {
		ptr.(*probe).n++
		return nil
	}, func() interface{} { return &probe{} })

	fn, err := typereg.Lookup("Probe")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	p := &probe{}
	if err := fn(p, "x", nil); err != nil {
		t.Fatalf("fn: %v", err)
	}
	if p.n != 1 {
		t.Fatalf("n = %d, want 1", p.n)
	}

	v, err := typereg.New("Probe")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := v.(*probe); !ok {
		t.Fatalf("New returned %T, want *probe", v)
	}
}

func TestLookup_Unregistered(t *testing.T) {
	if _, err := typereg.Lookup("DoesNotExist"); err == nil {
		t.Fatalf("expected error for unregistered type")
	}
}

func TestNew_NoFactory(t *testing.T) {
	typereg.Register("NoFactory", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return nil
	}, nil)
	if _, err := typereg.New("NoFactory"); err == nil {
		t.Fatalf("expected error for type with no factory")
	}
}

func TestNames_ContainsRegistered(t *testing.T) {
	typereg.Register("NamesProbe", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return nil
	}, func() interface{} { return &probe{} })
	names := typereg.Names()
	found := false
	for _, n := range names {
		if n == "NamesProbe" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Names() = %v, want it to contain %q", names, "NamesProbe")
	}
}
