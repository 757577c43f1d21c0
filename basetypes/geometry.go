// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package basetypes provides the small set of concrete value types used
// by the end-to-end scenarios in spec.md §8 and registered with
// typereg so sutil.Utility can resolve them by name: the 2D geometry
// primitives from BBDM-C.h, the growable MemI8 buffer, the BBDMTag
// record, and a Composite type exercising every Serializer primitive,
// array, nested-struct, and struct-array operation at once.
package basetypes

import (
	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/typereg"
)

func init() {
	typereg.Register("Base2DI32", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return ptr.(*Base2DI32).Serialize(name, s)
	}, func() interface{} { return &Base2DI32{} })
	typereg.Register("Base2DPoint", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return ptr.(*Base2DPoint).Serialize(name, s)
	}, func() interface{} { return &Base2DPoint{} })
	typereg.Register("Base2DSize", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return ptr.(*Base2DSize).Serialize(name, s)
	}, func() interface{} { return &Base2DSize{} })
	typereg.Register("Base2DRect", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return ptr.(*Base2DRect).Serialize(name, s)
	}, func() interface{} { return &Base2DRect{} })
}

// Base2DI32 is a 2D integer vector, grounded on BBDM-C.h's Base2DI32
// (spec.md §8 scenario S2).
type Base2DI32 struct {
	X, Y int32
}

func (p *Base2DI32) Serialize(name string, s *serialize.Serializer) error {
	return s.Begin(name, "Base2DI32", func() error {
		if err := s.Int("x", &p.X); err != nil {
			return err
		}
		return s.Int("y", &p.Y)
	})
}

// Base2DPoint is a floating-point 2D point.
type Base2DPoint struct {
	X, Y float64
}

func (p *Base2DPoint) Serialize(name string, s *serialize.Serializer) error {
	return s.Begin(name, "Base2DPoint", func() error {
		if err := s.Double("x", &p.X); err != nil {
			return err
		}
		return s.Double("y", &p.Y)
	})
}

// Base2DSize is a floating-point width/height pair.
type Base2DSize struct {
	Width, Height float64
}

func (sz *Base2DSize) Serialize(name string, s *serialize.Serializer) error {
	return s.Begin(name, "Base2DSize", func() error {
		if err := s.Double("width", &sz.Width); err != nil {
			return err
		}
		return s.Double("height", &sz.Height)
	})
}

// Base2DRect is an axis-aligned rectangle: origin plus size, each a
// nested struct — exercises the Serializer's nested begin/end framing.
type Base2DRect struct {
	Origin Base2DPoint
	Size   Base2DSize
}

func (r *Base2DRect) Serialize(name string, s *serialize.Serializer) error {
	return s.Begin(name, "Base2DRect", func() error {
		if err := r.Origin.Serialize("origin", s); err != nil {
			return err
		}
		return r.Size.Serialize("size", s)
	})
}
