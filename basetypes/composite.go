// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package basetypes

import (
	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/typereg"
)

func init() {
	typereg.Register("Composite", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return ptr.(*Composite).Serialize(name, s)
	}, func() interface{} { return &Composite{} })
}

// Composite exercises every Serializer primitive, array, string,
// nested-struct, and struct-array operation in one type, for the
// all-formats round-trip scenario (spec.md §8 scenario S4).
type Composite struct {
	Tag BBDMTag

	C   int8
	SC  int8
	UC  uint8
	SI  int16
	USI uint16
	I   int32
	UI  uint32
	LI  int64
	ULI uint64
	LL  int64
	ULL uint64
	F   float32
	D   float64

	Label string

	Ints    []int32
	Doubles []float64
	Bytes   []uint8

	Origin Base2DI32
	Bounds Base2DRect

	Points []Base2DPoint
}

func (c *Composite) Serialize(name string, s *serialize.Serializer) error {
	return s.Begin(name, "Composite", func() error {
		if err := c.Tag.Serialize("tag", s); err != nil {
			return err
		}
		if err := s.Char("c", &c.C); err != nil {
			return err
		}
		if err := s.SChar("sc", &c.SC); err != nil {
			return err
		}
		if err := s.UChar("uc", &c.UC); err != nil {
			return err
		}
		if err := s.SInt("si", &c.SI); err != nil {
			return err
		}
		if err := s.USInt("usi", &c.USI); err != nil {
			return err
		}
		if err := s.Int("i", &c.I); err != nil {
			return err
		}
		if err := s.UInt("ui", &c.UI); err != nil {
			return err
		}
		if err := s.LInt("li", &c.LI); err != nil {
			return err
		}
		if err := s.ULInt("uli", &c.ULI); err != nil {
			return err
		}
		if err := s.LL("ll", &c.LL); err != nil {
			return err
		}
		if err := s.ULL("ull", &c.ULL); err != nil {
			return err
		}
		if err := s.Float("f", &c.F); err != nil {
			return err
		}
		if err := s.Double("d", &c.D); err != nil {
			return err
		}
		if err := s.String("label", &c.Label, 128); err != nil {
			return err
		}
		if err := s.Int32Array("ints", &c.Ints); err != nil {
			return err
		}
		if err := s.Float64Array("doubles", &c.Doubles); err != nil {
			return err
		}
		if err := s.UInt8Array("bytes", &c.Bytes); err != nil {
			return err
		}
		if err := c.Origin.Serialize("origin", s); err != nil {
			return err
		}
		if err := c.Bounds.Serialize("bounds", s); err != nil {
			return err
		}
		return s.StructArray("points", len(c.Points), func(i int) error {
			if i >= len(c.Points) {
				c.Points = append(c.Points, Base2DPoint{})
			}
			return c.Points[i].Serialize("point", s)
		})
	})
}
