// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import "code.hybscloud.com/tbserialize/wire"

// primitive is the shared Write/Read/Calc dispatch for a single scalar
// value of the given Kind, boxed through get/set closures so every
// exported primitive encoder (Char, Int, Double, …) can share one body
// instead of duplicating the mode switch thirteen times (spec.md §4.1:
// "Format dispatch: each primitive op indexes the active format vtable;
// there is no per-primitive branching in the front object").
func (s *Serializer) primitive(name string, kind wire.Kind, get func() interface{}, set func(interface{})) error {
	if err := s.requireReady(); err != nil {
		return err
	}
	switch {
	case s.mode&ModeCalc != 0:
		s.calcBytes += uint32(wire.Width(kind))
		return nil
	case s.mode&ModeWrite != 0:
		if err := s.format.WritePrimitive(s.channel, name, kind, get()); err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		s.wrBytes += int64(wire.Width(kind))
		return nil
	case s.mode&ModeRead != 0:
		v, err := s.format.ReadPrimitive(s.channel, name, kind)
		if err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		set(v)
		s.rdBytes += int64(wire.Width(kind))
		return nil
	default:
		return s.setErr(newErrorf(ErrBadMode, "serialize: %s(%q): no direction bit set", kind, name))
	}
}

func (s *Serializer) Char(name string, v *int8) error {
	return s.primitive(name, wire.KChar, func() interface{} { return *v }, func(x interface{}) { *v = x.(int8) })
}

func (s *Serializer) SChar(name string, v *int8) error {
	return s.primitive(name, wire.KSChar, func() interface{} { return *v }, func(x interface{}) { *v = x.(int8) })
}

func (s *Serializer) UChar(name string, v *uint8) error {
	return s.primitive(name, wire.KUChar, func() interface{} { return *v }, func(x interface{}) { *v = x.(uint8) })
}

func (s *Serializer) SInt(name string, v *int16) error {
	return s.primitive(name, wire.KSInt, func() interface{} { return *v }, func(x interface{}) { *v = x.(int16) })
}

func (s *Serializer) USInt(name string, v *uint16) error {
	return s.primitive(name, wire.KUSInt, func() interface{} { return *v }, func(x interface{}) { *v = x.(uint16) })
}

func (s *Serializer) Int(name string, v *int32) error {
	return s.primitive(name, wire.KInt, func() interface{} { return *v }, func(x interface{}) { *v = x.(int32) })
}

func (s *Serializer) UInt(name string, v *uint32) error {
	return s.primitive(name, wire.KUInt, func() interface{} { return *v }, func(x interface{}) { *v = x.(uint32) })
}

func (s *Serializer) LInt(name string, v *int64) error {
	return s.primitive(name, wire.KLInt, func() interface{} { return *v }, func(x interface{}) { *v = x.(int64) })
}

func (s *Serializer) ULInt(name string, v *uint64) error {
	return s.primitive(name, wire.KULInt, func() interface{} { return *v }, func(x interface{}) { *v = x.(uint64) })
}

func (s *Serializer) LL(name string, v *int64) error {
	return s.primitive(name, wire.KLL, func() interface{} { return *v }, func(x interface{}) { *v = x.(int64) })
}

func (s *Serializer) ULL(name string, v *uint64) error {
	return s.primitive(name, wire.KULL, func() interface{} { return *v }, func(x interface{}) { *v = x.(uint64) })
}

func (s *Serializer) Float(name string, v *float32) error {
	return s.primitive(name, wire.KFloat, func() interface{} { return *v }, func(x interface{}) { *v = x.(float32) })
}

func (s *Serializer) Double(name string, v *float64) error {
	return s.primitive(name, wire.KDouble, func() interface{} { return *v }, func(x interface{}) { *v = x.(float64) })
}

// String serializes a bounded string. maxLen bounds the accepted length
// on Read (LengthMismatch if the stream's string exceeds it); Go strings
// need no InitMode allocation step since they are values, not buffers
// (unlike MemI8, see basetypes.MemI8 for the buffer case spec.md's
// InitMode rule actually targets).
func (s *Serializer) String(name string, v *string, maxLen int) error {
	if err := s.requireReady(); err != nil {
		return err
	}
	switch {
	case s.mode&ModeCalc != 0:
		s.calcBytes += uint32(binaryStringOverhead + len(*v))
		return nil
	case s.mode&ModeWrite != 0:
		if err := s.format.WriteStringQuoted(s.channel, name, *v, maxLen); err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		s.wrBytes += int64(binaryStringOverhead + len(*v))
		return nil
	case s.mode&ModeRead != 0:
		got, err := s.format.ReadStringQuoted(s.channel, name, maxLen)
		if err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		if maxLen > 0 && len(got) > maxLen {
			return s.setErr(newErrorf(ErrLengthMismatch, "serialize: String(%q): stream length %d exceeds maxLen %d", name, len(got), maxLen))
		}
		*v = got
		s.rdBytes += int64(binaryStringOverhead + len(got))
		return nil
	default:
		return s.setErr(newErrorf(ErrBadMode, "serialize: String(%q): no direction bit set", name))
	}
}
