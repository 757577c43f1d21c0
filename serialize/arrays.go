// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import "code.hybscloud.com/tbserialize/wire"

// array is the shared Write/Read/Calc dispatch for a fixed-length typed
// array. On Read with InitMode set, declaredLen is 0 (meaning "trust the
// stream's length and allocate accordingly" — spec.md §4.1's InitMode
// allocation rule); without InitMode, declaredLen is the caller's
// existing slice length (0 for an empty slice also accepts the stream's
// length). A mismatch is detected by the format's ReadArray and, like
// any other ReadArray failure, surfaces as ErrChannel, not
// ErrLengthMismatch.
func (s *Serializer) array(name string, kind wire.Kind, get func() interface{}, declaredLen int, set func(interface{})) error {
	if err := s.requireReady(); err != nil {
		return err
	}
	switch {
	case s.mode&ModeCalc != 0:
		n, _ := wireArrayLen(kind, get())
		s.calcBytes += uint32(4 + n*wire.Width(kind))
		return nil
	case s.mode&ModeWrite != 0:
		if err := s.format.WriteArray(s.channel, name, kind, get()); err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		n, _ := wireArrayLen(kind, get())
		s.wrBytes += int64(4 + n*wire.Width(kind))
		return nil
	case s.mode&ModeRead != 0:
		length := declaredLen
		if s.mode&ModeInitMode != 0 {
			length = 0
		}
		v, err := s.format.ReadArray(s.channel, name, kind, length)
		if err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		set(v)
		n, _ := wireArrayLen(kind, v)
		s.rdBytes += int64(4 + n*wire.Width(kind))
		return nil
	default:
		return s.setErr(newErrorf(ErrBadMode, "serialize: %sArray(%q): no direction bit set", kind, name))
	}
}

func wireArrayLen(kind wire.Kind, v interface{}) (int, error) {
	switch kind {
	case wire.KChar, wire.KSChar:
		return len(v.([]int8)), nil
	case wire.KUChar:
		return len(v.([]uint8)), nil
	case wire.KSInt:
		return len(v.([]int16)), nil
	case wire.KUSInt:
		return len(v.([]uint16)), nil
	case wire.KInt:
		return len(v.([]int32)), nil
	case wire.KUInt:
		return len(v.([]uint32)), nil
	case wire.KLInt, wire.KLL:
		return len(v.([]int64)), nil
	case wire.KULInt, wire.KULL:
		return len(v.([]uint64)), nil
	case wire.KFloat:
		return len(v.([]float32)), nil
	case wire.KDouble:
		return len(v.([]float64)), nil
	default:
		return 0, nil
	}
}

func (s *Serializer) Int8Array(name string, v *[]int8) error {
	return s.array(name, wire.KChar, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]int8) })
}

func (s *Serializer) UInt8Array(name string, v *[]uint8) error {
	return s.array(name, wire.KUChar, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]uint8) })
}

func (s *Serializer) Int16Array(name string, v *[]int16) error {
	return s.array(name, wire.KSInt, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]int16) })
}

func (s *Serializer) UInt16Array(name string, v *[]uint16) error {
	return s.array(name, wire.KUSInt, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]uint16) })
}

func (s *Serializer) Int32Array(name string, v *[]int32) error {
	return s.array(name, wire.KInt, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]int32) })
}

func (s *Serializer) UInt32Array(name string, v *[]uint32) error {
	return s.array(name, wire.KUInt, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]uint32) })
}

func (s *Serializer) Int64Array(name string, v *[]int64) error {
	return s.array(name, wire.KLInt, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]int64) })
}

func (s *Serializer) UInt64Array(name string, v *[]uint64) error {
	return s.array(name, wire.KULInt, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]uint64) })
}

func (s *Serializer) Float32Array(name string, v *[]float32) error {
	return s.array(name, wire.KFloat, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]float32) })
}

func (s *Serializer) Float64Array(name string, v *[]float64) error {
	return s.array(name, wire.KDouble, func() interface{} { return *v }, len(*v), func(x interface{}) { *v = x.([]float64) })
}

// StructArray serializes a variable-length array of composite elements,
// delegating each element to elemFn (spec.md §4.1: "STRUCT_ARRAY which
// takes a per-element callback"). The elements are framed as a nested
// "StructArray" type whose first field is a UInt "count". On Write/Calc,
// n is the element count written to that field; on Read, n is ignored:
// the count is read from the stream and elemFn is called that many
// times, so elemFn must grow the destination as needed. Empty arrays
// (count 0) are valid and elemFn is never called.
func (s *Serializer) StructArray(name string, n int, elemFn func(i int) error) error {
	if err := s.requireReady(); err != nil {
		return err
	}
	if err := s.BeginType(name, "StructArray"); err != nil {
		return err
	}
	var countVar uint32 = uint32(n)
	if err := s.UInt("count", &countVar); err != nil {
		return err
	}
	count := int(countVar)
	for i := 0; i < count; i++ {
		if err := elemFn(i); err != nil {
			return err
		}
	}
	return s.EndType()
}
