// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "fmt"

// arrayAccessor returns the element count and an index accessor for v,
// which must be a Go slice whose element type matches kind. Shared by
// every format's WriteArray so the per-element encode loop is written
// once instead of four times.
func arrayAccessor(kind Kind, v interface{}) (int, func(i int) interface{}) {
	switch kind {
	case KChar, KSChar:
		s := v.([]int8)
		return len(s), func(i int) interface{} { return s[i] }
	case KUChar:
		s := v.([]uint8)
		return len(s), func(i int) interface{} { return s[i] }
	case KSInt:
		s := v.([]int16)
		return len(s), func(i int) interface{} { return s[i] }
	case KUSInt:
		s := v.([]uint16)
		return len(s), func(i int) interface{} { return s[i] }
	case KInt:
		s := v.([]int32)
		return len(s), func(i int) interface{} { return s[i] }
	case KUInt:
		s := v.([]uint32)
		return len(s), func(i int) interface{} { return s[i] }
	case KLInt, KLL:
		s := v.([]int64)
		return len(s), func(i int) interface{} { return s[i] }
	case KULInt, KULL:
		s := v.([]uint64)
		return len(s), func(i int) interface{} { return s[i] }
	case KFloat:
		s := v.([]float32)
		return len(s), func(i int) interface{} { return s[i] }
	case KDouble:
		s := v.([]float64)
		return len(s), func(i int) interface{} { return s[i] }
	default:
		panic(fmt.Sprintf("wire: unsupported array kind %v", kind))
	}
}

// decodeArray builds a typed Go slice of length n from the values
// returned by readOne(i), one call per element in order.
func decodeArray(kind Kind, n int, readOne func(i int) (interface{}, error)) (interface{}, error) {
	switch kind {
	case KChar, KSChar:
		out := make([]int8, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(int8)
		}
		return out, nil
	case KUChar:
		out := make([]uint8, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(uint8)
		}
		return out, nil
	case KSInt:
		out := make([]int16, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(int16)
		}
		return out, nil
	case KUSInt:
		out := make([]uint16, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(uint16)
		}
		return out, nil
	case KInt:
		out := make([]int32, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(int32)
		}
		return out, nil
	case KUInt:
		out := make([]uint32, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(uint32)
		}
		return out, nil
	case KLInt, KLL:
		out := make([]int64, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(int64)
		}
		return out, nil
	case KULInt, KULL:
		out := make([]uint64, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(uint64)
		}
		return out, nil
	case KFloat:
		out := make([]float32, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(float32)
		}
		return out, nil
	case KDouble:
		out := make([]float64, n)
		for i := range out {
			v, err := readOne(i)
			if err != nil {
				return nil, err
			}
			out[i] = v.(float64)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("wire: unsupported array kind %v", kind)
	}
}

// formatValue renders a primitive value as its canonical text-format
// token, shared by Ascii, Xml, and Matlab.
func formatValue(kind Kind, v interface{}) string {
	switch kind {
	case KChar, KSChar:
		return fmt.Sprintf("%d", v.(int8))
	case KUChar:
		return fmt.Sprintf("%d", v.(uint8))
	case KSInt:
		return fmt.Sprintf("%d", v.(int16))
	case KUSInt:
		return fmt.Sprintf("%d", v.(uint16))
	case KInt:
		return fmt.Sprintf("%d", v.(int32))
	case KUInt:
		return fmt.Sprintf("%d", v.(uint32))
	case KLInt, KLL:
		return fmt.Sprintf("%d", v.(int64))
	case KULInt, KULL:
		return fmt.Sprintf("%d", v.(uint64))
	case KFloat:
		return fmt.Sprintf("%g", v.(float32))
	case KDouble:
		return fmt.Sprintf("%g", v.(float64))
	default:
		return ""
	}
}

// parseValue parses a canonical text-format token back into a Kind's Go
// value, the inverse of formatValue.
func parseValue(kind Kind, tok string) (interface{}, error) {
	var iv int64
	var uv uint64
	var fv float64
	var err error
	switch kind {
	case KChar, KSChar:
		iv, err = parseSignedTok(tok)
		return int8(iv), err
	case KUChar:
		uv, err = parseUnsignedTok(tok)
		return uint8(uv), err
	case KSInt:
		iv, err = parseSignedTok(tok)
		return int16(iv), err
	case KUSInt:
		uv, err = parseUnsignedTok(tok)
		return uint16(uv), err
	case KInt:
		iv, err = parseSignedTok(tok)
		return int32(iv), err
	case KUInt:
		uv, err = parseUnsignedTok(tok)
		return uint32(uv), err
	case KLInt, KLL:
		iv, err = parseSignedTok(tok)
		return iv, err
	case KULInt, KULL:
		uv, err = parseUnsignedTok(tok)
		return uv, err
	case KFloat:
		fv, err = parseFloatTok(tok)
		return float32(fv), err
	case KDouble:
		fv, err = parseFloatTok(tok)
		return fv, err
	default:
		return nil, fmt.Errorf("wire: unsupported value kind %v", kind)
	}
}
