// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"code.hybscloud.com/tbserialize/internal/bo"
	"code.hybscloud.com/tbserialize/ioc"
)

func init() { register("Binary", func() Format { return newBinaryFormat() }) }

var binaryMagic = [4]byte{'T', 'B', 'S', '1'}

// Length-prefix escape thresholds, generalized from the teacher's
// framer stream-mode length encoding (internal.go readStream/writeStream):
// a single-byte length up to lenMax8, a 0xFE-tagged 16-bit extension, and
// a 0xFF-tagged 64-bit extension for strings longer than 64KiB.
const (
	lenMax8  = 1<<8 - 3
	lenExt16 = lenMax8 + 1
	lenExt64 = lenMax8 + 2
)

// binaryFormat implements the Binary wire format (spec.md §4.2): a
// fixed-shape header (magic sentinel, payload length, NUL-free
// length-prefixed type/name/options) followed by primitives encoded
// with a selectable byte order. Default byte order is big-endian; a
// "BIG_ENDIAN"/"LITTLE_ENDIAN"/"NATIVE_ENDIAN" token in a header's
// Options string switches it, sticky for the remainder of this Format
// instance's life (one Format instance is bound to one Serializer for
// its lifetime). NATIVE_ENDIAN resolves through internal/bo, the same
// architecture-detected byte order a raw Mem://-backed struct overlay
// would observe without going through this format at all.
type binaryFormat struct {
	byteOrder binary.ByteOrder
}

func newBinaryFormat() *binaryFormat { return &binaryFormat{byteOrder: binary.BigEndian} }

func (f *binaryFormat) Name() string { return "Binary" }

func (f *binaryFormat) Configure(opts string) { f.applyOptions(opts) }

func (f *binaryFormat) applyOptions(opts string) {
	switch {
	case strings.Contains(opts, "LITTLE_ENDIAN"):
		f.byteOrder = binary.LittleEndian
	case strings.Contains(opts, "BIG_ENDIAN"):
		f.byteOrder = binary.BigEndian
	case strings.Contains(opts, "NATIVE_ENDIAN"):
		f.byteOrder = bo.Native()
	}
}

func writeFull(c *ioc.Channel, p []byte) error {
	n, err := c.WriteBlock(p)
	if err != nil {
		return err
	}
	if n != len(p) {
		return io.ErrShortWrite
	}
	return nil
}

func readFull(c *ioc.Channel, p []byte) error {
	n, err := c.ReadBlock(p)
	if n == len(p) {
		return nil
	}
	if err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}

func writeLenPrefixed(c *ioc.Channel, bo binary.ByteOrder, data []byte) error {
	n := len(data)
	switch {
	case n <= lenMax8:
		if err := writeFull(c, []byte{byte(n)}); err != nil {
			return err
		}
	case n <= 1<<16-1:
		hdr := make([]byte, 3)
		hdr[0] = lenExt16
		bo.PutUint16(hdr[1:], uint16(n))
		if err := writeFull(c, hdr); err != nil {
			return err
		}
	default:
		hdr := make([]byte, 9)
		hdr[0] = lenExt64
		bo.PutUint64(hdr[1:], uint64(n))
		if err := writeFull(c, hdr); err != nil {
			return err
		}
	}
	if n == 0 {
		return nil
	}
	return writeFull(c, data)
}

func readLenPrefixed(c *ioc.Channel, bo binary.ByteOrder) ([]byte, error) {
	var tag [1]byte
	if err := readFull(c, tag[:]); err != nil {
		return nil, err
	}
	var n int
	switch tag[0] {
	case lenExt16:
		var buf [2]byte
		if err := readFull(c, buf[:]); err != nil {
			return nil, err
		}
		n = int(bo.Uint16(buf[:]))
	case lenExt64:
		var buf [8]byte
		if err := readFull(c, buf[:]); err != nil {
			return nil, err
		}
		n = int(bo.Uint64(buf[:]))
	default:
		n = int(tag[0])
	}
	if n == 0 {
		return nil, nil
	}
	data := make([]byte, n)
	if err := readFull(c, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (f *binaryFormat) WriteHeader(c *ioc.Channel, h Header) error {
	f.applyOptions(h.Options)
	if err := writeFull(c, binaryMagic[:]); err != nil {
		return err
	}
	var sizeBuf [4]byte
	f.byteOrder.PutUint32(sizeBuf[:], h.Size)
	if err := writeFull(c, sizeBuf[:]); err != nil {
		return err
	}
	if err := writeLenPrefixed(c, f.byteOrder, []byte(h.Type)); err != nil {
		return err
	}
	if err := writeLenPrefixed(c, f.byteOrder, []byte(h.Name)); err != nil {
		return err
	}
	return writeLenPrefixed(c, f.byteOrder, []byte(h.Options))
}

func (f *binaryFormat) WriteEndBaseType(c *ioc.Channel) error { return nil }

func (f *binaryFormat) ReadHeader(c *ioc.Channel) (Header, error) {
	var magic [4]byte
	if err := readFull(c, magic[:]); err != nil {
		return Header{}, err
	}
	if magic != binaryMagic {
		return Header{}, fmt.Errorf("wire: Binary: bad magic sentinel %x", magic)
	}
	var sizeBuf [4]byte
	if err := readFull(c, sizeBuf[:]); err != nil {
		return Header{}, err
	}
	size := f.byteOrder.Uint32(sizeBuf[:])
	typeBytes, err := readLenPrefixed(c, f.byteOrder)
	if err != nil {
		return Header{}, err
	}
	nameBytes, err := readLenPrefixed(c, f.byteOrder)
	if err != nil {
		return Header{}, err
	}
	optBytes, err := readLenPrefixed(c, f.byteOrder)
	if err != nil {
		return Header{}, err
	}
	h := Header{Type: string(typeBytes), Name: string(nameBytes), Size: size, Options: string(optBytes)}
	f.applyOptions(h.Options)
	return h, nil
}

func (f *binaryFormat) ReadEndBaseType(c *ioc.Channel) error { return nil }

// PeekHeader reads the header then ungets every byte it consumed, so the
// channel's unget capacity must be sized to hold at least the widest
// expected header (sutil.Utility's autodetection opens its probe
// channels with Init(512) for this reason).
func (f *binaryFormat) PeekHeader(c *ioc.Channel) (Header, error) {
	saved := *f
	defer func() { *f = saved }()

	var consumed []byte
	probe := func(p []byte) error {
		if err := readFull(c, p); err != nil {
			return err
		}
		consumed = append(consumed, p...)
		return nil
	}
	var magic [4]byte
	if err := probe(magic[:]); err != nil {
		return Header{}, err
	}
	if magic != binaryMagic {
		_ = c.Unget(consumed)
		return Header{}, fmt.Errorf("wire: Binary: bad magic sentinel %x", magic)
	}
	var sizeBuf [4]byte
	if err := probe(sizeBuf[:]); err != nil {
		_ = c.Unget(consumed)
		return Header{}, err
	}
	size := f.byteOrder.Uint32(sizeBuf[:])

	readStr := func() ([]byte, error) {
		var tag [1]byte
		if err := probe(tag[:]); err != nil {
			return nil, err
		}
		var n int
		switch tag[0] {
		case lenExt16:
			var buf [2]byte
			if err := probe(buf[:]); err != nil {
				return nil, err
			}
			n = int(f.byteOrder.Uint16(buf[:]))
		case lenExt64:
			var buf [8]byte
			if err := probe(buf[:]); err != nil {
				return nil, err
			}
			n = int(f.byteOrder.Uint64(buf[:]))
		default:
			n = int(tag[0])
		}
		if n == 0 {
			return nil, nil
		}
		data := make([]byte, n)
		if err := probe(data); err != nil {
			return nil, err
		}
		return data, nil
	}
	typeBytes, err := readStr()
	if err != nil {
		_ = c.Unget(consumed)
		return Header{}, err
	}
	nameBytes, err := readStr()
	if err != nil {
		_ = c.Unget(consumed)
		return Header{}, err
	}
	optBytes, err := readStr()
	if err != nil {
		_ = c.Unget(consumed)
		return Header{}, err
	}
	if err := c.Unget(consumed); err != nil {
		return Header{}, err
	}
	return Header{Type: string(typeBytes), Name: string(nameBytes), Size: size, Options: string(optBytes)}, nil
}

func (f *binaryFormat) WritePrimitive(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	buf, err := f.encode(kind, v)
	if err != nil {
		return err
	}
	return writeFull(c, buf)
}

func (f *binaryFormat) ReadPrimitive(c *ioc.Channel, name string, kind Kind) (interface{}, error) {
	buf := make([]byte, primitiveWidth(kind))
	if err := readFull(c, buf); err != nil {
		return nil, err
	}
	return f.decode(kind, buf)
}

// Width returns the fixed encoded byte width of a scalar primitive
// kind, per the Binary format's layout. serialize.Serializer's AutoCalc
// Calc pass uses this (spec.md §4.1) as the canonical byte-size
// convention even when the active write format is Ascii/Xml/Matlab,
// since only Binary's header literally carries a numeric payload-size
// field to backpatch; the other formats are self-delimiting by braces
// or closing tags and have no such field.
func Width(kind Kind) int { return primitiveWidth(kind) }

func primitiveWidth(kind Kind) int {
	switch kind {
	case KChar, KSChar, KUChar:
		return 1
	case KSInt, KUSInt:
		return 2
	case KInt, KUInt, KFloat:
		return 4
	case KLInt, KULInt, KLL, KULL, KDouble:
		return 8
	default:
		return 0
	}
}

func (f *binaryFormat) encode(kind Kind, v interface{}) ([]byte, error) {
	buf := make([]byte, primitiveWidth(kind))
	switch kind {
	case KChar, KSChar:
		buf[0] = byte(v.(int8))
	case KUChar:
		buf[0] = v.(uint8)
	case KSInt:
		f.byteOrder.PutUint16(buf, uint16(v.(int16)))
	case KUSInt:
		f.byteOrder.PutUint16(buf, v.(uint16))
	case KInt:
		f.byteOrder.PutUint32(buf, uint32(v.(int32)))
	case KUInt:
		f.byteOrder.PutUint32(buf, v.(uint32))
	case KLInt, KLL:
		f.byteOrder.PutUint64(buf, uint64(v.(int64)))
	case KULInt, KULL:
		f.byteOrder.PutUint64(buf, v.(uint64))
	case KFloat:
		f.byteOrder.PutUint32(buf, math.Float32bits(v.(float32)))
	case KDouble:
		f.byteOrder.PutUint64(buf, math.Float64bits(v.(float64)))
	default:
		return nil, fmt.Errorf("wire: Binary: unsupported kind %v", kind)
	}
	return buf, nil
}

func (f *binaryFormat) decode(kind Kind, buf []byte) (interface{}, error) {
	switch kind {
	case KChar, KSChar:
		return int8(buf[0]), nil
	case KUChar:
		return buf[0], nil
	case KSInt:
		return int16(f.byteOrder.Uint16(buf)), nil
	case KUSInt:
		return f.byteOrder.Uint16(buf), nil
	case KInt:
		return int32(f.byteOrder.Uint32(buf)), nil
	case KUInt:
		return f.byteOrder.Uint32(buf), nil
	case KLInt, KLL:
		return int64(f.byteOrder.Uint64(buf)), nil
	case KULInt, KULL:
		return f.byteOrder.Uint64(buf), nil
	case KFloat:
		return math.Float32frombits(f.byteOrder.Uint32(buf)), nil
	case KDouble:
		return math.Float64frombits(f.byteOrder.Uint64(buf)), nil
	default:
		return nil, fmt.Errorf("wire: Binary: unsupported kind %v", kind)
	}
}

func (f *binaryFormat) WriteArray(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	n, elemAt := arrayAccessor(kind, v)
	var lenBuf [4]byte
	f.byteOrder.PutUint32(lenBuf[:], uint32(n))
	if err := writeFull(c, lenBuf[:]); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := f.WritePrimitive(c, name, kind, elemAt(i)); err != nil {
			return err
		}
	}
	return nil
}

func (f *binaryFormat) ReadArray(c *ioc.Channel, name string, kind Kind, length int) (interface{}, error) {
	var lenBuf [4]byte
	if err := readFull(c, lenBuf[:]); err != nil {
		return nil, err
	}
	n := int(f.byteOrder.Uint32(lenBuf[:]))
	if length > 0 && length != n {
		return nil, fmt.Errorf("wire: Binary: array length mismatch: stream has %d, destination has %d", n, length)
	}
	return decodeArray(kind, n, func(i int) (interface{}, error) {
		return f.ReadPrimitive(c, name, kind)
	})
}

func (f *binaryFormat) WriteStringQuoted(c *ioc.Channel, name string, s string, maxLen int) error {
	return writeLenPrefixed(c, f.byteOrder, []byte(s))
}

func (f *binaryFormat) ReadStringQuoted(c *ioc.Channel, name string, maxLen int) (string, error) {
	b, err := readLenPrefixed(c, f.byteOrder)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
