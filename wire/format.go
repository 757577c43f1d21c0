// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the format plug-ins (Binary, Ascii, Xml,
// Matlab) that back the serialize package's front object. Each plug-in
// satisfies the same vtable (format.go's Format interface) so the
// serializer performs no per-primitive branching of its own.
package wire

import (
	"errors"
	"fmt"

	"code.hybscloud.com/tbserialize/ioc"
)

// Kind enumerates the primitive wire types the format vtable dispatches
// on, mirroring the Serializer's primitive encoder set from spec.md §4.1.
type Kind uint8

const (
	KChar Kind = iota
	KSChar
	KUChar
	KSInt
	KUSInt
	KInt
	KUInt
	KLInt
	KULInt
	KLL
	KULL
	KFloat
	KDouble
)

func (k Kind) String() string {
	switch k {
	case KChar:
		return "Char"
	case KSChar:
		return "SChar"
	case KUChar:
		return "UChar"
	case KSInt:
		return "SInt"
	case KUSInt:
		return "USInt"
	case KInt:
		return "Int"
	case KUInt:
		return "UInt"
	case KLInt:
		return "LInt"
	case KULInt:
		return "ULInt"
	case KLL:
		return "LL"
	case KULL:
		return "ULL"
	case KFloat:
		return "Float"
	case KDouble:
		return "Double"
	default:
		return "Unknown"
	}
}

// Header is the logical (not bit-exact) header frame shared by every
// format: spec.md §3 "Header frame".
type Header struct {
	Type    string
	Name    string
	Size    uint32
	Options string
}

// ErrTypeMismatch is an exported sentinel for a type-token mismatch. No
// format in this package returns it: type validation happens in
// serialize.Serializer.BeginType, which reports its own TypeMismatch
// error kind.
var ErrTypeMismatch = errors.New("wire: type mismatch")

// ErrNotWritable is an exported sentinel for an unsupported direction.
// No format in this package returns it; all four implement both Read and
// Write (Matlab's Read is best-effort).
var ErrNotWritable = errors.New("wire: format does not support this direction")

// Format is the plug-in vtable described in spec.md §4.2. Every method
// transfers bytes through an *ioc.Channel. Formats keep only small
// per-instance state across calls: Binary's sticky byte order and
// Matlab's stack of open struct names.
type Format interface {
	Name() string

	// Configure applies the sticky, format-wide option string passed to
	// serialize.Serializer.SetFormat (e.g. "WITH_TYPE=FALSE" for Ascii,
	// "LITTLE_ENDIAN" for Binary). It is called once per Format instance
	// before any header is written or read.
	Configure(opts string)

	// WriteHeader/WriteEndBaseType form the begin/end markers of a type
	// frame ("writeBaseType"/"writeEndBaseType" in spec.md §4.2).
	WriteHeader(c *ioc.Channel, h Header) error
	WriteEndBaseType(c *ioc.Channel) error

	// ReadHeader consumes the type frame's opening marker and returns the
	// observed header; ReadEndBaseType consumes the closing marker.
	ReadHeader(c *ioc.Channel) (Header, error)
	ReadEndBaseType(c *ioc.Channel) error

	// PeekHeader examines the upcoming header without consuming it, for
	// format autodetection (spec.md §4.1 peekHeader).
	PeekHeader(c *ioc.Channel) (Header, error)

	WritePrimitive(c *ioc.Channel, name string, kind Kind, v interface{}) error
	ReadPrimitive(c *ioc.Channel, name string, kind Kind) (interface{}, error)

	WriteArray(c *ioc.Channel, name string, kind Kind, v interface{}) error
	ReadArray(c *ioc.Channel, name string, kind Kind, length int) (interface{}, error)

	WriteStringQuoted(c *ioc.Channel, name string, s string, maxLen int) error
	ReadStringQuoted(c *ioc.Channel, name string, maxLen int) (string, error)
}

// registry maps a format name ("Binary","Ascii","Xml","Matlab") to a
// constructor, mirroring ioc's scheme registry (ioc/driver.go) and
// the teacher's registration-by-name conventions.
var registry = map[string]func() Format{}

func register(name string, f func() Format) { registry[name] = f }

// Lookup returns a fresh Format instance for name, or an error if the
// format name is not recognised (spec.md §4.1 setFormat: "name must be
// recognised, else BadFormat").
func Lookup(name string) (Format, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("wire: unrecognised format %q", name)
	}
	return ctor(), nil
}

// CloseTagWriter is implemented by formats (currently only Xml) whose
// end-of-frame marker needs the opening type name again to render
// correctly. Serializer.EndType type-asserts for this before falling
// back to the generic WriteEndBaseType.
type CloseTagWriter interface {
	WriteCloseTag(c *ioc.Channel, typeName string) error
}

// Names returns the recognised format names, for diagnostics/CLI help.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	return names
}
