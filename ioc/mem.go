// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"strconv"
)

func init() { Register("Mem", func() driverImpl { return &memDriver{} }) }

// memDriver is a fixed-size in-process byte buffer channel, mirroring
// IOCHANNELTYPE_MEMPTR. The buffer is borrowed from the caller via the
// "pointer" property unless Create is set, in which case the driver
// allocates (and, if Close is set, owns/frees) it.
type memDriver struct {
	buf    []byte
	pos    int
	owns   bool
	closed bool
}

func (d *memDriver) Open(args OpenArgs) error {
	sizeStr, _ := args.Param("size")
	size := 0
	if sizeStr != "" {
		n, err := strconv.Atoi(sizeStr)
		if err != nil || n <= 0 {
			return newErrorf(ErrBadSize, "ioc: Mem:// bad size %q", sizeStr)
		}
		size = n
	}
	if args.Mode.IsCreate() {
		if size <= 0 {
			return newErrorf(ErrBadMemMapSize, "ioc: Mem:// Create requires size>0")
		}
		d.buf = make([]byte, size)
		d.owns = true
	} else {
		ptr, ok := args.Param("pointer")
		if !ok {
			return newErrorf(ErrBadMemPointer, "ioc: Mem:// requires pointer= unless Create is set")
		}
		buf, ok := decodePointer(ptr)
		if !ok {
			return newErrorf(ErrBadMemPointer, "ioc: Mem:// bad pointer value")
		}
		d.buf = buf
	}
	if args.Mode.IsTruncate() {
		for i := range d.buf {
			d.buf[i] = 0
		}
	}
	return nil
}

// decodePointer resolves the "pointer" open-string parameter. Since Go
// has no raw pointer arithmetic across an open-string boundary, the
// convention here is that callers pass the buffer via BindBuffer before
// Open and supply its registry key as the pointer value.
func decodePointer(key string) ([]byte, bool) {
	return bufferRegistry.lookup(key)
}

func (d *memDriver) Read(p []byte) (int, error) {
	if d.pos >= len(d.buf) {
		return 0, errEOF
	}
	n := copy(p, d.buf[d.pos:])
	d.pos += n
	return n, nil
}

func (d *memDriver) Write(p []byte) (int, error) {
	if d.pos >= len(d.buf) {
		return 0, newErrorf(ErrOverflow, "ioc: Mem:// write past end of fixed buffer")
	}
	n := copy(d.buf[d.pos:], p)
	d.pos += n
	if n < len(p) {
		return n, newErrorf(ErrOverflow, "ioc: Mem:// write past end of fixed buffer")
	}
	return n, nil
}

func (d *memDriver) Flush() error { return nil }

func (d *memDriver) Seek(offset int64, whence Whence) (int64, error) {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = int64(d.pos)
	case SeekEnd:
		return -1, newErrorf(ErrNoEndSeekOnMemory, "ioc: Mem:// does not support SeekEnd")
	default:
		return -1, newErrorf(ErrBadSeekWhence, "ioc: bad whence %d", whence)
	}
	np := base + offset
	if np < 0 || np > int64(len(d.buf)) {
		return -1, newErrorf(ErrBadSeek, "ioc: Mem:// seek out of range")
	}
	d.pos = int(np)
	return np, nil
}

func (d *memDriver) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	return nil
}

func (d *memDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "size":
		return len(d.buf), nil
	case "bytes":
		return d.buf, nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}

func (d *memDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}

func (d *memDriver) Type() Type { return TypeMemPointer }

// BindBuffer registers buf under key and returns key so it can be passed
// as the "pointer" open-string param of a Mem:// open; the path part of
// the URL is not consulted for the key.
// This is the Go stand-in for passing a raw void* through the C
// open-string varargs.
func BindBuffer(key string, buf []byte) string {
	bufferRegistry.bind(key, buf)
	return key
}

var bufferRegistry = newMemRegistry()

type memRegistry struct {
	m map[string][]byte
}

func newMemRegistry() *memRegistry { return &memRegistry{m: map[string][]byte{}} }

func (r *memRegistry) bind(key string, buf []byte) { r.m[key] = buf }

func (r *memRegistry) lookup(key string) ([]byte, bool) {
	b, ok := r.m[key]
	return b, ok
}
