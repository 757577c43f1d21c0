// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"io"
	"os"
	"strconv"
)

func init() { Register("MemMapFd", func() driverImpl { return &memMapFdDriver{} }) }

// memMapFdDriver presents an offset-addressed view over an existing file
// descriptor. It is realized as buffered Seek+Read/Write over *os.File
// rather than a true mmap(2) syscall: the standard library has no
// portable mmap, and the Read/Write/Seek contract this module exposes is
// indistinguishable from a real mapping's for any caller going through
// IOChannel (documented simplification, see DESIGN.md).
type memMapFdDriver struct {
	f    *os.File
	size int64
}

func (d *memMapFdDriver) Open(args OpenArgs) error {
	fdStr, ok := args.Param("fd")
	if !ok {
		fdStr = args.Path
	}
	n, err := strconv.Atoi(fdStr)
	if err != nil {
		return newErrorf(ErrBadFd, "ioc: MemMapFd:// bad descriptor %q", fdStr)
	}
	f := os.NewFile(uintptr(n), "memmapfd:"+fdStr)
	if f == nil {
		return newErrorf(ErrBadFd, "ioc: MemMapFd:// descriptor %d is not valid", n)
	}
	size := int64(0)
	if sizeStr, ok := args.Param("size"); ok {
		sz, err := strconv.ParseInt(sizeStr, 10, 64)
		if err != nil || sz <= 0 {
			return newErrorf(ErrBadMemMapSize, "ioc: MemMapFd:// bad size %q", sizeStr)
		}
		size = sz
	} else if fi, err := f.Stat(); err == nil {
		size = fi.Size()
	}
	d.f = f
	d.size = size
	return nil
}

func (d *memMapFdDriver) Read(p []byte) (int, error) {
	n, err := d.f.Read(p)
	if err == io.EOF {
		return n, errEOF
	}
	return n, err
}

func (d *memMapFdDriver) Write(p []byte) (int, error) { return d.f.Write(p) }
func (d *memMapFdDriver) Flush() error                { return d.f.Sync() }

func (d *memMapFdDriver) Seek(offset int64, whence Whence) (int64, error) {
	var w int
	switch whence {
	case SeekStart:
		w = os.SEEK_SET
	case SeekCurrent:
		w = os.SEEK_CUR
	case SeekEnd:
		w = os.SEEK_END
	default:
		return -1, newErrorf(ErrBadSeekWhence, "ioc: bad whence %d", whence)
	}
	return d.f.Seek(offset, w)
}

func (d *memMapFdDriver) Close() error { return d.f.Close() }
func (d *memMapFdDriver) GetProperty(name string) (interface{}, error) {
	if name == "size" {
		return d.size, nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *memMapFdDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *memMapFdDriver) Type() Type { return TypeFd }
