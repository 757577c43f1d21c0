// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"os"

	lz4 "github.com/pierrec/lz4/v3"
)

func init() { Register("Lz4File", func() driverImpl { return &lz4FileDriver{} }) }

// lz4FileDriver is a domain-stack addition (SPEC_FULL.md §3): a
// transparently LZ4-compressed file channel, read-only or write-only
// (LZ4 framing is not seekable, so RdWr/Seek are not supported).
type lz4FileDriver struct {
	f        *os.File
	zr       *lz4.Reader
	zw       *lz4.Writer
	closeOwn bool
}

func (d *lz4FileDriver) Open(args OpenArgs) error {
	if args.Path == "" {
		return newErrorf(ErrBadOpenArg, "ioc: Lz4File:// requires a path")
	}
	switch {
	case args.Mode.IsRdOnly():
		f, err := os.Open(args.Path)
		if err != nil {
			return err
		}
		d.f = f
		d.zr = lz4.NewReader(f)
	case args.Mode.IsWrOnly():
		flags := os.O_WRONLY | os.O_CREATE
		if args.Mode.IsTruncate() {
			flags |= os.O_TRUNC
		}
		if args.Mode.IsAppend() {
			flags |= os.O_APPEND
		}
		f, err := os.OpenFile(args.Path, flags, os.FileMode(args.Perm.OS()))
		if err != nil {
			return err
		}
		d.f = f
		d.zw = lz4.NewWriter(f)
	default:
		return newErrorf(ErrBadMode, "ioc: Lz4File:// supports RdOnly or WrOnly only")
	}
	d.closeOwn = !args.Mode.IsNotClose()
	return nil
}

func (d *lz4FileDriver) Read(p []byte) (int, error) {
	if d.zr == nil {
		return 0, newErrorf(ErrBadAccess, "ioc: Lz4File:// opened for write, cannot Read")
	}
	n, err := d.zr.Read(p)
	return n, err
}

func (d *lz4FileDriver) Write(p []byte) (int, error) {
	if d.zw == nil {
		return 0, newErrorf(ErrBadAccess, "ioc: Lz4File:// opened for read, cannot Write")
	}
	return d.zw.Write(p)
}

func (d *lz4FileDriver) Flush() error {
	if d.zw != nil {
		if err := d.zw.Flush(); err != nil {
			return err
		}
		return d.f.Sync()
	}
	return nil
}

func (d *lz4FileDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: Lz4File:// does not support Seek")
}

func (d *lz4FileDriver) Close() error {
	if d.zw != nil {
		if err := d.zw.Close(); err != nil {
			return err
		}
	}
	if !d.closeOwn {
		return nil
	}
	return d.f.Close()
}

func (d *lz4FileDriver) GetProperty(name string) (interface{}, error) {
	if name == "name" {
		return d.f.Name(), nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *lz4FileDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *lz4FileDriver) Type() Type { return TypeFd }
