// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"fmt"
	"os"
)

func init() { Register("File", func() driverImpl { return &fileDriver{} }) }

type fileDriver struct {
	f        *os.File
	mode     Mode
	closeOwn bool
}

func (d *fileDriver) Open(args OpenArgs) error {
	if args.Path == "" {
		return fmt.Errorf("ioc: File:// requires a path")
	}
	flags := 0
	switch {
	case args.Mode.IsRdOnly():
		flags = os.O_RDONLY
	case args.Mode.IsWrOnly():
		flags = os.O_WRONLY
	case args.Mode.IsRdWr():
		flags = os.O_RDWR
	}
	if args.Mode.IsCreate() {
		flags |= os.O_CREATE
	}
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
	d.mode = args.Mode
	d.closeOwn = !args.Mode.IsNotClose()
	return nil
}

func (d *fileDriver) Read(p []byte) (int, error)  { return d.f.Read(p) }
func (d *fileDriver) Write(p []byte) (int, error) { return d.f.Write(p) }
func (d *fileDriver) Flush() error                { return d.f.Sync() }

func (d *fileDriver) Seek(offset int64, whence Whence) (int64, error) {
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

func (d *fileDriver) Close() error {
	if d.f == nil || !d.closeOwn {
		return nil
	}
	return d.f.Close()
}

func (d *fileDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "fd":
		return d.f.Fd(), nil
	case "name":
		return d.f.Name(), nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}

func (d *fileDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}

func (d *fileDriver) Type() Type { return TypeFd }
