// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"os"
	"strconv"
)

func init() { Register("Fd", func() driverImpl { return &fdDriver{} }) }

// fdDriver wraps an existing OS file descriptor number, passed as the
// "fd" open-string parameter (or as the bare path, e.g. "Fd://3").
type fdDriver struct {
	f        *os.File
	closeOwn bool
}

func (d *fdDriver) Open(args OpenArgs) error {
	fdStr, ok := args.Param("fd")
	if !ok {
		fdStr = args.Path
	}
	n, err := strconv.Atoi(fdStr)
	if err != nil {
		return newErrorf(ErrBadFd, "ioc: Fd:// bad descriptor %q", fdStr)
	}
	d.f = os.NewFile(uintptr(n), "fd:"+fdStr)
	if d.f == nil {
		return newErrorf(ErrBadFd, "ioc: Fd:// descriptor %d is not valid", n)
	}
	d.closeOwn = !args.Mode.IsNotClose()
	return nil
}

func (d *fdDriver) Read(p []byte) (int, error)  { return d.f.Read(p) }
func (d *fdDriver) Write(p []byte) (int, error) { return d.f.Write(p) }
func (d *fdDriver) Flush() error                { return d.f.Sync() }
func (d *fdDriver) Seek(offset int64, whence Whence) (int64, error) {
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
func (d *fdDriver) Close() error {
	if !d.closeOwn {
		return nil
	}
	return d.f.Close()
}
func (d *fdDriver) GetProperty(name string) (interface{}, error) {
	if name == "fd" {
		return d.f.Fd(), nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *fdDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *fdDriver) Type() Type { return TypeFd }
