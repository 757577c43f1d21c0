// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import "os"

func init() {
	Register("StdIn", func() driverImpl { return &stdioDriver{f: os.Stdin, rdOnly: true} })
	Register("StdOut", func() driverImpl { return &stdioDriver{f: os.Stdout, wrOnly: true} })
	Register("StdErr", func() driverImpl { return &stdioDriver{f: os.Stderr, wrOnly: true} })
}

type stdioDriver struct {
	f      *os.File
	rdOnly bool
	wrOnly bool
}

func (d *stdioDriver) Open(args OpenArgs) error {
	if d.rdOnly && !args.Mode.IsRdOnly() {
		return newErrorf(ErrBadStdInMode, "ioc: StdIn:// must be opened RdOnly")
	}
	if d.wrOnly && !args.Mode.IsWrOnly() {
		return newErrorf(ErrBadStdOutMode, "ioc: StdOut/StdErr:// must be opened WrOnly")
	}
	return nil
}

func (d *stdioDriver) Read(p []byte) (int, error)  { return d.f.Read(p) }
func (d *stdioDriver) Write(p []byte) (int, error) { return d.f.Write(p) }
func (d *stdioDriver) Flush() error                { return nil }
func (d *stdioDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: console streams do not support Seek")
}
func (d *stdioDriver) Close() error { return nil } // the process owns stdio; never closed
func (d *stdioDriver) GetProperty(name string) (interface{}, error) {
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *stdioDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *stdioDriver) Type() Type { return TypeFd }
