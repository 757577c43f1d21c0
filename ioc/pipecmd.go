// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"io"
	"os/exec"
)

func init() { Register("PipeCmd", func() driverImpl { return &pipeCmdDriver{} }) }

// pipeCmdDriver runs a command and exposes a single, unidirectional pipe
// to either its stdout (read mode) or its stdin (write mode), per
// spec.md §6.2.
type pipeCmdDriver struct {
	cmd    *exec.Cmd
	rd     io.ReadCloser
	wr     io.WriteCloser
	isRead bool
}

func (d *pipeCmdDriver) Open(args OpenArgs) error {
	name, ok := args.Param("name")
	if !ok {
		name = args.Path
	}
	if name == "" {
		return newErrorf(ErrBadOpenArg, "ioc: PipeCmd:// requires name=<command>")
	}
	d.cmd = exec.Command("/bin/sh", "-c", name)
	switch {
	case args.Mode.IsRdOnly():
		d.isRead = true
		rc, err := d.cmd.StdoutPipe()
		if err != nil {
			return newError(ErrIO, err)
		}
		d.rd = rc
	case args.Mode.IsWrOnly():
		wc, err := d.cmd.StdinPipe()
		if err != nil {
			return newError(ErrIO, err)
		}
		d.wr = wc
	default:
		return newErrorf(ErrBadMode, "ioc: PipeCmd:// supports RdOnly or WrOnly only")
	}
	if err := d.cmd.Start(); err != nil {
		return newError(ErrIO, err)
	}
	return nil
}

func (d *pipeCmdDriver) Read(p []byte) (int, error) {
	if d.rd == nil {
		return 0, newErrorf(ErrBadAccess, "ioc: PipeCmd:// opened for write, cannot Read")
	}
	return d.rd.Read(p)
}

func (d *pipeCmdDriver) Write(p []byte) (int, error) {
	if d.wr == nil {
		return 0, newErrorf(ErrBadAccess, "ioc: PipeCmd:// opened for read, cannot Write")
	}
	return d.wr.Write(p)
}

func (d *pipeCmdDriver) Flush() error { return nil }
func (d *pipeCmdDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: PipeCmd:// does not support Seek")
}

func (d *pipeCmdDriver) Close() error {
	if d.wr != nil {
		d.wr.Close()
	}
	if d.rd != nil {
		d.rd.Close()
	}
	return d.cmd.Wait()
}

func (d *pipeCmdDriver) GetProperty(name string) (interface{}, error) {
	if name == "pid" && d.cmd.Process != nil {
		return d.cmd.Process.Pid, nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *pipeCmdDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *pipeCmdDriver) Type() Type { return TypeGeneric }
