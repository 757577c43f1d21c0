// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import "os"

func init() { Register("AnsiFILE", func() driverImpl { return &ansiFileDriver{} }) }

var fileRegistry = map[string]*os.File{}

// BindFile registers an already-open *os.File under key so it can be
// wrapped via the "pointer" open-string param (or, without one, as the
// URL path, AnsiFILE://key), the Go stand-in for passing a FILE* through
// the open-string varargs.
func BindFile(key string, f *os.File) string {
	fileRegistry[key] = f
	return key
}

type ansiFileDriver struct {
	f        *os.File
	closeOwn bool
}

func (d *ansiFileDriver) Open(args OpenArgs) error {
	key, ok := args.Param("pointer")
	if !ok {
		key = args.Path
	}
	f, ok := fileRegistry[key]
	if !ok {
		return newErrorf(ErrBadMemPointer, "ioc: AnsiFILE:// unknown pointer %q", key)
	}
	d.f = f
	d.closeOwn = !args.Mode.IsNotClose()
	return nil
}

func (d *ansiFileDriver) Read(p []byte) (int, error)  { return d.f.Read(p) }
func (d *ansiFileDriver) Write(p []byte) (int, error) { return d.f.Write(p) }
func (d *ansiFileDriver) Flush() error                { return d.f.Sync() }
func (d *ansiFileDriver) Seek(offset int64, whence Whence) (int64, error) {
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
func (d *ansiFileDriver) Close() error {
	if !d.closeOwn {
		return nil
	}
	return d.f.Close()
}
func (d *ansiFileDriver) GetProperty(name string) (interface{}, error) {
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *ansiFileDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *ansiFileDriver) Type() Type { return TypeAnsiFILE }
