// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

func init() { Register("Null", func() driverImpl { return &nullDriver{} }) }

// nullDriver discards all writes and is always at EOF for reads.
type nullDriver struct{}

func (d *nullDriver) Open(args OpenArgs) error { return nil }
func (d *nullDriver) Read(p []byte) (int, error) { return 0, errEOF }
func (d *nullDriver) Write(p []byte) (int, error) { return len(p), nil }
func (d *nullDriver) Flush() error { return nil }
func (d *nullDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: Null:// does not support Seek")
}
func (d *nullDriver) Close() error { return nil }
func (d *nullDriver) GetProperty(name string) (interface{}, error) {
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *nullDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *nullDriver) Type() Type { return TypeGeneric }
