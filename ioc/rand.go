// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"math/rand"
	"strconv"
	"strings"
)

func init() { Register("Rand", func() driverImpl { return &randDriver{} }) }

type randKind int

const (
	randIntegers randKind = iota
	randFloats
	randChars
	randPrintables
)

// randDriver produces pseudo-random bytes on Read, seeded by the "key"
// open-string parameter. The sub-kind is taken from the path segment,
// e.g. "Rand://Printables".
type randDriver struct {
	kind randKind
	rnd  *rand.Rand
}

func (d *randDriver) Open(args OpenArgs) error {
	switch strings.ToLower(strings.TrimSuffix(args.Path, "/")) {
	case "integers", "":
		d.kind = randIntegers
	case "floats":
		d.kind = randFloats
	case "chars":
		d.kind = randChars
	case "printables":
		d.kind = randPrintables
	default:
		return newErrorf(ErrBadOpenArg, "ioc: unknown Rand:// kind %q", args.Path)
	}
	seed := int64(1)
	if keyStr, ok := args.Param("key"); ok {
		if v, err := strconv.ParseInt(keyStr, 10, 64); err == nil {
			seed = v
		}
	}
	d.rnd = rand.New(rand.NewSource(seed))
	return nil
}

func (d *randDriver) Read(p []byte) (int, error) {
	switch d.kind {
	case randPrintables:
		const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 "
		for i := range p {
			p[i] = charset[d.rnd.Intn(len(charset))]
		}
	case randChars:
		for i := range p {
			p[i] = byte(d.rnd.Intn(256))
		}
	case randFloats, randIntegers:
		d.rnd.Read(p)
	}
	return len(p), nil
}

func (d *randDriver) Write(p []byte) (int, error) {
	return 0, newErrorf(ErrBadAccess, "ioc: Rand:// is read-only")
}

func (d *randDriver) Flush() error { return nil }
func (d *randDriver) Seek(offset int64, whence Whence) (int64, error) {
	return -1, newErrorf(ErrBadSeek, "ioc: Rand:// does not support Seek")
}
func (d *randDriver) Close() error { return nil }
func (d *randDriver) GetProperty(name string) (interface{}, error) {
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *randDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *randDriver) Type() Type { return TypeGeneric }
