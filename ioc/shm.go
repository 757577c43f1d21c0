// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"strconv"
	"strings"
	"sync"
)

func init() { Register("Shm", func() driverImpl { return &shmDriver{} }) }

// shmRegistry simulates POSIX shm_open/mmap within this process: Go's
// standard library has no portable binding for System V/POSIX shared
// memory, so Shm:// is realized as a process-local named-buffer table.
// Two Shm:// opens of the same name within one process observe the same
// backing buffer, matching the single-process surface of the public
// IOChannel API; true cross-process sharing is not provided (documented
// simplification, see DESIGN.md).
var shmRegistry = struct {
	mu sync.Mutex
	m  map[string][]byte
}{m: map[string][]byte{}}

type shmDriver struct {
	name string
	buf  []byte
	pos  int
}

func (d *shmDriver) Open(args OpenArgs) error {
	name := args.Path
	if key, ok := args.Param("key"); ok && key != "" {
		name = key
	}
	if name == "" {
		return newErrorf(ErrBadShmName, "ioc: Shm:// requires a name or key=")
	}
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	size := 0
	if sizeStr, ok := args.Param("size"); ok {
		n, err := strconv.Atoi(sizeStr)
		if err != nil || n <= 0 {
			return newErrorf(ErrBadSize, "ioc: Shm:// bad size %q", sizeStr)
		}
		size = n
	}

	shmRegistry.mu.Lock()
	defer shmRegistry.mu.Unlock()
	buf, exists := shmRegistry.m[name]
	if !exists {
		if !args.Mode.IsCreate() {
			return newErrorf(ErrBadShmName, "ioc: Shm:// %q does not exist and Create was not set", name)
		}
		if size <= 0 {
			return newErrorf(ErrBadMemMapSize, "ioc: Shm:// Create requires size>0")
		}
		buf = make([]byte, size)
		shmRegistry.m[name] = buf
	}
	if args.Mode.IsTruncate() {
		for i := range buf {
			buf[i] = 0
		}
	}
	d.name = name
	d.buf = buf
	return nil
}

func (d *shmDriver) Read(p []byte) (int, error) {
	if d.pos >= len(d.buf) {
		return 0, errEOF
	}
	n := copy(p, d.buf[d.pos:])
	d.pos += n
	return n, nil
}

func (d *shmDriver) Write(p []byte) (int, error) {
	if d.pos >= len(d.buf) {
		return 0, newErrorf(ErrOverflow, "ioc: Shm:// write past end of segment")
	}
	n := copy(d.buf[d.pos:], p)
	d.pos += n
	if n < len(p) {
		return n, newErrorf(ErrOverflow, "ioc: Shm:// write past end of segment")
	}
	return n, nil
}

func (d *shmDriver) Flush() error { return nil }

func (d *shmDriver) Seek(offset int64, whence Whence) (int64, error) {
	var base int64
	switch whence {
	case SeekStart:
		base = 0
	case SeekCurrent:
		base = int64(d.pos)
	case SeekEnd:
		return -1, newErrorf(ErrNoEndSeekOnMemory, "ioc: Shm:// does not support SeekEnd")
	default:
		return -1, newErrorf(ErrBadSeekWhence, "ioc: bad whence %d", whence)
	}
	np := base + offset
	if np < 0 || np > int64(len(d.buf)) {
		return -1, newErrorf(ErrBadSeek, "ioc: Shm:// seek out of range")
	}
	d.pos = int(np)
	return np, nil
}

func (d *shmDriver) Close() error { return nil }

func (d *shmDriver) GetProperty(name string) (interface{}, error) {
	switch name {
	case "name":
		return d.name, nil
	case "size":
		return len(d.buf), nil
	}
	return nil, notSupported("GetProperty(" + name + ")")
}
func (d *shmDriver) SetProperty(name string, value interface{}) error {
	return notSupported("SetProperty(" + name + ")")
}
func (d *shmDriver) Type() Type { return TypeGeneric }
