// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"fmt"
	"strings"

	"code.hybscloud.com/tbserialize/refval"
)

// OpenArgs is the structured configuration a driver receives from Open,
// replacing the C original's open-string varargs with a single record
// built from the parsed key=value list (spec.md §9).
type OpenArgs struct {
	// URL is the full "Scheme://path" token, if supplied.
	URL string
	// Path is URL with the "Scheme://" prefix stripped.
	Path string
	Mode Mode
	Perm Perm
	// Params carries every parsed key=value pair, including ones a given
	// driver does not recognize (silently ignored per spec.md §6.1).
	Params *refval.List
}

// Param looks up a driver-specific option by name (case-insensitive).
func (a OpenArgs) Param(name string) (string, bool) {
	if a.Params == nil {
		return "", false
	}
	lower := strings.ToLower(name)
	found := ""
	ok := false
	a.Params.Each(func(ref, val string) {
		if !ok && strings.ToLower(ref) == lower {
			found, ok = val, true
		}
	})
	return found, ok
}

// driverImpl is the per-scheme operation vtable, mirroring
// IOChannelInterface. A driver may return ErrNotSupported from any method
// it does not implement; the Channel facade propagates it as a stream
// error. Implemented by each scheme's concrete type.
type driverImpl interface {
	Open(args OpenArgs) error
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	Flush() error
	Seek(offset int64, whence Whence) (int64, error)
	Close() error
	GetProperty(name string) (interface{}, error)
	SetProperty(name string, value interface{}) error
	// Type reports the underlying OS resource classification.
	Type() Type
}

// Factory constructs a new, unopened driver instance for one scheme.
type Factory func() driverImpl

var registry = map[string]Factory{}

// Register adds a scheme factory to the global driver registry. Intended
// to be called from each driver file's init().
func Register(scheme string, f Factory) {
	registry[strings.ToLower(scheme)] = f
}

func lookup(scheme string) (Factory, bool) {
	f, ok := registry[strings.ToLower(scheme)]
	return f, ok
}

// splitScheme splits "Scheme://path" into ("Scheme", "path"). A URL
// without the "://" separator (e.g. a bare "Null") is rejected with an
// error.
func splitScheme(url string) (scheme, rest string, err error) {
	idx := strings.Index(url, "://")
	if idx < 0 {
		return "", "", fmt.Errorf("ioc: bad open-string %q: missing scheme \"://\"", url)
	}
	return url[:idx], url[idx+3:], nil
}
