// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package basetypes

import (
	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/typereg"
)

func init() {
	typereg.Register("MemI8", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return ptr.(*MemI8).Serialize(name, s)
	}, func() interface{} { return &MemI8{} })
}

// MemI8 is a growable byte buffer, grounded on BBDM-C.h's MemI8
// (spec.md §8 scenario S3: InitMode read-time allocation). On Read with
// InitMode set, Data is reallocated to the stream's own length rather
// than being checked against any pre-existing length.
type MemI8 struct {
	Data []byte
}

func (m *MemI8) Serialize(name string, s *serialize.Serializer) error {
	return s.Begin(name, "MemI8", func() error {
		return s.UInt8Array("data", &m.Data)
	})
}
