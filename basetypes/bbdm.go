// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package basetypes

import (
	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/typereg"
)

func init() {
	typereg.Register("BBDMTag", func(ptr interface{}, name string, s *serialize.Serializer) error {
		return ptr.(*BBDMTag).Serialize(name, s)
	}, func() interface{} { return &BBDMTag{} })
}

// BBDMTag is the timestamp/instance-name header BBDM-C.h attaches to
// every data module instance (spec.md §8 scenario S1: reference Ascii
// round-trip).
type BBDMTag struct {
	Timestep     int64
	InstanceName string
}

func (t *BBDMTag) Serialize(name string, s *serialize.Serializer) error {
	return s.Begin(name, "BBDMTag", func() error {
		if err := s.LL("timestep", &t.Timestep); err != nil {
			return err
		}
		return s.String("instanceName", &t.InstanceName, 256)
	})
}
