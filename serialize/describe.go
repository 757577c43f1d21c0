// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import (
	jsoniter "github.com/json-iterator/go"
)

var describeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// State is a JSON-friendly snapshot of a Serializer's introspection
// accessors, for diagnostics and tooling rather than anything on the
// wire (SPEC_FULL.md's Configuration/introspection addition).
type State struct {
	Mode          string `json:"mode"`
	Format        string `json:"format,omitempty"`
	Nesting       int    `json:"nesting"`
	HeaderSize    uint32 `json:"headerSize"`
	PayloadSize   uint32 `json:"payloadSize"`
	ReadBytes     int64  `json:"readBytes"`
	WrittenBytes  int64  `json:"writtenBytes"`
	ErrorOccurred bool   `json:"errorOccurred"`
	ErrorKind     string `json:"errorKind,omitempty"`
}

// State returns a snapshot of the Serializer's current introspection
// state, independent of any particular wire format.
func (s *Serializer) State() State {
	st := State{
		Mode:          s.mode.String(),
		Nesting:       s.nesting,
		HeaderSize:    s.headerSize,
		PayloadSize:   s.payloadSize,
		ReadBytes:     s.rdBytes,
		WrittenBytes:  s.wrBytes,
		ErrorOccurred: s.err != nil,
	}
	if s.format != nil {
		st.Format = s.format.Name()
	}
	if s.err != nil {
		st.ErrorKind = s.err.Kind.String()
	}
	return st
}

// DescribeHeader renders State as a JSON document via jsoniter, for
// logging or a debug HTTP handler to emit directly. It never returns an
// encoding error: State's fields are all JSON-trivial.
func (s *Serializer) DescribeHeader() string {
	b, _ := describeJSON.Marshal(s.State())
	return string(b)
}
