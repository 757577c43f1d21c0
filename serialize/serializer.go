// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package serialize

import (
	"github.com/golang/glog"

	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/wire"
)

// binaryStringOverhead is the Calc-mode convention for a variable-length
// string's encoded size: a 4-byte placeholder length prefix plus the
// payload, matching Binary's WriteStringQuoted/length-prefix shape
// (wire.Width documents why Calc always measures this way).
const binaryStringOverhead = 4

// Serializer is the format-polymorphic front object described in
// spec.md §4.1. It is single-threaded per instance (spec.md §5): one
// goroutine may drive a Serializer at a time.
type Serializer struct {
	channel *ioc.Channel
	format  wire.Format

	mode    Mode
	nesting int

	typeStack []string

	err *Error

	rdBytes int64
	wrBytes int64

	headerSize       uint32
	payloadSize      uint32
	maxSerializeSize uint32

	calcActive bool
	calcBytes  uint32
}

// New returns an unbound Serializer; Init must be called before use.
func New() *Serializer { return &Serializer{} }

// Init binds the serializer to channel with the given mode. Init fails
// with ErrBadMode if mode carries no direction bit (spec.md §4.1).
func (s *Serializer) Init(channel *ioc.Channel, mode Mode) error {
	if mode.directionCount() != 1 {
		return s.setErr(newErrorf(ErrBadMode, "serialize: Init requires exactly one of Read/Write/Calc, got %s", mode))
	}
	s.channel = channel
	s.mode = mode
	s.nesting = 0
	s.typeStack = nil
	s.err = nil
	s.rdBytes, s.wrBytes = 0, 0
	return nil
}

// Clear resets per-message counters and error state without unbinding
// the channel or format.
func (s *Serializer) Clear() {
	s.nesting = 0
	s.typeStack = nil
	s.err = nil
	s.rdBytes, s.wrBytes = 0, 0
	s.headerSize, s.payloadSize, s.maxSerializeSize = 0, 0, 0
}

// SetFormat selects the named format plug-in ("Binary","Ascii","Xml",
// "Matlab") and applies its sticky option string (e.g.
// "WITH_TYPE=FALSE", "LITTLE_ENDIAN"). Unrecognised names fail with
// ErrBadFormat (spec.md §4.1).
func (s *Serializer) SetFormat(name, optionString string) error {
	f, err := wire.Lookup(name)
	if err != nil {
		return s.setErr(newError(ErrBadFormat, err))
	}
	f.Configure(optionString)
	s.format = f
	return nil
}

// SetMode transitions mode bits. A change to the Read/Write/Calc
// direction bits is only permitted at nesting depth 0 (spec.md §4.1).
func (s *Serializer) SetMode(bits Mode) error {
	if bits.directionBits() != s.mode.directionBits() && s.nesting != 0 {
		return s.setErr(newErrorf(ErrBadMode, "serialize: direction change requires nesting depth 0, got %d", s.nesting))
	}
	if bits.directionCount() != 1 {
		return s.setErr(newErrorf(ErrBadMode, "serialize: SetMode requires exactly one of Read/Write/Calc, got %s", bits))
	}
	s.mode = bits
	return nil
}

// SetInitMode toggles InitMode, meaningful only with Read (spec.md
// §4.1); it is a no-op on error state.
func (s *Serializer) SetInitMode(on bool) {
	if s.err != nil {
		return
	}
	if on {
		s.mode |= ModeInitMode
	} else {
		s.mode &^= ModeInitMode
	}
}

// SetStream rebinds the underlying channel; permitted only at nesting
// depth 0 (spec.md §4.1).
func (s *Serializer) SetStream(channel *ioc.Channel) error {
	if s.nesting != 0 {
		return s.setErr(newErrorf(ErrBadMode, "serialize: SetStream requires nesting depth 0, got %d", s.nesting))
	}
	s.channel = channel
	return nil
}

func (s *Serializer) requireReady() error {
	if s.err != nil {
		return s.err
	}
	if s.channel == nil {
		return s.setErr(newErrorf(ErrNotInitialized, "serialize: Serializer not Init'd with a channel"))
	}
	if s.format == nil {
		return s.setErr(newErrorf(ErrNotInitialized, "serialize: Serializer has no format; call SetFormat first"))
	}
	return nil
}

// BeginType opens a typed frame. In Write it emits the format-specific
// header; in Read it consumes the header and validates typeName against
// the observed type; in Calc it updates counters only and performs no
// channel I/O (spec.md §3 invariant (b)).
func (s *Serializer) BeginType(name, typeName string) error {
	if err := s.requireReady(); err != nil {
		return err
	}
	s.nesting++
	s.typeStack = append(s.typeStack, typeName)

	switch {
	case s.mode&ModeCalc != 0:
		return nil
	case s.mode&ModeWrite != 0:
		if s.mode&ModeNoHeader != 0 {
			return nil
		}
		size := s.payloadSize
		if s.calcActive {
			size = 0
		}
		if err := s.format.WriteHeader(s.channel, wire.Header{Type: typeName, Name: name, Size: size}); err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		return nil
	case s.mode&ModeRead != 0:
		if s.mode&ModeNoHeader != 0 {
			return nil
		}
		h, err := s.format.ReadHeader(s.channel)
		if err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		if h.Type != "" && typeName != "" && h.Type != typeName {
			return s.setErr(newErrorf(ErrTypeMismatch, "serialize: BeginType(%q): stream has type %q, caller expects %q", name, h.Type, typeName))
		}
		s.headerSize = uint32(len(h.Type) + len(h.Name) + len(h.Options))
		s.payloadSize = h.Size
		return nil
	default:
		return s.setErr(newErrorf(ErrBadMode, "serialize: BeginType: no direction bit set"))
	}
}

// EndType closes the current frame; nesting must decrement to match the
// matching BeginType, else ErrNestingImbalance (fatal to the stream).
func (s *Serializer) EndType() error {
	if err := s.requireReady(); err != nil {
		return err
	}
	if s.nesting == 0 {
		return s.setErr(newErrorf(ErrNestingImbalance, "serialize: EndType called at depth 0"))
	}
	n := len(s.typeStack)
	typeName := s.typeStack[n-1]
	s.typeStack = s.typeStack[:n-1]
	s.nesting--

	switch {
	case s.mode&ModeCalc != 0:
		return nil
	case s.mode&ModeWrite != 0:
		if s.mode&ModeNoHeader != 0 {
			return nil
		}
		if xf, ok := s.format.(wire.CloseTagWriter); ok {
			if err := xf.WriteCloseTag(s.channel, typeName); err != nil {
				return s.setErr(newError(ErrChannel, err))
			}
			return nil
		}
		if err := s.format.WriteEndBaseType(s.channel); err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		return nil
	case s.mode&ModeRead != 0:
		if s.mode&ModeNoHeader != 0 {
			return nil
		}
		if err := s.format.ReadEndBaseType(s.channel); err != nil {
			return s.setErr(newError(ErrChannel, err))
		}
		return nil
	default:
		return s.setErr(newErrorf(ErrBadMode, "serialize: EndType: no direction bit set"))
	}
}

// Begin is a scoped-guard helper around BeginType/body/EndType that
// additionally implements AutoCalc: when mode carries AutoCalc and
// Write, it first runs body once in Calc mode to compute the exact
// payload byte count, then reopens the frame in Write mode with that
// count in the header and runs body again for the real transfer
// (spec.md §4.1 "AutoCalc write"). Without AutoCalc it is a direct
// BeginType/body/EndType sequence.
func (s *Serializer) Begin(name, typeName string, body func() error) error {
	if s.mode&ModeAutoCalc != 0 && s.mode&ModeWrite != 0 {
		savedMode := s.mode
		s.mode = (s.mode &^ (ModeRead | ModeWrite)) | ModeCalc
		s.calcActive = true
		s.calcBytes = 0
		if err := s.BeginType(name, typeName); err != nil {
			s.mode = savedMode
			s.calcActive = false
			return err
		}
		if err := body(); err != nil {
			s.mode = savedMode
			s.calcActive = false
			return err
		}
		if err := s.EndType(); err != nil {
			s.mode = savedMode
			s.calcActive = false
			return err
		}
		computed := s.calcBytes
		s.calcActive = false
		s.mode = savedMode
		s.payloadSize = computed

		if err := s.BeginType(name, typeName); err != nil {
			return err
		}
		if err := body(); err != nil {
			return err
		}
		return s.EndType()
	}

	if err := s.BeginType(name, typeName); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return s.EndType()
}

// PeekHeader examines the upcoming header without consuming it, for
// format autodetection (spec.md §4.1).
func (s *Serializer) PeekHeader() (typeName, name string, size uint32, err error) {
	if err := s.requireReady(); err != nil {
		return "", "", 0, err
	}
	h, perr := s.format.PeekHeader(s.channel)
	if perr != nil {
		return "", "", 0, s.setErr(newError(ErrChannel, perr))
	}
	return h.Type, h.Name, h.Size, nil
}

// GetHeaderSize, GetPayloadSize, GetMaxSerializeSize, GetReadBytes,
// GetWrittenBytes are observability accessors (spec.md §4.1).
func (s *Serializer) GetHeaderSize() uint32       { return s.headerSize }
func (s *Serializer) GetPayloadSize() uint32      { return s.payloadSize }
func (s *Serializer) GetMaxSerializeSize() uint32 { return s.maxSerializeSize }
func (s *Serializer) GetReadBytes() int64         { return s.rdBytes }
func (s *Serializer) GetWrittenBytes() int64      { return s.wrBytes }

func (s *Serializer) IsErrorOccurred() bool { return s.err != nil }
func (s *Serializer) GetErrorKind() ErrorKind {
	if s.err == nil {
		return ErrNone
	}
	return s.err.Kind
}
func (s *Serializer) CleanError() { s.err = nil }

func (s *Serializer) setErr(e *Error) *Error {
	if s.err == nil {
		s.err = e
		glog.V(2).Infof("serialize: sticky error set: %v", e)
	}
	return s.err
}
