// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sutil implements the end-to-end autodetect/resolve/process
// loop, grounded on original_source/src/SerializeUtility.c's public
// function shape (detectDataType, processFile, the onDeserialize
// callback hook). It is the glue that drives typereg-resolved types
// through a wire-detected format and an ioc.Channel transport: open the
// input, peek its header to learn the type name and format, look the
// type up in typereg, then loop deserialize/callback/reserialize until
// EOF or MaxElements, optionally pausing for a keypress between
// elements (spec.md §7 "Interactive mode").
package sutil

import (
	"fmt"
	"math"

	"github.com/golang/glog"

	"code.hybscloud.com/tbserialize/ioc"
	"code.hybscloud.com/tbserialize/serialize"
	"code.hybscloud.com/tbserialize/typereg"
)

// OnElement is called once per successfully deserialized element, after
// deserialization and before it is written back out. Returning an error
// aborts the run.
type OnElement func(index int, typeName, name string, value interface{}) error

// Utility drives one detect/process run, mirroring SerializeUtility's
// fields (inputFile/outputFile/dataName/maxElements/interactive) with a
// Go-idiomatic callback in place of the C struct's function-pointer
// quartet.
type Utility struct {
	InputURL  string
	OutputURL string
	DataName  string

	// OutputFormat selects the Write-side format ("Binary","Ascii",
	// "Xml","Matlab"); empty defaults to "Ascii"
	// (SERIALIZEUTILITY_DATAFORMAT_DEFAULT).
	OutputFormat string
	// OutputFormatOptions is the sticky option string passed to the
	// output format plug-in's Configure (e.g. "WITH_TYPE=FALSE").
	OutputFormatOptions string

	// MaxElements bounds the loop; zero means "unbounded" (mirrors the
	// original's BASEUI32_MAX sentinel).
	MaxElements uint32
	Interactive bool

	OnElement OnElement

	// TypeName overrides autodetection; leave empty to resolve via
	// PeekHeader on the input stream.
	TypeName string

	ElementsDone int
}

// DetectedType is the result of PeekHeader-driven autodetection
// (SerializeUtility_detectDataType).
type DetectedType struct {
	TypeName string
	Name     string
	Size     uint32
	Format   string
}

// Detect opens InputURL read-only, peeks its header without consuming
// it, and reports the discovered type/name/format. It tries each
// registered wire format in turn since the input's own format is not
// yet known (spec.md §7: format autodetection precedes type
// resolution). It closes the probe channel before returning; Run
// reopens the input fresh afterward.
func (u *Utility) Detect() (DetectedType, error) {
	var zero DetectedType
	if u.InputURL == "" {
		return zero, fmt.Errorf("sutil: Detect: InputURL is empty")
	}

	for _, formatName := range []string{"Ascii", "Xml", "Binary", "Matlab"} {
		c := ioc.New()
		c.Init(512)
		if err := c.Open(u.InputURL, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
			return zero, fmt.Errorf("sutil: Detect: open %s: %w", u.InputURL, err)
		}

		s := serialize.New()
		if err := s.Init(c, serialize.ModeRead); err != nil {
			c.Close()
			return zero, err
		}
		if err := s.SetFormat(formatName, ""); err != nil {
			c.Close()
			return zero, err
		}

		typeName, name, size, err := s.PeekHeader()
		c.Close()
		if err != nil || typeName == "" {
			continue
		}
		glog.V(2).Infof("sutil: Detect: format=%s type=%q name=%q size=%d", formatName, typeName, name, size)
		return DetectedType{TypeName: typeName, Name: name, Size: size, Format: formatName}, nil
	}
	return zero, fmt.Errorf("sutil: Detect: unable to detect a type in %s under any known format", u.InputURL)
}

// Run executes the full detect/resolve/loop pipeline: it autodetects
// (unless TypeName is already set), resolves the type via typereg,
// opens input and output channels, and alternates deserialize /
// OnElement / reserialize until EOF or MaxElements is reached
// (SerializeUtility_processFile). Interactive, when set, blocks after
// each element on a single byte from StdIn://, quitting early on 'q'.
func (u *Utility) Run() error {
	if u.DataName == "" {
		u.DataName = "data"
	}
	if u.OutputFormat == "" {
		u.OutputFormat = "Ascii"
	}

	inputFormat := "Ascii"
	typeName := u.TypeName
	if typeName == "" {
		det, err := u.Detect()
		if err != nil {
			return err
		}
		typeName = det.TypeName
		inputFormat = det.Format
		if det.Name != "" {
			u.DataName = det.Name
		}
	}

	serializeFn, err := typereg.Lookup(typeName)
	if err != nil {
		return fmt.Errorf("sutil: Run: %w", err)
	}

	inChan := ioc.New()
	inChan.Init(512)
	if err := inChan.Open(u.InputURL, ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
		return fmt.Errorf("sutil: Run: open input %s: %w", u.InputURL, err)
	}
	defer inChan.Close()

	deserializer := serialize.New()
	if err := deserializer.Init(inChan, serialize.ModeRead|serialize.ModeStreamNormal); err != nil {
		return err
	}
	if err := deserializer.SetFormat(inputFormat, ""); err != nil {
		return err
	}

	outURL := u.OutputURL
	if outURL == "" {
		outURL = "StdOut://"
	}
	outChan := ioc.New()
	outChan.Init(512)
	if err := outChan.Open(outURL, ioc.ModeWrOnly|ioc.ModeCreate|ioc.ModeTruncate, ioc.DefaultPerm, nil); err != nil {
		return fmt.Errorf("sutil: Run: open output %s: %w", outURL, err)
	}
	defer outChan.Close()

	serializer := serialize.New()
	if err := serializer.Init(outChan, serialize.ModeWrite|serialize.ModeStreamNormal); err != nil {
		return err
	}
	if err := serializer.SetFormat(u.OutputFormat, u.OutputFormatOptions); err != nil {
		return err
	}

	var keyChan *ioc.Channel
	if u.Interactive {
		keyChan = ioc.New()
		if err := keyChan.Open("StdIn://", ioc.ModeRdOnly, ioc.DefaultPerm, nil); err != nil {
			return fmt.Errorf("sutil: Run: open StdIn://: %w", err)
		}
		defer keyChan.Close()
	}

	max := u.MaxElements
	if max == 0 {
		max = math.MaxUint32
	}

	for uint32(u.ElementsDone) < max {
		if deserializer.IsErrorOccurred() {
			break
		}

		value, err := typereg.New(typeName)
		if err != nil {
			return fmt.Errorf("sutil: Run: %w", err)
		}

		if err := serializeFn(value, u.DataName, deserializer); err != nil {
			if inChan.EOF() {
				glog.V(2).Infof("sutil: Run: EOF after %d elements", u.ElementsDone)
				return nil
			}
			return fmt.Errorf("sutil: Run: deserialize element %d: %w", u.ElementsDone, err)
		}
		if inChan.EOF() {
			glog.V(2).Infof("sutil: Run: EOF after %d elements", u.ElementsDone)
			return nil
		}

		if u.OnElement != nil {
			if err := u.OnElement(u.ElementsDone, typeName, u.DataName, value); err != nil {
				return err
			}
		}

		if err := serializeFn(value, u.DataName, serializer); err != nil {
			return fmt.Errorf("sutil: Run: reserialize element %d: %w", u.ElementsDone, err)
		}

		u.ElementsDone++

		if u.Interactive {
			buf := make([]byte, 1)
			n, _ := keyChan.Read(buf)
			if n > 0 && (buf[0] == 'q' || buf[0] == 'Q') {
				break
			}
		}
	}
	return nil
}
