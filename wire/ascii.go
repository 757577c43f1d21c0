// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strings"

	"code.hybscloud.com/tbserialize/ioc"
)

func init() { register("Ascii", func() Format { return &asciiFormat{withType: true} }) }

// asciiFormat implements the line-oriented Ascii wire format (spec.md
// §4.2): each begin/end pair prints "typeName name = { ... }"; a
// primitive prints "name = value". Whitespace between tokens is
// insignificant, so reading tokenizes rather than matching byte-for-byte
// fixed columns.
type asciiFormat struct {
	withType bool // false when configured with "WITH_TYPE=FALSE"
}

func (f *asciiFormat) Name() string { return "Ascii" }

func (f *asciiFormat) Configure(opts string) {
	if strings.Contains(opts, "WITH_TYPE=FALSE") {
		f.withType = false
	}
}

func (f *asciiFormat) WriteHeader(c *ioc.Channel, h Header) error {
	var line string
	if f.withType {
		line = fmt.Sprintf("%s %s = {\n", h.Type, h.Name)
	} else {
		line = fmt.Sprintf("%s = {\n", h.Name)
	}
	return writeFull(c, []byte(line))
}

func (f *asciiFormat) WriteEndBaseType(c *ioc.Channel) error {
	return writeFull(c, []byte("}\n"))
}

func (f *asciiFormat) ReadHeader(c *ioc.Channel) (Header, error) {
	var typeName string
	var nameTok string
	if f.withType {
		tok, err := readAsciiToken(c)
		if err != nil {
			return Header{}, err
		}
		typeName = tok
		nameTok, err = readAsciiToken(c)
		if err != nil {
			return Header{}, err
		}
	} else {
		tok, err := readAsciiToken(c)
		if err != nil {
			return Header{}, err
		}
		nameTok = tok
	}
	eq, err := readAsciiToken(c)
	if err != nil {
		return Header{}, err
	}
	if eq != "=" {
		return Header{}, fmt.Errorf("wire: Ascii: expected '=', got %q", eq)
	}
	brace, err := readAsciiToken(c)
	if err != nil {
		return Header{}, err
	}
	if brace != "{" {
		return Header{}, fmt.Errorf("wire: Ascii: expected '{', got %q", brace)
	}
	return Header{Type: typeName, Name: nameTok}, nil
}

func (f *asciiFormat) ReadEndBaseType(c *ioc.Channel) error {
	tok, err := readAsciiToken(c)
	if err != nil {
		return err
	}
	if tok != "}" {
		return fmt.Errorf("wire: Ascii: expected '}', got %q", tok)
	}
	return nil
}

// maxHeaderPeek bounds the look-ahead window PeekHeader uses on
// text formats (Ascii, Xml): large enough for any realistic
// "typeName name = {" / "<typeName name=\"…\">" opening line. It is far
// larger than the channel's default unget capacity (16 bytes), so a
// channel used with PeekHeader needs Init(512) or more; every caller in
// this module does so.
const maxHeaderPeek = 512

func (f *asciiFormat) PeekHeader(c *ioc.Channel) (Header, error) {
	buf, err := c.Peek(maxHeaderPeek)
	if len(buf) == 0 {
		return Header{}, err
	}
	i := 0
	var typeName, nameTok string
	if f.withType {
		typeName, err = sliceToken(buf, &i)
		if err != nil {
			return Header{}, err
		}
		nameTok, err = sliceToken(buf, &i)
		if err != nil {
			return Header{}, err
		}
	} else {
		nameTok, err = sliceToken(buf, &i)
		if err != nil {
			return Header{}, err
		}
	}
	eq, err := sliceToken(buf, &i)
	if err != nil {
		return Header{}, err
	}
	if eq != "=" {
		return Header{}, fmt.Errorf("wire: Ascii: expected '=', got %q", eq)
	}
	return Header{Type: typeName, Name: nameTok}, nil
}

func (f *asciiFormat) WritePrimitive(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	line := fmt.Sprintf("%s = %s\n", name, formatValue(kind, v))
	return writeFull(c, []byte(line))
}

func (f *asciiFormat) ReadPrimitive(c *ioc.Channel, name string, kind Kind) (interface{}, error) {
	if err := expectNameEquals(c, name); err != nil {
		return nil, err
	}
	tok, err := readAsciiToken(c)
	if err != nil {
		return nil, err
	}
	return parseValue(kind, tok)
}

func (f *asciiFormat) WriteArray(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	n, elemAt := arrayAccessor(kind, v)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = [", name)
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatValue(kind, elemAt(i)))
	}
	sb.WriteString("]\n")
	return writeFull(c, []byte(sb.String()))
}

func (f *asciiFormat) ReadArray(c *ioc.Channel, name string, kind Kind, length int) (interface{}, error) {
	if err := expectNameEquals(c, name); err != nil {
		return nil, err
	}
	open, err := readAsciiToken(c)
	if err != nil {
		return nil, err
	}
	if open != "[" {
		return nil, fmt.Errorf("wire: Ascii: expected '[', got %q", open)
	}
	var values []interface{}
	for {
		tok, err := readAsciiToken(c)
		if err != nil {
			return nil, err
		}
		if tok == "]" {
			break
		}
		if tok == "," {
			continue
		}
		v, err := parseValue(kind, tok)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	n := len(values)
	if length > 0 && length != n {
		return nil, fmt.Errorf("wire: Ascii: array length mismatch: stream has %d, destination has %d", n, length)
	}
	i := 0
	return decodeArray(kind, n, func(_ int) (interface{}, error) {
		v := values[i]
		i++
		return v, nil
	})
}

func (f *asciiFormat) WriteStringQuoted(c *ioc.Channel, name string, s string, maxLen int) error {
	line := fmt.Sprintf("%s = %s\n", name, quoteAscii(s))
	return writeFull(c, []byte(line))
}

func (f *asciiFormat) ReadStringQuoted(c *ioc.Channel, name string, maxLen int) (string, error) {
	if err := expectNameEquals(c, name); err != nil {
		return "", err
	}
	tok, err := readAsciiToken(c)
	if err != nil {
		return "", err
	}
	return unquoteAscii(tok)
}

func expectNameEquals(c *ioc.Channel, name string) error {
	tok, err := readAsciiToken(c)
	if err != nil {
		return err
	}
	if name != "" && tok != name {
		return fmt.Errorf("wire: Ascii: expected field %q, got %q", name, tok)
	}
	eq, err := readAsciiToken(c)
	if err != nil {
		return err
	}
	if eq != "=" {
		return fmt.Errorf("wire: Ascii: expected '=', got %q", eq)
	}
	return nil
}

// readAsciiToken reads the next token from c: a run of non-whitespace
// bytes, a lone structural character ('=','{','}','[',']',','), or a
// double-quoted string (returned with its quotes and escapes intact, for
// unquoteAscii to parse). Leading whitespace is skipped.
func readAsciiToken(c *ioc.Channel) (string, error) {
	for {
		b, err := peekByte(c)
		if err != nil {
			return "", err
		}
		if !isAsciiSpace(b) {
			break
		}
		if _, err := readOneByte(c); err != nil {
			return "", err
		}
	}
	first, err := peekByte(c)
	if err != nil {
		return "", err
	}
	switch first {
	case '=', '{', '}', '[', ']', ',':
		if _, err := readOneByte(c); err != nil {
			return "", err
		}
		return string(first), nil
	case '"':
		return readAsciiQuoted(c)
	}
	var sb strings.Builder
	for {
		b, err := peekByte(c)
		if err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		if isAsciiSpace(b) || b == '=' || b == '{' || b == '}' || b == '[' || b == ']' || b == ',' {
			break
		}
		if _, err := readOneByte(c); err != nil {
			return "", err
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

func readAsciiQuoted(c *ioc.Channel) (string, error) {
	var sb strings.Builder
	b, err := readOneByte(c)
	if err != nil {
		return "", err
	}
	sb.WriteByte(b) // opening quote
	for {
		b, err := readOneByte(c)
		if err != nil {
			return "", err
		}
		sb.WriteByte(b)
		if b == '\\' {
			esc, err := readOneByte(c)
			if err != nil {
				return "", err
			}
			sb.WriteByte(esc)
			continue
		}
		if b == '"' {
			break
		}
	}
	return sb.String(), nil
}

func isAsciiSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func peekByte(c *ioc.Channel) (byte, error) {
	p, err := c.Peek(1)
	if len(p) == 0 {
		if err == nil {
			err = fmt.Errorf("wire: unexpected end of stream")
		}
		return 0, err
	}
	return p[0], nil
}

func readOneByte(c *ioc.Channel) (byte, error) {
	var b [1]byte
	n, err := c.Read(b[:])
	if n == 0 {
		if err == nil {
			err = fmt.Errorf("wire: unexpected end of stream")
		}
		return 0, err
	}
	return b[0], nil
}

// sliceToken is the byte-slice counterpart of readAsciiToken, used by
// PeekHeader so format autodetection never consumes channel bytes: it
// tokenizes buf starting at *i, matching readAsciiToken's grammar
// exactly, and advances *i past the token it returns.
func sliceToken(buf []byte, i *int) (string, error) {
	for *i < len(buf) && isAsciiSpace(buf[*i]) {
		*i++
	}
	if *i >= len(buf) {
		return "", fmt.Errorf("wire: Ascii: header incomplete within look-ahead window")
	}
	switch buf[*i] {
	case '=', '{', '}', '[', ']', ',':
		b := buf[*i]
		*i++
		return string(b), nil
	case '"':
		start := *i
		*i++
		for *i < len(buf) {
			b := buf[*i]
			*i++
			if b == '\\' {
				if *i >= len(buf) {
					return "", fmt.Errorf("wire: Ascii: unterminated quoted string")
				}
				*i++
				continue
			}
			if b == '"' {
				return string(buf[start:*i]), nil
			}
		}
		return "", fmt.Errorf("wire: Ascii: unterminated quoted string")
	}
	start := *i
	for *i < len(buf) {
		b := buf[*i]
		if isAsciiSpace(b) || b == '=' || b == '{' || b == '}' || b == '[' || b == ']' || b == ',' {
			break
		}
		*i++
	}
	return string(buf[start:*i]), nil
}
