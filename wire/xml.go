// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strings"

	"code.hybscloud.com/tbserialize/ioc"
)

func init() { register("Xml", func() Format { return &xmlFormat{} }) }

// xmlFormat implements the nested Xml wire format (spec.md §4.2):
// "<typeName name=\"…\">…</typeName>"; primitive values as element text;
// strings XML-escaped; options carried as attributes on the opening tag.
type xmlFormat struct{}

func (f *xmlFormat) Name() string { return "Xml" }

func (f *xmlFormat) Configure(opts string) {}

func (f *xmlFormat) WriteHeader(c *ioc.Channel, h Header) error {
	attrs := fmt.Sprintf(" name=%q", h.Name)
	if h.Options != "" {
		attrs += fmt.Sprintf(" options=%q", h.Options)
	}
	line := fmt.Sprintf("<%s%s>\n", h.Type, attrs)
	return writeFull(c, []byte(line))
}

func (f *xmlFormat) WriteEndBaseType(c *ioc.Channel) error {
	// Closing tag name is unknown here (spec.md's vtable does not pass
	// the type back to writeEndBaseType); callers close frames through
	// serialize.Serializer.EndType, which remembers the open type name
	// and calls writeCloseTag directly.
	return writeFull(c, []byte("</>\n"))
}

// WriteCloseTag is the Xml-specific counterpart serialize.Serializer
// calls instead of the generic WriteEndBaseType, since Xml (unlike
// Binary/Ascii) needs the type name again to close the tag correctly.
// It satisfies the package-level CloseTagWriter interface.
func (f *xmlFormat) WriteCloseTag(c *ioc.Channel, typeName string) error {
	return writeFull(c, []byte(fmt.Sprintf("</%s>\n", typeName)))
}

func (f *xmlFormat) ReadHeader(c *ioc.Channel) (Header, error) {
	tag, err := readXMLOpenTag(c)
	if err != nil {
		return Header{}, err
	}
	return tag, nil
}

func (f *xmlFormat) ReadEndBaseType(c *ioc.Channel) error {
	_, err := readXMLCloseTag(c)
	return err
}

func (f *xmlFormat) PeekHeader(c *ioc.Channel) (Header, error) {
	buf, err := c.Peek(maxHeaderPeek)
	if len(buf) == 0 {
		return Header{}, err
	}
	i := 0
	return sliceXMLOpenTag(buf, &i)
}

func (f *xmlFormat) WritePrimitive(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	line := fmt.Sprintf("<%s>%s</%s>\n", name, formatValue(kind, v), name)
	return writeFull(c, []byte(line))
}

func (f *xmlFormat) ReadPrimitive(c *ioc.Channel, name string, kind Kind) (interface{}, error) {
	text, err := readXMLElementText(c, name)
	if err != nil {
		return nil, err
	}
	return parseValue(kind, text)
}

func (f *xmlFormat) WriteArray(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	n, elemAt := arrayAccessor(kind, v)
	var sb strings.Builder
	fmt.Fprintf(&sb, "<%s>\n", name)
	for i := 0; i < n; i++ {
		fmt.Fprintf(&sb, "  <item>%s</item>\n", formatValue(kind, elemAt(i)))
	}
	fmt.Fprintf(&sb, "</%s>\n", name)
	return writeFull(c, []byte(sb.String()))
}

func (f *xmlFormat) ReadArray(c *ioc.Channel, name string, kind Kind, length int) (interface{}, error) {
	if _, err := readXMLOpenTagNamed(c, name); err != nil {
		return nil, err
	}
	var values []interface{}
	for {
		// Either an <item>…</item> element or the closing tag.
		buf, err := c.Peek(maxHeaderPeek)
		if len(buf) == 0 {
			return nil, err
		}
		i := skipXMLWhitespace(buf, 0)
		if i+1 < len(buf) && buf[i] == '<' && buf[i+1] == '/' {
			if _, err := readXMLCloseTag(c); err != nil {
				return nil, err
			}
			break
		}
		text, err := readXMLElementText(c, "item")
		if err != nil {
			return nil, err
		}
		v, err := parseValue(kind, text)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	n := len(values)
	if length > 0 && length != n {
		return nil, fmt.Errorf("wire: Xml: array length mismatch: stream has %d, destination has %d", n, length)
	}
	idx := 0
	return decodeArray(kind, n, func(_ int) (interface{}, error) {
		v := values[idx]
		idx++
		return v, nil
	})
}

func (f *xmlFormat) WriteStringQuoted(c *ioc.Channel, name string, s string, maxLen int) error {
	line := fmt.Sprintf("<%s>%s</%s>\n", name, xmlEscape(s), name)
	return writeFull(c, []byte(line))
}

func (f *xmlFormat) ReadStringQuoted(c *ioc.Channel, name string, maxLen int) (string, error) {
	text, err := readXMLElementText(c, name)
	if err != nil {
		return "", err
	}
	return xmlUnescape(text), nil
}

// readXMLOpenTag reads "<typeName name=\"…\" [options=\"…\"]>" from c,
// consuming it, and returns the parsed Header.
func readXMLOpenTag(c *ioc.Channel) (Header, error) {
	return readXMLOpenTagNamed(c, "")
}

func readXMLOpenTagNamed(c *ioc.Channel, expectName string) (Header, error) {
	if err := skipXMLStreamWhitespace(c); err != nil {
		return Header{}, err
	}
	if b, err := readOneByte(c); err != nil || b != '<' {
		if err == nil {
			err = fmt.Errorf("wire: Xml: expected '<', got %q", b)
		}
		return Header{}, err
	}
	var sb strings.Builder
	for {
		b, err := readOneByte(c)
		if err != nil {
			return Header{}, err
		}
		if b == '>' {
			break
		}
		sb.WriteByte(b)
	}
	h, err := parseXMLOpenTagBody(sb.String())
	if err != nil {
		return Header{}, err
	}
	if expectName != "" && h.Type != expectName {
		return Header{}, fmt.Errorf("wire: Xml: expected element name %q, got %q", expectName, h.Type)
	}
	return h, nil
}

func parseXMLOpenTagBody(body string) (Header, error) {
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return Header{}, fmt.Errorf("wire: Xml: empty open tag")
	}
	h := Header{Type: fields[0]}
	for _, kv := range fields[1:] {
		eq := strings.IndexByte(kv, '=')
		if eq < 0 {
			continue
		}
		key := kv[:eq]
		val := strings.Trim(kv[eq+1:], `"`)
		switch key {
		case "name":
			h.Name = val
		case "options":
			h.Options = val
		}
	}
	return h, nil
}

func readXMLCloseTag(c *ioc.Channel) (string, error) {
	if err := skipXMLStreamWhitespace(c); err != nil {
		return "", err
	}
	if b, err := readOneByte(c); err != nil || b != '<' {
		if err == nil {
			err = fmt.Errorf("wire: Xml: expected '<', got %q", b)
		}
		return "", err
	}
	if b, err := readOneByte(c); err != nil || b != '/' {
		if err == nil {
			err = fmt.Errorf("wire: Xml: expected '/', got %q", b)
		}
		return "", err
	}
	var sb strings.Builder
	for {
		b, err := readOneByte(c)
		if err != nil {
			return "", err
		}
		if b == '>' {
			break
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

// readXMLElementText reads "<name>text</name>" (optionally preceded by
// whitespace) from c and returns text verbatim (escaped form; the caller
// unescapes if needed).
func readXMLElementText(c *ioc.Channel, name string) (string, error) {
	h, err := readXMLOpenTagNamed(c, name)
	if err != nil {
		return "", err
	}
	_ = h
	var sb strings.Builder
	for {
		b, err := peekByte(c)
		if err != nil {
			return "", err
		}
		if b == '<' {
			break
		}
		if _, err := readOneByte(c); err != nil {
			return "", err
		}
		sb.WriteByte(b)
	}
	if _, err := readXMLCloseTag(c); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func skipXMLWhitespace(buf []byte, i int) int {
	for i < len(buf) && isAsciiSpace(buf[i]) {
		i++
	}
	return i
}

// skipXMLStreamWhitespace is skipXMLWhitespace's streaming counterpart,
// consuming whitespace bytes (notably the '\n' every writer emits after a
// tag) ahead of the next '<', the way readAsciiToken skips whitespace
// ahead of its next token.
func skipXMLStreamWhitespace(c *ioc.Channel) error {
	for {
		b, err := peekByte(c)
		if err != nil {
			return err
		}
		if !isAsciiSpace(b) {
			return nil
		}
		if _, err := readOneByte(c); err != nil {
			return err
		}
	}
}

func sliceXMLOpenTag(buf []byte, i *int) (Header, error) {
	*i = skipXMLWhitespace(buf, *i)
	if *i >= len(buf) || buf[*i] != '<' {
		return Header{}, fmt.Errorf("wire: Xml: header incomplete within look-ahead window")
	}
	*i++
	start := *i
	for *i < len(buf) && buf[*i] != '>' {
		*i++
	}
	if *i >= len(buf) {
		return Header{}, fmt.Errorf("wire: Xml: header incomplete within look-ahead window")
	}
	body := string(buf[start:*i])
	*i++
	return parseXMLOpenTagBody(body)
}
