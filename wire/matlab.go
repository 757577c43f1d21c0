// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"fmt"
	"strings"

	"code.hybscloud.com/tbserialize/ioc"
)

func init() { register("Matlab", func() Format { return &matlabFormat{} }) }

// matlabFormat implements the write-mostly Matlab wire format (spec.md
// §4.2): primitives and arrays are emitted as executable
// "name.field = value;" assignment statements an interpreter can eval
// directly; struct framing is carried in "% begin"/"% end" comment
// markers so this package's own Read path can recover structure, since
// bare Matlab source has no generic way to mark the start/end of a
// nested value. Read is explicitly best-effort: it recovers exactly what
// this Format's own Write produced and is not a general Matlab parser.
type matlabFormat struct {
	prefix []string
}

func (f *matlabFormat) Name() string { return "Matlab" }

func (f *matlabFormat) Configure(opts string) {}

func (f *matlabFormat) path(name string) string {
	if len(f.prefix) == 0 {
		return name
	}
	return strings.Join(f.prefix, ".") + "." + name
}

func (f *matlabFormat) WriteHeader(c *ioc.Channel, h Header) error {
	line := fmt.Sprintf("%% begin %s %s\n", h.Type, h.Name)
	if err := writeFull(c, []byte(line)); err != nil {
		return err
	}
	f.prefix = append(f.prefix, h.Name)
	return nil
}

func (f *matlabFormat) WriteEndBaseType(c *ioc.Channel) error {
	name := ""
	if n := len(f.prefix); n > 0 {
		name = f.prefix[n-1]
		f.prefix = f.prefix[:n-1]
	}
	line := fmt.Sprintf("%% end %s\n", name)
	return writeFull(c, []byte(line))
}

func (f *matlabFormat) ReadHeader(c *ioc.Channel) (Header, error) {
	line, err := readMatlabLine(c)
	if err != nil {
		return Header{}, err
	}
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "%"))
	if len(fields) < 3 || fields[0] != "begin" {
		return Header{}, fmt.Errorf("wire: Matlab: expected '%% begin Type Name', got %q", line)
	}
	h := Header{Type: fields[1], Name: fields[2]}
	f.prefix = append(f.prefix, h.Name)
	return h, nil
}

func (f *matlabFormat) ReadEndBaseType(c *ioc.Channel) error {
	line, err := readMatlabLine(c)
	if err != nil {
		return err
	}
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "%"))
	if len(fields) < 1 || fields[0] != "end" {
		return fmt.Errorf("wire: Matlab: expected '%% end', got %q", line)
	}
	if n := len(f.prefix); n > 0 {
		f.prefix = f.prefix[:n-1]
	}
	return nil
}

func (f *matlabFormat) PeekHeader(c *ioc.Channel) (Header, error) {
	buf, err := c.Peek(maxHeaderPeek)
	if len(buf) == 0 {
		return Header{}, err
	}
	nl := indexByte(buf, '\n')
	if nl < 0 {
		nl = len(buf)
	}
	line := string(buf[:nl])
	fields := strings.Fields(strings.TrimPrefix(strings.TrimSpace(line), "%"))
	if len(fields) < 3 || fields[0] != "begin" {
		return Header{}, fmt.Errorf("wire: Matlab: expected '%% begin Type Name', got %q", line)
	}
	return Header{Type: fields[1], Name: fields[2]}, nil
}

func (f *matlabFormat) WritePrimitive(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	line := fmt.Sprintf("%s = %s;\n", f.path(name), formatValue(kind, v))
	return writeFull(c, []byte(line))
}

func (f *matlabFormat) ReadPrimitive(c *ioc.Channel, name string, kind Kind) (interface{}, error) {
	_, rhs, err := readMatlabStatement(c)
	if err != nil {
		return nil, err
	}
	return parseValue(kind, rhs)
}

func (f *matlabFormat) WriteArray(c *ioc.Channel, name string, kind Kind, v interface{}) error {
	n, elemAt := arrayAccessor(kind, v)
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s = [", f.path(name))
	for i := 0; i < n; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(formatValue(kind, elemAt(i)))
	}
	sb.WriteString("];\n")
	return writeFull(c, []byte(sb.String()))
}

func (f *matlabFormat) ReadArray(c *ioc.Channel, name string, kind Kind, length int) (interface{}, error) {
	_, rhs, err := readMatlabStatement(c)
	if err != nil {
		return nil, err
	}
	rhs = strings.TrimSpace(rhs)
	if !strings.HasPrefix(rhs, "[") || !strings.HasSuffix(rhs, "]") {
		return nil, fmt.Errorf("wire: Matlab: expected array literal, got %q", rhs)
	}
	inner := strings.TrimSpace(rhs[1 : len(rhs)-1])
	var toks []string
	if inner != "" {
		toks = strings.Split(inner, ",")
	}
	n := len(toks)
	if length > 0 && length != n {
		return nil, fmt.Errorf("wire: Matlab: array length mismatch: stream has %d, destination has %d", n, length)
	}
	return decodeArray(kind, n, func(i int) (interface{}, error) {
		return parseValue(kind, strings.TrimSpace(toks[i]))
	})
}

func (f *matlabFormat) WriteStringQuoted(c *ioc.Channel, name string, s string, maxLen int) error {
	line := fmt.Sprintf("%s = %s;\n", f.path(name), matlabQuote(s))
	return writeFull(c, []byte(line))
}

func (f *matlabFormat) ReadStringQuoted(c *ioc.Channel, name string, maxLen int) (string, error) {
	_, rhs, err := readMatlabStatement(c)
	if err != nil {
		return "", err
	}
	rhs = strings.TrimSpace(rhs)
	if len(rhs) < 2 || rhs[0] != '\'' || rhs[len(rhs)-1] != '\'' {
		return "", fmt.Errorf("wire: Matlab: expected quoted string, got %q", rhs)
	}
	return strings.ReplaceAll(rhs[1:len(rhs)-1], "''", "'"), nil
}

// readMatlabLine reads bytes up to and including the next '\n'.
func readMatlabLine(c *ioc.Channel) (string, error) {
	var sb strings.Builder
	for {
		b, err := readOneByte(c)
		if err != nil {
			if sb.Len() > 0 {
				return sb.String(), nil
			}
			return "", err
		}
		sb.WriteByte(b)
		if b == '\n' {
			break
		}
	}
	return sb.String(), nil
}

// readMatlabStatement reads one "lhs = rhs;" statement, trimming the
// trailing newline, and splits it into its LHS path and RHS literal.
func readMatlabStatement(c *ioc.Channel) (lhs, rhs string, err error) {
	var sb strings.Builder
	for {
		b, rerr := readOneByte(c)
		if rerr != nil {
			return "", "", rerr
		}
		if b == ';' {
			break
		}
		sb.WriteByte(b)
	}
	// Consume the trailing newline written by every WritePrimitive/WriteArray.
	if b, rerr := peekByte(c); rerr == nil && b == '\n' {
		_, _ = readOneByte(c)
	}
	stmt := sb.String()
	eq := strings.IndexByte(stmt, '=')
	if eq < 0 {
		return "", "", fmt.Errorf("wire: Matlab: expected assignment statement, got %q", stmt)
	}
	return strings.TrimSpace(stmt[:eq]), strings.TrimSpace(stmt[eq+1:]), nil
}

func indexByte(buf []byte, b byte) int {
	for i, c := range buf {
		if c == b {
			return i
		}
	}
	return -1
}
