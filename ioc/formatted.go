// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ioc

import (
	"fmt"
	"strconv"
	"strings"
)

// ScanCallback is invoked for the "%@" specifier on Scanf; it must
// consume exactly the bytes it needs from the channel and return the
// number of bytes consumed, or an error.
type ScanCallback func(c *Channel) (int, error)

// PrintCallback is invoked for the "%@" specifier on Printf; it must
// write to the channel and return the number of bytes written, or an
// error.
type PrintCallback func(c *Channel) (int, error)

// Printf implements the restricted specifier set of spec.md §6.4. args
// are passed by value for print sources that are not callbacks; "%@"
// expects a PrintCallback argument.
func (c *Channel) Printf(format string, args ...interface{}) (int, error) {
	var sb strings.Builder
	ai := 0
	next := func() (interface{}, error) {
		if ai >= len(args) {
			return nil, newErrorf(ErrBadFormatSpecifier, "ioc: Printf: too few arguments for format %q", format)
		}
		a := args[ai]
		ai++
		return a, nil
	}

	total := 0
	i := 0
	for i < len(format) {
		ch := format[i]
		if ch != '%' {
			sb.WriteByte(ch)
			i++
			continue
		}
		spec, consumed, err := parseSpecifier(format[i:])
		if err != nil {
			return total, c.setErr(newError(ErrBadFormatSpecifier, err))
		}
		i += consumed

		if spec.callback {
			if sb.Len() > 0 {
				n, err := c.Write([]byte(sb.String()))
				total += n
				if err != nil {
					return total, err
				}
				sb.Reset()
			}
			a, err := next()
			if err != nil {
				return total, c.setErr(err.(*Error))
			}
			cb, ok := a.(PrintCallback)
			if !ok {
				return total, c.setErr(newErrorf(ErrBadFormatSpecifier, "ioc: Printf: %%@ requires a PrintCallback argument"))
			}
			n, err := cb(c)
			total += n
			if err != nil {
				return total, c.setErr(newErrorf(ErrCallbackWrite, "ioc: Printf callback failed: %v", err))
			}
			continue
		}

		a, err := next()
		if err != nil {
			return total, c.setErr(err.(*Error))
		}
		s, ferr := formatOne(spec, a)
		if ferr != nil {
			return total, c.setErr(newError(ErrBadFormatSpecifier, ferr))
		}
		sb.WriteString(s)
	}
	if sb.Len() > 0 {
		n, err := c.Write([]byte(sb.String()))
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type specifier struct {
	verb     byte // base verb: c,u,d,f,s,p
	quoted   bool
	bounded  bool
	long     bool // 'l' modifier
	short    bool // 'h' modifier
	longLong bool // 'L' modifier (Lf)
	sUpper   bool // 'S' (escaped string)
	callback bool
}

func parseSpecifier(s string) (specifier, int, error) {
	// s starts with '%'
	i := 1
	var spec specifier
	if i < len(s) && s[i] == '@' {
		spec.callback = true
		return spec, i + 1, nil
	}
	if i < len(s) && s[i] == '*' {
		spec.bounded = true
		i++
	}
	if i < len(s) && s[i] == 'q' {
		spec.quoted = true
		i++
	}
	if i >= len(s) {
		return spec, i, fmt.Errorf("truncated format specifier")
	}
	switch s[i] {
	case 'h':
		spec.short = true
		i++
	case 'l':
		spec.long = true
		i++
	case 'L':
		spec.longLong = true
		i++
	}
	if i >= len(s) {
		return spec, i, fmt.Errorf("truncated format specifier")
	}
	switch s[i] {
	case 'c', 'u', 'd', 'f', 's', 'S', 'p':
		spec.verb = s[i]
		if s[i] == 'S' {
			spec.sUpper = true
		}
		i++
	default:
		return spec, i, fmt.Errorf("unknown format verb %q", s[i])
	}
	return spec, i, nil
}

func formatOne(spec specifier, a interface{}) (string, error) {
	switch spec.verb {
	case 'c':
		ch, ok := toInt64(a)
		if !ok {
			return "", fmt.Errorf("%%c expects an integer-like value")
		}
		if spec.quoted {
			return "'" + escapeChar(byte(ch)) + "'", nil
		}
		return string([]byte{byte(ch)}), nil
	case 'u', 'd':
		v, ok := toInt64(a)
		if !ok {
			return "", fmt.Errorf("%%%c expects an integer-like value", spec.verb)
		}
		if spec.verb == 'u' {
			return strconv.FormatUint(uint64(v), 10), nil
		}
		return strconv.FormatInt(v, 10), nil
	case 'f':
		v, ok := toFloat64(a)
		if !ok {
			return "", fmt.Errorf("%%f expects a float-like value")
		}
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case 's', 'S':
		str, ok := a.(string)
		if !ok {
			return "", fmt.Errorf("%%s expects a string value")
		}
		if spec.bounded {
			// the caller-provided string is already the bounded slice;
			// nothing further to truncate here.
		}
		if spec.sUpper {
			str = escapeNonPrintable(str)
		}
		if spec.quoted {
			return `"` + strings.ReplaceAll(str, `"`, `\"`) + `"`, nil
		}
		return str, nil
	case 'p':
		return fmt.Sprintf("%p", a), nil
	default:
		return "", fmt.Errorf("unsupported verb %q", spec.verb)
	}
}

func toInt64(a interface{}) (int64, bool) {
	switch v := a.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}

func toFloat64(a interface{}) (float64, bool) {
	switch v := a.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func escapeChar(b byte) string {
	if b >= 0x20 && b < 0x7f {
		return string([]byte{b})
	}
	return fmt.Sprintf("\\x%02x", b)
}

func escapeNonPrintable(s string) string {
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b >= 0x20 && b < 0x7f {
			sb.WriteByte(b)
		} else {
			sb.WriteString(fmt.Sprintf("\\x%02x", b))
		}
	}
	return sb.String()
}

// Scanf implements the read-side counterpart of Printf. Each argument
// must be a pointer so the parsed value can be written back by reference
// (spec.md §6.4: "all scan destinations ... are passed by reference").
// nBytesOut, if non-nil, receives the number of bytes consumed from the
// channel. Scanf reads the channel byte-by-byte via Peek/Read since the
// restricted specifier grammar has no general backtracking lexer.
func (c *Channel) Scanf(format string, nBytesOut *int, args ...interface{}) (int, error) {
	consumed := 0
	ai := 0
	next := func() (interface{}, error) {
		if ai >= len(args) {
			return nil, newErrorf(ErrBadFormatSpecifier, "ioc: Scanf: too few arguments for format %q", format)
		}
		a := args[ai]
		ai++
		return a, nil
	}

	i := 0
	for i < len(format) {
		ch := format[i]
		if ch != '%' {
			// Literal byte must match exactly.
			b, n, err := c.readByte()
			consumed += n
			if err != nil {
				return consumed, err
			}
			if b != ch {
				return consumed, c.setErr(newErrorf(ErrBadFormatSpecifier, "ioc: Scanf: expected %q, got %q", ch, b))
			}
			i++
			continue
		}
		spec, adv, err := parseSpecifier(format[i:])
		if err != nil {
			return consumed, c.setErr(newError(ErrBadFormatSpecifier, err))
		}
		i += adv

		if spec.callback {
			a, err := next()
			if err != nil {
				return consumed, c.setErr(err.(*Error))
			}
			cb, ok := a.(ScanCallback)
			if !ok {
				return consumed, c.setErr(newErrorf(ErrBadFormatSpecifier, "ioc: Scanf: %%@ requires a ScanCallback argument"))
			}
			n, err := cb(c)
			consumed += n
			if err != nil {
				return consumed, c.setErr(newErrorf(ErrCallbackRead, "ioc: Scanf callback failed: %v", err))
			}
			continue
		}

		a, err := next()
		if err != nil {
			return consumed, c.setErr(err.(*Error))
		}
		n, err := scanOne(c, spec, a)
		consumed += n
		if err != nil {
			return consumed, err
		}
	}
	if nBytesOut != nil {
		*nBytesOut = consumed
	}
	return consumed, nil
}

func (c *Channel) readByte() (byte, int, error) {
	var b [1]byte
	n, err := c.Read(b[:])
	return b[0], n, err
}

func scanOne(c *Channel, spec specifier, dst interface{}) (int, error) {
	switch spec.verb {
	case 'c':
		p, ok := dst.(*byte)
		if !ok {
			return 0, c.setErr(newErrorf(ErrBadFormatSpecifier, "ioc: Scanf: %%c expects *byte"))
		}
		b, n, err := c.readByte()
		if err != nil {
			return n, err
		}
		*p = b
		return n, nil
	case 'u', 'd':
		return scanToken(c, func(tok string) error {
			v, err := strconv.ParseInt(strings.TrimSpace(tok), 10, 64)
			if err != nil {
				return err
			}
			return assignInt(dst, v)
		})
	case 'f':
		return scanToken(c, func(tok string) error {
			v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
			if err != nil {
				return err
			}
			return assignFloat(dst, v)
		})
	case 's', 'S':
		return scanToken(c, func(tok string) error {
			p, ok := dst.(*string)
			if !ok {
				return fmt.Errorf("%%s expects *string")
			}
			*p = tok
			return nil
		})
	default:
		return 0, c.setErr(newErrorf(ErrBadFormatSpecifier, "ioc: Scanf: unsupported verb %q", spec.verb))
	}
}

// scanToken reads whitespace-delimited bytes until the next whitespace
// or EOF, then invokes assign with the accumulated token.
func scanToken(c *Channel, assign func(tok string) error) (int, error) {
	var sb strings.Builder
	n := 0
	for {
		peek, err := c.Peek(1)
		if err != nil && len(peek) == 0 {
			break
		}
		if len(peek) == 0 {
			break
		}
		b := peek[0]
		if b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			if sb.Len() == 0 {
				// skip leading whitespace
				var discard [1]byte
				dn, _ := c.Read(discard[:])
				n += dn
				continue
			}
			break
		}
		var one [1]byte
		dn, _ := c.Read(one[:])
		n += dn
		sb.WriteByte(b)
	}
	if err := assign(sb.String()); err != nil {
		return n, c.setErr(newError(ErrBadFormatSpecifier, err))
	}
	return n, nil
}

func assignInt(dst interface{}, v int64) error {
	switch p := dst.(type) {
	case *int:
		*p = int(v)
	case *int8:
		*p = int8(v)
	case *int16:
		*p = int16(v)
	case *int32:
		*p = int32(v)
	case *int64:
		*p = v
	case *uint:
		*p = uint(v)
	case *uint8:
		*p = uint8(v)
	case *uint16:
		*p = uint16(v)
	case *uint32:
		*p = uint32(v)
	case *uint64:
		*p = uint64(v)
	default:
		return fmt.Errorf("unsupported integer destination type %T", dst)
	}
	return nil
}

func assignFloat(dst interface{}, v float64) error {
	switch p := dst.(type) {
	case *float32:
		*p = float32(v)
	case *float64:
		*p = v
	default:
		return fmt.Errorf("unsupported float destination type %T", dst)
	}
	return nil
}
