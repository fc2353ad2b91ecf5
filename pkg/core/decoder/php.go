package decoder

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

// UnserializePHP decodes the output of PHP's serialize().
//
// String lengths are byte counts, so multi-byte UTF-8 payloads decode
// exactly. Back-references (r: and R:) resolve to the value already decoded
// in that slot; arrays and objects are shared rather than copied, which lets
// self-referencing structures decode into cycles. Custom-serialized objects
// (C:) are rejected.
func UnserializePHP(data string) (domain.Value, error) {
	p := &phpParser{data: data}
	v, err := p.value()
	if err != nil {
		return domain.Value{}, err
	}
	if p.pos != len(p.data) {
		return domain.Value{}, p.errorf(p.pos, "unexpected trailing data")
	}
	return v, nil
}

// phpFloat is the token grammar PHP's unserialize accepts after "d:".
var phpFloat = regexp.MustCompile(`^(?:[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?|NAN|-?INF)$`)

type phpParser struct {
	data string
	pos  int
	// refs holds one slot per decoded value, numbered from 1 in PHP's
	// scheme. Array keys and R: references take no slot.
	refs []domain.Value
}

func (p *phpParser) errorf(offset int, format string, args ...any) error {
	return &FormatParseError{Format: FormatPHP, Offset: offset, Detail: fmt.Sprintf(format, args...)}
}

func (p *phpParser) value() (domain.Value, error) {
	if p.pos >= len(p.data) {
		return domain.Value{}, p.errorf(p.pos, "unexpected end of data")
	}
	tag := p.data[p.pos]
	slot := -1
	if tag != 'R' {
		slot = len(p.refs)
		p.refs = append(p.refs, domain.Null())
	}

	v, err := p.dispatch(tag, slot)
	if err != nil {
		return domain.Value{}, err
	}
	if slot >= 0 {
		p.refs[slot] = v
	}
	return v, nil
}

func (p *phpParser) dispatch(tag byte, slot int) (domain.Value, error) {
	start := p.pos
	p.pos++
	switch tag {
	case 'N':
		if err := p.expect(';'); err != nil {
			return domain.Value{}, err
		}
		return domain.Null(), nil
	case 'b':
		return p.boolean()
	case 'i':
		n, err := p.integer(';')
		if err != nil {
			return domain.Value{}, err
		}
		return domain.Int(n), nil
	case 'd':
		return p.double()
	case 's':
		s, err := p.str()
		if err != nil {
			return domain.Value{}, err
		}
		return domain.String(s), p.expect(';')
	case 'E':
		return p.enum()
	case 'a':
		return p.array(slot)
	case 'O':
		return p.object(slot)
	case 'r', 'R':
		return p.reference(slot)
	case 'C':
		return domain.Value{}, p.errorf(start, "custom serialized objects are not supported")
	default:
		return domain.Value{}, p.errorf(start, "unknown type tag %q", tag)
	}
}

func (p *phpParser) expect(b byte) error {
	if p.pos >= len(p.data) {
		return p.errorf(p.pos, "unexpected end of data, expected %q", b)
	}
	if c := p.data[p.pos]; c != b {
		return p.errorf(p.pos, "expected %q, found %q", b, c)
	}
	p.pos++
	return nil
}

// token reads up to the next delim and consumes it. It returns the token
// and its offset.
func (p *phpParser) token(delim byte) (string, int, error) {
	start := p.pos
	idx := strings.IndexByte(p.data[start:], delim)
	if idx < 0 {
		return "", start, p.errorf(len(p.data), "unexpected end of data, expected %q", delim)
	}
	p.pos = start + idx + 1
	return p.data[start : start+idx], start, nil
}

func (p *phpParser) integer(delim byte) (int64, error) {
	if err := p.expect(':'); err != nil {
		return 0, err
	}
	tok, at, err := p.token(delim)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, p.errorf(at, "invalid integer %q", tok)
	}
	return n, nil
}

// length reads a ":<n>" prefix terminated by ':'.
func (p *phpParser) length() (int, error) {
	at := p.pos + 1
	n, err := p.integer(':')
	if err != nil {
		return 0, err
	}
	if n < 0 || n > int64(len(p.data)) {
		return 0, p.errorf(at, "invalid length %d", n)
	}
	return int(n), nil
}

func (p *phpParser) boolean() (domain.Value, error) {
	if err := p.expect(':'); err != nil {
		return domain.Value{}, err
	}
	tok, at, err := p.token(';')
	if err != nil {
		return domain.Value{}, err
	}
	switch tok {
	case "0":
		return domain.Bool(false), nil
	case "1":
		return domain.Bool(true), nil
	default:
		return domain.Value{}, p.errorf(at, "invalid boolean %q", tok)
	}
}

func (p *phpParser) double() (domain.Value, error) {
	if err := p.expect(':'); err != nil {
		return domain.Value{}, err
	}
	tok, at, err := p.token(';')
	if err != nil {
		return domain.Value{}, err
	}
	if !phpFloat.MatchString(tok) {
		return domain.Value{}, p.errorf(at, "invalid double %q", tok)
	}
	// Out of range values come back as +-Inf, matching PHP.
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return domain.Value{}, p.errorf(at, "invalid double %q", tok)
	}
	return domain.Float(f), nil
}

// str reads `:<len>:"<bytes>"` without the trailing terminator.
func (p *phpParser) str() (string, error) {
	n, err := p.length()
	if err != nil {
		return "", err
	}
	if err := p.expect('"'); err != nil {
		return "", err
	}
	if p.pos+n > len(p.data) {
		return "", p.errorf(p.pos, "string of %d bytes runs past end of data", n)
	}
	s := p.data[p.pos : p.pos+n]
	p.pos += n
	if err := p.expect('"'); err != nil {
		return "", err
	}
	return s, nil
}

func (p *phpParser) enum() (domain.Value, error) {
	at := p.pos
	s, err := p.str()
	if err != nil {
		return domain.Value{}, err
	}
	if !strings.Contains(s, ":") {
		return domain.Value{}, p.errorf(at, "invalid enum %q", s)
	}
	return domain.String(s), p.expect(';')
}

func (p *phpParser) array(slot int) (domain.Value, error) {
	n, err := p.length()
	if err != nil {
		return domain.Value{}, err
	}
	if err := p.expect('{'); err != nil {
		return domain.Value{}, err
	}
	m := domain.NewMap()
	v := domain.MapValue(m)
	p.refs[slot] = v
	if err := p.members(m, n, false); err != nil {
		return domain.Value{}, err
	}
	return v, nil
}

func (p *phpParser) object(slot int) (domain.Value, error) {
	class, err := p.str()
	if err != nil {
		return domain.Value{}, err
	}
	n, err := p.length()
	if err != nil {
		return domain.Value{}, err
	}
	if err := p.expect('{'); err != nil {
		return domain.Value{}, err
	}
	m := domain.NewMap()
	v := domain.Object(class, m)
	p.refs[slot] = v
	if err := p.members(m, n, true); err != nil {
		return domain.Value{}, err
	}
	return v, nil
}

// members reads n key/value pairs and the closing brace.
func (p *phpParser) members(m *domain.Map, n int, object bool) error {
	for i := 0; i < n; i++ {
		k, err := p.key(object)
		if err != nil {
			return err
		}
		v, err := p.value()
		if err != nil {
			return err
		}
		m.Set(k, v)
	}
	return p.expect('}')
}

func (p *phpParser) key(object bool) (domain.Key, error) {
	if p.pos >= len(p.data) {
		return domain.Key{}, p.errorf(p.pos, "unexpected end of data, expected array key")
	}
	switch tag := p.data[p.pos]; tag {
	case 'i':
		p.pos++
		n, err := p.integer(';')
		if err != nil {
			return domain.Key{}, err
		}
		return domain.IntKey(n), nil
	case 's':
		p.pos++
		s, err := p.str()
		if err != nil {
			return domain.Key{}, err
		}
		if err := p.expect(';'); err != nil {
			return domain.Key{}, err
		}
		if object {
			return domain.StringKey(propertyName(s)), nil
		}
		if n, ok := integerKey(s); ok {
			return domain.IntKey(n), nil
		}
		return domain.StringKey(s), nil
	default:
		return domain.Key{}, p.errorf(p.pos, "expected array key, found %q", tag)
	}
}

// integerKey reports whether an array key string is a canonical decimal
// integer, which PHP stores as an integer key.
func integerKey(s string) (int64, bool) {
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || (digits[0] == '0' && len(s) > 1) {
		return 0, false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

// propertyName strips the visibility marker PHP prefixes to protected
// ("\0*\0name") and private ("\0Class\0name") property names.
func propertyName(s string) string {
	if len(s) == 0 || s[0] != 0 {
		return s
	}
	if idx := strings.IndexByte(s[1:], 0); idx >= 0 {
		return s[idx+2:]
	}
	return s
}

func (p *phpParser) reference(slot int) (domain.Value, error) {
	at := p.pos + 1
	n, err := p.integer(';')
	if err != nil {
		return domain.Value{}, err
	}
	// an r: token occupies a slot itself and may not point at it
	limit := int64(len(p.refs))
	if slot >= 0 {
		limit = int64(slot)
	}
	if n < 1 || n > limit {
		return domain.Value{}, p.errorf(at, "back-reference %d out of range", n)
	}
	return p.refs[n-1], nil
}
