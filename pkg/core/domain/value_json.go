package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Recursion is written in place of a map that contains itself.
const Recursion = "*RECURSION*"

// MarshalJSON renders the value as compact JSON, keeping map order.
func (v Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	writeJSON(&buf, v, "", 0, map[*Map]bool{})
	return buf.Bytes(), nil
}

// MarshalIndent renders the value as JSON with the given indent per level.
func MarshalIndent(v Value, indent string) []byte {
	var buf bytes.Buffer
	writeJSON(&buf, v, indent, 0, map[*Map]bool{})
	return buf.Bytes()
}

func writeJSON(buf *bytes.Buffer, v Value, indent string, depth int, path map[*Map]bool) {
	switch v.kind {
	case KindNull:
		buf.WriteString("null")
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.b))
	case KindInt:
		buf.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		buf.WriteString(formatFloat(v.f))
	case KindString:
		writeString(buf, v.s)
	case KindMap:
		if v.m == nil {
			buf.WriteString("null")
			return
		}
		if path[v.m] {
			writeString(buf, Recursion)
			return
		}
		path[v.m] = true
		defer delete(path, v.m)

		list := v.m.IsList()
		open, closing := byte('{'), byte('}')
		if list {
			open, closing = '[', ']'
		}
		buf.WriteByte(open)
		if v.m.Len() == 0 {
			buf.WriteByte(closing)
			return
		}
		first := true
		v.m.Each(func(k Key, item Value) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			newline(buf, indent, depth+1)
			if !list {
				writeString(buf, k.String())
				buf.WriteByte(':')
				if indent != "" {
					buf.WriteByte(' ')
				}
			}
			writeJSON(buf, item, indent, depth+1, path)
			return true
		})
		newline(buf, indent, depth)
		buf.WriteByte(closing)
	}
}

func newline(buf *bytes.Buffer, indent string, depth int) {
	if indent == "" {
		return
	}
	buf.WriteByte('\n')
	buf.WriteString(strings.Repeat(indent, depth))
}

func writeString(buf *bytes.Buffer, s string) {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline
	buf.Truncate(buf.Len() - 1)
}

// formatFloat follows JavaScript number printing closely enough for display:
// plain decimals in the usual range, exponent form outside it. NaN and the
// infinities have no JSON form and print as null.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (k Key) String() string {
	if k.Kind == KeyInt {
		return strconv.FormatInt(k.Int, 10)
	}
	return k.Str
}
