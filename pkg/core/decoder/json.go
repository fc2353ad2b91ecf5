package decoder

import (
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

// ParseJSON decodes a JSON document keeping object key order. Duplicate keys
// keep their first position and their last value.
func ParseJSON(data string) (domain.Value, error) {
	dec := json.NewDecoder(strings.NewReader(data))
	dec.UseNumber()

	v, err := jsonValue(dec)
	if err != nil {
		return domain.Value{}, jsonError(err, dec)
	}
	if _, err := dec.Token(); err != io.EOF {
		return domain.Value{}, &FormatParseError{
			Format: FormatJSON,
			Offset: int(dec.InputOffset()),
			Detail: "unexpected data after top-level value",
		}
	}
	return v, nil
}

func jsonValue(dec *json.Decoder) (domain.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return domain.Value{}, err
	}

	switch t := tok.(type) {
	case nil:
		return domain.Null(), nil
	case bool:
		return domain.Bool(t), nil
	case string:
		return domain.String(t), nil
	case json.Number:
		return jsonNumber(t), nil
	case json.Delim:
		switch t {
		case '{':
			m := domain.NewMap()
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return domain.Value{}, err
				}
				key, _ := kt.(string)
				v, err := jsonValue(dec)
				if err != nil {
					return domain.Value{}, err
				}
				m.Set(domain.StringKey(key), v)
			}
			return domain.MapValue(m), closing(dec)
		case '[':
			m := domain.NewList()
			var i int64
			for dec.More() {
				v, err := jsonValue(dec)
				if err != nil {
					return domain.Value{}, err
				}
				m.Set(domain.IntKey(i), v)
				i++
			}
			return domain.MapValue(m), closing(dec)
		}
	}
	return domain.Value{}, errors.New("unexpected token")
}

func closing(dec *json.Decoder) error {
	_, err := dec.Token()
	return err
}

func jsonNumber(n json.Number) domain.Value {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return domain.Int(i)
		}
	}
	// out of range literals become ±Inf, as in JavaScript
	f, _ := strconv.ParseFloat(s, 64)
	return domain.Float(f)
}

func jsonError(err error, dec *json.Decoder) error {
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &syntaxErr):
		return &FormatParseError{Format: FormatJSON, Offset: int(syntaxErr.Offset), Detail: syntaxErr.Error()}
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return &FormatParseError{Format: FormatJSON, Offset: int(dec.InputOffset()), Detail: "unexpected end of JSON input"}
	default:
		return &FormatParseError{Format: FormatJSON, Offset: -1, Detail: err.Error()}
	}
}
