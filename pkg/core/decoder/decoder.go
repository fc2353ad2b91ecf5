// Package decoder classifies serialized text as PHP-serialized or JSON and
// decodes it into a domain.Value.
package decoder

import (
	"regexp"
	"strings"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

// Format labels reported alongside a decode result.
const (
	FormatPHP      = "PHP"
	FormatJSON     = "JSON"
	FormatPHPAuto  = "PHP (auto-detected)"
	FormatJSONAuto = "JSON (auto-detected)"
)

var phpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^[aibdsONCr]:\d+:`),
	regexp.MustCompile(`^a:\d+:\{`),
	regexp.MustCompile(`^O:\d+:"`),
}

// Result is the outcome of Decode. Exactly one of Value and Err is set.
// Format is empty when no format could be determined.
type Result struct {
	Value  *domain.Value
	Err    error
	Format string
}

// IsPHPSerialized reports whether trimmed text starts like a PHP-serialized
// composite or string.
func IsPHPSerialized(trimmed string) bool {
	for _, re := range phpPatterns {
		if re.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// IsJSON reports whether trimmed text is bracket-delimited like a JSON
// object or array. It does not validate the content.
func IsJSON(trimmed string) bool {
	return (strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}")) ||
		(strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]"))
}

// Decode classifies and decodes text.
//
// Input recognised as PHP or JSON by its shape is parsed with that grammar
// only; a failure there is final. Anything else is tried as JSON, then as
// PHP, and the label says the format was auto-detected.
func Decode(text string) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Err: ErrInputMissing}
	}

	if IsPHPSerialized(trimmed) {
		v, err := UnserializePHP(trimmed)
		return result(FormatPHP, v, err)
	}
	if IsJSON(trimmed) {
		v, err := ParseJSON(trimmed)
		return result(FormatJSON, v, err)
	}

	v, jsonErr := ParseJSON(trimmed)
	if jsonErr == nil {
		return Result{Value: &v, Format: FormatJSONAuto}
	}
	v, phpErr := UnserializePHP(trimmed)
	if phpErr == nil {
		return Result{Value: &v, Format: FormatPHPAuto}
	}
	return Result{Err: newUndeterminedError(jsonErr, phpErr)}
}

func result(format string, v domain.Value, err error) Result {
	if err != nil {
		return Result{Err: err, Format: format}
	}
	return Result{Value: &v, Format: format}
}

// DecodeEntry decodes the text of e and attaches the outcome.
func DecodeEntry(e domain.RawEntry) domain.DecodedEntry {
	res := Decode(e.Text)
	out := domain.DecodedEntry{
		Title:  e.Title,
		Text:   e.Text,
		Value:  res.Value,
		Format: res.Format,
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}
