package decoder

import "github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"

// Format renders a decoded value for display: strings verbatim, everything
// else as JSON indented by two spaces.
func Format(v domain.Value) string {
	if v.Kind() == domain.KindString {
		return v.StringValue()
	}
	return string(domain.MarshalIndent(v, "  "))
}
