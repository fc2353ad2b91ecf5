package linkcodec

import (
	"net/url"
	"reflect"
	"testing"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

func TestURLParameter(t *testing.T) {
	base, _ := url.Parse("https://example.com/compare?lang=en")
	entries := []domain.RawEntry{{Title: "x", Text: `{"a":1}`}}

	withData := SetToken(base, Encode(entries))
	if withData.Query().Get("lang") != "en" {
		t.Error("other parameters should be kept")
	}
	if base.Query().Get(QueryParam) != "" {
		t.Error("input URL should not be modified")
	}
	if got := FromURL(withData); !reflect.DeepEqual(got, entries) {
		t.Errorf("FromURL = %+v", got)
	}

	// parse the string form to make sure query escaping round-trips
	reparsed, err := url.Parse(withData.String())
	if err != nil {
		t.Fatal(err)
	}
	if got := FromURL(reparsed); !reflect.DeepEqual(got, entries) {
		t.Errorf("FromURL after reparse = %+v", got)
	}

	cleared := SetToken(withData, "")
	if cleared.Query().Has(QueryParam) {
		t.Error("empty token should remove the parameter")
	}
	if FromURL(cleared) != nil {
		t.Error("FromURL without parameter should be nil")
	}
}
