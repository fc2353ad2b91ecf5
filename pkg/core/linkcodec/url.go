package linkcodec

import (
	"net/url"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/domain"
)

// QueryParam is the query parameter carrying a token in shareable URLs.
const QueryParam = "data"

// FromURL returns the entries in u's data parameter, or nil when it is
// missing or invalid.
func FromURL(u *url.URL) []domain.RawEntry {
	token := u.Query().Get(QueryParam)
	if token == "" {
		return nil
	}
	return Decode(token)
}

// SetToken returns a copy of u with the data parameter set to token, or
// removed when token is empty.
func SetToken(u *url.URL, token string) *url.URL {
	next := *u
	q := next.Query()
	if token == "" {
		q.Del(QueryParam)
	} else {
		q.Set(QueryParam, token)
	}
	next.RawQuery = q.Encode()
	return &next
}
