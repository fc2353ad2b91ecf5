// Package location keeps a comparison token in the data parameter of a URL,
// the way a browser page keeps it in its address bar.
package location

import (
	"net/url"
	"sync"

	"github.com/wadjakorntonsri/unserialize-compare/pkg/core/linkcodec"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
)

type Location struct {
	mu  sync.Mutex
	url *url.URL
}

func New(u *url.URL) *Location {
	copied := *u
	return &Location{url: &copied}
}

// Parse is New for a textual URL.
func Parse(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	return New(u), nil
}

// Replace sets the data parameter to token, or removes it when token is
// empty. Other query parameters are kept.
func (l *Location) Replace(token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.url = linkcodec.SetToken(l.url, token)
	return nil
}

// Token returns the current data parameter.
func (l *Location) Token() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url.Query().Get(linkcodec.QueryParam)
}

func (l *Location) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.url.String()
}

var _ ports.History = (*Location)(nil)
