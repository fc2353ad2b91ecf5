// Package clipboard writes shareable URLs to the system clipboard.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
	"github.com/wadjakorntonsri/unserialize-compare/pkg/ports"
)

// ErrUnsupported is returned when no clipboard utility is available, for
// example on a headless Linux host without xclip, xsel or wl-copy.
var ErrUnsupported = errors.New("clipboard is not available on this system")

type System struct{}

func New() System {
	return System{}
}

func (System) WriteText(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

var _ ports.Clipboard = System{}
