package export

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard utility is installed.
var ErrClipboardUnavailable = errors.New("clipboard is not available on this system")

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard uses the platform clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	return clipboard.WriteAll(text)
}

// Copy places markdown on cb, verbatim.
func Copy(cb Clipboard, markdown string) error {
	if markdown == "" {
		return ErrEmptyDocument
	}
	if cb == nil {
		cb = SystemClipboard{}
	}
	return cb.WriteAll(markdown)
}
