// Package speech streams dictated text from a speech recognizer.
package speech

import (
	"context"
	"errors"
)

// DefaultLocale is the recognition locale used when none is configured.
const DefaultLocale = "en-US"

// ErrUnavailable reports that no recognizer can run on this machine.
var ErrUnavailable = errors.New("speech recognition is not available")

// Result is a single transcription emitted by a session.
type Result struct {
	Text  string // transcribed text (interim or final)
	Final bool   // false for interim hypotheses
	Err   error  // non-nil when the session faulted
}

// Session is a running capture. Results is closed once the session ends,
// whether by Stop, a fault or the recognizer finishing on its own.
type Session interface {
	Results() <-chan Result
	// Stop ends the capture and blocks until Results is closed.
	Stop() error
}

// Recognizer starts continuous capture sessions.
type Recognizer interface {
	// Available is the pre-flight capability check.
	Available() error
	Start(ctx context.Context, locale string) (Session, error)
}
