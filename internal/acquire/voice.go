package acquire

import (
	"context"

	"go.uber.org/zap"

	"github.com/csheth/studyshift/internal/speech"
)

type capture struct {
	session speech.Session
}

// ToggleVoice starts capture when idle and stops it when listening. It
// reports whether the unit is listening afterwards.
func (u *Unit) ToggleVoice(ctx context.Context) (bool, error) {
	u.mu.Lock()
	switch u.status {
	case Listening:
		c := u.capture
		u.capture = nil
		u.status = Idle
		u.mu.Unlock()
		if c != nil {
			_ = c.session.Stop()
		}
		u.logger.Debug("voice capture stopped")
		u.notify()
		return false, nil
	case ReadingFile:
		u.mu.Unlock()
		return false, &Error{Kind: KindBusy}
	}
	u.mu.Unlock()

	if u.recognizer == nil {
		return false, &Error{Kind: KindCapabilityUnavailable}
	}
	if err := u.recognizer.Available(); err != nil {
		return false, &Error{Kind: KindCapabilityUnavailable, Err: err}
	}
	session, err := u.recognizer.Start(ctx, u.locale)
	if err != nil {
		u.logger.Warn("voice capture failed to start", zap.Error(err))
		return false, &Error{Kind: KindCapabilityUnavailable, Err: err}
	}

	u.mu.Lock()
	if u.status != Idle {
		u.mu.Unlock()
		_ = session.Stop()
		return false, &Error{Kind: KindBusy}
	}
	c := &capture{session: session}
	u.capture = c
	u.status = Listening
	u.mu.Unlock()

	u.logger.Debug("voice capture started", zap.String("locale", u.locale))
	go u.consume(c, session.Results())
	u.notify()
	return true, nil
}

// Listening reports whether a capture session is active.
func (u *Unit) Listening() bool {
	return u.Status() == Listening
}

func (u *Unit) consume(c *capture, results <-chan speech.Result) {
	for res := range results {
		if res.Err != nil {
			u.logger.Warn("voice capture fault", zap.Error(res.Err))
			if u.endCapture(c) {
				_ = c.session.Stop()
			}
			return
		}
		if !res.Final {
			continue
		}
		u.appendSegment(c, res.Text)
	}
	if u.endCapture(c) {
		u.logger.Debug("voice capture ended by recognizer")
	}
}

func (u *Unit) appendSegment(c *capture, segment string) {
	if segment == "" {
		return
	}
	u.mu.Lock()
	if u.capture != c {
		u.mu.Unlock()
		return
	}
	u.text = AppendSegment(u.text, segment)
	u.mu.Unlock()
	u.notify()
}

// endCapture drops c if it is still the active capture.
func (u *Unit) endCapture(c *capture) bool {
	u.mu.Lock()
	if u.capture != c {
		u.mu.Unlock()
		return false
	}
	u.capture = nil
	u.status = Idle
	u.mu.Unlock()
	u.notify()
	return true
}
