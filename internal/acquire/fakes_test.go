package acquire

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/csheth/studyshift/internal/speech"
)

type fakeRecognizer struct {
	availableErr error
	startErr     error

	mu       sync.Mutex
	sessions []*fakeSession
	locales  []string
}

func (r *fakeRecognizer) Available() error { return r.availableErr }

func (r *fakeRecognizer) Start(_ context.Context, locale string) (speech.Session, error) {
	if r.startErr != nil {
		return nil, r.startErr
	}
	s := newFakeSession()
	r.mu.Lock()
	r.sessions = append(r.sessions, s)
	r.locales = append(r.locales, locale)
	r.mu.Unlock()
	return s, nil
}

func (r *fakeRecognizer) last() *fakeSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[len(r.sessions)-1]
}

type fakeSession struct {
	results   chan speech.Result
	stop      chan struct{}
	stopOnce  sync.Once
	closeOnce sync.Once
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		results: make(chan speech.Result),
		stop:    make(chan struct{}),
	}
}

func (s *fakeSession) Results() <-chan speech.Result { return s.results }

func (s *fakeSession) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	s.finish()
	return nil
}

// finish ends the session as if the recognizer stopped on its own.
func (s *fakeSession) finish() {
	s.closeOnce.Do(func() { close(s.results) })
}

// emit delivers res to the consumer; it reports false once stopped.
func (s *fakeSession) emit(res speech.Result) bool {
	select {
	case <-s.stop:
		return false
	default:
	}
	select {
	case s.results <- res:
		return true
	case <-s.stop:
		return false
	case <-time.After(5 * time.Second):
		return false
	}
}

func (s *fakeSession) stopped() bool {
	select {
	case <-s.stop:
		return true
	default:
		return false
	}
}

type fakePage struct {
	text  string
	delay time.Duration
	err   error
}

type fakeDocument struct {
	pages []fakePage
}

func (d fakeDocument) NumPage() int { return len(d.pages) }

func (d fakeDocument) PageText(ctx context.Context, n int) (string, error) {
	p := d.pages[n-1]
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return p.text, p.err
}

func openerFor(doc fakeDocument) PDFOpener {
	return func([]byte) (PageSource, error) { return doc, nil }
}

var errBrokenOpener = errors.New("xref table corrupt")

func brokenOpener([]byte) (PageSource, error) { return nil, errBrokenOpener }
