package acquire

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/studyshift/internal/speech"
)

func stringsReader(s string) *strings.Reader { return strings.NewReader(s) }

func waitText(t *testing.T, u *Unit, want string) {
	t.Helper()
	require.Eventually(t, func() bool { return u.Text() == want }, 2*time.Second, time.Millisecond, "buffer %q", u.Text())
}

func TestToggleVoiceUnavailable(t *testing.T) {
	t.Parallel()

	u := New(Options{})
	listening, err := u.ToggleVoice(context.Background())
	assert.False(t, listening)
	assert.True(t, IsKind(err, KindCapabilityUnavailable))
	assert.Equal(t, Idle, u.Status())

	u = New(Options{Recognizer: &fakeRecognizer{availableErr: speech.ErrUnavailable}})
	_, err = u.ToggleVoice(context.Background())
	assert.True(t, IsKind(err, KindCapabilityUnavailable))
	assert.ErrorIs(t, err, speech.ErrUnavailable)
	assert.Equal(t, Idle, u.Status())

	u = New(Options{Recognizer: &fakeRecognizer{startErr: errors.New("device busy")}})
	_, err = u.ToggleVoice(context.Background())
	assert.True(t, IsKind(err, KindCapabilityUnavailable))
	assert.Equal(t, Idle, u.Status())
}

func TestVoiceAppendsFinalSegmentsOnly(t *testing.T) {
	t.Parallel()

	rec := &fakeRecognizer{}
	u := New(Options{Recognizer: rec})
	u.SetText("foo")

	listening, err := u.ToggleVoice(context.Background())
	require.NoError(t, err)
	require.True(t, listening)
	assert.Equal(t, Listening, u.Status())
	assert.Equal(t, []string{"en-US"}, rec.locales)

	s := rec.last()
	require.True(t, s.emit(speech.Result{Text: "ba", Final: false}))
	require.True(t, s.emit(speech.Result{Text: "bar", Final: true}))
	waitText(t, u, "foo bar")
	require.True(t, s.emit(speech.Result{Text: "baz", Final: true}))
	waitText(t, u, "foo bar baz")

	listening, err = u.ToggleVoice(context.Background())
	require.NoError(t, err)
	assert.False(t, listening)
	assert.Equal(t, Idle, u.Status())
	assert.True(t, s.stopped())
	assert.False(t, s.emit(speech.Result{Text: "late", Final: true}))
	assert.Equal(t, "foo bar baz", u.Text())
}

func TestVoiceFaultIsImplicitStop(t *testing.T) {
	t.Parallel()

	rec := &fakeRecognizer{}
	u := New(Options{Recognizer: rec})
	_, err := u.ToggleVoice(context.Background())
	require.NoError(t, err)

	s := rec.last()
	require.True(t, s.emit(speech.Result{Text: "hello", Final: true}))
	waitText(t, u, "hello")
	require.True(t, s.emit(speech.Result{Err: errors.New("network")}))

	require.Eventually(t, func() bool { return u.Status() == Idle }, 2*time.Second, time.Millisecond)
	assert.True(t, s.stopped())
	assert.Equal(t, "hello", u.Text())
}

func TestVoiceSessionEndingReturnsToIdle(t *testing.T) {
	t.Parallel()

	rec := &fakeRecognizer{}
	u := New(Options{Recognizer: rec})
	_, err := u.ToggleVoice(context.Background())
	require.NoError(t, err)

	rec.last().finish()
	require.Eventually(t, func() bool { return u.Status() == Idle }, 2*time.Second, time.Millisecond)
}

func TestStaleCaptureCannotAppend(t *testing.T) {
	t.Parallel()

	rec := &fakeRecognizer{}
	u := New(Options{Recognizer: rec})
	_, err := u.ToggleVoice(context.Background())
	require.NoError(t, err)

	u.mu.Lock()
	stale := u.capture
	u.mu.Unlock()

	_, err = u.ToggleVoice(context.Background())
	require.NoError(t, err)
	u.appendSegment(stale, "ghost")
	assert.Equal(t, "", u.Text())
}

func TestExtractionRejectedWhileListening(t *testing.T) {
	t.Parallel()

	rec := &fakeRecognizer{}
	u := New(Options{Recognizer: rec})
	u.SetText("typed")
	_, err := u.ToggleVoice(context.Background())
	require.NoError(t, err)

	err = u.ExtractFile(context.Background(), FileFromBytes("notes.txt", "text/plain", []byte("file")))
	assert.True(t, IsKind(err, KindBusy))
	assert.Equal(t, Listening, u.Status())
	assert.Equal(t, "typed", u.Text())
}

func TestClearStopsCapture(t *testing.T) {
	t.Parallel()

	rec := &fakeRecognizer{}
	u := New(Options{Recognizer: rec})
	require.NoError(t, u.ExtractFile(context.Background(), FileFromBytes("a.txt", "", []byte("abc"))))
	_, err := u.ToggleVoice(context.Background())
	require.NoError(t, err)

	u.Clear()
	snap := u.Snapshot()
	assert.Equal(t, Snapshot{Status: Idle}, snap)
	assert.True(t, rec.last().stopped())
}
