package acquire

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendSegmentBoundary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		buf     string
		segment string
		want    string
	}{
		{"adds space", "foo", "bar", "foo bar"},
		{"keeps trailing space", "foo ", "bar", "foo bar"},
		{"keeps trailing newline", "foo\n", "bar", "foo\nbar"},
		{"empty buffer", "", "bar", "bar"},
		{"empty segment", "foo", "", "foo"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AppendSegment(tt.buf, tt.segment))
		})
	}
}

func TestSetTextLastWriteWins(t *testing.T) {
	t.Parallel()

	u := New(Options{})
	u.SetText("first")
	u.SetText("second")
	assert.Equal(t, "second", u.Text())
	assert.Equal(t, Idle, u.Status())

	select {
	case <-u.Changed():
	default:
		t.Fatal("expected a change notification")
	}
}

func TestExtractTextFileRoundTrip(t *testing.T) {
	t.Parallel()

	u := New(Options{})
	u.SetText("old")
	err := u.ExtractFile(context.Background(), FileFromBytes("notes.txt", "text/plain", []byte("Hello world")))
	require.NoError(t, err)

	snap := u.Snapshot()
	assert.Equal(t, "Hello world", snap.Text)
	assert.Equal(t, "notes.txt", snap.FileName)
	assert.Equal(t, Idle, snap.Status)
}

func TestExtractMarkdownByExtensionKeepsWhitespace(t *testing.T) {
	t.Parallel()

	u := New(Options{})
	err := u.ExtractFile(context.Background(), FileFromBytes("Lecture.MD", "", []byte("  # Cells\n\n")))
	require.NoError(t, err)
	assert.Equal(t, "  # Cells\n\n", u.Text())
}

func TestExtractUnsupportedFileLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	u := New(Options{})
	u.SetText("keep me")
	opened := false
	f := File{
		Name:      "diagram.png",
		MediaType: "image/png",
		Open: func() (io.ReadCloser, error) {
			opened = true
			return nil, errors.New("should not be opened")
		},
	}

	err := u.ExtractFile(context.Background(), f)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnsupportedFileType))
	assert.False(t, opened)
	assert.Equal(t, "keep me", u.Text())
	assert.Equal(t, Idle, u.Status())
	assert.Equal(t, "Please upload plain text files (.txt, .md) or PDF files (.pdf).", Message(err))
}

func TestExtractTextReadFailures(t *testing.T) {
	t.Parallel()

	u := New(Options{})
	u.SetText("keep me")

	broken := File{
		Name:      "notes.txt",
		MediaType: "text/plain",
		Open:      func() (io.ReadCloser, error) { return nil, errors.New("permission denied") },
	}
	err := u.ExtractFile(context.Background(), broken)
	assert.True(t, IsKind(err, KindFileRead))

	err = u.ExtractFile(context.Background(), FileFromBytes("notes.txt", "text/plain", []byte{0xff, 0xfe, 0x00}))
	assert.True(t, IsKind(err, KindFileRead))

	assert.Equal(t, "keep me", u.Text())
	assert.Equal(t, Idle, u.Status())
}

func TestExtractPDFKeepsPageOrder(t *testing.T) {
	t.Parallel()

	doc := fakeDocument{pages: []fakePage{
		{text: "A", delay: 30 * time.Millisecond},
		{text: "B", delay: 15 * time.Millisecond},
		{text: "C"},
	}}
	u := New(Options{OpenPDF: openerFor(doc)})

	err := u.ExtractFile(context.Background(), FileFromBytes("paper.pdf", "application/pdf", []byte("%PDF")))
	require.NoError(t, err)
	assert.Equal(t, "A\n\nB\n\nC\n\n", u.Text())
	assert.Equal(t, Idle, u.Status())
}

func TestExtractPDFFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opener PDFOpener
		kind   ErrorKind
	}{
		{"blank pages", openerFor(fakeDocument{pages: []fakePage{{text: "  "}, {text: "\n"}}}), KindEmptyExtraction},
		{"no pages", openerFor(fakeDocument{}), KindEmptyExtraction},
		{"page error", openerFor(fakeDocument{pages: []fakePage{{text: "A"}, {err: errors.New("bad stream")}}}), KindFileParse},
		{"open error", brokenOpener, KindFileParse},
		{"real parser on garbage", OpenPDF, KindFileParse},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := New(Options{OpenPDF: tt.opener})
			u.SetText("keep me")
			err := u.ExtractFile(context.Background(), FileFromBytes("scan.pdf", "", []byte("definitely not a pdf")))
			require.Error(t, err)
			assert.True(t, IsKind(err, tt.kind), "got %v", err)
			assert.Equal(t, "keep me", u.Text())
			assert.Equal(t, Idle, u.Status())
		})
	}
}

func TestClearDuringExtractionDropsResult(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := File{
		Name:      "slow.txt",
		MediaType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			<-release
			return io.NopCloser(stringsReader("late text")), nil
		},
	}
	u := New(Options{})
	done := make(chan error, 1)
	go func() { done <- u.ExtractFile(context.Background(), f) }()

	require.Eventually(t, func() bool { return u.Status() == ReadingFile }, time.Second, time.Millisecond)
	u.Clear()
	assert.Equal(t, Idle, u.Status())
	close(release)
	require.NoError(t, <-done)

	assert.Equal(t, "", u.Text())
	assert.Equal(t, Idle, u.Status())
}

func TestVoiceRejectedWhileReadingFile(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	f := File{
		Name:      "slow.txt",
		MediaType: "text/plain",
		Open: func() (io.ReadCloser, error) {
			<-release
			return io.NopCloser(stringsReader("body")), nil
		},
	}
	rec := &fakeRecognizer{}
	u := New(Options{Recognizer: rec})
	done := make(chan error, 1)
	go func() { done <- u.ExtractFile(context.Background(), f) }()
	require.Eventually(t, func() bool { return u.Status() == ReadingFile }, time.Second, time.Millisecond)

	listening, err := u.ToggleVoice(context.Background())
	assert.False(t, listening)
	assert.True(t, IsKind(err, KindBusy))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, "body", u.Text())
}
