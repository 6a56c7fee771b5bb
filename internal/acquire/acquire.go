// Package acquire owns the study-material buffer and the producers that fill
// it: manual edits, file extraction and voice capture.
package acquire

import (
	"context"
	"sync"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/csheth/studyshift/internal/speech"
)

// Status is the acquisition state. Exactly one holds at a time.
type Status int

const (
	Idle Status = iota
	ReadingFile
	Listening
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case ReadingFile:
		return "reading file"
	case Listening:
		return "listening"
	default:
		return "unknown"
	}
}

// Options configures a Unit.
type Options struct {
	Recognizer speech.Recognizer
	Locale     string
	OpenPDF    PDFOpener
	Logger     *zap.Logger
}

// Snapshot is a consistent view of the unit.
type Snapshot struct {
	Text     string
	FileName string
	Status   Status
}

// Unit is the input acquisition state machine. It is safe for concurrent use.
type Unit struct {
	mu       sync.Mutex
	text     string
	fileName string
	status   Status
	capture  *capture
	// generation invalidates in-flight extractions when the buffer is cleared.
	generation uint64

	recognizer speech.Recognizer
	locale     string
	openPDF    PDFOpener
	logger     *zap.Logger
	changed    chan struct{}
}

// New builds an idle Unit with an empty buffer.
func New(opts Options) *Unit {
	if opts.Locale == "" {
		opts.Locale = speech.DefaultLocale
	}
	if opts.OpenPDF == nil {
		opts.OpenPDF = OpenPDF
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Unit{
		recognizer: opts.Recognizer,
		locale:     opts.Locale,
		openPDF:    opts.OpenPDF,
		logger:     opts.Logger.Named("acquire"),
		changed:    make(chan struct{}, 1),
	}
}

// Changed signals that the buffer or status changed. Signals coalesce, so
// receivers should re-read the Snapshot.
func (u *Unit) Changed() <-chan struct{} {
	return u.changed
}

func (u *Unit) notify() {
	select {
	case u.changed <- struct{}{}:
	default:
	}
}

func (u *Unit) Snapshot() Snapshot {
	u.mu.Lock()
	defer u.mu.Unlock()
	return Snapshot{Text: u.text, FileName: u.fileName, Status: u.status}
}

func (u *Unit) Text() string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.text
}

func (u *Unit) Status() Status {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.status
}

// SetText replaces the buffer. Last write wins.
func (u *Unit) SetText(value string) {
	u.mu.Lock()
	u.text = value
	u.mu.Unlock()
	u.notify()
}

// Clear stops any capture, drops pending extraction results and empties the
// buffer.
func (u *Unit) Clear() {
	u.mu.Lock()
	c := u.capture
	u.capture = nil
	u.text = ""
	u.fileName = ""
	u.status = Idle
	u.generation++
	u.mu.Unlock()
	if c != nil {
		_ = c.session.Stop()
	}
	u.notify()
}

// ExtractFile replaces the buffer with the text content of f. Unsupported
// files are rejected before any state change.
func (u *Unit) ExtractFile(ctx context.Context, f File) error {
	kind := resolveKind(f)
	if kind == kindUnsupported {
		return &Error{Kind: KindUnsupportedFileType, Name: f.Name}
	}

	u.mu.Lock()
	if u.status != Idle {
		u.mu.Unlock()
		return &Error{Kind: KindBusy, Name: f.Name}
	}
	u.status = ReadingFile
	gen := u.generation
	u.mu.Unlock()
	u.notify()

	text, err := u.extract(ctx, kind, f)

	u.mu.Lock()
	current := gen == u.generation
	if current {
		u.status = Idle
		if err == nil {
			u.text = text
			u.fileName = f.Name
		}
	}
	u.mu.Unlock()
	u.notify()

	if err != nil {
		u.logger.Warn("file extraction failed", zap.String("file", f.Name), zap.Error(err))
		return err
	}
	if !current {
		u.logger.Debug("discarding extraction after clear", zap.String("file", f.Name))
	}
	return nil
}

func (u *Unit) extract(ctx context.Context, kind fileKind, f File) (string, error) {
	data, err := readFile(f)
	if err != nil {
		return "", &Error{Kind: KindFileRead, Name: f.Name, Err: err}
	}
	switch kind {
	case kindText:
		text, err := decodeText(data)
		if err != nil {
			return "", &Error{Kind: KindFileRead, Name: f.Name, Err: err}
		}
		return text, nil
	case kindPDF:
		doc, err := u.openPDF(data)
		if err != nil {
			return "", &Error{Kind: KindFileParse, Name: f.Name, Err: err}
		}
		text, err := extractPages(ctx, doc)
		if err != nil {
			return "", &Error{Kind: KindFileParse, Name: f.Name, Err: err}
		}
		if isBlank(text) {
			return "", &Error{Kind: KindEmptyExtraction, Name: f.Name}
		}
		return text, nil
	default:
		return "", &Error{Kind: KindUnsupportedFileType, Name: f.Name}
	}
}

// AppendSegment joins a dictated segment onto buf, inserting one space when
// buf is non-empty and does not already end in whitespace.
func AppendSegment(buf, segment string) string {
	if segment == "" {
		return buf
	}
	if buf == "" {
		return segment
	}
	last, _ := utf8.DecodeLastRuneInString(buf)
	if unicode.IsSpace(last) {
		return buf + segment
	}
	return buf + " " + segment
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
