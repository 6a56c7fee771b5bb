package acquire

import (
	"errors"
	"fmt"
)

// ErrorKind classifies acquisition failures.
type ErrorKind string

const (
	KindUnsupportedFileType   ErrorKind = "unsupported_file_type"
	KindFileRead              ErrorKind = "file_read"
	KindFileParse             ErrorKind = "file_parse"
	KindEmptyExtraction       ErrorKind = "empty_extraction"
	KindCapabilityUnavailable ErrorKind = "capability_unavailable"
	KindBusy                  ErrorKind = "busy"
)

// Error is returned by every failing acquisition operation. The buffer is
// never modified when one is returned.
type Error struct {
	Kind ErrorKind
	Name string // file name, when one was involved
	Err  error
}

func (e *Error) Error() string {
	var subject string
	if e.Name != "" {
		subject = fmt.Sprintf(" (%s)", e.Name)
	}
	if e.Err != nil {
		return fmt.Sprintf("acquire %s%s: %v", e.Kind, subject, e.Err)
	}
	return fmt.Sprintf("acquire %s%s", e.Kind, subject)
}

func (e *Error) Unwrap() error { return e.Err }

// Message is the notice shown to the user.
func (e *Error) Message() string {
	switch e.Kind {
	case KindUnsupportedFileType:
		return "Please upload plain text files (.txt, .md) or PDF files (.pdf)."
	case KindFileRead:
		return "Failed to read text file."
	case KindFileParse:
		return "Failed to parse PDF. Please try a different file."
	case KindEmptyExtraction:
		return "Could not extract text from this PDF. It might be an image-based PDF."
	case KindCapabilityUnavailable:
		return "Voice input is not available. Configure a dictation command (speech.command) to enable it."
	case KindBusy:
		return "Finish the current input action before starting another."
	default:
		return e.Error()
	}
}

// IsKind reports whether err is an acquisition error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var aerr *Error
	return errors.As(err, &aerr) && aerr.Kind == kind
}

// Message returns the user notice for err, falling back to its text.
func Message(err error) string {
	var aerr *Error
	if errors.As(err, &aerr) {
		return aerr.Message()
	}
	return err.Error()
}
