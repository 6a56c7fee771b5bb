package acquire

import (
	"bytes"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// File is an uploaded document handle.
type File struct {
	Name      string
	MediaType string
	Open      func() (io.ReadCloser, error)
}

// FileFromPath builds a File backed by the local filesystem. The media type
// is guessed from the extension.
func FileFromPath(path string) File {
	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return File{
		Name:      filepath.Base(path),
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// FileFromBytes wraps in-memory content.
func FileFromBytes(name, mediaType string, data []byte) File {
	return File{
		Name:      name,
		MediaType: mediaType,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

type fileKind int

const (
	kindUnsupported fileKind = iota
	kindText
	kindPDF
)

func resolveKind(f File) fileKind {
	name := strings.ToLower(f.Name)
	mediaType := strings.ToLower(strings.TrimSpace(f.MediaType))
	switch {
	case mediaType == "application/pdf" || strings.HasSuffix(name, ".pdf"):
		return kindPDF
	case mediaType == "text/plain" || mediaType == "text/markdown",
		strings.HasSuffix(name, ".md"), strings.HasSuffix(name, ".txt"):
		return kindText
	default:
		return kindUnsupported
	}
}

// Supported reports whether f would be accepted by ExtractFile.
func Supported(f File) bool {
	return resolveKind(f) != kindUnsupported
}
