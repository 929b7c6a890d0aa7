// Package upload reads and validates multipart file uploads: a size
// ceiling plus content sniffing of the allowed MIME types, so a renamed
// executable never passes as a PDF.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrTooLarge        = errors.New("file exceeds the maximum allowed size")
	ErrUnsupportedType = errors.New("unsupported file type")
)

// File is a fully-read, validated upload.
type File struct {
	// Ext is the extension matching the sniffed MIME type, with the
	// leading dot.
	Ext     string
	Content []byte
}

// Read consumes the multipart part, enforces maxBytes, and sniffs the
// content against the allowed MIME types.
func Read(fh *multipart.FileHeader, maxBytes int64, allowed ...string) (File, error) {
	if fh.Size > maxBytes {
		return File{}, fmt.Errorf("%w (%d KB max)", ErrTooLarge, maxBytes/1024)
	}

	f, err := fh.Open()
	if err != nil {
		return File{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	// LimitReader guards against a lying Size header.
	content, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return File{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(content)) > maxBytes {
		return File{}, fmt.Errorf("%w (%d KB max)", ErrTooLarge, maxBytes/1024)
	}

	mime := mimetype.Detect(content)
	for _, a := range allowed {
		if mime.Is(a) {
			return File{Ext: mime.Extension(), Content: content}, nil
		}
	}
	return File{}, fmt.Errorf("%w: got %s", ErrUnsupportedType, mime.String())
}
