package upload

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

// pngHeader is the 8-byte PNG signature followed by padding; enough for
// content sniffing to identify image/png.
var pngHeader = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, make([]byte, 16)...)

func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write(content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["file"][0]
}

func TestRead_AcceptsAllowedType(t *testing.T) {
	fh := fileHeader(t, "scan.png", pngHeader)

	f, err := Read(fh, 1<<20, "image/jpeg", "image/png", "application/pdf")
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if f.Ext != ".png" {
		t.Fatalf("expected .png extension, got %q", f.Ext)
	}
	if !bytes.Equal(f.Content, pngHeader) {
		t.Fatalf("content mismatch")
	}
}

func TestRead_RejectsWrongType(t *testing.T) {
	fh := fileHeader(t, "notes.txt", []byte("plain text, not an image"))

	_, err := Read(fh, 1<<20, "image/jpeg", "image/png", "application/pdf")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestRead_RejectsOversize(t *testing.T) {
	fh := fileHeader(t, "scan.png", pngHeader)

	_, err := Read(fh, 4, "image/png")
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}
