package blobstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

var pngData = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")
var jpegData = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00\x01")
var pdfData = []byte("%PDF-1.4\n%%EOF\n")

func newTestStore(t *testing.T, maxBytes int64) (Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewDiskStore(dir, maxBytes, zap.NewNop())
	if err != nil {
		t.Fatalf("NewDiskStore: %v", err)
	}
	return store, dir
}

func TestSaveAcceptedTypes(t *testing.T) {
	store, dir := newTestStore(t, 1<<20)

	tests := []struct {
		filename string
		data     []byte
	}{
		{"receipt.png", pngData},
		{"receipt.jpg", jpegData},
		{"receipt.jpeg", jpegData},
		{"receipt.pdf", pdfData},
	}

	for _, tt := range tests {
		ref, err := store.Save(tt.filename, tt.data)
		if err != nil {
			t.Errorf("Save(%q): %v", tt.filename, err)
			continue
		}
		if got := filepath.Ext(ref); got != strings.ToLower(filepath.Ext(tt.filename)) {
			t.Errorf("ref %q extension mismatch for %q", ref, tt.filename)
		}
		if _, err := os.Stat(filepath.Join(dir, ref)); err != nil {
			t.Errorf("blob %q not on disk: %v", ref, err)
		}
	}
}

func TestSaveRefIsOpaque(t *testing.T) {
	store, _ := newTestStore(t, 1<<20)

	ref, err := store.Save("receipt.png", pngData)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if strings.Contains(ref, "receipt") {
		t.Errorf("ref %q leaks the original filename", ref)
	}
}

func TestSaveRejectsOversize(t *testing.T) {
	store, _ := newTestStore(t, 16)

	if _, err := store.Save("receipt.png", pngData); err == nil {
		t.Fatal("oversize file accepted")
	}
}

func TestSaveRejectsEmptyFile(t *testing.T) {
	store, _ := newTestStore(t, 1<<20)

	if _, err := store.Save("receipt.png", nil); err == nil {
		t.Fatal("empty file accepted")
	}
}

func TestSaveRejectsDisallowedExtension(t *testing.T) {
	store, _ := newTestStore(t, 1<<20)

	if _, err := store.Save("receipt.exe", pngData); err == nil {
		t.Fatal("disallowed extension accepted")
	}
}

func TestSaveRejectsMismatchedContent(t *testing.T) {
	store, _ := newTestStore(t, 1<<20)

	// A text file renamed to .png must be caught by content sniffing.
	if _, err := store.Save("receipt.png", []byte("just some text")); err == nil {
		t.Fatal("renamed text file accepted")
	}
}
