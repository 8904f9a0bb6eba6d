package blobstore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Store keeps uploaded payment-proof artifacts and hands back an opaque
// reference. The engine never reads blobs back; operators fetch them out
// of band when verifying payments.
type Store interface {
	Save(filename string, data []byte) (string, error)
}

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".pdf":  true,
}

// allowedContent guards against renamed files; the sniffed type must
// agree with the extension family.
var allowedContent = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"application/pdf": true,
}

type diskStore struct {
	dir      string
	maxBytes int64
	log      *zap.Logger
}

func NewDiskStore(dir string, maxBytes int64, log *zap.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &diskStore{
		dir:      dir,
		maxBytes: maxBytes,
		log:      log.With(zap.String("component", "blobstore")),
	}, nil
}

func (s *diskStore) Save(filename string, data []byte) (string, error) {
	if int64(len(data)) > s.maxBytes {
		return "", fmt.Errorf("file exceeds %d bytes", s.maxBytes)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("file is empty")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %q not allowed, use jpg, jpeg, png, or pdf", ext)
	}

	detected := mimetype.Detect(data)
	if !allowedContent[detected.String()] {
		return "", fmt.Errorf("file content %s does not match an allowed type", detected.String())
	}

	ref := uuid.New().String() + ext
	path := filepath.Join(s.dir, ref)

	if err := os.WriteFile(path, data, 0644); err != nil {
		s.log.Error("Failed to write payment proof",
			zap.Error(err),
			zap.String("ref", ref),
		)
		return "", fmt.Errorf("store payment proof: %w", err)
	}

	s.log.Info("Payment proof stored",
		zap.String("ref", ref),
		zap.Int("bytes", len(data)),
		zap.String("content_type", detected.String()),
	)

	return ref, nil
}
