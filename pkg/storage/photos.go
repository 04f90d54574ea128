package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

var (
	// ErrFileTooLarge is returned when an upload exceeds the configured size.
	ErrFileTooLarge = errors.New("file exceeds maximum size")
	// ErrUnsupportedType is returned when the sniffed content type is not allowed.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrInvalidPath is returned for references that escape the base directory.
	ErrInvalidPath = errors.New("invalid file reference")
)

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// PhotoStore persists journal evidence photos on disk under a base directory.
type PhotoStore struct {
	baseDir  string
	maxBytes int64
	allowed  map[string]struct{}
	now      func() time.Time
}

// NewPhotoStore ensures the base directory exists and returns a handle.
func NewPhotoStore(baseDir string, maxBytes int64, allowedMIMEs []string) (*PhotoStore, error) {
	if baseDir == "" {
		baseDir = "./uploads"
	}
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	allowed := make(map[string]struct{}, len(allowedMIMEs))
	for _, mime := range allowedMIMEs {
		allowed[strings.ToLower(mime)] = struct{}{}
	}
	return &PhotoStore{baseDir: baseDir, maxBytes: maxBytes, allowed: allowed, now: time.Now}, nil
}

// Save validates and writes an uploaded photo, returning its relative reference.
func (s *PhotoStore) Save(studentID string, r io.Reader) (string, error) {
	if studentID == "" {
		return "", ErrInvalidPath
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrFileTooLarge
	}
	mime := http.DetectContentType(data)
	if idx := strings.Index(mime, ";"); idx >= 0 {
		mime = mime[:idx]
	}
	if len(s.allowed) > 0 {
		if _, ok := s.allowed[mime]; !ok {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
		}
	}
	ext, ok := extensions[mime]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mime)
	}

	ref := filepath.ToSlash(filepath.Join("journals", studentID, fmt.Sprintf("%d%s", s.now().UnixNano(), ext)))
	path, err := s.resolve(ref)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return ref, nil
}

// Read returns the stored bytes and their detected content type.
func (s *PhotoStore) Read(ref string) ([]byte, string, error) {
	path, err := s.resolve(ref)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("open upload: %w", err)
	}
	return data, http.DetectContentType(data), nil
}

// Delete removes a stored photo if present.
func (s *PhotoStore) Delete(ref string) error {
	path, err := s.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

func (s *PhotoStore) resolve(ref string) (string, error) {
	if ref == "" || filepath.IsAbs(ref) {
		return "", ErrInvalidPath
	}
	cleaned := filepath.Clean(filepath.FromSlash(ref))
	if strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.baseDir, cleaned), nil
}

// IsTooLarge reports whether err signals an oversized upload.
func IsTooLarge(err error) bool {
	return errors.Is(err, ErrFileTooLarge)
}

// IsUnsupported reports whether err signals a rejected content type.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrInvalidPath)
}

