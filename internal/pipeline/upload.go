package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const DefaultMaxImageSize = 10 * 1024 * 1024

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrImageTooLarge   = errors.New("image too large")
)

var uploadExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// ValidateUpload accepts existing jpg, jpeg and png files up to maxSize bytes
// (10MB when maxSize is not positive).
func ValidateUpload(path string, maxSize int64) error {
	if maxSize <= 0 {
		maxSize = DefaultMaxImageSize
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !uploadExtensions[ext] {
		return fmt.Errorf("%w %q: %s", ErrUnsupportedType, ext, path)
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading upload %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrUnsupportedType, path)
	}
	if info.Size() > maxSize {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrImageTooLarge, path, info.Size(), maxSize)
	}
	return nil
}

// isRejectedUpload reports whether err came from the upload boundary.
func isRejectedUpload(err error) bool {
	return errors.Is(err, ErrUnsupportedType) || errors.Is(err, ErrImageTooLarge)
}
