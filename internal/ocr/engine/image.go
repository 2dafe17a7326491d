package engine

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type encodedImage struct {
	data     []byte
	mimeType string
}

func readImage(path string) (*encodedImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	return &encodedImage{data: data, mimeType: mimeTypeFor(path)}, nil
}

func (e *encodedImage) base64() string {
	return base64.StdEncoding.EncodeToString(e.data)
}

func (e *encodedImage) dataURI() string {
	return "data:" + e.mimeType + ";base64," + e.base64()
}

func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".tif", ".tiff":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	}
	return "image/jpeg"
}
