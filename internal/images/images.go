// Package images stores uploaded giftcard artwork.
package images

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"path"
	"regexp"
	"strings"
)

const (
	keyPrefix  = "giftcards/"
	PublicPath = "/giftcard-images/"
)

var (
	ErrNotFound    = errors.New("image not found")
	ErrInvalidName = errors.New("invalid image filename")
	ErrInvalidData = errors.New("invalid image data")

	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Get(ctx context.Context, key string) ([]byte, string, error)
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	base := path.Base(name)
	base = unsafeChars.ReplaceAllString(base, "_")
	base = strings.TrimLeft(base, ".")
	if base == "" {
		return "", ErrInvalidName
	}
	return base, nil
}

// DecodeData accepts a data URL ("data:image/png;base64,...") or raw base64.
func DecodeData(raw string) ([]byte, string, error) {
	payload := strings.TrimSpace(raw)
	contentType := ""
	if strings.HasPrefix(payload, "data:") {
		meta, data, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, "", fmt.Errorf("%w: unsupported data url", ErrInvalidData)
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(meta, "data:"), ";base64")
		payload = data
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil || len(decoded) == 0 {
		return nil, "", fmt.Errorf("%w: not base64", ErrInvalidData)
	}

	if contentType == "" {
		contentType = http.DetectContentType(decoded)
	}
	return decoded, contentType, nil
}

// Save decodes and stores an upload and returns the public path it is served at.
func Save(ctx context.Context, s Store, filename, data string) (string, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		return "", err
	}
	decoded, contentType, err := DecodeData(data)
	if err != nil {
		return "", err
	}
	if err := s.Put(ctx, keyPrefix+name, decoded, contentType); err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return PublicPath + name, nil
}

func Load(ctx context.Context, s Store, name string) ([]byte, string, error) {
	clean, err := SanitizeFilename(name)
	if err != nil || clean != name {
		return nil, "", ErrNotFound
	}
	return s.Get(ctx, keyPrefix+clean)
}
