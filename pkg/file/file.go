package file

import (
	"context"
	"io"
	"mime"
	"path"
	"strings"
	"time"
)

// Object is an opened stored file. The caller closes Body.
type Object struct {
	Body        io.ReadCloser
	Size        int64
	ContentType string
	ModTime     time.Time
}

// Storage is implemented by LocalStorage and S3Storage.
type Storage interface {
	// Open returns the object at key or ErrFileNotFound.
	Open(ctx context.Context, key string) (*Object, error)
	// Save writes r to key, replacing an existing object.
	Save(ctx context.Context, key string, r io.Reader, contentType string) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Exists reports whether key holds an object.
	Exists(ctx context.Context, key string) bool
}

// ContentTypeByExt returns the MIME type for a file extension such as ".webp".
func ContentTypeByExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// cleanKey normalises key and rejects absolute or escaping keys.
func cleanKey(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, '\\') || strings.ContainsRune(key, 0) {
		return "", ErrInvalidPath
	}
	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "./") || strings.HasPrefix(key, "/") {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}
