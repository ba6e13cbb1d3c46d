package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxImageSize limits uploaded images to 10MB.
const MaxImageSize = 10 << 20

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
}

// Upload is an image submitted with a post.
type Upload struct {
	Filename string
	Content  io.Reader
}

// MediaStore keeps uploaded binaries and hands back a stable relative path.
type MediaStore interface {
	Save(ctx context.Context, upload Upload) (string, error)
	Delete(ctx context.Context, path string) error
}

// LocalMedia stores images on the local filesystem under Root/posts/.
type LocalMedia struct {
	Root string
}

func NewLocalMedia(root string) *LocalMedia {
	return &LocalMedia{Root: root}
}

// Save validates that the upload is an image and writes it under a random
// name. The returned path is relative to Root and uses forward slashes.
func (m *LocalMedia) Save(ctx context.Context, upload Upload) (string, error) {
	if upload.Content == nil {
		return "", &ValidationError{Field: "image", Reason: "no file was submitted"}
	}

	data, err := io.ReadAll(io.LimitReader(upload.Content, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", &ValidationError{Field: "image", Reason: "the submitted file is empty"}
	}
	if len(data) > MaxImageSize {
		return "", &ValidationError{Field: "image", Reason: "image must not exceed 10MB"}
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", &ValidationError{Field: "image", Reason: "upload a valid image"}
	}

	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !imageExtensions[ext] {
		// Fall back to the sniffed type.
		switch contentType {
		case "image/jpeg":
			ext = ".jpg"
		case "image/png":
			ext = ".png"
		case "image/gif":
			ext = ".gif"
		case "image/webp":
			ext = ".webp"
		default:
			ext = ".img"
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	rel := path.Join("posts", uuid.NewString()+ext)
	full := filepath.Join(m.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", rel, err)
	}
	return rel, nil
}

// Delete removes a stored file. Missing files are not an error.
func (m *LocalMedia) Delete(ctx context.Context, rel string) error {
	if rel == "" {
		return nil
	}
	clean := path.Clean("/" + rel)[1:]
	err := os.Remove(filepath.Join(m.Root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

var _ MediaStore = (*LocalMedia)(nil)
