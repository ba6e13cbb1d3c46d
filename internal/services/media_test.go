package services

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// smallGIF is a valid 1x1 transparent GIF.
var smallGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00,
	0x00, 0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02,
	0x44, 0x01, 0x00, 0x3b,
}

func storedFiles(t *testing.T, root string) []string {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, "posts"))
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestLocalMedia_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	m := NewLocalMedia(root)
	ctx := context.Background()

	rel, err := m.Save(ctx, Upload{Filename: "small.gif", Content: bytes.NewReader(smallGIF)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(rel, "posts/"))
	assert.True(t, strings.HasSuffix(rel, ".gif"))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, smallGIF, data)

	require.NoError(t, m.Delete(ctx, rel))
	assert.Empty(t, storedFiles(t, root))

	// Deleting twice is fine.
	require.NoError(t, m.Delete(ctx, rel))
}

func TestLocalMedia_ExtensionFromContent(t *testing.T) {
	m := NewLocalMedia(t.TempDir())

	rel, err := m.Save(context.Background(), Upload{Filename: "shell.php", Content: bytes.NewReader(smallGIF)})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(rel, ".gif"), rel)
}

func TestLocalMedia_Rejects(t *testing.T) {
	root := t.TempDir()
	m := NewLocalMedia(root)
	ctx := context.Background()

	tests := []struct {
		name   string
		upload Upload
	}{
		{"no content", Upload{Filename: "a.gif"}},
		{"empty", Upload{Filename: "a.gif", Content: bytes.NewReader(nil)}},
		{"not an image", Upload{Filename: "a.gif", Content: strings.NewReader("plain text, not a picture")}},
		{"too large", Upload{Filename: "a.gif", Content: bytes.NewReader(append(append([]byte{}, smallGIF...), make([]byte, MaxImageSize)...))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Save(ctx, tt.upload)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "image", verr.Field)
		})
	}
	assert.Empty(t, storedFiles(t, root))
}

func TestCreatePost_WithImage(t *testing.T) {
	root := t.TempDir()
	f := newFixture(t, WithMedia(NewLocalMedia(root)))
	author := f.user(t, "author")

	post, err := f.blog.CreatePost(f.ctx, author.ID, PostInput{
		Text:  "with picture",
		Image: &Upload{Filename: "small.gif", Content: bytes.NewReader(smallGIF)},
	})
	require.NoError(t, err)
	require.NotEmpty(t, post.Image)
	assert.FileExists(t, filepath.Join(root, filepath.FromSlash(post.Image)))

	// Replacing the image removes the old file.
	updated, err := f.blog.UpdatePost(f.ctx, post.ID, author.ID, PostUpdate{
		Image: &Upload{Filename: "other.gif", Content: bytes.NewReader(smallGIF)},
	})
	require.NoError(t, err)
	assert.NotEqual(t, post.Image, updated.Image)
	assert.NoFileExists(t, filepath.Join(root, filepath.FromSlash(post.Image)))
	assert.Len(t, storedFiles(t, root), 1)
}

func TestCreatePost_FailedTransactionDiscardsImage(t *testing.T) {
	root := t.TempDir()
	f := newFixture(t, WithMedia(NewLocalMedia(root)))
	author := f.user(t, "author")
	missing := uint(404)

	_, err := f.blog.CreatePost(f.ctx, author.ID, PostInput{
		Text:    "lost picture",
		GroupID: &missing,
		Image:   &Upload{Filename: "small.gif", Content: bytes.NewReader(smallGIF)},
	})
	require.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, storedFiles(t, root))
}

func TestCreatePost_ImageWithoutMediaStore(t *testing.T) {
	f := newFixture(t)
	author := f.user(t, "author")

	_, err := f.blog.CreatePost(f.ctx, author.ID, PostInput{
		Text:  "no storage",
		Image: &Upload{Filename: "small.gif", Content: bytes.NewReader(smallGIF)},
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdatePost_NonAuthorStoresNothing(t *testing.T) {
	root := t.TempDir()
	f := newFixture(t, WithMedia(NewLocalMedia(root)))
	author, stranger := f.user(t, "author"), f.user(t, "stranger")
	post := f.post(t, author, "text", nil)

	_, err := f.blog.UpdatePost(f.ctx, post.ID, stranger.ID, PostUpdate{
		Image: &Upload{Filename: "small.gif", Content: bytes.NewReader(smallGIF)},
	})
	require.ErrorIs(t, err, ErrForbidden)
	assert.Empty(t, storedFiles(t, root))
}

func TestPaginationHelpers(t *testing.T) {
	page, size := normalizePage(0, 0, 10)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, size)

	_, size = normalizePage(2, 500, 10)
	assert.Equal(t, MaxPageSize, size)

	assert.Equal(t, 20, pageOffset(3, 10))

	page, size = normalizePage(math.MaxInt, 10, 10)
	assert.Equal(t, 10, size)
	assert.Greater(t, page, 1)
	assert.GreaterOrEqual(t, pageOffset(page, size), 0)
	assert.Equal(t, math.MaxInt32, pageOffset(math.MaxInt, 10))
	assert.Equal(t, 2, totalPages(13, 10))
	assert.Equal(t, 1, totalPages(0, 10))
}
