package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalPutAndDelete(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/photos/")
	ctx := context.Background()

	res, err := l.Put(ctx, strings.NewReader("fake image bytes"), PutInput{
		Filename:    "me.png",
		ContentType: "image/png",
		Size:        16,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(res.Key, ".png"))
	assert.True(t, strings.HasPrefix(res.URL, "/photos/"))
	assert.NotContains(t, res.URL, "//"+res.Key)

	data, err := os.ReadFile(filepath.Join(dir, res.Key))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))

	require.NoError(t, l.Delete(ctx, res.Key))
	_, err = os.Stat(filepath.Join(dir, res.Key))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStripsUnsafeExtension(t *testing.T) {
	l := NewLocal(t.TempDir(), "/photos")

	res, err := l.Put(context.Background(), strings.NewReader("x"), PutInput{Filename: "evil.php"})
	require.NoError(t, err)
	assert.Equal(t, "", filepath.Ext(res.Key))
}

func TestLocalDeleteIgnoresPathTraversal(t *testing.T) {
	dir := t.TempDir()
	l := NewLocal(dir, "/photos")
	ctx := context.Background()

	res, err := l.Put(ctx, strings.NewReader("x"), PutInput{Filename: "a.jpg"})
	require.NoError(t, err)

	// A traversal key collapses to its base name inside the photo dir.
	require.NoError(t, l.Delete(ctx, "../../"+res.Key))
	_, err = os.Stat(filepath.Join(dir, res.Key))
	assert.True(t, os.IsNotExist(err))
}
