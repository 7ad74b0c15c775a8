package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileHeader builds a real multipart.FileHeader by parsing a form.
func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File[field][0]
}

func TestDisk_SaveNamesAndWrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	d, err := NewDisk(dir)
	require.NoError(t, err)
	d.now = func() time.Time { return time.UnixMilli(1700000000000) }

	stored, err := d.Save("banner", fileHeader(t, "banner", "Photo.PNG", []byte("img")))
	require.NoError(t, err)

	pattern := regexp.MustCompile(`/banner-1700000000000-[0-9a-f-]{36}\.png$`)
	assert.Regexp(t, pattern, stored)

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(stored)))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), data)
}

func TestDisk_SaveWithoutExtension(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	stored, err := d.Save("profilePic", fileHeader(t, "profilePic", "avatar", []byte("x")))
	require.NoError(t, err)
	assert.Regexp(t, `profilePic-\d+-[0-9a-f-]{36}\.bin$`, stored)
}

func TestDisk_NamesAreUnique(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)
	d.now = func() time.Time { return time.UnixMilli(1) }

	fh := fileHeader(t, "banner", "a.jpg", []byte("x"))
	first, err := d.Save("banner", fh)
	require.NoError(t, err)
	second, err := d.Save("banner", fh)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestDisk_Remove(t *testing.T) {
	dir := t.TempDir()
	d, err := NewDisk(dir)
	require.NoError(t, err)

	stored, err := d.Save("banner", fileHeader(t, "banner", "a.jpg", []byte("x")))
	require.NoError(t, err)

	require.NoError(t, d.Remove(stored))
	_, err = os.Stat(filepath.Join(dir, filepath.Base(stored)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, d.Remove(stored), "removing twice is a no-op")
	assert.NoError(t, d.Remove("/etc/passwd"), "foreign paths are ignored")
	assert.NoError(t, d.Remove(""))
}
