package filemgr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 20, 20))
	for x := 0; x < 20; x++ {
		for y := 0; y < 20; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// formFile round-trips content through a real multipart body so the
// header carries what a browser would send.
func formFile(t *testing.T, filename string, content []byte) (multipart.File, *multipart.FileHeader) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	return file, header
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	file, header := formFile(t, "photo.png", pngBytes(t))
	defer file.Close()

	name, err := SaveImage(file, header, dir)
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(name))

	_, err = os.Stat(filepath.Join(dir, name))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, ThumbPrefix+name))
	assert.NoError(t, err, "thumbnail missing")
}

func TestSaveImageRejectsExtension(t *testing.T) {
	file, header := formFile(t, "script.txt", []byte("not an image"))
	defer file.Close()

	_, err := SaveImage(file, header, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Format d'image non supporté")
}

func TestSaveImageRejectsFakeContent(t *testing.T) {
	// right extension, wrong bytes
	file, header := formFile(t, "photo.png", []byte("<html>nope</html>"))
	defer file.Close()

	_, err := SaveImage(file, header, t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n'est pas une image valide")
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	file, header := formFile(t, "photo.png", pngBytes(t))
	defer file.Close()
	name, err := SaveImage(file, header, dir)
	require.NoError(t, err)

	Remove(dir, name)
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, ThumbPrefix+name))
	assert.True(t, os.IsNotExist(err))

	// missing file is a no-op
	Remove(dir, "already-gone.png")
	Remove(dir, "")
}

func TestServeImage(t *testing.T) {
	dir := t.TempDir()
	file, header := formFile(t, "photo.png", pngBytes(t))
	defer file.Close()
	name, err := SaveImage(file, header, dir)
	require.NoError(t, err)

	t.Run("serves stored file", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ServeImage(rec, httptest.NewRequest("GET", "/", nil), dir, name)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("refuses traversal", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ServeImage(rec, httptest.NewRequest("GET", "/", nil), dir, "../etc/passwd")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing file is 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		ServeImage(rec, httptest.NewRequest("GET", "/", nil), dir, "nope.png")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
