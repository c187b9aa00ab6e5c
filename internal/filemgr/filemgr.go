// Package filemgr stores uploaded massage photos and their thumbnails.
package filemgr

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"massage-booking-api/internal/apperr"
)

const ThumbPrefix = "thumb_"

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

var allowedMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// SaveImage validates the upload, writes the original and a 300px-wide
// thumbnail under dir, and returns the stored filename.
func SaveImage(file multipart.File, header *multipart.FileHeader, dir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", apperr.BadRequest("Format d'image non supporté (jpg, jpeg, png ou gif attendu)")
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	// sniff real content, the extension alone proves nothing
	if !allowedMIMEs[http.DetectContentType(data)] {
		return "", apperr.BadRequest("Le fichier n'est pas une image valide")
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", apperr.BadRequest("Le fichier n'est pas une image valide")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.New().String() + ext
	if err := imaging.Save(img, filepath.Join(dir, name)); err != nil {
		return "", err
	}

	thumb := imaging.Resize(img, 300, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, filepath.Join(dir, ThumbPrefix+name)); err != nil {
		return "", err
	}

	return name, nil
}

// Remove deletes a stored image and its thumbnail; missing files are not
// an error.
func Remove(dir, name string) {
	if name == "" {
		return
	}
	name = filepath.Base(name)
	_ = os.Remove(filepath.Join(dir, name))
	_ = os.Remove(filepath.Join(dir, ThumbPrefix+name))
}

// ServeImage writes a stored image, refusing path traversal.
func ServeImage(w http.ResponseWriter, r *http.Request, dir, name string) {
	clean := filepath.Base(name)
	if clean != name || clean == "." {
		apperr.Write(w, apperr.BadRequest("Nom de fichier invalide"))
		return
	}
	path := filepath.Join(dir, clean)
	if _, err := os.Stat(path); err != nil {
		apperr.Write(w, apperr.NotFound("Cette image n'existe pas"))
		return
	}
	http.ServeFile(w, r, path)
}
