// Package media stores uploaded pictures and reconciles them with the
// paths referenced from the database.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"riffmates/internal/models"
)

// MaxUploadSize bounds a single picture upload.
const MaxUploadSize = 5 << 20

// Upload directories under the media root.
const (
	MusicianPictures = "musician_pictures"
	VenuePictures    = "venue_pictures"
)

// UploadDirs lists every directory pictures are saved to.
var UploadDirs = []string{MusicianPictures, VenuePictures}

var (
	ErrNotImage  = errors.New("upload is not an image")
	ErrTooLarge  = errors.New("upload exceeds size limit")
	ErrEmptyFile = errors.New("upload is empty")
)

// Upload is a picture received from a form.
type Upload struct {
	Filename string
	Body     io.Reader
}

// Storage writes uploads beneath a root directory.
type Storage struct {
	root      string
	urlPrefix string
}

// NewStorage returns a Storage rooted at root whose files are served under
// urlPrefix.
func NewStorage(root, urlPrefix string) *Storage {
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &Storage{root: root, urlPrefix: urlPrefix}
}

// Root is the directory uploads are written to.
func (s *Storage) Root() string { return s.root }

// Save validates up as an image and writes it to dir under a random name.
// It returns the slash-separated path relative to the root.
func (s *Storage) Save(dir string, up Upload) (string, error) {
	data, err := io.ReadAll(io.LimitReader(up.Body, MaxUploadSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	switch {
	case len(data) == 0:
		return "", ErrEmptyFile
	case len(data) > MaxUploadSize:
		return "", ErrTooLarge
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, mt.String())
	}

	rel := path.Join(dir, uuid.NewString()+mt.Extension())
	full := filepath.Join(s.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	if err := writeFile(full, data); err != nil {
		return "", err
	}
	return rel, nil
}

func writeFile(full string, data []byte) error {
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create upload: %w", err)
	}
	if _, err := io.Copy(f, bytes.NewReader(data)); err != nil {
		f.Close()
		os.Remove(full)
		return fmt.Errorf("write upload: %w", err)
	}
	return f.Close()
}

// URL maps a stored relative path to its public URL. Empty stays empty.
func (s *Storage) URL(rel string) string {
	if rel == "" {
		return ""
	}
	return s.urlPrefix + strings.TrimPrefix(rel, "/")
}

// FormError turns an upload rejection into a validation error on field.
// Other errors pass through.
func FormError(field string, err error) error {
	switch {
	case errors.Is(err, ErrNotImage), errors.Is(err, ErrEmptyFile):
		return models.FieldError(field, "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
	case errors.Is(err, ErrTooLarge):
		return models.FieldError(field, "Ensure the picture is at most 5 MB.")
	default:
		return err
	}
}
