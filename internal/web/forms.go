package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"riffmates/internal/media"
)

// maxFormMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const maxFormMemory = 1 << 20

// readSubmission parses a urlencoded or multipart POST body and returns the
// optional "picture" upload. The returned cleanup must always be called.
func readSubmission(w http.ResponseWriter, r *http.Request) (*media.Upload, func(), error) {
	cleanup := func() {}
	r.Body = http.MaxBytesReader(w, r.Body, media.MaxUploadSize+maxFormMemory)

	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return nil, cleanup, fmt.Errorf("parse form: %w", err)
		}
		return nil, cleanup, nil
	}

	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return nil, cleanup, media.FormError("picture", media.ErrTooLarge)
		}
		return nil, cleanup, fmt.Errorf("parse multipart form: %w", err)
	}
	cleanup = func() { _ = r.MultipartForm.RemoveAll() }

	file, hdr, err := r.FormFile("picture")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, cleanup, nil
	}
	if err != nil {
		return nil, cleanup, fmt.Errorf("read picture: %w", err)
	}
	return &media.Upload{Filename: hdr.Filename, Body: file}, func() {
		_ = file.Close()
		_ = r.MultipartForm.RemoveAll()
	}, nil
}

// choiceID parses an optional select value. Blank means no selection.
func choiceID(raw string) (*int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}
