package media

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func touch(t *testing.T, root, rel string) string {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func TestSaveImage(t *testing.T) {
	root := t.TempDir()
	s := NewStorage(root, "/media")

	rel, err := s.Save(MusicianPictures, Upload{Filename: "me.png", Body: bytes.NewReader(pngBytes(t))})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, MusicianPictures+"/"))
	assert.True(t, strings.HasSuffix(rel, ".png"))
	assert.FileExists(t, filepath.Join(root, filepath.FromSlash(rel)))
	assert.Equal(t, "/media/"+rel, s.URL(rel))
	assert.Empty(t, s.URL(""))
}

func TestSaveRejectsNonImage(t *testing.T) {
	s := NewStorage(t.TempDir(), "/media/")

	_, err := s.Save(VenuePictures, Upload{Body: strings.NewReader("just some text")})
	assert.ErrorIs(t, err, ErrNotImage)

	_, err = s.Save(VenuePictures, Upload{Body: strings.NewReader("")})
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestSaveRejectsOversized(t *testing.T) {
	s := NewStorage(t.TempDir(), "/media/")
	big := append(pngBytes(t), make([]byte, MaxUploadSize)...)

	_, err := s.Save(VenuePictures, Upload{Body: bytes.NewReader(big)})
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestReconcileUploadDirs(t *testing.T) {
	root := t.TempDir()
	kept := touch(t, root, "musician_pictures/kept.png")
	orphan := touch(t, root, "venue_pictures/orphan.png")
	touch(t, root, "other/ignored.png")

	report, err := Reconcile(root, UploadDirs, []string{
		"musician_pictures/kept.png",
		"musician_pictures/gone.png",
		"../outside.png",
	})
	require.NoError(t, err)

	assert.False(t, report.ScannedAll())
	assert.Equal(t, []string{"musician_pictures", "venue_pictures"}, report.Scanned)
	assert.Len(t, report.Referenced, 2)
	assert.Equal(t, []string{kept, orphan}, report.OnDisk)
	assert.Equal(t, []string{orphan}, report.Orphans)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "musician_pictures/gone.png", report.Rel(report.Missing[0]))
}

func TestReconcileAllMedia(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "musician_pictures/a.png")
	stray := touch(t, root, "other/stray.txt")

	report, err := Reconcile(root, nil, []string{"musician_pictures/a.png"})
	require.NoError(t, err)

	assert.True(t, report.ScannedAll())
	assert.Equal(t, []string{stray}, report.Orphans)
	assert.Empty(t, report.Missing)
}

func TestReconcileMissingRoot(t *testing.T) {
	_, err := Reconcile("", nil, nil)
	assert.ErrorIs(t, err, ErrNoRoot)

	_, err = Reconcile(filepath.Join(t.TempDir(), "nope"), nil, nil)
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestCleanupDeletesOrphans(t *testing.T) {
	root := t.TempDir()
	orphan := touch(t, root, "venue_pictures/orphan.png")
	touch(t, root, "venue_pictures/kept.png")

	report, err := Reconcile(root, UploadDirs, []string{"venue_pictures/kept.png"})
	require.NoError(t, err)
	// Already removed files still count as deleted.
	report.Orphans = append(report.Orphans, filepath.Join(root, "venue_pictures", "vanished.png"))

	res := Cleanup(context.Background(), report, zerolog.Nop())

	assert.Len(t, res.Deleted, 2)
	assert.Empty(t, res.Failed)
	assert.NoFileExists(t, orphan)
	assert.FileExists(t, filepath.Join(root, "venue_pictures", "kept.png"))
}

func TestCleanupSkipsFailures(t *testing.T) {
	root := t.TempDir()
	dir := touch(t, root, "venue_pictures/full/inner.png")
	report := &Report{Root: root, Orphans: []string{filepath.Dir(dir)}}

	res := Cleanup(context.Background(), report, zerolog.Nop())

	assert.Empty(t, res.Deleted)
	assert.Len(t, res.Failed, 1)
	assert.FileExists(t, dir)
}
