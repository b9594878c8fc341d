package media

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// ErrNoRoot is returned when the media root is unset or missing.
var ErrNoRoot = errors.New("media root is not available")

// Report is the outcome of comparing on-disk files with database references.
// All paths are absolute and sorted.
type Report struct {
	Root       string
	Scanned    []string // relative dirs; empty when the whole root was scanned
	Referenced []string
	OnDisk     []string
	Missing    []string
	Orphans    []string
}

// ScannedAll reports whether the whole root was walked.
func (r *Report) ScannedAll() bool { return len(r.Scanned) == 0 }

// Rel renders p relative to the root, falling back to p itself.
func (r *Report) Rel(p string) string {
	rel, err := filepath.Rel(r.Root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// Reconcile computes orphans (on disk, not referenced) and missing files
// (referenced, not on disk). Only dirs are walked unless dirs is empty.
// Paths outside root are ignored on both sides.
func Reconcile(root string, dirs []string, referenced []string) (*Report, error) {
	if strings.TrimSpace(root) == "" {
		return nil, fmt.Errorf("%w: MEDIA_ROOT is not configured", ErrNoRoot)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve media root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: MEDIA_ROOT does not exist: %s", ErrNoRoot, abs)
	}

	report := &Report{Root: abs}

	refSet := make(map[string]struct{}, len(referenced))
	for _, name := range referenced {
		if name == "" {
			continue
		}
		p := filepath.Join(abs, filepath.FromSlash(name))
		if within(abs, p) {
			refSet[p] = struct{}{}
		}
	}

	diskSet := make(map[string]struct{})
	walkRoots := []string{abs}
	if len(dirs) > 0 {
		walkRoots = walkRoots[:0]
		for _, d := range dirs {
			p := filepath.Join(abs, filepath.FromSlash(d))
			if !within(abs, p) {
				continue
			}
			walkRoots = append(walkRoots, p)
			report.Scanned = append(report.Scanned, report.Rel(p))
		}
	}
	for _, wr := range walkRoots {
		if err := collectFiles(wr, diskSet); err != nil {
			return nil, err
		}
	}

	for p := range refSet {
		report.Referenced = append(report.Referenced, p)
		if _, ok := diskSet[p]; !ok {
			report.Missing = append(report.Missing, p)
		}
	}
	for p := range diskSet {
		report.OnDisk = append(report.OnDisk, p)
		if _, ok := refSet[p]; !ok {
			report.Orphans = append(report.Orphans, p)
		}
	}
	sort.Strings(report.Referenced)
	sort.Strings(report.OnDisk)
	sort.Strings(report.Missing)
	sort.Strings(report.Orphans)
	return report, nil
}

func collectFiles(root string, into map[string]struct{}) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && p == root {
				return fs.SkipDir
			}
			return err
		}
		if d.Type().IsRegular() {
			into[p] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}
	return nil
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CleanupResult lists what Cleanup removed and what it could not.
type CleanupResult struct {
	Deleted []string
	Failed  map[string]error
}

// Cleanup deletes every orphan in report. A file already gone counts as
// deleted. Failures are logged and skipped.
func Cleanup(ctx context.Context, report *Report, log zerolog.Logger) CleanupResult {
	res := CleanupResult{Failed: make(map[string]error)}
	for _, p := range report.Orphans {
		if err := ctx.Err(); err != nil {
			res.Failed[p] = err
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Error().Err(err).Str("path", p).Msg("failed to delete orphaned picture")
			res.Failed[p] = err
			continue
		}
		log.Debug().Str("path", report.Rel(p)).Msg("deleted orphaned picture")
		res.Deleted = append(res.Deleted, p)
	}
	return res
}
