// Package backup snapshots the data directory into zip archives and
// restores from them. Archives are ULID-named, so a plain name sort is
// also a time sort.
package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xyproto/unzip"

	"github.com/rustyeddy/tradebook/pkg/id"
)

// Manager creates, lists and restores backups of one data directory.
type Manager struct {
	dataDir   string
	backupDir string
	log       zerolog.Logger
}

// New returns a backup manager. The backup directory may live inside
// the data directory; archives never include other archives.
func New(dataDir, backupDir string, log zerolog.Logger) *Manager {
	return &Manager{
		dataDir:   dataDir,
		backupDir: backupDir,
		log:       log.With().Str("component", "backup").Logger(),
	}
}

// Create writes a new archive of every regular file in the data
// directory and returns its path.
func (m *Manager) Create() (string, error) {
	if err := os.MkdirAll(m.backupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	name := filepath.Join(m.backupDir, id.New()+".zip")
	f, err := os.Create(name)
	if err != nil {
		return "", fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	err = filepath.Walk(m.dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			// Never archive the archives.
			if samePath(path, m.backupDir) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(m.dataDir, path)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(w, src)
		return err
	})
	if err != nil {
		zw.Close()
		os.Remove(name)
		return "", fmt.Errorf("archive %s: %w", m.dataDir, err)
	}
	if err := zw.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("finalize archive: %w", err)
	}

	m.log.Info().Str("archive", name).Msg("backup created")
	return name, nil
}

// List returns archive paths, newest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".zip") {
			out = append(out, filepath.Join(m.backupDir, e.Name()))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

// Restore extracts an archive over the data directory. Existing files
// with the same names are overwritten; others are left alone.
func (m *Manager) Restore(archive string) error {
	if _, err := os.Stat(archive); err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if err := os.MkdirAll(m.dataDir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	if err := unzip.Extract(archive, m.dataDir); err != nil {
		return fmt.Errorf("extract %s: %w", archive, err)
	}
	m.log.Info().Str("archive", archive).Msg("backup restored")
	return nil
}

// Prune deletes the oldest archives beyond keep and reports how many
// were removed. keep <= 0 removes nothing.
func (m *Manager) Prune(keep int) (int, error) {
	if keep <= 0 {
		return 0, nil
	}
	archives, err := m.List()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, path := range archives[min(keep, len(archives)):] {
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed++
	}
	if removed > 0 {
		m.log.Info().Int("removed", removed).Msg("pruned backups")
	}
	return removed, nil
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	if err1 != nil || err2 != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return aa == bb
}
