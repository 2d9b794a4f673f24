// Package backup snapshots and restores the catalog+overlay state as a
// single versioned unit. Snapshots form an ordered on-disk stack: backup
// pushes, revert pops the newest snapshot covering the requested scope and
// restores its files verbatim.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
)

const (
	manifestName = "manifest.yaml"
	overlayName  = "kidlist.yaml"
	stampFormat  = "20060102-150405"

	dirPermissions  = 0755
	filePermissions = 0644
)

// CatalogRef records where one system's gamelist came from and which file
// in the snapshot holds its copy.
type CatalogRef struct {
	System string `yaml:"system"`
	Path   string `yaml:"path"`
	File   string `yaml:"file"`
}

// Manifest describes one snapshot: when it was taken and what it covers.
type Manifest struct {
	Created  time.Time    `yaml:"created"`
	Overlay  string       `yaml:"overlay,omitempty"`
	Catalogs []CatalogRef `yaml:"catalogs"`
}

// Systems returns the snapshot's scope.
func (m *Manifest) Systems() []string {
	systems := make([]string, 0, len(m.Catalogs))
	for _, c := range m.Catalogs {
		systems = append(systems, c.System)
	}
	return systems
}

// Covers reports whether the snapshot includes every requested system.
// An empty request is covered by any snapshot.
func (m *Manifest) Covers(systems []string) bool {
	have := make(map[string]bool, len(m.Catalogs))
	for _, c := range m.Catalogs {
		have[c.System] = true
	}
	for _, s := range systems {
		if !have[s] {
			return false
		}
	}
	return true
}

// Snapshot is one stack element on disk.
type Snapshot struct {
	Dir      string
	Manifest Manifest
}

// Manager owns the snapshot stack directory.
type Manager struct {
	dir string
}

// New returns a Manager storing snapshots under dir.
func New(dir string) *Manager {
	return &Manager{dir: dir}
}

// Backup pushes a new snapshot holding the overlay (always, in full) and
// each given system's catalog.
func (m *Manager) Backup(overlayPath string, cats []*gamelist.Catalog) (*Snapshot, error) {
	stamp := time.Now().Format(stampFormat)
	dir := filepath.Join(m.dir, stamp)
	for i := 2; ; i++ {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			break
		}
		// Two backups inside one second; keep both.
		dir = filepath.Join(m.dir, stamp+"-"+strconv.Itoa(i))
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}

	manifest := Manifest{Created: time.Now()}

	if _, err := os.Stat(overlayPath); err == nil {
		if err := copyFile(overlayPath, filepath.Join(dir, overlayName)); err != nil {
			return nil, err
		}
		manifest.Overlay = overlayPath
	}

	for _, cat := range cats {
		file := cat.System + ".xml"
		if err := copyFile(cat.Path, filepath.Join(dir, file)); err != nil {
			return nil, err
		}
		manifest.Catalogs = append(manifest.Catalogs, CatalogRef{
			System: cat.System,
			Path:   cat.Path,
			File:   file,
		})
	}

	data, err := yaml.Marshal(&manifest)
	if err != nil {
		return nil, errors.WrapParse("yaml", manifestName, err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestName), data, filePermissions); err != nil {
		return nil, errors.WrapIO("write", filepath.Join(dir, manifestName), err)
	}

	return &Snapshot{Dir: dir, Manifest: manifest}, nil
}

// List returns the stack newest first.
func (m *Manager) List() ([]Snapshot, error) {
	dirEntries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", m.dir, err)
	}

	var snaps []Snapshot
	for _, de := range dirEntries {
		if !de.IsDir() {
			continue
		}
		dir := filepath.Join(m.dir, de.Name())
		data, err := os.ReadFile(filepath.Join(dir, manifestName))
		if err != nil {
			continue // not a snapshot
		}
		var manifest Manifest
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return nil, errors.WrapParse("yaml", filepath.Join(dir, manifestName), err)
		}
		snaps = append(snaps, Snapshot{Dir: dir, Manifest: manifest})
	}
	sort.Slice(snaps, func(i, j int) bool {
		if !snaps[i].Manifest.Created.Equal(snaps[j].Manifest.Created) {
			return snaps[i].Manifest.Created.After(snaps[j].Manifest.Created)
		}
		// Same-second snapshots: the suffixed directory is the later push.
		return snaps[i].Dir > snaps[j].Dir
	})
	return snaps, nil
}

// Revert pops the most recent snapshot covering the requested systems and
// restores its overlay and catalogs verbatim. With a non-empty request only
// the requested systems' catalogs are restored; the overlay, being global,
// is always restored in full. Returns NoBackupError when nothing on the
// stack covers the request.
func (m *Manager) Revert(systems []string) (*Snapshot, error) {
	snaps, err := m.List()
	if err != nil {
		return nil, err
	}

	for _, snap := range snaps {
		if !snap.Manifest.Covers(systems) {
			continue
		}

		if snap.Manifest.Overlay != "" {
			if err := restoreFile(filepath.Join(snap.Dir, overlayName), snap.Manifest.Overlay); err != nil {
				return nil, err
			}
		}

		requested := make(map[string]bool, len(systems))
		for _, s := range systems {
			requested[s] = true
		}
		for _, ref := range snap.Manifest.Catalogs {
			if len(systems) > 0 && !requested[ref.System] {
				continue
			}
			if err := restoreFile(filepath.Join(snap.Dir, ref.File), ref.Path); err != nil {
				return nil, err
			}
		}

		if err := os.RemoveAll(snap.Dir); err != nil {
			return nil, errors.WrapIO("delete", snap.Dir, err)
		}
		return &snap, nil
	}

	return nil, &errors.NoBackupError{Scope: systems}
}

// copyFile duplicates src to dst.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.WrapIO("read", src, err)
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, filePermissions)
	if err != nil {
		return errors.WrapIO("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return errors.WrapIO("write", dst, err)
	}
	return errors.WrapIO("close", dst, out.Close())
}

// restoreFile writes src over dst through a temp file so a failed restore
// cannot leave dst truncated.
func restoreFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return errors.WrapIO("read", src, err)
	}
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".restore-*")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", dst, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", dst, err)
	}
	if err := os.Chmod(tmpPath, filePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", dst, err)
	}
	return nil
}

