package gamelist

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
)

// Catalog is one system's loaded gamelist. Lifetime is a single
// load/modify/save cycle; the Entries slice preserves document order.
type Catalog struct {
	System  string
	Path    string
	Entries []*Entry

	doc   *document
	dirty bool
}

// Dir returns the directory holding the gamelist, which relative rom and
// media paths are resolved against.
func (c *Catalog) Dir() string {
	return filepath.Dir(c.Path)
}

// Resolve turns a path from an entry into an absolute path on disk.
func (c *Catalog) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.Dir(), path)
}

// MarkDirty records that the catalog has in-memory changes to persist.
func (c *Catalog) MarkDirty() { c.dirty = true }

// Dirty reports whether the catalog needs saving.
func (c *Catalog) Dirty() bool { return c.dirty }

// Remove drops the given entries from the catalog and marks it dirty.
func (c *Catalog) Remove(drop map[*Entry]bool) {
	if len(drop) == 0 {
		return
	}
	kept := c.Entries[:0]
	for _, e := range c.Entries {
		if !drop[e] {
			kept = append(kept, e)
		}
	}
	c.Entries = kept
	c.MarkDirty()
}

// Identities builds the identity -> entry index for the catalog. Entries
// whose identity is already claimed are reported as conflicts and left out
// of the index; the first occurrence wins and processing continues.
func (c *Catalog) Identities() (map[string]*Entry, []error) {
	index := make(map[string]*Entry, len(c.Entries))
	claimed := make(map[string][]string)
	for _, e := range c.Entries {
		id := e.Identity()
		claimed[id] = append(claimed[id], e.Path)
		if _, ok := index[id]; !ok {
			index[id] = e
		}
	}

	var conflicts []error
	for id, paths := range claimed {
		if len(paths) > 1 {
			conflicts = append(conflicts, &errors.IdentityConflictError{
				System:   c.System,
				Identity: id,
				Paths:    paths,
			})
		}
	}
	sort.Slice(conflicts, func(i, j int) bool { return conflicts[i].Error() < conflicts[j].Error() })
	return index, conflicts
}

// Source locates one system's gamelist on disk.
type Source struct {
	System string
	Path   string
}

// Discover finds every <romsDir>/<system>/gamelist.xml, skipping systems
// whose directory is a symlink so a linked rom set is not processed twice.
func Discover(romsDir string) ([]Source, error) {
	dirEntries, err := os.ReadDir(romsDir)
	if err != nil {
		return nil, errors.WrapIO("read", romsDir, err)
	}

	var sources []Source
	for _, de := range dirEntries {
		dir := filepath.Join(romsDir, de.Name())
		if info, err := os.Lstat(dir); err != nil || info.Mode()&os.ModeSymlink != 0 {
			continue
		}
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			continue
		}
		path := filepath.Join(dir, "gamelist.xml")
		if _, err := os.Stat(path); err != nil {
			continue
		}
		sources = append(sources, Source{System: de.Name(), Path: path})
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i].System < sources[j].System })
	return sources, nil
}

// SystemFromPath derives the system name from a gamelist path: the name of
// the directory holding the file.
func SystemFromPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	name := filepath.Base(filepath.Dir(abs))
	switch name {
	case ".", "/", "":
		return ""
	}
	return name
}
