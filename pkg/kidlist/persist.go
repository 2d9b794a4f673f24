package kidlist

import (
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
)

// FilePermissions is the mode for the written overlay file.
const FilePermissions = 0644

// Load reads the single overlay document covering all systems. An absent
// file is an empty overlay, not an error: the first run of the tool has
// nothing to load. A malformed document is a ParseError and aborts the run.
func Load(path string) (*Overlay, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(path), nil
		}
		return nil, errors.WrapIO("read", path, err)
	}

	o := New(path)
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	if o.Systems == nil {
		o.Systems = make(map[string]*System)
	}
	return o, nil
}

// Save prunes empty records and writes the overlay atomically: staged to a
// temp file next to the target, then renamed into place. Map keys marshal
// sorted, so the output is deterministic and diffs stay readable.
func (o *Overlay) Save() error {
	o.Prune()

	data, err := yaml.Marshal(o)
	if err != nil {
		return errors.WrapParse("yaml", o.path, err)
	}

	dir := filepath.Dir(o.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".kidlist-*.yaml")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", o.path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", o.path, err)
	}
	if err := os.Chmod(tmpPath, FilePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, o.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", o.path, err)
	}
	return nil
}
