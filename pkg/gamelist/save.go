package gamelist

import (
	"bytes"
	"encoding/xml"
	"os"
	"path/filepath"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
)

// FilePermissions is the mode for written gamelist files.
const FilePermissions = 0644

// Save writes the catalog back to its gamelist.xml. The document is staged
// to a temp file in the same directory and renamed into place so a crash
// mid-write can never truncate the catalog.
func (c *Catalog) Save() error {
	data, err := c.Marshal()
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.Path)
	tmp, err := os.CreateTemp(dir, ".gamelist-*.xml")
	if err != nil {
		return errors.WrapIO("create", dir, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.WrapIO("write", c.Path, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("close", c.Path, err)
	}
	if err := os.Chmod(tmpPath, FilePermissions); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("chmod", tmpPath, err)
	}
	if err := os.Rename(tmpPath, c.Path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.WrapIO("rename", c.Path, err)
	}

	c.dirty = false
	return nil
}

// Marshal serializes the catalog as an indented XML document with the
// declaration and trailing newline the original files carry.
func (c *Catalog) Marshal() ([]byte, error) {
	doc := c.doc
	if doc == nil {
		doc = &document{}
	}
	doc.Games = c.Entries

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "\t")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.WrapParse("xml", c.Path, err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.WrapParse("xml", c.Path, err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
