package gamelist

import (
	"encoding/xml"
	"os"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
)

// Load reads and parses one system's gamelist.xml. A malformed document is
// a ParseError and aborts the run before anything is written; a missing
// file is ErrNotFound.
func Load(system, path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrNotFound
		}
		return nil, errors.WrapIO("read", path, err)
	}
	return Parse(system, path, data)
}

// Parse decodes gamelist XML into a Catalog.
func Parse(system, path string, data []byte) (*Catalog, error) {
	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.WrapParse("xml", path, err)
	}
	return &Catalog{
		System:  system,
		Path:    path,
		Entries: doc.Games,
		doc:     &doc,
	}, nil
}
