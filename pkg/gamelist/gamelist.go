// Package gamelist parses and serializes a system's gamelist.xml catalog.
// The catalog is ephemeral: an external scraper regenerates it at will, so
// nothing in here is treated as durable annotation state. Fields the tool
// does not understand are carried through untouched so a load/save cycle
// never loses data.
package gamelist

import (
	"encoding/xml"

	"github.com/geoffoxholm/retropie-scripts/pkg/identity"
)

// Tag element names copied between gamelist.xml and the overlay.
const (
	TagFavorite = "favorite"
	TagHidden   = "hidden"
	TagKidgame  = "kidgame"
)

// TagNames lists the annotation elements in a stable order.
var TagNames = []string{TagKidgame, TagFavorite, TagHidden}

// Flag is a boolean gamelist element such as <favorite>true</favorite>.
// A false flag is omitted entirely on save, matching how EmulationStation
// writes these elements.
type Flag bool

// MarshalXML implements xml.Marshaler. False flags produce no element.
func (f Flag) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if !f {
		return nil
	}
	return e.EncodeElement("true", start)
}

// UnmarshalXML implements xml.Unmarshaler.
func (f *Flag) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	var v string
	if err := d.DecodeElement(&v, &start); err != nil {
		return err
	}
	*f = v == "true" || v == "1"
	return nil
}

// RawElement preserves an element this tool does not model, byte for byte.
type RawElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Inner   string     `xml:",innerxml"`
}

// Entry is one game record in a system's catalog. Path and Name are the
// identity-relevant fields; everything else is mutable scraper output.
// Annotation flags may appear in scraped lists and are reconciled against
// the overlay, which remains the source of truth for them.
type Entry struct {
	XMLName xml.Name   `xml:"game"`
	Attrs   []xml.Attr `xml:",any,attr"`

	Path      string `xml:"path"`
	Name      string `xml:"name"`
	Desc      string `xml:"desc,omitempty"`
	Developer string `xml:"developer,omitempty"`
	Genre     string `xml:"genre,omitempty"`
	Image     string `xml:"image,omitempty"`
	Video     string `xml:"video,omitempty"`

	Favorite Flag `xml:"favorite"`
	Hidden   Flag `xml:"hidden"`
	Kidgame  Flag `xml:"kidgame"`

	// Extra holds every element not modeled above (playcount, lastplayed,
	// rating, ...) for round-trip fidelity.
	Extra []RawElement `xml:",any"`
}

// Identity returns the entry's stable key: the rom's base name without
// its extension.
func (e *Entry) Identity() string {
	return identity.FromPath(e.Path)
}

// Tag reports whether the named annotation flag is set on the entry.
func (e *Entry) Tag(name string) bool {
	switch name {
	case TagFavorite:
		return bool(e.Favorite)
	case TagHidden:
		return bool(e.Hidden)
	case TagKidgame:
		return bool(e.Kidgame)
	}
	return false
}

// SetTag sets or clears the named annotation flag. Unknown names are
// ignored; the overlay schema is fixed.
func (e *Entry) SetTag(name string, value bool) {
	switch name {
	case TagFavorite:
		e.Favorite = Flag(value)
	case TagHidden:
		e.Hidden = Flag(value)
	case TagKidgame:
		e.Kidgame = Flag(value)
	}
}

// document is the gamelist.xml root. Non-game children (folder records,
// provider blocks) ride along in Extra.
type document struct {
	XMLName xml.Name     `xml:"gameList"`
	Attrs   []xml.Attr   `xml:",any,attr"`
	Games   []*Entry     `xml:"game"`
	Extra   []RawElement `xml:",any"`
}
