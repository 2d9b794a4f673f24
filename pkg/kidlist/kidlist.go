// Package kidlist holds the durable, cross-system annotation overlay. The
// overlay is the single source of truth for favorite/hidden/kidgame tags:
// gamelists are regenerated by the scraper at will, the kidlist is not.
// Records are keyed by (system, identity), each system's namespace fully
// independent of the others.
package kidlist

import "sort"

// Tag identifies one boolean annotation.
type Tag string

// The annotation tags carried between gamelists and the overlay.
const (
	TagFavorite Tag = "favorite"
	TagHidden   Tag = "hidden"
	TagKidgame  Tag = "kidgame"
)

// Tags lists every annotation tag in a stable order.
var Tags = []Tag{TagKidgame, TagFavorite, TagHidden}

// ValidTag reports whether name is a known annotation tag.
func ValidTag(name string) bool {
	switch Tag(name) {
	case TagFavorite, TagHidden, TagKidgame:
		return true
	}
	return false
}

// Record is the set of annotations for one game identity.
type Record struct {
	Favorite bool `yaml:"favorite,omitempty"`
	Hidden   bool `yaml:"hidden,omitempty"`
	Kidgame  bool `yaml:"kidgame,omitempty"`
}

// Get returns the value of one tag.
func (r *Record) Get(tag Tag) bool {
	switch tag {
	case TagFavorite:
		return r.Favorite
	case TagHidden:
		return r.Hidden
	case TagKidgame:
		return r.Kidgame
	}
	return false
}

// Set assigns one tag.
func (r *Record) Set(tag Tag, value bool) {
	switch tag {
	case TagFavorite:
		r.Favorite = value
	case TagHidden:
		r.Hidden = value
	case TagKidgame:
		r.Kidgame = value
	}
}

// Empty reports whether every tag is false. Empty records carry no
// information and are pruned on save.
func (r *Record) Empty() bool {
	return !r.Favorite && !r.Hidden && !r.Kidgame
}

// System is one system's slice of the overlay.
type System struct {
	// HideAll marks the whole system as hidden: during reconciliation every
	// entry is treated as hidden regardless of individual records.
	HideAll bool               `yaml:"hide_all,omitempty"`
	Games   map[string]*Record `yaml:"games,omitempty"`
}

// Overlay is the full cross-system annotation document.
type Overlay struct {
	path    string
	Systems map[string]*System `yaml:"systems"`
}

// New returns an empty overlay that will save to path.
func New(path string) *Overlay {
	return &Overlay{path: path, Systems: make(map[string]*System)}
}

// Path returns the file the overlay was loaded from and saves to.
func (o *Overlay) Path() string { return o.path }

// System returns the named system's slice, or nil when absent.
func (o *Overlay) System(name string) *System {
	return o.Systems[name]
}

// Record returns the record for (system, identity), or nil when absent.
// Absence means "all tags false", never an error.
func (o *Overlay) Record(system, id string) *Record {
	if s := o.Systems[system]; s != nil {
		return s.Games[id]
	}
	return nil
}

// Ensure returns the record for (system, identity), creating it when absent.
func (o *Overlay) Ensure(system, id string) *Record {
	if o.Systems == nil {
		o.Systems = make(map[string]*System)
	}
	s := o.Systems[system]
	if s == nil {
		s = &System{}
		o.Systems[system] = s
	}
	if s.Games == nil {
		s.Games = make(map[string]*Record)
	}
	r := s.Games[id]
	if r == nil {
		r = &Record{}
		s.Games[id] = r
	}
	return r
}

// Delete removes the record for (system, identity) if present.
func (o *Overlay) Delete(system, id string) {
	if s := o.Systems[system]; s != nil {
		delete(s.Games, id)
	}
}

// Identities returns the sorted identities recorded for a system.
func (o *Overlay) Identities(system string) []string {
	s := o.Systems[system]
	if s == nil {
		return nil
	}
	ids := make([]string, 0, len(s.Games))
	for id := range s.Games {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Prune drops records with no set tags and systems with no records and no
// hide_all flag. Called before every save.
func (o *Overlay) Prune() {
	for name, s := range o.Systems {
		for id, r := range s.Games {
			if r == nil || r.Empty() {
				delete(s.Games, id)
			}
		}
		if len(s.Games) == 0 && !s.HideAll {
			delete(o.Systems, name)
		}
	}
}

// Count returns the number of records for a system with the given tag set.
func (o *Overlay) Count(system string, tag Tag) int {
	s := o.Systems[system]
	if s == nil {
		return 0
	}
	n := 0
	for _, r := range s.Games {
		if r != nil && r.Get(tag) {
			n++
		}
	}
	return n
}
