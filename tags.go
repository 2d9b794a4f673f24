package kidgame

import (
	"context"
	"os"
	"path/filepath"

	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/identity"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
	"github.com/geoffoxholm/retropie-scripts/pkg/logging"
)

// Target is one resolved game a tag operation applies to.
type Target struct {
	System   string
	Identity string
	Name     string
}

// TagResult reports what a bulk tag operation did.
type TagResult struct {
	Tag     kidlist.Tag
	Value   bool
	Applied []Target
	// Unmatched holds arguments that resolved to nothing. Not an error:
	// the operation still exits zero.
	Unmatched []string
}

// SetTag sets or clears one tag for each argument. Arguments resolve
// path-first: an argument naming an existing file yields the identity of
// that file and the system of its parent directory. Anything else falls
// back to a name lookup over the loaded catalogs — exact identity match
// first, then normalized display-name match. The overlay is the store of
// record; loaded catalog entries are updated in step so the next sync has
// nothing to reimport.
func (l *Library) SetTag(ctx context.Context, tag kidlist.Tag, value bool, system string, args []string) *TagResult {
	log := logging.FromContext(ctx)
	result := &TagResult{Tag: tag, Value: value}

	for _, arg := range args {
		targets := l.resolve(arg, system)
		if len(targets) == 0 {
			log.Warn().Str("game", arg).Msg("No game matched")
			result.Unmatched = append(result.Unmatched, arg)
			continue
		}
		for _, t := range targets {
			if value {
				l.Overlay.Ensure(t.System, t.Identity).Set(tag, true)
			} else if rec := l.Overlay.Record(t.System, t.Identity); rec != nil {
				rec.Set(tag, false)
			}
			if cat := l.Catalog(t.System); cat != nil {
				if index, _ := cat.Identities(); index[t.Identity] != nil {
					entry := index[t.Identity]
					if entry.Tag(string(tag)) != value {
						entry.SetTag(string(tag), value)
						cat.MarkDirty()
					}
				}
			}
			log.Info().
				Str("system", t.System).
				Str("game", t.Identity).
				Str("tag", string(tag)).
				Bool("value", value).
				Msg("Tag updated")
			result.Applied = append(result.Applied, t)
		}
	}
	return result
}

// resolve maps one path-or-name argument to targets. Path precedence is
// deliberate: a file that exists on disk wins over any name similarity.
func (l *Library) resolve(arg, system string) []Target {
	// Path form: the file exists, its directory names the system.
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		abs, err := filepath.Abs(arg)
		if err == nil {
			if sys := gamelist.SystemFromPath(abs); sys != "" {
				if system == "" || system == sys {
					return []Target{{
						System:   sys,
						Identity: identity.FromPath(abs),
						Name:     identity.FromPath(abs),
					}}
				}
			}
		}
	}

	// Identity form: exact match on the stable key.
	var targets []Target
	for _, cat := range l.catalogsFor(system) {
		index, _ := cat.Identities()
		if entry, ok := index[arg]; ok {
			targets = append(targets, Target{System: cat.System, Identity: arg, Name: entry.Name})
		}
	}
	if len(targets) > 0 {
		return targets
	}

	// Name fallback: loose match on the normalized display name.
	want := identity.NormalizeName(arg)
	if want == "" {
		return nil
	}
	for _, cat := range l.catalogsFor(system) {
		for _, entry := range cat.Entries {
			if identity.NormalizeName(entry.Name) == want {
				targets = append(targets, Target{System: cat.System, Identity: entry.Identity(), Name: entry.Name})
			}
		}
	}
	return targets
}

func (l *Library) catalogsFor(system string) []*gamelist.Catalog {
	if system == "" {
		return l.Catalogs
	}
	if cat := l.Catalog(system); cat != nil {
		return []*gamelist.Catalog{cat}
	}
	return nil
}
