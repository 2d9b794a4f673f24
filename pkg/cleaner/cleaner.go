// Package cleaner normalizes malformed catalog text, repairs known-bad
// taxonomy values and drops dangling or incomplete entries. Every pass is
// idempotent: running a pass twice yields the same catalog as running it
// once, so the tool can be pointed at the same tree repeatedly without harm.
package cleaner

import (
	"context"
	"os"
	"strings"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
	"github.com/geoffoxholm/retropie-scripts/pkg/logging"
)

// genreFixes is the fixed correction table for mistyped genre values.
// Deliberately not a general spell-checker: one known scraper artifact.
var genreFixes = map[string]string{
	"Plateform": "Platform",
}

// deescapes are HTML-entity artifacts that need no escaping in gamelist
// text and are replaced with their plain characters, in descriptive
// fields only.
var deescapes = [][2]string{
	{"&amp;", "&"},
	{"&quot;", `"`},
}

// Report summarizes what Clean changed in one catalog.
type Report struct {
	System         string
	RemovedMissing []string
	Merged         []string
	Deescaped      int
	GenresFixed    int
}

// Total returns the number of changes made.
func (r *Report) Total() int {
	return len(r.RemovedMissing) + len(r.Merged) + r.Deescaped + r.GenresFixed
}

// Clean runs the catalog passes in order: drop entries whose rom no longer
// exists, merge duplicate entries sharing a rom path, de-escape descriptive
// text, and fix known genre typos. The catalog is marked dirty only when a
// pass changed something.
func Clean(ctx context.Context, cat *gamelist.Catalog) *Report {
	log := logging.FromContext(ctx)
	report := &Report{System: cat.System}

	dropMissing(cat, report)
	mergeDuplicates(cat, report)
	deescapeText(cat, report)
	fixGenres(cat, report)

	if n := report.Total(); n > 0 {
		log.Info().Str("system", cat.System).Int("changes", n).Msg("Cleaned catalog")
	}
	return report
}

// dropMissing removes entries whose backing rom file is gone.
func dropMissing(cat *gamelist.Catalog, report *Report) {
	drop := make(map[*gamelist.Entry]bool)
	for _, e := range cat.Entries {
		if e.Path == "" {
			continue
		}
		if _, err := os.Stat(cat.Resolve(e.Path)); os.IsNotExist(err) {
			drop[e] = true
			report.RemovedMissing = append(report.RemovedMissing, e.Name)
		}
	}
	cat.Remove(drop)
}

// mergeDuplicates collapses entries that resolve to the same rom path.
// The first occurrence wins; attributes and fields it lacks are filled in
// from the later duplicates before those are dropped.
func mergeDuplicates(cat *gamelist.Catalog, report *Report) {
	seen := make(map[string]*gamelist.Entry)
	drop := make(map[*gamelist.Entry]bool)
	for _, e := range cat.Entries {
		key := cat.Resolve(e.Path)
		master, ok := seen[key]
		if !ok {
			seen[key] = e
			continue
		}
		mergeEntry(master, e)
		drop[e] = true
		report.Merged = append(report.Merged, e.Name)
	}
	cat.Remove(drop)
}

// mergeEntry folds dup into master without overwriting anything master
// already has.
func mergeEntry(master, dup *gamelist.Entry) {
	fields := []struct{ dst, src *string }{
		{&master.Name, &dup.Name},
		{&master.Desc, &dup.Desc},
		{&master.Developer, &dup.Developer},
		{&master.Genre, &dup.Genre},
		{&master.Image, &dup.Image},
		{&master.Video, &dup.Video},
	}
	for _, f := range fields {
		if *f.dst == "" {
			*f.dst = *f.src
		}
	}
	for _, name := range gamelist.TagNames {
		if dup.Tag(name) {
			master.SetTag(name, true)
		}
	}

	haveAttr := make(map[string]bool, len(master.Attrs))
	for _, a := range master.Attrs {
		haveAttr[a.Name.Local] = true
	}
	for _, a := range dup.Attrs {
		if !haveAttr[a.Name.Local] {
			master.Attrs = append(master.Attrs, a)
		}
	}

	haveExtra := make(map[string]bool, len(master.Extra))
	for _, x := range master.Extra {
		haveExtra[x.XMLName.Local] = true
	}
	for _, x := range dup.Extra {
		if !haveExtra[x.XMLName.Local] {
			master.Extra = append(master.Extra, x)
		}
	}
}

// deescapeText replaces entity artifacts in desc and developer only.
func deescapeText(cat *gamelist.Catalog, report *Report) {
	for _, e := range cat.Entries {
		for _, field := range []*string{&e.Desc, &e.Developer} {
			before := *field
			after := before
			for _, d := range deescapes {
				after = strings.ReplaceAll(after, d[0], d[1])
			}
			if after != before {
				*field = after
				report.Deescaped++
				cat.MarkDirty()
			}
		}
	}
}

// fixGenres renames mistyped genre values per the correction table.
func fixGenres(cat *gamelist.Catalog, report *Report) {
	for _, e := range cat.Entries {
		if fixed, ok := genreFixes[e.Genre]; ok {
			e.Genre = fixed
			report.GenresFixed++
			cat.MarkDirty()
		}
	}
}

// OverlayReport summarizes what CleanOverlay removed.
type OverlayReport struct {
	// Removed maps system -> identities dropped from the overlay.
	Removed map[string][]string
}

// Total returns the number of records removed.
func (r *OverlayReport) Total() int {
	n := 0
	for _, ids := range r.Removed {
		n += len(ids)
	}
	return n
}

// CleanOverlay unconditionally removes overlay records whose identity has
// no entry in the associated system's current catalog. Unlike sync, this is
// not gated by a policy: it is the explicit clean-kidlist request. Only the
// systems actually loaded are touched; records for unselected systems are
// left alone.
func CleanOverlay(ctx context.Context, cats []*gamelist.Catalog, overlay *kidlist.Overlay) *OverlayReport {
	log := logging.FromContext(ctx)
	report := &OverlayReport{Removed: make(map[string][]string)}

	for _, cat := range cats {
		index, _ := cat.Identities()
		for _, id := range overlay.Identities(cat.System) {
			if _, ok := index[id]; !ok {
				overlay.Delete(cat.System, id)
				report.Removed[cat.System] = append(report.Removed[cat.System], id)
			}
		}
		if n := len(report.Removed[cat.System]); n > 0 {
			log.Info().Str("system", cat.System).Int("removed", n).Msg("Dropped dangling overlay records")
		}
	}
	return report
}

// IncompleteReport summarizes what RemoveIncomplete dropped.
type IncompleteReport struct {
	System  string
	Removed []string
	// Warnings carry the specific missing assets for reporting.
	Warnings []*errors.MissingAssetWarning
}

// RemoveIncomplete drops entries missing a required media asset: image or
// video unset, or the referenced file absent. The intent is to force the
// scraper to revisit them on the next run.
func RemoveIncomplete(ctx context.Context, cat *gamelist.Catalog) *IncompleteReport {
	log := logging.FromContext(ctx)
	report := &IncompleteReport{System: cat.System}

	drop := make(map[*gamelist.Entry]bool)
	for _, e := range cat.Entries {
		warnings := MissingAssets(cat, e)
		if len(warnings) == 0 {
			continue
		}
		drop[e] = true
		report.Removed = append(report.Removed, e.Name)
		report.Warnings = append(report.Warnings, warnings...)
	}
	cat.Remove(drop)

	if len(report.Removed) > 0 {
		log.Info().Str("system", cat.System).Int("removed", len(report.Removed)).Msg("Removed incomplete entries")
	}
	return report
}

// MissingAssets reports which required media assets an entry lacks. An
// unset path and a dangling path are both missing.
func MissingAssets(cat *gamelist.Catalog, e *gamelist.Entry) []*errors.MissingAssetWarning {
	var warnings []*errors.MissingAssetWarning
	assets := []struct{ kind, path string }{
		{"image", e.Image},
		{"video", e.Video},
	}
	for _, a := range assets {
		if a.path == "" {
			warnings = append(warnings, &errors.MissingAssetWarning{
				System: cat.System, Name: e.Name, Asset: a.kind, Path: "(unset)",
			})
			continue
		}
		if _, err := os.Stat(cat.Resolve(a.path)); os.IsNotExist(err) {
			warnings = append(warnings, &errors.MissingAssetWarning{
				System: cat.System, Name: e.Name, Asset: a.kind, Path: a.path,
			})
		}
	}
	return warnings
}
