// Package reconcile aligns one system's ephemeral catalog with the durable
// annotation overlay. The overlay is authoritative for tags, but a freshly
// scraped gamelist may carry tag elements of its own (set through the
// frontend), so a sync merges those in before projecting the overlay back
// onto the catalog. Which records survive is decided by the policy.
package reconcile

import (
	"context"

	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
	"github.com/geoffoxholm/retropie-scripts/pkg/logging"
)

// Policy selects which identities survive a sync.
type Policy int

const (
	// Union keeps every identity present in either the catalog or the
	// overlay. An overlay record with no matching catalog entry is retained:
	// the game may only be missing from a partial, mid-rescrape catalog.
	Union Policy = iota

	// RequireBoth keeps only identities present in both. Overlay records
	// whose identity is absent from the system's current catalog are
	// dropped, trading resilience to partial catalogs for removal of truly
	// stale annotations.
	RequireBoth
)

// String returns the policy's CLI spelling.
func (p Policy) String() string {
	if p == RequireBoth {
		return "require-both"
	}
	return "union"
}

// Sync reconciles a single system. It never fabricates a record for an
// untagged catalog entry: absence of a record means "all tags false". Each
// system's namespace is independent; nothing here looks at other systems.
func Sync(ctx context.Context, cat *gamelist.Catalog, overlay *kidlist.Overlay, policy Policy) *Changeset {
	log := logging.FromContext(ctx)
	cs := &Changeset{System: cat.System, Policy: policy}

	index, conflicts := cat.Identities()
	cs.Conflicts = conflicts
	for _, err := range conflicts {
		log.Warn().Err(err).Msg("Duplicate identity in catalog")
	}

	sys := overlay.System(cat.System)
	hideAll := sys != nil && sys.HideAll
	if hideAll {
		log.Debug().Str("system", cat.System).Msg("System is marked hide_all")
	}

	importTags(cat, overlay, hideAll, cs)
	applyRecords(cat, overlay, hideAll, cs)

	// Overlay records with no catalog entry: retained under Union,
	// dropped under RequireBoth.
	for _, id := range overlay.Identities(cat.System) {
		if _, ok := index[id]; ok {
			continue
		}
		if policy == RequireBoth {
			overlay.Delete(cat.System, id)
			cs.add(Change{Identity: id, Action: ActionDrop})
		} else {
			cs.Retained = append(cs.Retained, id)
		}
	}

	return cs
}

// importTags merges tag elements found on catalog entries into the overlay.
// A tag is only ever turned on here; turning one off is the overlay's call.
func importTags(cat *gamelist.Catalog, overlay *kidlist.Overlay, hideAll bool, cs *Changeset) {
	for _, entry := range cat.Entries {
		id := entry.Identity()
		for _, tag := range kidlist.Tags {
			if hideAll && tag == kidlist.TagHidden {
				// hide_all owns the hidden flag for the whole system.
				continue
			}
			if !entry.Tag(string(tag)) {
				continue
			}
			rec := overlay.Record(cat.System, id)
			if rec != nil && rec.Get(tag) {
				continue
			}
			overlay.Ensure(cat.System, id).Set(tag, true)
			cs.add(Change{Identity: id, Tag: tag, Action: ActionImport})
		}
	}
}

// applyRecords projects overlay state onto the catalog's tag elements so
// the frontend sees the reconciled annotations.
func applyRecords(cat *gamelist.Catalog, overlay *kidlist.Overlay, hideAll bool, cs *Changeset) {
	for _, entry := range cat.Entries {
		rec := overlay.Record(cat.System, entry.Identity())
		for _, tag := range kidlist.Tags {
			want := rec != nil && rec.Get(tag)
			if hideAll && tag == kidlist.TagHidden {
				want = true
			}
			if entry.Tag(string(tag)) == want {
				continue
			}
			entry.SetTag(string(tag), want)
			cat.MarkDirty()
			action := ActionApply
			if !want {
				action = ActionClear
			}
			cs.add(Change{Identity: entry.Identity(), Tag: tag, Action: action})
		}
	}
}
