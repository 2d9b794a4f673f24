// Package kidgame keeps user annotations (favorite, hidden, kid-safe) for
// per-system game catalogs alive across catalog regeneration. Catalogs are
// the ephemeral gamelist.xml files an external scraper rewrites at will;
// annotations live in a single durable overlay keyed by (system, identity).
// A Library loads every selected catalog and the overlay exactly once,
// runs operations against the in-memory view, and writes everything back
// once at the end — or not at all under dry-run.
package kidgame

import (
	"context"
	"sort"

	"github.com/gofrs/flock"

	"github.com/geoffoxholm/retropie-scripts/pkg/backup"
	"github.com/geoffoxholm/retropie-scripts/pkg/cleaner"
	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/genres"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
	"github.com/geoffoxholm/retropie-scripts/pkg/logging"
	"github.com/geoffoxholm/retropie-scripts/pkg/reconcile"
	"github.com/geoffoxholm/retropie-scripts/pkg/videos"
)

// Library is the orchestrator: the loaded catalogs of every selected
// system plus the single cross-system overlay.
type Library struct {
	opts     *options
	Catalogs []*gamelist.Catalog
	Overlay  *kidlist.Overlay

	lock     *flock.Flock
	warnings []error
}

// Open discovers the selected systems' gamelists, loads them and the
// overlay, and (unless dry-run) takes the overlay lock so two invocations
// cannot race on the shared annotation state. A parse failure in any file
// aborts before anything can be written.
func Open(ctx context.Context, opts ...Option) (*Library, error) {
	log := logging.FromContext(ctx)
	o := newOptions(opts...)
	l := &Library{opts: o}

	if !o.dryRun && !o.noLock {
		l.lock = flock.New(o.overlayPath + ".lock")
		locked, err := l.lock.TryLock()
		if err != nil {
			return nil, errors.WrapIO("lock", l.lock.Path(), err)
		}
		if !locked {
			return nil, &errors.ConfigError{
				Component: "library",
				Message:   "another invocation holds the overlay lock",
			}
		}
	}

	overlay, err := kidlist.Load(o.overlayPath)
	if err != nil {
		l.unlock()
		return nil, err
	}
	l.Overlay = overlay

	sources, err := gamelist.Discover(o.romsDir)
	if err != nil {
		l.unlock()
		return nil, err
	}
	selected := selectSources(sources, o.systems)
	for _, requested := range o.systems {
		if !hasSystem(selected, requested) {
			l.Warn(&errors.ConfigError{
				Component: "library",
				Message:   "no gamelist found for system " + requested,
			})
		}
	}

	for _, src := range selected {
		cat, err := gamelist.Load(src.System, src.Path)
		if err != nil {
			l.unlock()
			return nil, err
		}
		log.Debug().Str("system", src.System).Int("entries", len(cat.Entries)).Msg("Loaded gamelist")
		l.Catalogs = append(l.Catalogs, cat)
	}

	return l, nil
}

// DryRun reports whether the library will refuse to persist anything.
func (l *Library) DryRun() bool { return l.opts.dryRun }

// Systems returns the loaded system names in order.
func (l *Library) Systems() []string {
	systems := make([]string, len(l.Catalogs))
	for i, cat := range l.Catalogs {
		systems[i] = cat.System
	}
	return systems
}

// Catalog returns the named system's catalog, or nil when not loaded.
func (l *Library) Catalog(system string) *gamelist.Catalog {
	for _, cat := range l.Catalogs {
		if cat.System == system {
			return cat
		}
	}
	return nil
}

// Warn collects a non-fatal per-entry issue for end-of-run reporting.
func (l *Library) Warn(err error) {
	if err != nil {
		l.warnings = append(l.warnings, err)
	}
}

// Warnings returns the collected non-fatal issues.
func (l *Library) Warnings() []error { return l.warnings }

// Sync reconciles every loaded system against the overlay under the given
// policy. The overlay is mutated in memory only; Save persists it.
func (l *Library) Sync(ctx context.Context, policy reconcile.Policy) []*reconcile.Changeset {
	changesets := make([]*reconcile.Changeset, 0, len(l.Catalogs))
	for _, cat := range l.Catalogs {
		cs := reconcile.Sync(logging.WithSystem(ctx, cat.System), cat, l.Overlay, policy)
		for _, conflict := range cs.Conflicts {
			l.Warn(conflict)
		}
		changesets = append(changesets, cs)
	}
	return changesets
}

// Clean runs the catalog normalization passes over every loaded system.
func (l *Library) Clean(ctx context.Context) []*cleaner.Report {
	reports := make([]*cleaner.Report, 0, len(l.Catalogs))
	for _, cat := range l.Catalogs {
		reports = append(reports, cleaner.Clean(logging.WithSystem(ctx, cat.System), cat))
	}
	return reports
}

// CleanOverlay drops overlay records with no entry in the current catalogs.
func (l *Library) CleanOverlay(ctx context.Context) *cleaner.OverlayReport {
	return cleaner.CleanOverlay(ctx, l.Catalogs, l.Overlay)
}

// RemoveIncomplete drops entries missing required media from every loaded
// system.
func (l *Library) RemoveIncomplete(ctx context.Context) []*cleaner.IncompleteReport {
	reports := make([]*cleaner.IncompleteReport, 0, len(l.Catalogs))
	for _, cat := range l.Catalogs {
		reports = append(reports, cleaner.RemoveIncomplete(logging.WithSystem(ctx, cat.System), cat))
	}
	return reports
}

// Genres groups the loaded entries by genre.
func (l *Library) Genres(order genres.Order) []genres.Group {
	return genres.Count(l.Catalogs, order)
}

// ApplyGenre runs a bulk genre action over the loaded catalogs.
func (l *Library) ApplyGenre(ctx context.Context, genre string, action genres.Action) *genres.Result {
	return genres.Apply(ctx, l.Catalogs, l.Overlay, genre, action)
}

// FormatVideos probes and converts the loaded entries' preview videos.
func (l *Library) FormatVideos(ctx context.Context, conv *videos.Converter) *videos.Report {
	conv.DryRun = conv.DryRun || l.opts.dryRun
	report := conv.Format(ctx, l.Catalogs)
	for _, err := range report.Failures {
		l.Warn(err)
	}
	return report
}

// Backup pushes a snapshot of the overlay and every loaded catalog.
func (l *Library) Backup() (*backup.Snapshot, error) {
	if l.opts.dryRun {
		return nil, nil
	}
	return backup.New(l.opts.backupsDir).Backup(l.opts.overlayPath, l.Catalogs)
}

// Revert restores the most recent snapshot covering the selected systems.
// The in-memory library is stale afterwards and must not be saved.
func Revert(ctx context.Context, opts ...Option) (*backup.Snapshot, error) {
	o := newOptions(opts...)
	if o.dryRun {
		snaps, err := backup.New(o.backupsDir).List()
		if err != nil {
			return nil, err
		}
		for _, snap := range snaps {
			if snap.Manifest.Covers(o.systems) {
				return &snap, nil
			}
		}
		return nil, &errors.NoBackupError{Scope: o.systems}
	}
	return backup.New(o.backupsDir).Revert(o.systems)
}

// Save persists every dirty catalog and the overlay, each written once,
// atomically. Under dry-run nothing touches disk and the pending change
// counts are logged instead.
func (l *Library) Save(ctx context.Context) error {
	log := logging.FromContext(ctx)

	if l.opts.dryRun {
		dirty := 0
		for _, cat := range l.Catalogs {
			if cat.Dirty() {
				dirty++
			}
		}
		log.Info().Int("dirty_catalogs", dirty).Msg("Dry run: nothing written")
		return nil
	}

	for _, cat := range l.Catalogs {
		if !cat.Dirty() {
			continue
		}
		if err := cat.Save(); err != nil {
			return err
		}
		log.Info().Str("system", cat.System).Str("path", cat.Path).Msg("Saved gamelist")
	}

	if err := l.Overlay.Save(); err != nil {
		return err
	}
	log.Debug().Str("path", l.Overlay.Path()).Msg("Saved overlay")
	return nil
}

// Close releases the overlay lock. Safe to call on a half-opened library.
func (l *Library) Close() error {
	return l.unlock()
}

func (l *Library) unlock() error {
	if l.lock == nil {
		return nil
	}
	err := l.lock.Unlock()
	l.lock = nil
	return err
}

// selectSources filters discovered systems by the requested names.
func selectSources(sources []gamelist.Source, systems []string) []gamelist.Source {
	if len(systems) == 0 {
		return sources
	}
	requested := make(map[string]bool, len(systems))
	for _, s := range systems {
		requested[s] = true
	}
	var selected []gamelist.Source
	for _, src := range sources {
		if requested[src.System] {
			selected = append(selected, src)
		}
	}
	sort.Slice(selected, func(i, j int) bool { return selected[i].System < selected[j].System })
	return selected
}

func hasSystem(sources []gamelist.Source, system string) bool {
	for _, src := range sources {
		if src.System == system {
			return true
		}
	}
	return false
}
