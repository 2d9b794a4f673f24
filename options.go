package kidgame

import (
	"os"
	"path/filepath"
)

// options holds the library configuration assembled by Open.
type options struct {
	romsDir     string
	overlayPath string
	backupsDir  string
	systems     []string
	dryRun      bool
	noLock      bool
}

// Option is a functional option for configuring the library.
type Option func(*options)

// defaultOptions returns the conventional RetroPie locations.
func defaultOptions() *options {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &options{
		romsDir:     filepath.Join(home, "RetroPie", "roms"),
		overlayPath: filepath.Join(home, ".emulationstation", "kidlist.yaml"),
		backupsDir:  filepath.Join(home, ".emulationstation", "kidgame-backups"),
	}
}

// WithRomsDir sets the directory scanned for per-system gamelists.
func WithRomsDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.romsDir = dir
		}
	}
}

// WithOverlayPath sets the kidlist overlay file.
func WithOverlayPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.overlayPath = path
		}
	}
}

// WithBackupsDir sets where snapshots are stacked.
func WithBackupsDir(dir string) Option {
	return func(o *options) {
		if dir != "" {
			o.backupsDir = dir
		}
	}
}

// WithSystems restricts the run to the named systems. Empty means all
// systems discovered under the roms directory.
func WithSystems(systems []string) Option {
	return func(o *options) { o.systems = systems }
}

// WithDryRun computes and reports changes without persisting anything.
func WithDryRun(dryRun bool) Option {
	return func(o *options) { o.dryRun = dryRun }
}

// WithoutLock skips the overlay file lock. Used by tests; concurrent runs
// against one overlay are otherwise guarded.
func WithoutLock() Option {
	return func(o *options) { o.noLock = true }
}

func newOptions(opts ...Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}
