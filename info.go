package kidgame

import (
	"github.com/geoffoxholm/retropie-scripts/pkg/cleaner"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
)

// SystemInfo summarizes one system's catalog and overlay state.
type SystemInfo struct {
	System      string
	Games       int
	TagCounts   map[kidlist.Tag]int
	OverlayOnly int
	MissingArt  int
	HideAll     bool
}

// Info summarizes every loaded system. Overlay-only counts records the
// overlay carries for identities the catalog no longer lists; MissingArt
// counts entries whose image or video is unset or absent on disk.
func (l *Library) Info() []SystemInfo {
	infos := make([]SystemInfo, 0, len(l.Catalogs))
	for _, cat := range l.Catalogs {
		info := SystemInfo{
			System:    cat.System,
			Games:     len(cat.Entries),
			TagCounts: make(map[kidlist.Tag]int, len(kidlist.Tags)),
		}
		for _, tag := range kidlist.Tags {
			info.TagCounts[tag] = l.Overlay.Count(cat.System, tag)
		}
		if sys := l.Overlay.System(cat.System); sys != nil {
			info.HideAll = sys.HideAll
		}
		index, _ := cat.Identities()
		for _, id := range l.Overlay.Identities(cat.System) {
			if index[id] == nil {
				info.OverlayOnly++
			}
		}
		for _, entry := range cat.Entries {
			if len(cleaner.MissingAssets(cat, entry)) > 0 {
				info.MissingArt++
			}
		}
		infos = append(infos, info)
	}
	return infos
}
