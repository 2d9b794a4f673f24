// Package genres groups the reconciled view by genre and applies bulk tag
// mutations. Matching is exact-string on the stored genre value: cleaning
// dirty data first is the caller's job, nothing here auto-corrects.
package genres

import (
	"context"
	"sort"

	"github.com/geoffoxholm/retropie-scripts/pkg/errors"
	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
	"github.com/geoffoxholm/retropie-scripts/pkg/logging"
)

// Order selects how genre groups are sorted.
type Order int

const (
	// OrderAlpha sorts groups lexicographically.
	OrderAlpha Order = iota
	// OrderCount sorts groups by descending count, ties lexicographic.
	OrderCount
)

// ParseOrder maps the CLI spellings to an Order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "", "count":
		return OrderCount, nil
	case "alpha":
		return OrderAlpha, nil
	}
	return 0, &errors.ConfigError{Component: "genres", Message: "order must be count or alpha"}
}

// Group is one genre and the number of entries carrying it.
type Group struct {
	Name  string
	Count int
}

// Count groups every entry in the given catalogs by genre, case-sensitively.
// Entries with an empty genre group under the empty string.
func Count(cats []*gamelist.Catalog, order Order) []Group {
	counts := make(map[string]int)
	for _, cat := range cats {
		for _, e := range cat.Entries {
			counts[e.Genre]++
		}
	}

	groups := make([]Group, 0, len(counts))
	for name, n := range counts {
		groups = append(groups, Group{Name: name, Count: n})
	}
	switch order {
	case OrderCount:
		sort.Slice(groups, func(i, j int) bool {
			if groups[i].Count != groups[j].Count {
				return groups[i].Count > groups[j].Count
			}
			return groups[i].Name < groups[j].Name
		})
	default:
		sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	}
	return groups
}

// Action is what to do with the entries of a genre.
type Action string

// Genre actions. ActionList is read-only; the tag actions set the
// corresponding overlay tag; ActionRemove deletes matching entries from
// their catalogs entirely.
const (
	ActionList     Action = "list"
	ActionRemove   Action = "remove"
	ActionFavorite Action = "favorite"
	ActionHidden   Action = "hidden"
	ActionKidgame  Action = "kidgame"
)

// ParseAction validates a CLI action argument. The default is list.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case "":
		return ActionList, nil
	case ActionList, ActionRemove, ActionFavorite, ActionHidden, ActionKidgame:
		return Action(s), nil
	}
	return "", &errors.ConfigError{Component: "genres", Message: "action must be list, remove, favorite, hidden or kidgame"}
}

// Match is one entry whose genre matched.
type Match struct {
	System string
	Name   string
	Path   string
}

// Result reports what Apply matched and mutated.
type Result struct {
	Genre   string
	Action  Action
	Matches []Match
	Tagged  int
	Removed int
}

// Apply runs one action over every entry whose genre equals genre exactly.
// Matching zero entries is not an error. Removal marks the affected
// catalogs dirty; whether anything reaches disk is the orchestrator's
// dry-run decision.
func Apply(ctx context.Context, cats []*gamelist.Catalog, overlay *kidlist.Overlay, genre string, action Action) *Result {
	log := logging.FromContext(ctx)
	res := &Result{Genre: genre, Action: action}

	for _, cat := range cats {
		drop := make(map[*gamelist.Entry]bool)
		for _, e := range cat.Entries {
			if e.Genre != genre {
				continue
			}
			res.Matches = append(res.Matches, Match{System: cat.System, Name: e.Name, Path: e.Path})

			switch action {
			case ActionList:
				// read-only
			case ActionRemove:
				drop[e] = true
				res.Removed++
			default:
				tag := kidlist.Tag(action)
				rec := overlay.Ensure(cat.System, e.Identity())
				if !rec.Get(tag) {
					rec.Set(tag, true)
					res.Tagged++
				}
				if !e.Tag(string(tag)) {
					e.SetTag(string(tag), true)
					cat.MarkDirty()
				}
			}
		}
		if len(drop) > 0 {
			cat.Remove(drop)
			log.Info().
				Str("system", cat.System).
				Int("removed", len(drop)).
				Str("genre", genre).
				Msg("Removed entries by genre")
		}
	}

	return res
}
