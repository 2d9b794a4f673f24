package reconcile

import (
	"fmt"
	"strings"

	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
)

// Action is the kind of change a sync made.
type Action string

const (
	// ActionImport recorded a tag found on a catalog entry into the overlay.
	ActionImport Action = "import"
	// ActionApply set a tag element on a catalog entry from its record.
	ActionApply Action = "apply"
	// ActionClear removed a tag element the overlay does not carry.
	ActionClear Action = "clear"
	// ActionDrop removed a stale overlay record (require-both only).
	ActionDrop Action = "drop"
)

// Change is a single reconciliation mutation.
type Change struct {
	Identity string
	Tag      kidlist.Tag // empty for record-level drops
	Action   Action
}

// Changeset reports everything one system's sync did.
type Changeset struct {
	System  string
	Policy  Policy
	Changes []Change

	// Conflicts are duplicate-identity reports; the run continues past them.
	Conflicts []error

	// Retained lists overlay-only identities kept by the Union policy.
	Retained []string
}

func (cs *Changeset) add(c Change) {
	cs.Changes = append(cs.Changes, c)
}

// Len returns the number of mutations made.
func (cs *Changeset) Len() int {
	return len(cs.Changes)
}

// String renders the changeset one mutation per line.
func (cs *Changeset) String() string {
	var b strings.Builder
	for _, c := range cs.Changes {
		if c.Action == ActionDrop {
			fmt.Fprintf(&b, "%s: %s\n", c.Action, c.Identity)
			continue
		}
		fmt.Fprintf(&b, "%s: %s %s\n", c.Action, c.Identity, c.Tag)
	}
	return b.String()
}
