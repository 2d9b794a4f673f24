package reconcile_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
	"github.com/geoffoxholm/retropie-scripts/pkg/reconcile"
)

func mustParse(t *testing.T, system, doc string) *gamelist.Catalog {
	t.Helper()
	cat, err := gamelist.Parse(system, system+"/gamelist.xml", []byte(doc))
	require.NoError(t, err)
	return cat
}

func TestSyncAppliesOverlayToCatalog(t *testing.T) {
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./a.zip</path><name>A</name></game>
	<game><path>./b.zip</path><name>B</name></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")
	overlay.Ensure("snes", "a").Set(kidlist.TagKidgame, true)

	cs := reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)

	assert.True(t, cat.Entries[0].Tag(gamelist.TagKidgame))
	assert.False(t, cat.Entries[1].Tag(gamelist.TagKidgame))
	assert.True(t, cat.Dirty())
	assert.Equal(t, 1, cs.Len())
}

func TestSyncImportsCatalogTags(t *testing.T) {
	// Tags set through the frontend land in the gamelist; sync folds them
	// into the overlay so they survive the next rescrape.
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./a.zip</path><name>A</name><favorite>true</favorite></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")

	reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)

	rec := overlay.Record("snes", "a")
	require.NotNil(t, rec)
	assert.True(t, rec.Get(kidlist.TagFavorite))
	// The entry keeps its flag.
	assert.True(t, cat.Entries[0].Tag(gamelist.TagFavorite))
}

func TestSyncUnionRetainsOverlayOnlyRecords(t *testing.T) {
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./a.zip</path><name>A</name></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")
	overlay.Ensure("snes", "a").Set(kidlist.TagKidgame, true)
	overlay.Ensure("snes", "unplugged").Set(kidlist.TagFavorite, true)

	cs := reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)

	require.NotNil(t, overlay.Record("snes", "unplugged"),
		"union keeps records for games missing from the catalog")
	assert.Equal(t, []string{"unplugged"}, cs.Retained)
}

func TestSyncRequireBothDropsOverlayOnlyRecords(t *testing.T) {
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./a.zip</path><name>A</name></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")
	overlay.Ensure("snes", "a").Set(kidlist.TagKidgame, true)
	overlay.Ensure("snes", "unplugged").Set(kidlist.TagFavorite, true)

	cs := reconcile.Sync(context.Background(), cat, overlay, reconcile.RequireBoth)

	assert.Nil(t, overlay.Record("snes", "unplugged"))
	assert.NotNil(t, overlay.Record("snes", "a"),
		"records present in both stores always survive")
	assert.Empty(t, cs.Retained)
}

func TestSyncMatchesByIdentityNotPath(t *testing.T) {
	// The overlay keys by rom base name, so a record written when the
	// catalog said "./a.zip" still matches a rescraped absolute path.
	cat := mustParse(t, "snes", `<gameList>
	<game><path>/home/pi/RetroPie/roms/snes/a.zip</path><name>A</name></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")
	overlay.Ensure("snes", "a").Set(kidlist.TagKidgame, true)

	reconcile.Sync(context.Background(), cat, overlay, reconcile.RequireBoth)

	assert.NotNil(t, overlay.Record("snes", "a"))
	assert.True(t, cat.Entries[0].Tag(gamelist.TagKidgame))
}

func TestSyncHideAll(t *testing.T) {
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./a.zip</path><name>A</name></game>
	<game><path>./b.zip</path><name>B</name><hidden>true</hidden></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")
	overlay.Systems["snes"] = &kidlist.System{HideAll: true}

	reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)

	// Every entry ends up hidden, but no per-game hidden records are
	// fabricated; hide_all owns the flag for the whole system.
	assert.True(t, cat.Entries[0].Tag(gamelist.TagHidden))
	assert.True(t, cat.Entries[1].Tag(gamelist.TagHidden))
	assert.Nil(t, overlay.Record("snes", "a"))
	assert.Nil(t, overlay.Record("snes", "b"))
}

func TestSyncReportsConflicts(t *testing.T) {
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./a.zip</path><name>A</name></game>
	<game><path>./sub/a.zip</path><name>Also A</name></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")

	cs := reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)
	assert.Len(t, cs.Conflicts, 1)
}

func TestSyncIdempotent(t *testing.T) {
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./a.zip</path><name>A</name><favorite>true</favorite></game>
	<game><path>./b.zip</path><name>B</name></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")
	overlay.Ensure("snes", "b").Set(kidlist.TagHidden, true)

	first := reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)
	assert.NotZero(t, first.Len())

	second := reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)
	assert.Zero(t, second.Len(), "a second sync of an unchanged pair is a no-op")
}

func TestSyncNeverFabricatesRecords(t *testing.T) {
	cat := mustParse(t, "snes", `<gameList>
	<game><path>./untagged.zip</path><name>Untagged</name></game>
</gameList>`)
	overlay := kidlist.New("kidlist.yaml")

	reconcile.Sync(context.Background(), cat, overlay, reconcile.Union)
	assert.Empty(t, overlay.Identities("snes"))
}

func TestPolicyString(t *testing.T) {
	assert.Equal(t, "union", reconcile.Union.String())
	assert.Equal(t, "require-both", reconcile.RequireBoth.String())
}
