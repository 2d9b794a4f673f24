package cleaner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoffoxholm/retropie-scripts/pkg/cleaner"
	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
)

// writeSystem lays out a system directory with rom files and returns a
// catalog parsed from doc, anchored there.
func writeSystem(t *testing.T, doc string, files ...string) *gamelist.Catalog {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		path := filepath.Join(dir, f)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("rom"), 0644))
	}
	cat, err := gamelist.Parse("snes", filepath.Join(dir, "gamelist.xml"), []byte(doc))
	require.NoError(t, err)
	return cat
}

func TestCleanDropsMissingAndFixesGenre(t *testing.T) {
	cat := writeSystem(t, `<gameList>
	<game><path>./a.zip</path><name>A</name><genre>Plateform</genre></game>
	<game><path>./gone.zip</path><name>Gone</name></game>
</gameList>`, "a.zip")

	report := cleaner.Clean(context.Background(), cat)

	assert.Equal(t, []string{"Gone"}, report.RemovedMissing)
	assert.Equal(t, 1, report.GenresFixed)
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, "Platform", cat.Entries[0].Genre)
	assert.True(t, cat.Dirty())
}

func TestCleanDeescapesDescOnly(t *testing.T) {
	cat := writeSystem(t, `<gameList>
	<game>
		<path>./a.zip</path>
		<name>Chip &amp;amp; Dale</name>
		<desc>Chip &amp;amp; Dale say &amp;quot;hi&amp;quot;.</desc>
		<developer>Rare &amp;amp; Co</developer>
	</game>
</gameList>`, "a.zip")

	report := cleaner.Clean(context.Background(), cat)

	assert.Equal(t, 2, report.Deescaped)
	assert.Equal(t, `Chip & Dale say "hi".`, cat.Entries[0].Desc)
	assert.Equal(t, "Rare & Co", cat.Entries[0].Developer)
	// Names are identity-adjacent and left alone.
	assert.Equal(t, "Chip &amp; Dale", cat.Entries[0].Name)
}

func TestCleanMergesDuplicates(t *testing.T) {
	cat := writeSystem(t, `<gameList>
	<game id="1"><path>./a.zip</path><name>A</name></game>
	<game source="scraper"><path>./a.zip</path><name>A again</name><desc>The same rom.</desc><favorite>true</favorite></game>
	<game><path>./b.zip</path><name>B</name></game>
</gameList>`, "a.zip", "b.zip")

	report := cleaner.Clean(context.Background(), cat)

	assert.Equal(t, []string{"A again"}, report.Merged)
	require.Len(t, cat.Entries, 2)

	master := cat.Entries[0]
	assert.Equal(t, "A", master.Name, "first occurrence wins")
	assert.Equal(t, "The same rom.", master.Desc, "missing fields are filled from the duplicate")
	assert.True(t, master.Tag(gamelist.TagFavorite))
	require.Len(t, master.Attrs, 2, "attributes merge by name")
}

func TestCleanIdempotent(t *testing.T) {
	cat := writeSystem(t, `<gameList>
	<game><path>./a.zip</path><name>A</name><genre>Plateform</genre><desc>A &amp;amp; B</desc></game>
	<game><path>./a.zip</path><name>Dup</name></game>
	<game><path>./gone.zip</path><name>Gone</name></game>
</gameList>`, "a.zip")

	first := cleaner.Clean(context.Background(), cat)
	assert.NotZero(t, first.Total())

	second := cleaner.Clean(context.Background(), cat)
	assert.Zero(t, second.Total(), "cleaning a clean catalog changes nothing")
}

func TestCleanOverlay(t *testing.T) {
	cat := writeSystem(t, `<gameList>
	<game><path>./a.zip</path><name>A</name></game>
</gameList>`, "a.zip")

	overlay := kidlist.New("kidlist.yaml")
	overlay.Ensure("snes", "a").Set(kidlist.TagKidgame, true)
	overlay.Ensure("snes", "zzz").Set(kidlist.TagFavorite, true)
	overlay.Ensure("unloaded", "zzz").Set(kidlist.TagFavorite, true)

	report := cleaner.CleanOverlay(context.Background(), []*gamelist.Catalog{cat}, overlay)

	assert.Equal(t, 1, report.Total())
	assert.Equal(t, []string{"zzz"}, report.Removed["snes"])
	assert.NotNil(t, overlay.Record("snes", "a"))
	assert.NotNil(t, overlay.Record("unloaded", "zzz"),
		"systems not loaded this run are untouched")
}

func TestRemoveIncomplete(t *testing.T) {
	cat := writeSystem(t, `<gameList>
	<game><path>./a.zip</path><name>Complete</name><image>./media/a.png</image><video>./media/a.mp4</video></game>
	<game><path>./b.zip</path><name>No media</name></game>
	<game><path>./c.zip</path><name>Dangling video</name><image>./media/c.png</image><video>./media/c.mp4</video></game>
</gameList>`, "a.zip", "b.zip", "c.zip", "media/a.png", "media/a.mp4", "media/c.png")

	report := cleaner.RemoveIncomplete(context.Background(), cat)

	assert.Equal(t, []string{"No media", "Dangling video"}, report.Removed)
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, "Complete", cat.Entries[0].Name)
	assert.True(t, cat.Dirty())
}

func TestMissingAssets(t *testing.T) {
	cat := writeSystem(t, `<gameList>
	<game><path>./a.zip</path><name>A</name><image>./media/a.png</image></game>
</gameList>`, "a.zip")

	warnings := cleaner.MissingAssets(cat, cat.Entries[0])
	require.Len(t, warnings, 2)
	assert.Equal(t, "image", warnings[0].Asset)
	assert.Equal(t, "./media/a.png", warnings[0].Path)
	assert.Equal(t, "video", warnings[1].Asset)
	assert.Equal(t, "(unset)", warnings[1].Path)
}
