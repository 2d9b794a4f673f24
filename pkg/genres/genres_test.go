package genres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geoffoxholm/retropie-scripts/pkg/gamelist"
	"github.com/geoffoxholm/retropie-scripts/pkg/genres"
	"github.com/geoffoxholm/retropie-scripts/pkg/kidlist"
)

func testCatalogs(t *testing.T) []*gamelist.Catalog {
	t.Helper()
	snes, err := gamelist.Parse("snes", "snes/gamelist.xml", []byte(`<gameList>
	<game><path>./smw.zip</path><name>Super Mario World</name><genre>Platform</genre></game>
	<game><path>./fzero.zip</path><name>F-Zero</name><genre>Racing</genre></game>
	<game><path>./mystery.zip</path><name>Mystery</name></game>
</gameList>`))
	require.NoError(t, err)
	gba, err := gamelist.Parse("gba", "gba/gamelist.xml", []byte(`<gameList>
	<game><path>./mario.zip</path><name>Mario Advance</name><genre>Platform</genre></game>
	<game><path>./wario.zip</path><name>Wario Land</name><genre>Platformer</genre></game>
</gameList>`))
	require.NoError(t, err)
	return []*gamelist.Catalog{snes, gba}
}

func TestCountOrderCount(t *testing.T) {
	groups := genres.Count(testCatalogs(t), genres.OrderCount)
	require.Len(t, groups, 4)

	assert.Equal(t, genres.Group{Name: "Platform", Count: 2}, groups[0])
	// Singleton groups tie; ties break lexicographically. The empty genre
	// sorts first among them.
	assert.Equal(t, genres.Group{Name: "", Count: 1}, groups[1])
	assert.Equal(t, genres.Group{Name: "Platformer", Count: 1}, groups[2])
	assert.Equal(t, genres.Group{Name: "Racing", Count: 1}, groups[3])
}

func TestCountOrderAlpha(t *testing.T) {
	groups := genres.Count(testCatalogs(t), genres.OrderAlpha)
	require.Len(t, groups, 4)
	assert.Equal(t, "", groups[0].Name)
	assert.Equal(t, "Platform", groups[1].Name)
	assert.Equal(t, "Platformer", groups[2].Name)
	assert.Equal(t, "Racing", groups[3].Name)
}

func TestParseOrder(t *testing.T) {
	order, err := genres.ParseOrder("")
	require.NoError(t, err)
	assert.Equal(t, genres.OrderCount, order)

	order, err = genres.ParseOrder("alpha")
	require.NoError(t, err)
	assert.Equal(t, genres.OrderAlpha, order)

	_, err = genres.ParseOrder("bogus")
	assert.Error(t, err)
}

func TestParseAction(t *testing.T) {
	action, err := genres.ParseAction("")
	require.NoError(t, err)
	assert.Equal(t, genres.ActionList, action)

	for _, s := range []string{"list", "remove", "favorite", "hidden", "kidgame"} {
		action, err = genres.ParseAction(s)
		require.NoError(t, err)
		assert.Equal(t, genres.Action(s), action)
	}

	_, err = genres.ParseAction("bogus")
	assert.Error(t, err)
}

func TestApplyListIsReadOnly(t *testing.T) {
	cats := testCatalogs(t)
	overlay := kidlist.New("kidlist.yaml")

	res := genres.Apply(context.Background(), cats, overlay, "Platform", genres.ActionList)

	require.Len(t, res.Matches, 2)
	assert.Equal(t, 0, res.Tagged)
	assert.Equal(t, 0, res.Removed)
	assert.Empty(t, overlay.Systems)
	for _, cat := range cats {
		assert.False(t, cat.Dirty())
	}
}

func TestApplyTagsExactMatchesOnly(t *testing.T) {
	cats := testCatalogs(t)
	overlay := kidlist.New("kidlist.yaml")

	res := genres.Apply(context.Background(), cats, overlay, "Platform", genres.ActionKidgame)

	assert.Equal(t, 2, res.Tagged)
	require.NotNil(t, overlay.Record("snes", "smw"))
	assert.True(t, overlay.Record("snes", "smw").Get(kidlist.TagKidgame))
	assert.True(t, overlay.Record("gba", "mario").Get(kidlist.TagKidgame))

	// "Platformer" is a different genre, not a prefix match.
	assert.Nil(t, overlay.Record("gba", "wario"))

	// The catalog entries carry the flag too.
	assert.True(t, cats[0].Entries[0].Tag(gamelist.TagKidgame))
	assert.True(t, cats[0].Dirty())
}

func TestApplyTagAlreadySet(t *testing.T) {
	cats := testCatalogs(t)
	overlay := kidlist.New("kidlist.yaml")
	overlay.Ensure("snes", "smw").Set(kidlist.TagKidgame, true)

	res := genres.Apply(context.Background(), cats, overlay, "Platform", genres.ActionKidgame)
	assert.Equal(t, 1, res.Tagged, "only newly set records count")
}

func TestApplyRemove(t *testing.T) {
	cats := testCatalogs(t)
	overlay := kidlist.New("kidlist.yaml")

	res := genres.Apply(context.Background(), cats, overlay, "Racing", genres.ActionRemove)

	assert.Equal(t, 1, res.Removed)
	require.Len(t, cats[0].Entries, 2)
	for _, e := range cats[0].Entries {
		assert.NotEqual(t, "F-Zero", e.Name)
	}
	assert.True(t, cats[0].Dirty())
	assert.False(t, cats[1].Dirty())
}

func TestApplyNoMatches(t *testing.T) {
	cats := testCatalogs(t)
	overlay := kidlist.New("kidlist.yaml")

	res := genres.Apply(context.Background(), cats, overlay, "Shmup", genres.ActionKidgame)
	assert.Empty(t, res.Matches)
	assert.Equal(t, 0, res.Tagged)
}
