package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenDB(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	db, err := OpenDB(dir)
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, filepath.Join(dir, "treesurf.db"), db.Path())
	_, err = os.Stat(db.Path())
	assert.NoError(t, err)

	// Reopening runs the migrations again.
	require.NoError(t, db.Close())
	db2, err := OpenDB(dir)
	require.NoError(t, err)
	db2.Close()
}

func TestBookmarkStore(t *testing.T) {
	ctx := context.Background()
	bs := NewBookmarkStore(openTestDB(t))

	added, err := bs.Add(ctx, "https://a.example", "A")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = bs.Add(ctx, "https://b.example", "")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = bs.Add(ctx, "https://a.example", "A renamed")
	require.NoError(t, err)
	assert.False(t, added, "duplicate url only refreshes the title")

	_, err = bs.Add(ctx, "", "empty")
	assert.Error(t, err)

	n, err := bs.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := bs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "https://b.example", list[0].URL, "newest first")
	assert.Equal(t, "https://b.example", list[0].Title, "empty title falls back to url")
	assert.Equal(t, "A renamed", list[1].Title)
	assert.WithinDuration(t, time.Now(), list[1].CreatedAt, time.Minute)

	got, err := bs.Get(ctx, list[1].ID)
	require.NoError(t, err)
	assert.Equal(t, list[1], got)

	found, err := bs.Search(ctx, "renamed")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "https://a.example", found[0].URL)

	assert.True(t, bs.Has(ctx, "https://a.example"))
	require.NoError(t, bs.Remove(ctx, "https://a.example"))
	assert.False(t, bs.Has(ctx, "https://a.example"))
	assert.ErrorIs(t, bs.Remove(ctx, "https://a.example"), ErrNotFound)

	_, err = bs.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookmarksPage(t *testing.T) {
	md, links := BookmarksPage(nil)
	assert.Contains(t, md, "No bookmarks yet")
	assert.Empty(t, links)

	md, links = BookmarksPage([]Bookmark{
		{URL: "https://a.example", Title: "A", CreatedAt: time.Now()},
		{URL: "https://b.example", Title: "B", CreatedAt: time.Now().Add(-2 * time.Hour)},
	})
	require.Len(t, links, 2)
	assert.Equal(t, 2, links[1].Index)
	assert.Equal(t, "https://b.example", links[1].URL)
	assert.Contains(t, md, "2 hours ago")
	assert.Contains(t, md, "just now")
}

func TestTimeAgo(t *testing.T) {
	now := time.Now()
	tests := []struct {
		at   time.Time
		want string
	}{
		{now, "just now"},
		{now.Add(-time.Minute - time.Second), "1 minute ago"},
		{now.Add(-5 * time.Minute), "5 minutes ago"},
		{now.Add(-3 * time.Hour), "3 hours ago"},
		{now.Add(-49 * time.Hour), "2 days ago"},
		{time.Date(2020, 3, 4, 0, 0, 0, 0, time.UTC), "Mar 4, 2020"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TimeAgo(tt.at))
	}
}

func TestVisitLog(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	first := NewVisitLog(db)
	second := NewVisitLog(db)
	assert.NotEqual(t, first.Session(), second.Session())

	id, err := first.Record(ctx, "https://a.example", "", "navigate")
	require.NoError(t, err)
	_, err = first.Record(ctx, "https://home.example", "Home", "back")
	require.NoError(t, err)
	_, err = second.Record(ctx, "https://b.example", "B", "navigate")
	require.NoError(t, err)

	require.NoError(t, first.SetTitle(ctx, id, "Page A"))
	assert.ErrorIs(t, first.SetTitle(ctx, 999, "nope"), ErrNotFound)

	visits, err := first.SessionVisits(ctx, first.Session())
	require.NoError(t, err)
	require.Len(t, visits, 2)
	assert.Equal(t, "Page A", visits[0].Title)
	assert.Equal(t, "back", visits[1].Kind)

	recent, err := first.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "https://b.example", recent[0].URL)
	assert.Equal(t, second.Session(), recent[0].SessionID)

	n, err := first.Clear(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)

	recent, err = first.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestLoadConfig(t *testing.T) {
	t.Run("missing file writes defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "treesurf", "config.yml")
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "homepage: "+DefaultHomepage)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("homepage: https://start.example\npage_cache_size: 5\n"), 0o644))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "https://start.example", cfg.Homepage)
		assert.Equal(t, 5, cfg.PageCacheSize)
		assert.Equal(t, "default", cfg.Theme, "unset keys keep defaults")
	})

	t.Run("env overrides file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("theme: nord\n"), 0o644))
		t.Setenv("TREESURF_THEME", "gruvbox")
		t.Setenv("TREESURF_PAGE_CACHE_SIZE", "7")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "gruvbox", cfg.Theme)
		assert.Equal(t, 7, cfg.PageCacheSize)
	})

	t.Run("invalid search url", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("search_url: https://search.example/\n"), 0o644))

		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "search_url")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		require.NoError(t, os.WriteFile(path, []byte("theme: [unclosed\n"), 0o644))

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	cfg := DefaultConfig()
	cfg.Theme = "nord"
	cfg.LogFile = "/tmp/treesurf.log"
	require.NoError(t, cfg.Save(path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestUserDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_DATA_HOME", "/xdg/data")

	p, err := ConfigPath()
	require.NoError(t, err)
	d, err := DataDir()
	require.NoError(t, err)

	if runtime.GOOS != "linux" {
		t.Skip("XDG paths only apply on linux")
	}
	assert.Equal(t, "/xdg/config/treesurf/config.yml", p)
	assert.Equal(t, "/xdg/data/treesurf", d)
}

func TestVisitsPage(t *testing.T) {
	md, links := VisitsPage(nil)
	assert.Contains(t, md, "Nothing loaded yet")
	assert.Empty(t, links)

	md, links = VisitsPage([]Visit{
		{URL: "https://a.example", Title: "A", Kind: "start"},
		{URL: "https://b.example", Kind: "navigate"},
	})
	require.Len(t, links, 2)
	assert.Equal(t, 2, links[1].Index)
	assert.Equal(t, "https://b.example", links[1].Text, "untitled visits fall back to the URL")
	assert.Contains(t, md, "*navigate*")
	assert.Contains(t, md, "**[2]**")
}
