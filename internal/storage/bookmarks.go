package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/vidyasagar/treesurf/internal/browser"
)

// Bookmark is a saved page.
type Bookmark struct {
	ID        int64
	URL       string
	Title     string
	CreatedAt time.Time
}

// BookmarkStore keeps bookmarks in SQLite.
type BookmarkStore struct {
	db *sql.DB
}

func NewBookmarkStore(db *DB) *BookmarkStore {
	return &BookmarkStore{db: db.conn}
}

// Add saves url. It reports false if the URL was already bookmarked, in
// which case only the title is refreshed.
func (s *BookmarkStore) Add(ctx context.Context, url, title string) (bool, error) {
	if url == "" {
		return false, errors.New("bookmark url is empty")
	}
	if title == "" {
		title = url
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE bookmarks SET title = ? WHERE url = ?`, title, url)
	if err != nil {
		return false, fmt.Errorf("updating bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return false, nil
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO bookmarks (url, title, created_at) VALUES (?, ?, ?)`,
		url, title, time.Now().Unix(),
	)
	if err != nil {
		return false, fmt.Errorf("adding bookmark: %w", err)
	}
	return true, nil
}

// Remove deletes the bookmark for url.
func (s *BookmarkStore) Remove(ctx context.Context, url string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE url = ?`, url)
	if err != nil {
		return fmt.Errorf("removing bookmark: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns the bookmark with the given id.
func (s *BookmarkStore) Get(ctx context.Context, id int64) (Bookmark, error) {
	var (
		b       Bookmark
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, url, title, created_at FROM bookmarks WHERE id = ?`, id,
	).Scan(&b.ID, &b.URL, &b.Title, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Bookmark{}, ErrNotFound
	}
	if err != nil {
		return Bookmark{}, fmt.Errorf("loading bookmark %d: %w", id, err)
	}
	b.CreatedAt = time.Unix(created, 0)
	return b, nil
}

// Has reports whether url is bookmarked.
func (s *BookmarkStore) Has(ctx context.Context, url string) bool {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks WHERE url = ?`, url).Scan(&count)
	return err == nil && count > 0
}

// List returns all bookmarks, newest first.
func (s *BookmarkStore) List(ctx context.Context) ([]Bookmark, error) {
	return s.query(ctx, `SELECT id, url, title, created_at FROM bookmarks ORDER BY id DESC`)
}

// Search returns bookmarks whose title or URL contains q.
func (s *BookmarkStore) Search(ctx context.Context, q string) ([]Bookmark, error) {
	like := "%" + q + "%"
	return s.query(ctx,
		`SELECT id, url, title, created_at FROM bookmarks
		 WHERE title LIKE ? OR url LIKE ?
		 ORDER BY id DESC`,
		like, like,
	)
}

// Count returns the number of bookmarks.
func (s *BookmarkStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting bookmarks: %w", err)
	}
	return n, nil
}

func (s *BookmarkStore) query(ctx context.Context, q string, args ...any) ([]Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		var (
			b       Bookmark
			created int64
		)
		if err := rows.Scan(&b.ID, &b.URL, &b.Title, &created); err != nil {
			return nil, fmt.Errorf("scanning bookmark: %w", err)
		}
		b.CreatedAt = time.Unix(created, 0)
		out = append(out, b)
	}
	return out, rows.Err()
}

// BookmarksPage formats bookmarks as markdown for the viewport, numbering
// each entry so it can be followed like a link.
func BookmarksPage(bookmarks []Bookmark) (string, []browser.Link) {
	var sb strings.Builder
	sb.WriteString("# Bookmarks\n\n")

	if len(bookmarks) == 0 {
		sb.WriteString("No bookmarks yet. Use `:bookmark` or press `B` to save the current page.\n")
		return sb.String(), nil
	}

	links := make([]browser.Link, 0, len(bookmarks))
	for i, b := range bookmarks {
		n := i + 1
		fmt.Fprintf(&sb, "%d. **%s** **[%d]**  \n   `%s`  \n   saved %s\n\n",
			n, b.Title, n, b.URL, TimeAgo(b.CreatedAt))
		links = append(links, browser.Link{Index: n, Text: b.Title, URL: b.URL})
	}
	return sb.String(), links
}

// TimeAgo formats t relative to now.
func TimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return plural(int(d.Minutes()), "minute") + " ago"
	case d < 24*time.Hour:
		return plural(int(d.Hours()), "hour") + " ago"
	case d < 30*24*time.Hour:
		return plural(int(d.Hours()/24), "day") + " ago"
	default:
		return t.Format("Jan 2, 2006")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
