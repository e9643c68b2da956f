package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vidyasagar/treesurf/internal/browser"
)

// Visit is one successful page load. Unlike the per-tab history tree, the
// visit log is flat and survives restarts.
type Visit struct {
	ID        int64
	SessionID string
	URL       string
	Title     string
	Kind      string
	VisitedAt time.Time
}

// VisitLog appends visits for one browser session.
type VisitLog struct {
	db      *sql.DB
	session string
}

// NewVisitLog starts a new session in the log.
func NewVisitLog(db *DB) *VisitLog {
	return &VisitLog{db: db.conn, session: uuid.NewString()}
}

// Session returns the id stamped on visits recorded by this log.
func (l *VisitLog) Session() string {
	return l.session
}

// Record appends a visit and returns its id.
func (l *VisitLog) Record(ctx context.Context, url, title, kind string) (int64, error) {
	res, err := l.db.ExecContext(ctx,
		`INSERT INTO visits (session_id, url, title, kind, visited_at) VALUES (?, ?, ?, ?, ?)`,
		l.session, url, title, kind, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("recording visit: %w", err)
	}
	return res.LastInsertId()
}

// SetTitle updates the title of a recorded visit. Titles often arrive after
// the load has been logged.
func (l *VisitLog) SetTitle(ctx context.Context, id int64, title string) error {
	res, err := l.db.ExecContext(ctx, `UPDATE visits SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return fmt.Errorf("updating visit title: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Recent returns up to limit visits across all sessions, newest first.
func (l *VisitLog) Recent(ctx context.Context, limit int) ([]Visit, error) {
	if limit <= 0 {
		limit = 50
	}
	return l.query(ctx,
		`SELECT id, session_id, url, title, kind, visited_at FROM visits ORDER BY id DESC LIMIT ?`,
		limit,
	)
}

// SessionVisits returns the visits of one session in the order they happened.
func (l *VisitLog) SessionVisits(ctx context.Context, session string) ([]Visit, error) {
	return l.query(ctx,
		`SELECT id, session_id, url, title, kind, visited_at FROM visits WHERE session_id = ? ORDER BY id`,
		session,
	)
}

// Clear deletes every visit and returns how many were removed.
func (l *VisitLog) Clear(ctx context.Context) (int64, error) {
	res, err := l.db.ExecContext(ctx, `DELETE FROM visits`)
	if err != nil {
		return 0, fmt.Errorf("clearing visits: %w", err)
	}
	return res.RowsAffected()
}

func (l *VisitLog) query(ctx context.Context, q string, args ...any) ([]Visit, error) {
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing visits: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var (
			v  Visit
			at int64
		)
		if err := rows.Scan(&v.ID, &v.SessionID, &v.URL, &v.Title, &v.Kind, &at); err != nil {
			return nil, fmt.Errorf("scanning visit: %w", err)
		}
		v.VisitedAt = time.Unix(at, 0)
		out = append(out, v)
	}
	return out, rows.Err()
}

// VisitsPage formats a session's visits as markdown, oldest first, with each
// entry numbered so it can be followed like a link.
func VisitsPage(visits []Visit) (string, []browser.Link) {
	var sb strings.Builder
	sb.WriteString("# This session\n\n")

	if len(visits) == 0 {
		sb.WriteString("Nothing loaded yet.\n")
		return sb.String(), nil
	}

	links := make([]browser.Link, 0, len(visits))
	for i, v := range visits {
		n := i + 1
		title := v.Title
		if title == "" {
			title = v.URL
		}
		fmt.Fprintf(&sb, "%d. *%s* **%s** **[%d]**  \n   `%s`\n\n", n, v.Kind, title, n, v.URL)
		links = append(links, browser.Link{Index: n, Text: title, URL: v.URL})
	}
	return sb.String(), links
}
