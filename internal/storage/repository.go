package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/glabrego/vidfeed/internal/feedapi"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// One writer; the outbox flusher and the UI share the handle.
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS videos (
  key TEXT PRIMARY KEY,
  video_id TEXT NOT NULL,
  title TEXT NOT NULL,
  author TEXT,
  link TEXT NOT NULL,
  thumbnail_url TEXT,
  description TEXT,
  published_at TEXT,
  watched INTEGER NOT NULL DEFAULT 0,
  bookmarked INTEGER NOT NULL DEFAULT 0,
  starred INTEGER NOT NULL DEFAULT 0,
  disliked INTEGER NOT NULL DEFAULT 0,
  fetched_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS view_entries (
  view TEXT NOT NULL,
  position INTEGER NOT NULL,
  key TEXT NOT NULL,
  PRIMARY KEY (view, key)
);
CREATE INDEX IF NOT EXISTS idx_view_entries_position ON view_entries(view, position);
CREATE TABLE IF NOT EXISTS events (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  video_id TEXT NOT NULL,
  title TEXT,
  author TEXT,
  occurred_at TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  attempts INTEGER NOT NULL DEFAULT 0,
  last_error TEXT,
  sent_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_status ON events(status, occurred_at);
CREATE TABLE IF NOT EXISTS preferences (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// SaveViewPage caches one fetched page of a view. Page 1 replaces whatever
// the view held before.
func (r *Repository) SaveViewPage(ctx context.Context, view string, page int, videos []feedapi.Video) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if page <= 1 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM view_entries WHERE view = ?`, view); err != nil {
			return fmt.Errorf("clear view %s: %w", view, err)
		}
	}

	var offset int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position), -1) + 1 FROM view_entries WHERE view = ?`, view).Scan(&offset); err != nil {
		return fmt.Errorf("read view %s position: %w", view, err)
	}

	videoStmt, err := tx.PrepareContext(ctx, `
INSERT INTO videos (key, video_id, title, author, link, thumbnail_url, description, published_at, watched, bookmarked, starred, disliked, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
  video_id=excluded.video_id,
  title=excluded.title,
  author=excluded.author,
  link=excluded.link,
  thumbnail_url=excluded.thumbnail_url,
  description=excluded.description,
  published_at=excluded.published_at,
  watched=excluded.watched,
  bookmarked=excluded.bookmarked,
  starred=excluded.starred,
  disliked=excluded.disliked,
  fetched_at=excluded.fetched_at
`)
	if err != nil {
		return fmt.Errorf("prepare video statement: %w", err)
	}
	defer videoStmt.Close()

	entryStmt, err := tx.PrepareContext(ctx, `
INSERT INTO view_entries (view, position, key) VALUES (?, ?, ?)
ON CONFLICT(view, key) DO NOTHING
`)
	if err != nil {
		return fmt.Errorf("prepare view entry statement: %w", err)
	}
	defer entryStmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i, v := range videos {
		key := v.Key()
		if key == "" {
			continue
		}
		var published string
		if !v.PublishedAt.IsZero() {
			published = v.PublishedAt.UTC().Format(time.RFC3339Nano)
		}
		_, err := videoStmt.ExecContext(
			ctx,
			key,
			v.ID,
			v.Title,
			v.Author,
			v.Link,
			v.ThumbnailURL,
			v.Description,
			published,
			boolToInt(v.Watched),
			boolToInt(v.Bookmarked),
			boolToInt(v.Starred),
			boolToInt(v.Disliked),
			now,
		)
		if err != nil {
			return fmt.Errorf("save video %s: %w", key, err)
		}
		if _, err := entryStmt.ExecContext(ctx, view, offset+i, key); err != nil {
			return fmt.Errorf("save view entry %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveFlags stores the mutable flags of a video after a confirmed change.
func (r *Repository) SaveFlags(ctx context.Context, v feedapi.Video) error {
	_, err := r.db.ExecContext(ctx, `
UPDATE videos SET watched = ?, bookmarked = ?, starred = ?, disliked = ?
WHERE key = ?
`, boolToInt(v.Watched), boolToInt(v.Bookmarked), boolToInt(v.Starred), boolToInt(v.Disliked), v.Key())
	if err != nil {
		return fmt.Errorf("save flags for %s: %w", v.Key(), err)
	}
	return nil
}

// ListView returns the cached list of a view in the order it was fetched.
func (r *Repository) ListView(ctx context.Context, view string, limit int) ([]feedapi.Video, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT v.video_id, v.title, v.author, v.link, v.thumbnail_url, v.description, v.published_at,
       v.watched, v.bookmarked, v.starred, v.disliked
FROM view_entries e
JOIN videos v ON v.key = e.key
WHERE e.view = ?
ORDER BY e.position
LIMIT ?
`, view, limit)
	if err != nil {
		return nil, fmt.Errorf("query view %s: %w", view, err)
	}
	defer rows.Close()

	videos := make([]feedapi.Video, 0, limit)
	for rows.Next() {
		var v feedapi.Video
		var author, thumbnail, description, published sql.NullString
		var watched, bookmarked, starred, disliked int
		if err := rows.Scan(
			&v.ID,
			&v.Title,
			&author,
			&v.Link,
			&thumbnail,
			&description,
			&published,
			&watched,
			&bookmarked,
			&starred,
			&disliked,
		); err != nil {
			return nil, fmt.Errorf("scan video: %w", err)
		}
		v.Author = author.String
		v.ThumbnailURL = thumbnail.String
		v.Description = description.String
		if published.String != "" {
			v.PublishedAt, err = time.Parse(time.RFC3339Nano, published.String)
			if err != nil {
				return nil, fmt.Errorf("parse video published_at %q: %w", published.String, err)
			}
		}
		v.Watched = watched != 0
		v.Bookmarked = bookmarked != 0
		v.Starred = starred != 0
		v.Disliked = disliked != 0
		videos = append(videos, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}
	return videos, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
