// Package dbstore mirrors the feed registry into SQLite so other
// consumers can query it with plain SQL. The JSON registry stays the
// source of truth; Sync replaces the table's contents with the given
// records.
package dbstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChadFarrow/feedctl/internal/registry"
)

// Store is a SQLite mirror of the registry.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating it if necessary, and
// brings its schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Sync replaces the feeds table's contents with the given records.
// Rows keep their row_id across syncs; feeds no longer in the
// registry are pruned.
func (s *Store) Sync(ctx context.Context, feeds []registry.Feed) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback()

	upsert, err := tx.PrepareContext(ctx, `
        INSERT INTO feeds
        (row_id, id, original_url, type, title, priority, status, source, discovered_from, added_at, last_updated)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            original_url = excluded.original_url,
            type = excluded.type,
            title = excluded.title,
            priority = excluded.priority,
            status = excluded.status,
            source = excluded.source,
            discovered_from = excluded.discovered_from,
            last_updated = excluded.last_updated
    `)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer upsert.Close()

	for _, f := range feeds {
		var from sql.NullString
		if f.DiscoveredFrom != "" {
			from = sql.NullString{String: f.DiscoveredFrom, Valid: true}
		}
		_, err := upsert.ExecContext(ctx,
			uuid.NewString(), f.ID, f.OriginalURL, string(f.Type), f.Title,
			string(f.Priority), string(f.Status), f.Source, from,
			f.AddedAt, f.LastUpdated,
		)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", f.ID, err)
		}
	}

	if err := pruneMissing(ctx, tx, feeds); err != nil {
		return err
	}
	return tx.Commit()
}

func pruneMissing(ctx context.Context, tx *sql.Tx, feeds []registry.Feed) error {
	if len(feeds) == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM feeds`); err != nil {
			return fmt.Errorf("prune: %w", err)
		}
		return nil
	}

	placeholders := strings.Repeat("?, ", len(feeds)-1) + "?"
	args := make([]any, len(feeds))
	for i, f := range feeds {
		args[i] = f.ID
	}
	query := fmt.Sprintf(`DELETE FROM feeds WHERE id NOT IN (%s)`, placeholders)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune: %w", err)
	}
	return nil
}

const feedColumns = `id, original_url, type, title, priority, status, source, discovered_from, added_at, last_updated`

// List returns every mirrored feed ordered by id.
func (s *Store) List(ctx context.Context) ([]registry.Feed, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+feedColumns+` FROM feeds ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list feeds: %w", err)
	}
	defer rows.Close()
	return scanFeeds(rows)
}

// ActiveAlbumFeeds returns the active album feeds, the set the albums
// service aggregates over.
func (s *Store) ActiveAlbumFeeds(ctx context.Context) ([]registry.Feed, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+feedColumns+`
        FROM feeds
        WHERE status = 'active' AND type = 'album'
        ORDER BY id
    `)
	if err != nil {
		return nil, fmt.Errorf("list active album feeds: %w", err)
	}
	defer rows.Close()
	return scanFeeds(rows)
}

func scanFeeds(rows *sql.Rows) ([]registry.Feed, error) {
	feeds := make([]registry.Feed, 0)
	for rows.Next() {
		var (
			f                     registry.Feed
			typ, priority, status string
			from                  sql.NullString
		)
		err := rows.Scan(&f.ID, &f.OriginalURL, &typ, &f.Title, &priority, &status,
			&f.Source, &from, &f.AddedAt, &f.LastUpdated)
		if err != nil {
			return nil, fmt.Errorf("scanning feed row: %w", err)
		}
		f.Type = registry.Type(typ)
		f.Priority = registry.Priority(priority)
		f.Status = registry.Status(status)
		f.DiscoveredFrom = from.String
		feeds = append(feeds, f)
	}
	return feeds, rows.Err()
}
