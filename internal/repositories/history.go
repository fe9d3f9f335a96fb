package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ShadyBoukhary/traktarr/internal/models"
)

// HistoryEntry is one recorded add.
type HistoryEntry struct {
	ID      int64
	RunID   string
	Kind    models.Kind
	Title   string
	Year    int
	MediaID int // TVDB id for shows, TMDB id for movies
	List    string
	AddedAt time.Time
}

// HistoryRepository records successfully added media.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a HistoryRepository and ensures its schema
// exists.
func NewHistoryRepository(db *sql.DB) (*HistoryRepository, error) {
	r := &HistoryRepository{db: db}
	if err := r.migrate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *HistoryRepository) migrate() error {
	query := `
		CREATE TABLE IF NOT EXISTS added_media (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			title TEXT NOT NULL,
			year INTEGER NOT NULL,
			media_id INTEGER NOT NULL,
			list TEXT NOT NULL,
			added_at DATETIME NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_added_media_kind_media_id
			ON added_media (kind, media_id);
	`
	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create history schema: %w", err)
	}
	return nil
}

// Record inserts one add into the history.
func (r *HistoryRepository) Record(runID string, item models.Media, list string) error {
	query := `
		INSERT INTO added_media (run_id, kind, title, year, media_id, list, added_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		runID,
		string(item.Kind),
		item.Title,
		item.Year,
		item.PrimaryID(),
		list,
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// Recent returns the most recent entries for a kind, newest first. An empty
// kind returns entries for both kinds. Limit <= 0 defaults to 25.
func (r *HistoryRepository) Recent(kind models.Kind, limit int) ([]HistoryEntry, error) {
	if limit <= 0 {
		limit = 25
	}

	query := `
		SELECT id, run_id, kind, title, year, media_id, list, added_at
		FROM added_media
	`
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}
	query += " ORDER BY added_at DESC, id DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		var kindStr string
		if err := rows.Scan(&e.ID, &e.RunID, &kindStr, &e.Title, &e.Year, &e.MediaID, &e.List, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		e.Kind = models.Kind(kindStr)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history rows: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded adds for a kind; an empty kind
// counts everything.
func (r *HistoryRepository) Count(kind models.Kind) (int, error) {
	query := "SELECT COUNT(*) FROM added_media"
	args := []any{}
	if kind != "" {
		query += " WHERE kind = ?"
		args = append(args, string(kind))
	}

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count history entries: %w", err)
	}
	return count, nil
}
