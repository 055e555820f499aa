// Package store handles SQLite persistence of lesson scores.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/koch/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for score data.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db, now: time.Now}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY,
			lesson INTEGER NOT NULL,
			accuracy INTEGER NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_scores_lesson ON scores(lesson, id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// AppendScore stores one accuracy for a lesson.
func (s *Store) AppendScore(ctx context.Context, lesson, accuracy int) error {
	if lesson <= 0 {
		return fmt.Errorf("lesson must be positive, got %d", lesson)
	}
	if accuracy < 0 || accuracy > 100 {
		return fmt.Errorf("accuracy must be between 0 and 100, got %d", accuracy)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (lesson, accuracy, recorded_at) VALUES (?, ?, ?)`,
		lesson,
		accuracy,
		s.now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// Load returns every lesson's history in insertion order. An empty
// database yields empty data.
func (s *Store) Load(ctx context.Context) (model.ScoreData, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT lesson, accuracy FROM scores ORDER BY id ASC`)
	if err != nil {
		return model.ScoreData{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	data := model.ScoreData{Lessons: map[string][]int{}}
	for rows.Next() {
		var lesson, accuracy int
		if err := rows.Scan(&lesson, &accuracy); err != nil {
			return model.ScoreData{}, err
		}
		data.Append(lesson, accuracy)
	}
	if err := rows.Err(); err != nil {
		return model.ScoreData{}, err
	}
	return data, nil
}

// DeleteScores removes the stored scores of one lesson and reports how many
// rows went. A non-positive lesson removes every score. Other rows keep their
// ids and timestamps.
func (s *Store) DeleteScores(ctx context.Context, lesson int) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if lesson <= 0 {
		res, err = s.db.ExecContext(ctx, `DELETE FROM scores`)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM scores WHERE lesson = ?`, lesson)
	}
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ListScores returns the stored entries for one lesson, oldest first.
// A non-positive lesson lists every entry.
func (s *Store) ListScores(ctx context.Context, lesson int) ([]model.ScoreEntry, error) {
	query := `SELECT id, lesson, accuracy, recorded_at FROM scores WHERE (? <= 0 OR lesson = ?) ORDER BY id ASC`
	rows, err := s.db.QueryContext(ctx, query, lesson, lesson)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var entries []model.ScoreEntry
	for rows.Next() {
		var entry model.ScoreEntry
		var recordedAt string
		if err := rows.Scan(&entry.ID, &entry.Lesson, &entry.Accuracy, &recordedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		entry.RecordedAt = parsed
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
