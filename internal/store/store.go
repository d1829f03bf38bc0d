// Package store handles SQLite persistence of the leaderboard.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/hypertyper/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Concurrent game processes share the file; writers wait instead of failing.
const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// ErrInvalidRecord is returned for records that cannot be stored.
var ErrInvalidRecord = errors.New("invalid session record")

// ErrRecordNotFound is returned when an update targets a missing record.
var ErrRecordNotFound = errors.New("record not found")

// Store wraps SQLite access for leaderboard records.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path+dsnPragmas)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
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
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			mode TEXT NOT NULL,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			max_streak INTEGER NOT NULL,
			words INTEGER NOT NULL,
			chars INTEGER NOT NULL,
			attempts INTEGER NOT NULL,
			keystrokes INTEGER NOT NULL,
			errors INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			end_reason TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_rank ON records(mode, score DESC, ended_at ASC, id ASC);`,
		`CREATE INDEX IF NOT EXISTS idx_records_ended_at ON records(ended_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

const recordColumns = `id, mode, player, score, max_streak, words, chars, attempts, keystrokes, errors, started_at, ended_at, duration_ms, end_reason`

// rankOrder is the single definition of leaderboard ordering.
const rankOrder = `score DESC, ended_at ASC, id ASC`

// InsertRecord appends a record and returns its rank within its mode.
// Records without an ID get a fresh UUID; the stored ID is returned.
func (s *Store) InsertRecord(ctx context.Context, rec model.SessionRecord) (rank int, id string, err error) {
	if rec.Mode == "" || rec.Score < 0 || rec.MaxStreak < 0 || rec.Chars < 0 {
		return 0, "", ErrInvalidRecord
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, "", err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO records (`+recordColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Mode,
		rec.Player,
		rec.Score,
		rec.MaxStreak,
		rec.Words,
		rec.Chars,
		rec.Attempts,
		rec.Keystrokes,
		rec.Errors,
		rec.StartedAt.UnixNano(),
		rec.EndedAt.UnixNano(),
		rec.Duration.Milliseconds(),
		string(rec.EndReason),
	)
	if err != nil {
		return 0, "", err
	}

	ended := rec.EndedAt.UnixNano()
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) + 1 FROM records
		 WHERE mode = ? AND (score > ? OR (score = ? AND (ended_at < ? OR (ended_at = ? AND id < ?))))`,
		rec.Mode, rec.Score, rec.Score, ended, ended, rec.ID,
	).Scan(&rank)
	if err != nil {
		return 0, "", err
	}

	if err = tx.Commit(); err != nil {
		return 0, "", err
	}
	return rank, rec.ID, nil
}

// Top returns the best records ranked by score descending with earlier
// timestamps first on ties. An empty mode ranks across all modes. A
// non-positive limit returns every record.
func (s *Store) Top(ctx context.Context, mode string, limit int) ([]model.LeaderboardEntry, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, mode)
	}
	query := fmt.Sprintf(`SELECT %s FROM records WHERE %s ORDER BY %s`,
		recordColumns, strings.Join(clauses, " AND "), rankOrder)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	records, err := s.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, len(records))
	for i, rec := range records {
		entries[i] = model.LeaderboardEntry{Rank: i + 1, Record: rec}
	}
	return entries, nil
}

// Best returns the top record for a mode. ok is false when none exist.
func (s *Store) Best(ctx context.Context, mode string) (entry model.LeaderboardEntry, ok bool, err error) {
	entries, err := s.Top(ctx, mode, 1)
	if err != nil {
		return model.LeaderboardEntry{}, false, err
	}
	if len(entries) == 0 {
		return model.LeaderboardEntry{}, false, nil
	}
	return entries[0], true, nil
}

// BestByMode returns the top record of every mode that has one.
func (s *Store) BestByMode(ctx context.Context) ([]model.LeaderboardEntry, error) {
	query := fmt.Sprintf(`SELECT %s FROM (
		SELECT *, ROW_NUMBER() OVER (PARTITION BY mode ORDER BY %s) AS rn FROM records
	) WHERE rn = 1 ORDER BY mode ASC`, recordColumns, rankOrder)
	records, err := s.queryRecords(ctx, query)
	if err != nil {
		return nil, err
	}
	entries := make([]model.LeaderboardEntry, len(records))
	for i, rec := range records {
		entries[i] = model.LeaderboardEntry{Rank: 1, Record: rec}
	}
	return entries, nil
}

// ListRecords returns records in chronological order.
func (s *Store) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.SessionRecord, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if filter.Mode != "" {
		clauses = append(clauses, "mode = ?")
		args = append(args, filter.Mode)
	}
	if filter.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, filter.Since.UnixNano())
	}
	query := fmt.Sprintf(`SELECT %s FROM records WHERE %s ORDER BY ended_at ASC, id ASC`,
		recordColumns, strings.Join(clauses, " AND "))
	records, err := s.queryRecords(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if filter.Last > 0 && len(records) > filter.Last {
		records = records[len(records)-filter.Last:]
	}
	return records, nil
}

// Has reports whether a record with id exists.
func (s *Store) Has(ctx context.Context, id string) (bool, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE id = ?`, id).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetPlayer renames the player on a stored record.
func (s *Store) SetPlayer(ctx context.Context, id, player string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE records SET player = ? WHERE id = ?`, player, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRecordNotFound
	}
	return nil
}

// Reset deletes every record and returns how many were removed.
func (s *Store) Reset(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM records`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *Store) queryRecords(ctx context.Context, query string, args ...any) ([]model.SessionRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		var startedAt, endedAt, durationMs int64
		var reason string
		if err := rows.Scan(&rec.ID, &rec.Mode, &rec.Player, &rec.Score, &rec.MaxStreak, &rec.Words, &rec.Chars,
			&rec.Attempts, &rec.Keystrokes, &rec.Errors, &startedAt, &endedAt, &durationMs, &reason); err != nil {
			return nil, err
		}
		rec.StartedAt = time.Unix(0, startedAt)
		rec.EndedAt = time.Unix(0, endedAt)
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		rec.EndReason = model.EndReason(reason)
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
