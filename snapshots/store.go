package snapshots

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pevans/catalogsnap/catalog"
)

// ErrSnapshotNotFound is returned when no snapshot has the requested ID.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// timeLayout is fixed-width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store archives the final result of completed runs in SQLite.
type Store struct {
	db *sql.DB
}

// Snapshot is one archived run. Records is only populated by Get.
type Snapshot struct {
	SnapshotID  uuid.UUID        `json:"snapshot_id"`
	SourceURL   string           `json:"source_url"`
	CreatedAt   time.Time        `json:"created_at"`
	RecordCount int              `json:"record_count"`
	Records     []catalog.Record `json:"records,omitempty"`
}

// NewStore opens (or creates) the snapshot database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", withForeignKeys(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the snapshot tables if they don't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		snapshot_id TEXT PRIMARY KEY,
		source_url TEXT NOT NULL,
		created_at TEXT NOT NULL,
		record_count INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS snapshot_records (
		snapshot_id TEXT NOT NULL REFERENCES snapshots(snapshot_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		author TEXT NOT NULL,
		added_date TEXT NOT NULL,
		view_count TEXT NOT NULL,
		duration TEXT NOT NULL,
		PRIMARY KEY (snapshot_id, position)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save archives records under a new snapshot in a single transaction.
func (s *Store) Save(sourceURL string, records []catalog.Record) (*Snapshot, error) {
	snapshot := &Snapshot{
		SnapshotID:  uuid.New(),
		SourceURL:   sourceURL,
		CreatedAt:   time.Now().UTC().Truncate(0),
		RecordCount: len(records),
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		"INSERT INTO snapshots (snapshot_id, source_url, created_at, record_count) VALUES (?, ?, ?, ?)",
		snapshot.SnapshotID.String(),
		snapshot.SourceURL,
		formatTime(snapshot.CreatedAt),
		snapshot.RecordCount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert snapshot: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO snapshot_records (
			snapshot_id, position, title, author, added_date, view_count, duration
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		_, err := stmt.Exec(snapshot.SnapshotID.String(), i, r.Title, r.Author, r.AddedDate, r.ViewCount, r.Duration)
		if err != nil {
			return nil, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit snapshot: %w", err)
	}

	return snapshot, nil
}

// List returns all snapshots, newest first, without their records.
func (s *Store) List() ([]Snapshot, error) {
	rows, err := s.db.Query(`
		SELECT snapshot_id, source_url, created_at, record_count
		FROM snapshots
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var idStr, sourceURL, createdAtStr string
		var count int
		if err := rows.Scan(&idStr, &sourceURL, &createdAtStr, &count); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}

		snapshot, err := scanSnapshot(idStr, sourceURL, createdAtStr, count)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snapshot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// Get returns a snapshot with its records in their original order.
func (s *Store) Get(snapshotID uuid.UUID) (*Snapshot, error) {
	var idStr, sourceURL, createdAtStr string
	var count int

	err := s.db.QueryRow(
		"SELECT snapshot_id, source_url, created_at, record_count FROM snapshots WHERE snapshot_id = ?",
		snapshotID.String(),
	).Scan(&idStr, &sourceURL, &createdAtStr, &count)
	if err == sql.ErrNoRows {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	snapshot, err := scanSnapshot(idStr, sourceURL, createdAtStr, count)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(`
		SELECT title, author, added_date, view_count, duration
		FROM snapshot_records
		WHERE snapshot_id = ?
		ORDER BY position
	`, snapshotID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	snapshot.Records = []catalog.Record{}
	for rows.Next() {
		var r catalog.Record
		if err := rows.Scan(&r.Title, &r.Author, &r.AddedDate, &r.ViewCount, &r.Duration); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		snapshot.Records = append(snapshot.Records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return snapshot, nil
}

// Delete removes a snapshot and its records.
func (s *Store) Delete(snapshotID uuid.UUID) error {
	result, err := s.db.Exec("DELETE FROM snapshots WHERE snapshot_id = ?", snapshotID.String())
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrSnapshotNotFound
	}

	return nil
}

func scanSnapshot(idStr, sourceURL, createdAtStr string, count int) (*Snapshot, error) {
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot ID: %w", err)
	}

	return &Snapshot{
		SnapshotID:  id,
		SourceURL:   sourceURL,
		CreatedAt:   parseTime(createdAtStr),
		RecordCount: count,
	}, nil
}

// withForeignKeys adds the foreign key pragma to a path or file: URI,
// keeping any query parameters already present.
func withForeignKeys(dsn string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&_foreign_keys=on"
	}
	return dsn + "?_foreign_keys=on"
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) time.Time {
	// Fall back to RFC3339 for rows written by hand
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		t, _ = time.Parse(time.RFC3339Nano, s)
	}
	return t
}
