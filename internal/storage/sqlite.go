package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/relmap/relmap/internal/models"
)

// SQLiteStore implements Store using SQLite. Records are stored as one JSON
// payload per row, keyed by dataset and position.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes
// the schema. Parent directories are created if they do not exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS datasets (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS dataset_records (
		dataset_id TEXT NOT NULL,
		position INTEGER NOT NULL,
		payload TEXT NOT NULL,
		PRIMARY KEY (dataset_id, position),
		FOREIGN KEY (dataset_id) REFERENCES datasets(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_records_dataset_id ON dataset_records(dataset_id);
	`
	_, err := db.Exec(schema)
	return err
}

// CreateDataset inserts a dataset with its records.
func (s *SQLiteStore) CreateDataset(ctx context.Context, ds *models.Dataset) error {
	now := time.Now()
	ds.CreatedAt = now
	ds.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO datasets (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		ds.ID, ds.Name, ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}
	if err := insertRecords(ctx, tx, ds); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertDataset replaces the dataset and its records, creating it if missing.
func (s *SQLiteStore) UpsertDataset(ctx context.Context, ds *models.Dataset) error {
	now := time.Now()
	ds.UpdatedAt = now

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE datasets SET name = ?, updated_at = ? WHERE id = ?`,
		ds.Name, ds.UpdatedAt, ds.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update dataset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		ds.CreatedAt = now
		_, err = tx.ExecContext(ctx,
			`INSERT INTO datasets (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
			ds.ID, ds.Name, ds.CreatedAt, ds.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert dataset: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM dataset_records WHERE dataset_id = ?`, ds.ID); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	if err := insertRecords(ctx, tx, ds); err != nil {
		return err
	}
	return tx.Commit()
}

func insertRecords(ctx context.Context, tx *sql.Tx, ds *models.Dataset) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO dataset_records (dataset_id, position, payload) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range ds.Records {
		payload, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal record %s: %w", r.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, ds.ID, i, string(payload)); err != nil {
			return fmt.Errorf("failed to insert record %s: %w", r.ID, err)
		}
	}
	return nil
}

// GetDataset returns a dataset with its records, or ErrNotFound.
func (s *SQLiteStore) GetDataset(ctx context.Context, id string) (*models.Dataset, error) {
	var ds models.Dataset
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM datasets WHERE id = ?`, id,
	).Scan(&ds.ID, &ds.Name, &ds.CreatedAt, &ds.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM dataset_records WHERE dataset_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var r models.ResultRecord
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		ds.Records = append(ds.Records, &r)
	}
	return &ds, rows.Err()
}

// DeleteDataset removes a dataset and its records.
func (s *SQLiteStore) DeleteDataset(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListDatasets returns dataset metadata ordered by most recently updated.
func (s *SQLiteStore) ListDatasets(ctx context.Context, offset, limit int) ([]*models.DatasetInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.name, d.created_at, d.updated_at,
		        (SELECT COUNT(*) FROM dataset_records r WHERE r.dataset_id = d.id)
		 FROM datasets d
		 ORDER BY d.updated_at DESC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	infos := []*models.DatasetInfo{}
	for rows.Next() {
		var info models.DatasetInfo
		if err := rows.Scan(&info.ID, &info.Name, &info.CreatedAt, &info.UpdatedAt, &info.RecordCount); err != nil {
			return nil, err
		}
		infos = append(infos, &info)
	}
	return infos, rows.Err()
}

// CountDatasets returns the number of stored datasets.
func (s *SQLiteStore) CountDatasets(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM datasets`).Scan(&n)
	return n, err
}

// CountRecords returns the total number of stored records across datasets.
func (s *SQLiteStore) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dataset_records`).Scan(&n)
	return n, err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
