package recordings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vetsoap/vetsoap-go/internal/client/models"
	"github.com/vetsoap/vetsoap-go/internal/common"
	"github.com/vetsoap/vetsoap-go/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or
// *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// EnsureSchema creates the cache table if it does not exist yet.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS recordings (
  id TEXT PRIMARY KEY,
  patient_name TEXT NOT NULL,
  client_name TEXT NOT NULL,
  species TEXT NOT NULL,
  status TEXT NOT NULL,
  soap_note_id TEXT NOT NULL DEFAULT '',
  error_message TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL DEFAULT '',
  updated_at TEXT NOT NULL DEFAULT ''
);`)
	if err != nil {
		return fmt.Errorf("creating recordings cache schema: %w", err)
	}
	return nil
}

// Upsert inserts or refreshes one cached overview.
func (r *SQLiteRepository) Upsert(ctx context.Context, rec *models.Recording) error {
	query := `INSERT INTO recordings (id, patient_name, client_name, species, status, soap_note_id, error_message, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			patient_name = excluded.patient_name,
			client_name = excluded.client_name,
			species = excluded.species,
			status = excluded.status,
			soap_note_id = excluded.soap_note_id,
			error_message = excluded.error_message,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.PatientName, rec.ClientName, rec.Species, string(rec.Status),
		rec.SoapNoteID, rec.ErrorMessage, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert recording: %w", err)
	}
	return nil
}

// ReplaceAll refreshes the cache from a full list response in a single
// transaction when possible.
func (r *SQLiteRepository) ReplaceAll(ctx context.Context, recs []models.Recording) error {
	if db, ok := r.db.(*sql.DB); ok {
		return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
			return replaceAll(ctx, tx, recs)
		})
	}
	return replaceAll(ctx, r.db, recs)
}

func replaceAll(ctx context.Context, db dbx.DBTX, recs []models.Recording) error {
	if _, err := db.ExecContext(ctx, `DELETE FROM recordings`); err != nil {
		return fmt.Errorf("failed to clear recordings cache: %w", err)
	}
	repo := &SQLiteRepository{db: db}
	for i := range recs {
		if err := repo.Upsert(ctx, &recs[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Recording, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, patient_name, client_name, species, status, soap_note_id, error_message, created_at, updated_at
		 FROM recordings WHERE id = ?`, id)

	rec, err := scanRecording(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read recording: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Recording, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, patient_name, client_name, species, status, soap_note_id, error_message, created_at, updated_at
		 FROM recordings ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recordings: %w", err)
	}
	defer rows.Close()

	var result []models.Recording
	for rows.Next() {
		rec, err := scanRecording(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		result = append(result, *rec)
	}
	return result, rows.Err()
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	return nil
}

func scanRecording(scan func(...any) error) (*models.Recording, error) {
	var rec models.Recording
	var status string
	if err := scan(&rec.ID, &rec.PatientName, &rec.ClientName, &rec.Species, &status,
		&rec.SoapNoteID, &rec.ErrorMessage, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		return nil, err
	}
	rec.Status = models.Status(status)
	return &rec, nil
}
