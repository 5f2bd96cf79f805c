package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/platform/logger"
	"github.com/vitaehq/vitae-api/internal/store"
)

// PostgresEducationStore implements store.EducationStore using PostgreSQL.
type PostgresEducationStore struct {
	db store.DBTX
}

// NewPostgresEducationStore creates a new PostgresEducationStore.
func NewPostgresEducationStore(db store.DBTX) *PostgresEducationStore {
	return &PostgresEducationStore{db: db}
}

// WithTx returns a new store instance that uses the provided transaction.
func (s *PostgresEducationStore) WithTx(tx *sql.Tx) store.EducationStore {
	return &PostgresEducationStore{db: tx}
}

// CreateAll bulk-inserts education records.
func (s *PostgresEducationStore) CreateAll(ctx context.Context, records []*domain.EducationRecord) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO education_records (id, owner_id, institution, degree, field_of_study, description, gpa, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	for _, rec := range records {
		_, err := s.db.ExecContext(ctx, query,
			rec.ID,
			rec.OwnerID,
			rec.Institution,
			rec.Degree,
			nullableString(rec.FieldOfStudy),
			nullableString(rec.Description),
			nullableString(rec.GPA),
			rec.StartDate,
			rec.EndDate,
		)
		if err != nil {
			log.Error("failed to insert education record",
				"record_id", rec.ID,
				"error", err)
			return fmt.Errorf("failed to insert education record: %w", err)
		}
	}

	return nil
}

// GetByOwner retrieves all education records owned by the given user.
func (s *PostgresEducationStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EducationRecord, error) {
	query := `
		SELECT id, owner_id, institution, degree, field_of_study, description, gpa, start_date, end_date
		FROM education_records
		WHERE owner_id = $1
		ORDER BY start_date DESC NULLS LAST
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query education records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.EducationRecord
	for rows.Next() {
		var rec domain.EducationRecord
		var fieldOfStudy, description, gpa sql.NullString
		var startDate, endDate sql.NullTime

		if err := rows.Scan(
			&rec.ID,
			&rec.OwnerID,
			&rec.Institution,
			&rec.Degree,
			&fieldOfStudy,
			&description,
			&gpa,
			&startDate,
			&endDate,
		); err != nil {
			return nil, fmt.Errorf("failed to scan education row: %w", err)
		}

		rec.FieldOfStudy = fieldOfStudy.String
		rec.Description = description.String
		rec.GPA = gpa.String
		if startDate.Valid {
			t := startDate.Time
			rec.StartDate = &t
		}
		if endDate.Valid {
			t := endDate.Time
			rec.EndDate = &t
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating education rows: %w", err)
	}

	return records, nil
}

// PostgresEmploymentStore implements store.EmploymentStore using PostgreSQL.
// Responsibilities and accomplishments are stored as JSONB arrays.
type PostgresEmploymentStore struct {
	db store.DBTX
}

// NewPostgresEmploymentStore creates a new PostgresEmploymentStore.
func NewPostgresEmploymentStore(db store.DBTX) *PostgresEmploymentStore {
	return &PostgresEmploymentStore{db: db}
}

// WithTx returns a new store instance that uses the provided transaction.
func (s *PostgresEmploymentStore) WithTx(tx *sql.Tx) store.EmploymentStore {
	return &PostgresEmploymentStore{db: tx}
}

// CreateAll bulk-inserts employment records.
func (s *PostgresEmploymentStore) CreateAll(ctx context.Context, records []*domain.EmploymentRecord) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO employment_records (id, owner_id, company, job_title, start_date, end_date, responsibilities, accomplishments, location, linked_freeform_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	for _, rec := range records {
		responsibilities, accomplishments, err := marshalLists(rec)
		if err != nil {
			return err
		}

		_, err = s.db.ExecContext(ctx, query,
			rec.ID,
			rec.OwnerID,
			rec.Company,
			rec.JobTitle,
			rec.StartDate,
			rec.EndDate,
			responsibilities,
			accomplishments,
			nullableString(rec.Location),
			rec.LinkedFreeformID,
		)
		if err != nil {
			log.Error("failed to insert employment record",
				"record_id", rec.ID,
				"error", err)
			return fmt.Errorf("failed to insert employment record: %w", err)
		}
	}

	return nil
}

// GetByID retrieves an employment record by its unique ID.
func (s *PostgresEmploymentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.EmploymentRecord, error) {
	query := employmentSelect + ` WHERE id = $1`

	rec, err := scanEmployment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapNotFound(err, store.ErrEmploymentNotFound)
	}
	return rec, nil
}

// GetByOwner retrieves all employment records owned by the given user.
func (s *PostgresEmploymentStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.EmploymentRecord, error) {
	query := employmentSelect + ` WHERE owner_id = $1 ORDER BY start_date DESC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query employment records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []*domain.EmploymentRecord
	for rows.Next() {
		rec, err := scanEmployment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employment row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employment rows: %w", err)
	}

	return records, nil
}

// Update saves changes to an existing employment record.
func (s *PostgresEmploymentStore) Update(ctx context.Context, rec *domain.EmploymentRecord) error {
	responsibilities, accomplishments, err := marshalLists(rec)
	if err != nil {
		return err
	}

	query := `
		UPDATE employment_records
		SET company = $1, job_title = $2, start_date = $3, end_date = $4,
			responsibilities = $5, accomplishments = $6, location = $7
		WHERE id = $8
	`

	result, err := s.db.ExecContext(ctx, query,
		rec.Company,
		rec.JobTitle,
		rec.StartDate,
		rec.EndDate,
		responsibilities,
		accomplishments,
		nullableString(rec.Location),
		rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employment record: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrEmploymentNotFound
	}

	return nil
}

const employmentSelect = `
	SELECT id, owner_id, company, job_title, start_date, end_date, responsibilities, accomplishments, location, linked_freeform_id
	FROM employment_records`

func scanEmployment(row rowScanner) (*domain.EmploymentRecord, error) {
	var rec domain.EmploymentRecord
	var endDate sql.NullTime
	var responsibilities, accomplishments []byte
	var location sql.NullString
	var linkedFreeformID uuid.NullUUID

	if err := row.Scan(
		&rec.ID,
		&rec.OwnerID,
		&rec.Company,
		&rec.JobTitle,
		&rec.StartDate,
		&endDate,
		&responsibilities,
		&accomplishments,
		&location,
		&linkedFreeformID,
	); err != nil {
		return nil, err
	}

	if endDate.Valid {
		t := endDate.Time
		rec.EndDate = &t
	}
	rec.Location = location.String
	if linkedFreeformID.Valid {
		id := linkedFreeformID.UUID
		rec.LinkedFreeformID = &id
	}
	if len(responsibilities) > 0 {
		if err := json.Unmarshal(responsibilities, &rec.Responsibilities); err != nil {
			return nil, fmt.Errorf("failed to decode responsibilities: %w", err)
		}
	}
	if len(accomplishments) > 0 {
		if err := json.Unmarshal(accomplishments, &rec.Accomplishments); err != nil {
			return nil, fmt.Errorf("failed to decode accomplishments: %w", err)
		}
	}

	return &rec, nil
}

func marshalLists(rec *domain.EmploymentRecord) ([]byte, []byte, error) {
	responsibilities, err := json.Marshal(emptyIfNil(rec.Responsibilities))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode responsibilities: %w", err)
	}
	accomplishments, err := json.Marshal(emptyIfNil(rec.Accomplishments))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode accomplishments: %w", err)
	}
	return responsibilities, accomplishments, nil
}

func emptyIfNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
