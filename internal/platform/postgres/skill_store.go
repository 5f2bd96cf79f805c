package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/store"
)

// PostgresSkillStore implements store.SkillStore using PostgreSQL.
// A unique index on (owner_id, lower(trim(name))) backs the per-owner
// normalized-name uniqueness guarantee.
type PostgresSkillStore struct {
	db store.DBTX
}

// NewPostgresSkillStore creates a new PostgresSkillStore.
func NewPostgresSkillStore(db store.DBTX) *PostgresSkillStore {
	return &PostgresSkillStore{db: db}
}

// FindByNormalizedName retrieves the skill whose normalized name matches
// the given comparison key for the owner.
func (s *PostgresSkillStore) FindByNormalizedName(ctx context.Context, ownerID uuid.UUID, key string) (*domain.SkillRecord, error) {
	query := `
		SELECT id, owner_id, name
		FROM skill_records
		WHERE owner_id = $1 AND lower(trim(name)) = $2
	`

	var skill domain.SkillRecord
	err := s.db.QueryRowContext(ctx, query, ownerID, key).Scan(&skill.ID, &skill.OwnerID, &skill.Name)
	if err != nil {
		return nil, mapNotFound(err, store.ErrNotFound)
	}

	return &skill, nil
}

// InsertIfAbsent inserts the skill unless one with the same normalized
// name already exists for the owner. ON CONFLICT DO NOTHING rides the
// unique index, so a racing insert on the normalized name never errors;
// the follow-up read returns whichever record won. Any other unique
// violation surfaces as store.ErrSkillExists for the caller to resolve.
func (s *PostgresSkillStore) InsertIfAbsent(ctx context.Context, skill *domain.SkillRecord) (*domain.SkillRecord, error) {
	if err := skill.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO skill_records (id, owner_id, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (owner_id, lower(trim(name))) DO NOTHING
	`

	if _, err := s.db.ExecContext(ctx, query, skill.ID, skill.OwnerID, skill.Name); err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrSkillExists
		}
		return nil, store.NewStoreError("skill", "insert", "failed to insert skill", err)
	}

	existing, err := s.FindByNormalizedName(ctx, skill.OwnerID, domain.NormalizeSkillName(skill.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to read skill after insert: %w", err)
	}

	return existing, nil
}

// GetByOwner retrieves all skills owned by the given user.
func (s *PostgresSkillStore) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.SkillRecord, error) {
	query := `
		SELECT id, owner_id, name
		FROM skill_records
		WHERE owner_id = $1
		ORDER BY name ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query skills: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var skills []*domain.SkillRecord
	for rows.Next() {
		var skill domain.SkillRecord
		if err := rows.Scan(&skill.ID, &skill.OwnerID, &skill.Name); err != nil {
			return nil, fmt.Errorf("failed to scan skill row: %w", err)
		}
		skills = append(skills, &skill)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill rows: %w", err)
	}

	return skills, nil
}
