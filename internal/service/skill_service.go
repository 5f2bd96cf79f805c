package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/vitaehq/vitae-api/internal/domain"
	"github.com/vitaehq/vitae-api/internal/store"
)

// SkillService is the skill reconciler: case-insensitive dedup/upsert of
// skill names scoped to an owner. It implements task.SkillReconciler.
//
// The insert path is an atomic insert-if-absent in the store (unique
// index on the normalized name plus on-conflict handling), so two
// concurrent tasks proposing the same normalized name for one user
// cannot create duplicate rows.
type SkillService struct {
	skills store.SkillStore
	logger *slog.Logger
}

// NewSkillService creates a new SkillService.
func NewSkillService(skills store.SkillStore, logger *slog.Logger) *SkillService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SkillService{
		skills: skills,
		logger: logger.With("component", "skill_service"),
	}
}

// AddSkill upserts one skill name for the owner. An existing record with
// the same normalized name is returned unchanged; otherwise a new record
// is inserted preserving the caller-supplied casing.
func (s *SkillService) AddSkill(ctx context.Context, ownerID uuid.UUID, name string) (*domain.SkillRecord, error) {
	key := domain.NormalizeSkillName(name)
	if key == "" {
		return nil, ErrEmptySkillName
	}

	existing, err := s.skills.FindByNormalizedName(ctx, ownerID, key)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, NewServiceError("add_skill", "failed to look up skill", err)
	}

	record, err := domain.NewSkillRecord(ownerID, name)
	if err != nil {
		return nil, NewServiceError("add_skill", "invalid skill", err)
	}

	record, err = s.skills.InsertIfAbsent(ctx, record)
	if store.IsDuplicateError(err) {
		// A concurrent writer won the insert race; their record is the
		// canonical one.
		return s.skills.FindByNormalizedName(ctx, ownerID, key)
	}
	if err != nil {
		return nil, NewServiceError("add_skill", "failed to insert skill", err)
	}
	return record, nil
}

// AddSkills applies AddSkill per name. Each call re-queries current
// state, so repeated names within one batch still collapse to a single
// record. Names that normalize to nothing are skipped.
func (s *SkillService) AddSkills(ctx context.Context, ownerID uuid.UUID, names []string) ([]*domain.SkillRecord, error) {
	records := make([]*domain.SkillRecord, 0, len(names))
	for _, name := range names {
		if domain.NormalizeSkillName(name) == "" {
			continue
		}
		record, err := s.AddSkill(ctx, ownerID, name)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}
