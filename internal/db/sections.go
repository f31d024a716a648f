package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rowanchen/resume-advisor/internal/sync"
)

// sectionTx implements sync.Store over a single save transaction. Every
// statement here is a set-based primitive: insert-if-absent for the
// append-only section tables, an atomic name upsert for the skill catalog,
// and insert-or-ignore for skill associations. Application-level
// check-then-insert is deliberately avoided so concurrent saves cannot race
// on catalog creation.
type sectionTx struct {
	tx pgx.Tx
}

var _ sync.Store = (*sectionTx)(nil)

// AddEducation inserts an education row unless one with the same
// (user, school, degree) already exists. Existing rows are never updated.
func (s *sectionTx) AddEducation(ctx context.Context, entry sync.EducationEntry) error {
	_, err := s.tx.Exec(ctx,
		`INSERT INTO education (user_id, school, degree, start_date, end_date)
		 SELECT $1, $2, $3, $4, $5
		 WHERE NOT EXISTS (
		     SELECT 1 FROM education
		     WHERE user_id = $1 AND school = $2 AND degree IS NOT DISTINCT FROM $3
		 )`,
		entry.UserID, entry.School, entry.Degree, entry.StartDate, entry.EndDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert education: %w", err)
	}
	return nil
}

// AddWorkExperience inserts a work experience row unless one with the same
// (user, job title, start date) already exists.
func (s *sectionTx) AddWorkExperience(ctx context.Context, entry sync.WorkEntry) error {
	_, err := s.tx.Exec(ctx,
		`INSERT INTO work_experiences (user_id, job_title, start_date, end_date)
		 SELECT $1, $2, $3, $4
		 WHERE NOT EXISTS (
		     SELECT 1 FROM work_experiences
		     WHERE user_id = $1 AND job_title = $2 AND start_date = $3
		 )`,
		entry.UserID, entry.JobTitle, entry.StartDate, entry.EndDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert work experience: %w", err)
	}
	return nil
}

// AddProject inserts a project row unless one with the same (user, title)
// already exists.
func (s *sectionTx) AddProject(ctx context.Context, entry sync.ProjectEntry) error {
	_, err := s.tx.Exec(ctx,
		`INSERT INTO projects (user_id, title, start_date, end_date, description)
		 SELECT $1, $2, $3, $4, $5
		 WHERE NOT EXISTS (
		     SELECT 1 FROM projects WHERE user_id = $1 AND title = $2
		 )`,
		entry.UserID, entry.Title, entry.StartDate, entry.EndDate, entry.Description,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// ClearUserSkills removes all of a user's skill associations. The catalog
// itself is untouched.
func (s *sectionTx) ClearUserSkills(ctx context.Context, userID uuid.UUID) error {
	_, err := s.tx.Exec(ctx, `DELETE FROM user_skill_map WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to clear user skills: %w", err)
	}
	return nil
}

// EnsureSkill returns the catalog ID for a skill name, creating the entry
// with the given category if absent. An existing entry keeps its original
// category (first writer wins). The no-op DO UPDATE makes RETURNING yield
// the existing row instead of nothing.
func (s *sectionTx) EnsureSkill(ctx context.Context, name, category string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.tx.QueryRow(ctx,
		`INSERT INTO skills (name, category)
		 VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name, category,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to ensure skill %q: %w", name, err)
	}
	return id, nil
}

// AddUserSkill associates a skill with a user, ignoring duplicates within
// the same sync.
func (s *sectionTx) AddUserSkill(ctx context.Context, userID, skillID uuid.UUID) error {
	_, err := s.tx.Exec(ctx,
		`INSERT INTO user_skill_map (user_id, skill_id)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id, skill_id) DO NOTHING`,
		userID, skillID,
	)
	if err != nil {
		return fmt.Errorf("failed to map user skill: %w", err)
	}
	return nil
}
