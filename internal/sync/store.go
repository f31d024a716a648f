package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EducationEntry is a normalized education row derived from one element of the
// sections document. Identity is (user, school, degree).
type EducationEntry struct {
	UserID    uuid.UUID
	School    string
	Degree    *string
	StartDate *time.Time
	EndDate   *time.Time
}

// WorkEntry is a normalized work experience row. Identity is
// (user, job title, start date); entries without a title or start date are
// never stored.
type WorkEntry struct {
	UserID    uuid.UUID
	JobTitle  string
	StartDate *time.Time
	EndDate   *time.Time
}

// ProjectEntry is a normalized project row. Identity is (user, title).
type ProjectEntry struct {
	UserID      uuid.UUID
	Title       string
	StartDate   *time.Time
	EndDate     *time.Time
	Description *string
}

// Store is the transactional surface the synchronizer writes through. An
// implementation is scoped to a single save transaction: if any method returns
// an error the whole save, including the authoritative document write, must
// roll back.
//
// The Add* methods are insert-if-absent primitives keyed on each entry's
// composite identity: a row matching the key already existing is a silent
// no-op, and existing rows are never updated. EnsureSkill is an atomic
// insert-or-return-existing on the unique skill name, so concurrent saves
// cannot race on catalog creation. AddUserSkill inserts-or-ignores on the
// unique (user, skill) pair.
type Store interface {
	AddEducation(ctx context.Context, entry EducationEntry) error
	AddWorkExperience(ctx context.Context, entry WorkEntry) error
	AddProject(ctx context.Context, entry ProjectEntry) error

	ClearUserSkills(ctx context.Context, userID uuid.UUID) error
	EnsureSkill(ctx context.Context, name, category string) (uuid.UUID, error)
	AddUserSkill(ctx context.Context, userID, skillID uuid.UUID) error
}
