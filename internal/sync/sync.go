package sync

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Synchronizer projects the sections document of a saved resume into the
// normalized education, work_experiences, projects, skills, and
// user_skill_map tables. It never touches the authoritative JSON itself.
type Synchronizer struct{}

// New creates a Synchronizer.
func New() *Synchronizer {
	return &Synchronizer{}
}

// Sync reconciles the normalized tables for one user against the given
// sections document. It must run inside the same transaction as the
// authoritative resume write: store errors propagate so the caller rolls the
// whole save back, while malformed section content degrades silently.
//
// Education, work experience, and project rows are append-only with
// best-effort dedup by composite key; existing rows are never updated or
// removed. The user's skill associations are fully replaced on every call.
func (s *Synchronizer) Sync(ctx context.Context, store Store, userID uuid.UUID, sections map[string]any) error {
	if err := s.syncEducation(ctx, store, userID, sections); err != nil {
		return fmt.Errorf("sync education: %w", err)
	}
	if err := s.syncWorkExperience(ctx, store, userID, sections); err != nil {
		return fmt.Errorf("sync work experience: %w", err)
	}
	if err := s.syncProjects(ctx, store, userID, sections); err != nil {
		return fmt.Errorf("sync projects: %w", err)
	}
	if err := s.syncSkills(ctx, store, userID, sections); err != nil {
		return fmt.Errorf("sync skills: %w", err)
	}
	return nil
}

func (s *Synchronizer) syncEducation(ctx context.Context, store Store, userID uuid.UUID, sections map[string]any) error {
	for _, edu := range sectionArray(sections, "education") {
		school := truncate(stringField(edu, "universityName"), maxTitleLen)
		if school == "" {
			continue
		}
		degree := optional(truncate(stringField(edu, "degree"), maxTitleLen))
		start, end := ParseDateRange(stringField(edu, "datesAttended"))

		err := store.AddEducation(ctx, EducationEntry{
			UserID:    userID,
			School:    school,
			Degree:    degree,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Synchronizer) syncWorkExperience(ctx context.Context, store Store, userID uuid.UUID, sections map[string]any) error {
	for _, work := range sectionArray(sections, "work_experience") {
		jobTitle := truncate(stringField(work, "jobTitle"), maxTitleLen)
		start, end := ParseDateRange(stringField(work, "dates"))

		// Entries without a title or a parseable start date stay only in the
		// authoritative document.
		if jobTitle == "" || start == nil {
			continue
		}

		err := store.AddWorkExperience(ctx, WorkEntry{
			UserID:    userID,
			JobTitle:  jobTitle,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Synchronizer) syncProjects(ctx context.Context, store Store, userID uuid.UUID, sections map[string]any) error {
	for _, project := range sectionArray(sections, "projects") {
		title := truncate(stringField(project, "title"), maxTitleLen)
		if title == "" {
			continue
		}
		description := optional(truncate(stringField(project, "description"), maxDescriptionLen))
		start, end := ParseDateRange(stringField(project, "dates"))

		err := store.AddProject(ctx, ProjectEntry{
			UserID:      userID,
			Title:       title,
			StartDate:   start,
			EndDate:     end,
			Description: description,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Synchronizer) syncSkills(ctx context.Context, store Store, userID uuid.UUID, sections map[string]any) error {
	value, ok := sections["skills"]
	if !ok || isEmptySkills(value) {
		return nil
	}

	// The association set is replaced wholesale: delete first, then rebuild
	// from whatever the current document resolves to (possibly nothing).
	if err := store.ClearUserSkills(ctx, userID); err != nil {
		return err
	}

	for _, category := range resolveSkills(value) {
		for _, name := range category.Names {
			name = truncate(name, maxTitleLen)
			if name == "" {
				continue
			}

			skillID, err := store.EnsureSkill(ctx, name, category.Label)
			if err != nil {
				return err
			}
			if err := store.AddUserSkill(ctx, userID, skillID); err != nil {
				return err
			}
		}
	}
	return nil
}

// isEmptySkills reports whether the skills value is empty in the same sense
// the document authors mean it: an empty map, empty list, null, or a falsy
// scalar. Only an empty skills section skips the replacement, so stale
// associations survive a degenerate document.
func isEmptySkills(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	default:
		return false
	}
}
