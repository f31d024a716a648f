package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rowanchen/resume-advisor/internal/sync"
)

// -----------------------------------------------------------------------------
// Resume Methods
// -----------------------------------------------------------------------------

// ResumeSaveInput carries the fields of a resume save request. A nil ID means
// create; otherwise the existing row is updated.
type ResumeSaveInput struct {
	ID       *uuid.UUID
	UserID   uuid.UUID
	JobID    uuid.UUID
	Title    string
	Sections map[string]any
}

// GetResume retrieves a resume by ID, including its owner. Returns nil if not
// found. Ownership is enforced by the caller.
func (db *DB) GetResume(ctx context.Context, resumeID uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_id, title, content, creation_date, last_updated
		 FROM resumes WHERE id = $1`,
		resumeID,
	).Scan(&r.ID, &r.UserID, &r.JobID, &r.Title, &r.Sections, &r.CreationDate, &r.LastUpdated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// SaveResume writes the authoritative resume document and synchronizes the
// normalized section tables, all within one transaction. Any failure, in the
// document write or in section normalization, rolls the whole save back.
// Returns the resume ID and whether a new row was created.
func (db *DB) SaveResume(ctx context.Context, input *ResumeSaveInput) (uuid.UUID, bool, error) {
	content, err := json.Marshal(input.Sections)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to marshal sections: %w", err)
	}

	var resumeID uuid.UUID
	created := input.ID == nil

	err = db.withTx(ctx, func(tx pgx.Tx) error {
		if input.ID != nil {
			resumeID = *input.ID
			_, err := tx.Exec(ctx,
				`UPDATE resumes SET title = $1, job_id = $2, content = $3, last_updated = NOW()
				 WHERE id = $4`,
				input.Title, input.JobID, content, resumeID,
			)
			if err != nil {
				return fmt.Errorf("failed to update resume: %w", err)
			}
		} else {
			err := tx.QueryRow(ctx,
				`INSERT INTO resumes (user_id, job_id, title, content)
				 VALUES ($1, $2, $3, $4)
				 RETURNING id`,
				input.UserID, input.JobID, input.Title, content,
			).Scan(&resumeID)
			if err != nil {
				return fmt.Errorf("failed to create resume: %w", err)
			}
		}

		return sync.New().Sync(ctx, &sectionTx{tx: tx}, input.UserID, input.Sections)
	})
	if err != nil {
		return uuid.Nil, false, err
	}
	return resumeID, created, nil
}

// DeleteResume deletes a resume row. The authoritative document goes away;
// normalized section rows are intentionally left in place.
func (db *DB) DeleteResume(ctx context.Context, resumeID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, resumeID)
	if err != nil {
		return fmt.Errorf("failed to delete resume: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("resume not found: %s", resumeID)
	}
	return nil
}

// ListUserResumes returns summaries of a user's resumes, most recently
// updated first.
func (db *DB) ListUserResumes(ctx context.Context, userID uuid.UUID) ([]ResumeSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, job_id, last_updated
		 FROM resumes WHERE user_id = $1 ORDER BY last_updated DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resumes: %w", err)
	}
	defer rows.Close()

	var resumes []ResumeSummary
	for rows.Next() {
		var r ResumeSummary
		if err := rows.Scan(&r.ID, &r.Title, &r.JobID, &r.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan resume: %w", err)
		}
		resumes = append(resumes, r)
	}
	return resumes, nil
}
