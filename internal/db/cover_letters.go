package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Cover Letter Methods
// -----------------------------------------------------------------------------

// CoverLetterSaveInput carries the fields of a cover letter save request.
// A nil ID means create.
type CoverLetterSaveInput struct {
	ID      *uuid.UUID
	UserID  uuid.UUID
	JobID   uuid.UUID
	Title   string
	Content []byte
}

// GetCoverLetter retrieves a cover letter by ID, including its owner.
// Returns nil if not found.
func (db *DB) GetCoverLetter(ctx context.Context, letterID uuid.UUID) (*CoverLetter, error) {
	var cl CoverLetter
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, job_id, title, content, creation_date, last_updated
		 FROM cover_letters WHERE id = $1`,
		letterID,
	).Scan(&cl.ID, &cl.UserID, &cl.JobID, &cl.Title, &cl.Content, &cl.CreationDate, &cl.LastUpdated)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cover letter: %w", err)
	}
	return &cl, nil
}

// SaveCoverLetter creates or updates a cover letter document. Returns the ID
// and whether a new row was created.
func (db *DB) SaveCoverLetter(ctx context.Context, input *CoverLetterSaveInput) (uuid.UUID, bool, error) {
	if input.ID != nil {
		_, err := db.pool.Exec(ctx,
			`UPDATE cover_letters SET title = $1, job_id = $2, content = $3, last_updated = NOW()
			 WHERE id = $4`,
			input.Title, input.JobID, input.Content, *input.ID,
		)
		if err != nil {
			return uuid.Nil, false, fmt.Errorf("failed to update cover letter: %w", err)
		}
		return *input.ID, false, nil
	}

	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO cover_letters (user_id, job_id, title, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		input.UserID, input.JobID, input.Title, input.Content,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to create cover letter: %w", err)
	}
	return id, true, nil
}

// DeleteCoverLetter deletes a cover letter row.
func (db *DB) DeleteCoverLetter(ctx context.Context, letterID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM cover_letters WHERE id = $1`, letterID)
	if err != nil {
		return fmt.Errorf("failed to delete cover letter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cover letter not found: %s", letterID)
	}
	return nil
}

// ListUserCoverLetters returns summaries of a user's cover letters, most
// recently updated first.
func (db *DB) ListUserCoverLetters(ctx context.Context, userID uuid.UUID) ([]CoverLetterSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, last_updated
		 FROM cover_letters WHERE user_id = $1 ORDER BY last_updated DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list cover letters: %w", err)
	}
	defer rows.Close()

	var letters []CoverLetterSummary
	for rows.Next() {
		var cl CoverLetterSummary
		if err := rows.Scan(&cl.ID, &cl.Title, &cl.LastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan cover letter: %w", err)
		}
		letters = append(letters, cl)
	}
	return letters, nil
}
