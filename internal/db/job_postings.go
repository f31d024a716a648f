package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Job Posting Methods
// -----------------------------------------------------------------------------

// JobPostingFilters holds optional filters for listing postings.
type JobPostingFilters struct {
	Company  string
	Location string
	Limit    int
}

// JobPostingExists reports whether a posting with the given ID exists.
func (db *DB) JobPostingExists(ctx context.Context, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job_postings WHERE id = $1)`,
		jobID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check job posting: %w", err)
	}
	return exists, nil
}

// GetJobPosting retrieves a posting with its company and requirements.
// Returns nil if not found.
func (db *DB) GetJobPosting(ctx context.Context, jobID uuid.UUID) (*JobPosting, error) {
	var p JobPosting
	var description, companyLocation, companyIndustry, companyWebsite *string
	err := db.pool.QueryRow(ctx,
		`SELECT jp.id, jp.title, jp.description, jp.job_location, jp.posted_date, jp.close_date,
		        c.id, c.name, c.location, c.industry, c.website
		 FROM job_postings jp
		 JOIN company c ON jp.company_id = c.id
		 WHERE jp.id = $1`,
		jobID,
	).Scan(&p.ID, &p.Title, &description, &p.JobLocation, &p.PostedDate, &p.CloseDate,
		&p.Company.ID, &p.Company.Name, &companyLocation, &companyIndustry, &companyWebsite)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	p.Description = deref(description)
	p.Company.Location = deref(companyLocation)
	p.Company.Industry = deref(companyIndustry)
	p.Company.Website = deref(companyWebsite)

	rows, err := db.pool.Query(ctx,
		`SELECT requirement FROM job_requirements WHERE job_id = $1`,
		jobID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get job requirements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var req string
		if err := rows.Scan(&req); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		p.Requirements = append(p.Requirements, req)
	}
	return &p, nil
}

// CreateJobPosting inserts a posting, lazily creating its company by unique
// name, and stores any requirements. Runs in one transaction.
func (db *DB) CreateJobPosting(ctx context.Context, input *JobPostingInput) (uuid.UUID, error) {
	var jobID uuid.UUID

	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var companyID uuid.UUID
		err := tx.QueryRow(ctx,
			`INSERT INTO company (name, location, industry, website)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			input.CompanyName, nullable(input.CompanyLocation),
			nullable(input.CompanyIndustry), nullable(input.CompanyWebsite),
		).Scan(&companyID)
		if err != nil {
			return fmt.Errorf("failed to upsert company: %w", err)
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO job_postings (company_id, title, description, job_location, posted_date, close_date)
			 VALUES ($1, $2, $3, $4, COALESCE($5, CURRENT_DATE), $6)
			 RETURNING id`,
			companyID, input.Title, nullable(input.Description), input.JobLocation,
			input.PostedDate, input.CloseDate,
		).Scan(&jobID)
		if err != nil {
			return fmt.Errorf("failed to create job posting: %w", err)
		}

		for _, req := range input.Requirements {
			if _, err := tx.Exec(ctx,
				`INSERT INTO job_requirements (job_id, requirement) VALUES ($1, $2)`,
				jobID, req,
			); err != nil {
				return fmt.Errorf("failed to insert requirement: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return jobID, nil
}

// UpdateJobPosting applies a partial update; a non-nil Requirements slice
// replaces the posting's requirement set wholesale.
func (db *DB) UpdateJobPosting(ctx context.Context, jobID uuid.UUID, update *JobPostingUpdate) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		sets := []string{}
		args := []any{}
		argNum := 1

		if update.Title != nil {
			sets = append(sets, fmt.Sprintf("title = $%d", argNum))
			args = append(args, *update.Title)
			argNum++
		}
		if update.Description != nil {
			sets = append(sets, fmt.Sprintf("description = $%d", argNum))
			args = append(args, *update.Description)
			argNum++
		}
		if update.JobLocation != nil {
			sets = append(sets, fmt.Sprintf("job_location = $%d", argNum))
			args = append(args, *update.JobLocation)
			argNum++
		}
		if update.CloseDate != nil {
			sets = append(sets, fmt.Sprintf("close_date = $%d", argNum))
			args = append(args, update.CloseDate)
			argNum++
		}

		if len(sets) > 0 {
			query := fmt.Sprintf(`UPDATE job_postings SET %s WHERE id = $%d`, strings.Join(sets, ", "), argNum)
			args = append(args, jobID)
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to update job posting: %w", err)
			}
		}

		if update.Requirements != nil {
			if _, err := tx.Exec(ctx, `DELETE FROM job_requirements WHERE job_id = $1`, jobID); err != nil {
				return fmt.Errorf("failed to clear requirements: %w", err)
			}
			for _, req := range *update.Requirements {
				if _, err := tx.Exec(ctx,
					`INSERT INTO job_requirements (job_id, requirement) VALUES ($1, $2)`,
					jobID, req,
				); err != nil {
					return fmt.Errorf("failed to insert requirement: %w", err)
				}
			}
		}
		return nil
	})
}

// DeleteJobPosting deletes a posting; requirements cascade.
func (db *DB) DeleteJobPosting(ctx context.Context, jobID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job posting not found: %s", jobID)
	}
	return nil
}

// ListJobPostings retrieves postings with optional company/location filters.
func (db *DB) ListJobPostings(ctx context.Context, filters JobPostingFilters) ([]JobPostingSummary, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT jp.id, jp.title, jp.job_location, jp.posted_date, jp.close_date,
	                 c.name, c.location
	          FROM job_postings jp
	          JOIN company c ON jp.company_id = c.id
	          WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Company != "" {
		query += fmt.Sprintf(" AND c.name ILIKE $%d", argNum)
		args = append(args, "%"+filters.Company+"%")
		argNum++
	}
	if filters.Location != "" {
		query += fmt.Sprintf(" AND (jp.job_location ILIKE $%d OR c.location ILIKE $%d)", argNum, argNum)
		args = append(args, "%"+filters.Location+"%")
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY jp.posted_date DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	return db.queryPostingSummaries(ctx, query, args...)
}

// SearchJobPostings matches a keyword against titles, descriptions, and
// requirements.
func (db *DB) SearchJobPostings(ctx context.Context, keyword string, limit int) ([]JobPostingSummary, error) {
	if limit == 0 {
		limit = 20
	}
	pattern := "%" + keyword + "%"

	query := `SELECT DISTINCT jp.id, jp.title, jp.job_location, jp.posted_date, jp.close_date,
	                 c.name, c.location
	          FROM job_postings jp
	          JOIN company c ON jp.company_id = c.id
	          LEFT JOIN job_requirements jr ON jp.id = jr.job_id
	          WHERE jp.title ILIKE $1 OR jp.description ILIKE $1 OR jr.requirement ILIKE $1
	          ORDER BY jp.posted_date DESC
	          LIMIT $2`

	return db.queryPostingSummaries(ctx, query, pattern, limit)
}

// ListUserJobPostings returns the postings a user has targeted through their
// resumes, most recently worked on first.
func (db *DB) ListUserJobPostings(ctx context.Context, userID uuid.UUID) ([]JobPostingSummary, error) {
	query := `SELECT jp.id, jp.title, jp.job_location, jp.posted_date, jp.close_date,
	                 c.name, c.location
	          FROM resumes r
	          JOIN job_postings jp ON r.job_id = jp.id
	          JOIN company c ON jp.company_id = c.id
	          WHERE r.user_id = $1
	          ORDER BY r.last_updated DESC`

	return db.queryPostingSummaries(ctx, query, userID)
}

func (db *DB) queryPostingSummaries(ctx context.Context, query string, args ...any) ([]JobPostingSummary, error) {
	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query job postings: %w", err)
	}
	defer rows.Close()

	var postings []JobPostingSummary
	for rows.Next() {
		var p JobPostingSummary
		var companyLocation *string
		if err := rows.Scan(&p.ID, &p.Title, &p.JobLocation, &p.PostedDate, &p.CloseDate,
			&p.CompanyName, &companyLocation); err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		p.CompanyLocation = deref(companyLocation)
		postings = append(postings, p)
	}
	return postings, nil
}
