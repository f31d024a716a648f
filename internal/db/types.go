package db

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// User represents a user account row.
type User struct {
	ID           uuid.UUID `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialized
	Phone        string    `json:"phone"`
	Location     string    `json:"location,omitempty"`
	LinkedIn     string    `json:"linkedin_profile_url,omitempty"`
	GitHub       string    `json:"github_profile_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserProfileUpdate carries the optional profile fields of a partial update.
// Nil fields are left untouched.
type UserProfileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Location  *string `json:"location"`
	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
}

// Resume is the authoritative resume record. Sections is the raw JSON
// document authored by the client editor; it is stored verbatim and is the
// source of truth over the normalized tables.
type Resume struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"-"`
	JobID        uuid.UUID       `json:"job_id"`
	Title        string          `json:"title"`
	Sections     json.RawMessage `json:"sections"`
	CreationDate time.Time       `json:"creation_date"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// ResumeSummary is a lightweight view for listing a user's resumes.
type ResumeSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	JobID       uuid.UUID `json:"job_id"`
	LastUpdated time.Time `json:"last_updated"`
}

// CoverLetter is the authoritative cover letter record. Content is the raw
// JSON document, same ownership rules as Resume.
type CoverLetter struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"-"`
	JobID        uuid.UUID       `json:"job_id"`
	Title        string          `json:"title"`
	Content      json.RawMessage `json:"content"`
	CreationDate time.Time       `json:"creation_date"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// CoverLetterSummary is a lightweight view for listing a user's cover letters.
type CoverLetterSummary struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	LastUpdated time.Time `json:"last_updated"`
}

// Company represents an employer row, created lazily when the first posting
// for it is saved.
type Company struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Location string    `json:"location,omitempty"`
	Industry string    `json:"industry,omitempty"`
	Website  string    `json:"website,omitempty"`
}

// JobPosting represents a job posting with its company and requirements.
type JobPosting struct {
	ID           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	JobLocation  string    `json:"job_location"`
	PostedDate   *Date     `json:"posted_date,omitempty"`
	CloseDate    *Date     `json:"close_date,omitempty"`
	Company      Company   `json:"company"`
	Requirements []string  `json:"requirements,omitempty"`
}

// JobPostingSummary is a flattened view for listings and search results.
type JobPostingSummary struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	JobLocation     string    `json:"job_location"`
	PostedDate      *Date     `json:"posted_date,omitempty"`
	CloseDate       *Date     `json:"close_date,omitempty"`
	CompanyName     string    `json:"company_name"`
	CompanyLocation string    `json:"company_location,omitempty"`
}

// JobPostingInput carries the fields for creating a job posting.
type JobPostingInput struct {
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	CompanyLocation string   `json:"company_location"`
	CompanyIndustry string   `json:"company_industry"`
	CompanyWebsite  string   `json:"company_website"`
	Description     string   `json:"description"`
	JobLocation     string   `json:"job_location"`
	PostedDate      *Date    `json:"posted_date"`
	CloseDate       *Date    `json:"close_date"`
	Requirements    []string `json:"requirements"`
}

// JobPostingUpdate carries the optional fields of a partial posting update.
type JobPostingUpdate struct {
	Title        *string   `json:"title"`
	Description  *string   `json:"description"`
	JobLocation  *string   `json:"job_location"`
	CloseDate    *Date     `json:"close_date"`
	Requirements *[]string `json:"requirements"`
}

// Date is a custom type for SQL DATE columns (YYYY-MM-DD).
type Date struct {
	time.Time
}

// Scan implements the Scanner interface.
func (d *Date) Scan(value interface{}) error {
	if value == nil {
		return nil
	}
	t, ok := value.(time.Time)
	if !ok {
		return errors.New("failed to scan Date")
	}
	d.Time = t
	return nil
}

// Value implements the Valuer interface.
func (d *Date) Value() (driver.Value, error) {
	if d == nil {
		return nil, nil
	}
	return d.Time, nil
}

// MarshalJSON implements json.Marshaler.
func (d *Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	str := string(data)
	if str == "null" || str == `""` {
		return nil
	}
	if len(str) > 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	var err error
	d.Time, err = time.Parse("2006-01-02", str)
	return err
}
