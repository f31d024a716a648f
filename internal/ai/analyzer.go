// Package ai provides LLM-backed analysis of free-text job descriptions.
package ai

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rowanchen/resume-advisor/internal/llm"
	"github.com/rowanchen/resume-advisor/internal/prompts"
	"github.com/rowanchen/resume-advisor/internal/schemas"
)

//go:embed analysis_schema.json
var analysisSchema string

// MinJobTextLen is the minimum length of job description text worth analyzing.
// Shorter inputs produce garbage extractions.
const MinJobTextLen = 50

// ErrJobTextTooShort is returned when the input text is below MinJobTextLen.
var ErrJobTextTooShort = errors.New("job description text is too short to analyze")

// JobAnalysis is the structured result of analyzing a job description.
// Missing fields come back as empty strings so clients can prefill forms
// without nil checks.
type JobAnalysis struct {
	Title           string   `json:"title"`
	CompanyName     string   `json:"company_name"`
	CompanyLocation string   `json:"company_location"`
	CompanyIndustry string   `json:"company_industry"`
	CompanyWebsite  string   `json:"company_website"`
	Description     string   `json:"description"`
	JobLocation     string   `json:"job_location"`
	PostedDate      string   `json:"posted_date"`
	CloseDate       string   `json:"close_date"`
	Requirements    []string `json:"requirements"`
}

// Analyzer extracts structured job posting fields from free text.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates an analyzer backed by the given LLM client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// AnalyzeJobDescription runs the extraction and validates the model output
// against the analysis schema before returning it.
func (a *Analyzer) AnalyzeJobDescription(ctx context.Context, jobText string) (*JobAnalysis, error) {
	jobText = strings.TrimSpace(jobText)
	if len(jobText) < MinJobTextLen {
		return nil, ErrJobTextTooShort
	}

	preamble := prompts.MustGet("analyze.json", "job-posting-preamble")
	prompt := llm.BuildExtractionPrompt(llm.JobPostingSchema(preamble), jobText)

	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze job description: %w", err)
	}

	if err := schemas.ValidateJSONString(analysisSchema, raw); err != nil {
		return nil, fmt.Errorf("model returned invalid analysis: %w", err)
	}

	var analysis JobAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis: %w", err)
	}

	if analysis.Requirements == nil {
		analysis.Requirements = []string{}
	}

	return &analysis, nil
}
