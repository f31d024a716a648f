// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "JobPosting")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent facts.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// JobPostingSchema returns the extraction schema for free-text job
// descriptions. The preamble is supplied by the caller so prompt wording
// stays externalized.
func JobPostingSchema(preamble string) ExtractionSchema {
	return ExtractionSchema{
		Name:        "JobPosting",
		Description: preamble,
		Fields: []SchemaField{
			{
				Name:        "title",
				Type:        "\"string\"",
				Description: "Job title/position name",
				Required:    true,
			},
			{
				Name:        "company_name",
				Type:        "\"string\"",
				Description: "Company name - infer from context clues if not explicit",
				Required:    true,
			},
			{
				Name:        "company_location",
				Type:        "\"string\"",
				Description: "Company headquarters or main location",
				Required:    false,
			},
			{
				Name:        "company_industry",
				Type:        "\"string\"",
				Description: "Industry sector (e.g., Technology, Finance, Healthcare)",
				Required:    false,
			},
			{
				Name:        "company_website",
				Type:        "\"string\"",
				Description: "Company website URL if mentioned",
				Required:    false,
			},
			{
				Name:        "description",
				Type:        "\"string\"",
				Description: "Concise 2-3 sentence summary of the role and responsibilities",
				Required:    true,
			},
			{
				Name:        "job_location",
				Type:        "\"string\"",
				Description: "Where the job is based (e.g., \"Remote\", \"San Francisco, CA\", \"Hybrid - NYC\")",
				Required:    true,
			},
			{
				Name:        "posted_date",
				Type:        "\"string\"",
				Description: "Posting date in YYYY-MM-DD format, empty string if not found",
				Required:    false,
			},
			{
				Name:        "close_date",
				Type:        "\"string\"",
				Description: "Application deadline in YYYY-MM-DD format, empty string if not found",
				Required:    false,
			},
			{
				Name:        "requirements",
				Type:        "[\"string\"]",
				Description: "Must-have/required skills and qualifications ONLY, never nice-to-have",
				Required:    true,
			},
		},
	}
}
