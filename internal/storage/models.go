package storage

import (
	"time"

	"github.com/google/uuid"
)

// Match is the scoring outcome attached to a candidate once the scoring
// call completes. Score is within [0, 10].
type Match struct {
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// Candidate is the persisted record for one processed resume. Extracted
// fields are best-effort and may be empty; RawText is always non-empty for
// a persisted record. Match is nil until scoring completes.
type Candidate struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	Skills          []string  `json:"skills"`
	Education       string    `json:"education,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	RawText         string    `json:"-"`
	SourceFilename  string    `json:"source_filename"`
	JobDescription  string    `json:"job_description,omitempty"`
	Match           *Match    `json:"match,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Scored reports whether a match result has been attached.
func (c *Candidate) Scored() bool {
	return c.Match != nil
}

// RankedCandidate is the listing projection exposed to the UI layer.
type RankedCandidate struct {
	ID            uuid.UUID `json:"id"`
	DisplayName   string    `json:"name"`
	Score         float64   `json:"score"`
	Justification string    `json:"justification"`
}
