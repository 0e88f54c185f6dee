package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq" // PostgreSQL driver
)

type DB struct {
	connection *sql.DB
}

func NewDB(dataSourceName string) (*DB, error) {
	db, err := sql.Open("postgres", dataSourceName)
	if err != nil {
		return nil, err
	}

	// Connection pool tuning
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &DB{connection: db}, nil
}

func (db *DB) Close() {
	if err := db.connection.Close(); err != nil {
		log.Println("Error closing the database connection:", err)
	}
}

// EnsureSchema creates the candidates table when it does not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	const schema = `
        CREATE TABLE IF NOT EXISTS candidates (
            id UUID PRIMARY KEY,
            name TEXT NOT NULL DEFAULT '',
            email TEXT NOT NULL DEFAULT '',
            skills TEXT NOT NULL DEFAULT '',
            education TEXT NOT NULL DEFAULT '',
            experience_years INT,
            raw_text TEXT NOT NULL CHECK (raw_text <> ''),
            source_filename TEXT NOT NULL DEFAULT '',
            job_description TEXT NOT NULL DEFAULT '',
            match_score DOUBLE PRECISION,
            match_justification TEXT,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := db.connection.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create candidates table: %w", err)
	}
	return nil
}

// CreateCandidate persists a new record, assigning its id and timestamps.
// The record is created before scoring so that a scoring failure still
// leaves a durable, unscored candidate.
func (db *DB) CreateCandidate(ctx context.Context, c *Candidate) error {
	c.ID = uuid.New()

	query := `INSERT INTO candidates
                  (id, name, email, skills, education, experience_years,
                   raw_text, source_filename, job_description)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
              RETURNING created_at, updated_at`

	err := db.connection.QueryRowContext(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		strings.Join(c.Skills, ","),
		c.Education,
		c.ExperienceYears,
		c.RawText,
		c.SourceFilename,
		c.JobDescription,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

// AttachMatch records the scoring outcome for an existing candidate. This
// is the record's only mutation after creation.
func (db *DB) AttachMatch(ctx context.Context, id uuid.UUID, match Match) error {
	query := `UPDATE candidates
              SET match_score = $1, match_justification = $2, updated_at = NOW()
              WHERE id = $3`
	res, err := db.connection.ExecContext(ctx, query, match.Score, match.Justification, id)
	if err != nil {
		return fmt.Errorf("failed to attach match: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("candidate %s not found", id)
	}
	return nil
}

// ListScored returns all candidates with a match result, best score first,
// most recent first among ties.
func (db *DB) ListScored(ctx context.Context) ([]Candidate, error) {
	query := `SELECT id, name, email, skills, education, experience_years,
                     raw_text, source_filename, job_description,
                     match_score, match_justification, created_at, updated_at
              FROM candidates
              WHERE match_score IS NOT NULL
              ORDER BY match_score DESC, created_at DESC`

	rows, err := db.connection.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query scored candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var c Candidate
		var skills string
		var score sql.NullFloat64
		var justification sql.NullString
		if err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&skills,
			&c.Education,
			&c.ExperienceYears,
			&c.RawText,
			&c.SourceFilename,
			&c.JobDescription,
			&score,
			&justification,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		c.Skills = splitAndTrim(skills)
		if score.Valid {
			c.Match = &Match{Score: score.Float64, Justification: justification.String}
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// DeleteAll removes every candidate record. All-or-nothing, not selective.
func (db *DB) DeleteAll(ctx context.Context) error {
	if _, err := db.connection.ExecContext(ctx, `DELETE FROM candidates`); err != nil {
		return fmt.Errorf("failed to clear candidates: %w", err)
	}
	return nil
}

// helper to split comma-separated skills
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
