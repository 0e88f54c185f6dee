// Package screener runs the resume ingestion and scoring pipeline:
// text extraction, heuristic field extraction, persistence, scoring, and
// the ranked listing contract.
package screener

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"resume-screener/internal/events"
	"resume-screener/internal/llm"
	"resume-screener/internal/resume"
	"resume-screener/internal/storage"
)

// Store is the persistence boundary consumed by the pipeline. Implemented
// by storage.DB; faked in tests.
type Store interface {
	CreateCandidate(ctx context.Context, c *storage.Candidate) error
	AttachMatch(ctx context.Context, id uuid.UUID, match storage.Match) error
	ListScored(ctx context.Context) ([]storage.Candidate, error)
	DeleteAll(ctx context.Context) error
}

// Document is one uploaded resume. It exists only for the duration of a
// ProcessBatch call and is not retained beyond text extraction.
type Document struct {
	Filename string
	Data     []byte
}

// BatchItem is the per-document outcome of a batch. Exactly one of
// Candidate and Error is set; documents of unsupported type produce no
// item at all.
type BatchItem struct {
	SourceFilename string             `json:"source_filename"`
	Candidate      *storage.Candidate `json:"candidate,omitempty"`
	Error          string             `json:"error,omitempty"`
}

type Screener struct {
	store     Store
	scorer    llm.ScoreProvider
	publisher *events.Publisher
}

func New(store Store, scorer llm.ScoreProvider, publisher *events.Publisher) *Screener {
	return &Screener{
		store:     store,
		scorer:    scorer,
		publisher: publisher,
	}
}

// ProcessBatch processes documents sequentially in upload order. Each
// document is extracted, field-extracted, persisted, and only then scored,
// so a scoring timeout or crash leaves a durable unscored record. A
// per-document extraction failure aborts that document only; a persistence
// failure aborts the batch.
func (s *Screener) ProcessBatch(ctx context.Context, docs []Document, jobDescription string) ([]BatchItem, error) {
	batchID := uuid.New().String()
	s.publishUpdate(batchID, "processing", fmt.Sprintf("processing %d documents", len(docs)))

	items := []BatchItem{}
	for _, doc := range docs {
		text, err := resume.ExtractText(doc.Filename, doc.Data)
		if errors.Is(err, resume.ErrUnsupportedType) {
			log.Printf("skipping %s: %v", doc.Filename, err)
			continue
		}
		if err != nil {
			log.Printf("extraction failed for %s: %v", doc.Filename, err)
			items = append(items, BatchItem{SourceFilename: doc.Filename, Error: err.Error()})
			continue
		}
		if text == "" {
			items = append(items, BatchItem{
				SourceFilename: doc.Filename,
				Error:          "document contains no extractable text",
			})
			continue
		}

		fields := resume.ExtractFields(text)
		candidate := &storage.Candidate{
			Name:            fields.Name,
			Email:           fields.Email,
			Skills:          fields.Skills,
			Education:       fields.Education,
			ExperienceYears: fields.ExperienceYears,
			RawText:         text,
			SourceFilename:  doc.Filename,
			JobDescription:  jobDescription,
		}
		if err := s.store.CreateCandidate(ctx, candidate); err != nil {
			s.publishUpdate(batchID, "failed", "persistence error")
			return items, fmt.Errorf("failed to persist candidate from %s: %w", doc.Filename, err)
		}

		result := s.scorer.Score(ctx, text, jobDescription)
		match := storage.Match{Score: result.Score, Justification: result.Justification}
		if err := s.store.AttachMatch(ctx, candidate.ID, match); err != nil {
			s.publishUpdate(batchID, "failed", "persistence error")
			return items, fmt.Errorf("failed to attach match for %s: %w", doc.Filename, err)
		}
		candidate.Match = &match

		items = append(items, BatchItem{SourceFilename: doc.Filename, Candidate: candidate})
	}

	s.publishUpdate(batchID, "completed", fmt.Sprintf("%d documents processed", len(items)))
	return items, nil
}

// ListRanked returns scored candidates ordered by score descending, then
// by creation recency. Unscored records never appear.
func (s *Screener) ListRanked(ctx context.Context) ([]storage.RankedCandidate, error) {
	candidates, err := s.store.ListScored(ctx)
	if err != nil {
		return nil, err
	}

	scored := make([]storage.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Scored() {
			scored = append(scored, c)
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Match.Score != scored[j].Match.Score {
			return scored[i].Match.Score > scored[j].Match.Score
		}
		return scored[i].CreatedAt.After(scored[j].CreatedAt)
	})

	ranked := make([]storage.RankedCandidate, 0, len(scored))
	for _, c := range scored {
		ranked = append(ranked, storage.RankedCandidate{
			ID:            c.ID,
			DisplayName:   displayName(c),
			Score:         c.Match.Score,
			Justification: c.Match.Justification,
		})
	}
	return ranked, nil
}

// ClearAll removes every candidate record.
func (s *Screener) ClearAll(ctx context.Context) error {
	return s.store.DeleteAll(ctx)
}

// displayName resolves to name, else email, else source filename.
func displayName(c storage.Candidate) string {
	if c.Name != "" {
		return c.Name
	}
	if c.Email != "" {
		return c.Email
	}
	return c.SourceFilename
}

func (s *Screener) publishUpdate(batchID, status, message string) {
	s.publisher.PublishBatchUpdate(batchID, map[string]any{
		"batch_id":  batchID,
		"status":    status,
		"message":   message,
		"timestamp": time.Now(),
	})
}
