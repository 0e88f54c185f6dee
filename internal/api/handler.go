package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"resume-screener/internal/config"
	"resume-screener/internal/events"
	"resume-screener/internal/llm"
	"resume-screener/internal/screener"
	"resume-screener/internal/storage"
)

const (
	// Upload limits enforced at this boundary, not in the pipeline.
	maxBatchFiles = 10
	maxFileSize   = 10 << 20 // 10MB per file
)

type API struct {
	screener  *screener.Screener
	publisher *events.Publisher
}

func NewAPI(db *storage.DB, cfg *config.Config) *API {
	var scorer llm.ScoreProvider = llm.NewService(cfg.LLMProvider, cfg.LLMAPIKey, cfg.LLMModel)

	publisher, err := events.Connect(cfg.RabbitMQURL)
	if err != nil {
		// Notifications are optional; the pipeline runs without them.
		log.Printf("RabbitMQ unavailable, batch updates disabled: %v", err)
		publisher = nil
	}

	return &API{
		screener:  screener.New(db, scorer, publisher),
		publisher: publisher,
	}
}

func (a *API) Close() {
	a.publisher.Close()
}

// UploadHandler ingests a batch of resumes and scores each against the
// supplied job description.
// @Summary Upload and score resumes
// @Description Upload up to 10 resumes (PDF, DOCX, DOC, RTF, ODT or TXT) and score each against a job description
// @Tags resumes
// @Accept multipart/form-data
// @Produce json
// @Param resumes formData file true "Resume files (max 10, 10MB each)"
// @Param job_description formData string false "Job description text"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /resumes/upload [post]
func (a *API) UploadHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	startTime := time.Now()

	if err := r.ParseMultipartForm(maxBatchFiles * maxFileSize); err != nil {
		http.Error(w, "upload too large or invalid", http.StatusBadRequest)
		return
	}

	jobDescription := r.FormValue("job_description")

	if r.MultipartForm == nil {
		http.Error(w, "no files uploaded", http.StatusBadRequest)
		return
	}
	fileHeaders := r.MultipartForm.File["resumes"]
	if len(fileHeaders) == 0 {
		http.Error(w, "no files uploaded", http.StatusBadRequest)
		return
	}
	if len(fileHeaders) > maxBatchFiles {
		http.Error(w, fmt.Sprintf("too many files (max %d)", maxBatchFiles), http.StatusBadRequest)
		return
	}

	docs := make([]screener.Document, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > maxFileSize {
			http.Error(w, fmt.Sprintf("%s exceeds the 10MB limit", fh.Filename), http.StatusBadRequest)
			return
		}
		file, err := fh.Open()
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, maxFileSize))
		file.Close()
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		docs = append(docs, screener.Document{Filename: fh.Filename, Data: data})
	}

	results, err := a.screener.ProcessBatch(r.Context(), docs, jobDescription)
	if err != nil {
		log.Printf("batch processing failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"ok":    false,
			"error": "batch processing failed",
		})
		return
	}

	log.Printf("processed batch of %d documents in %dms", len(results), time.Since(startTime).Milliseconds())

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":      true,
		"count":   len(results),
		"results": results,
	})
}

// CandidatesHandler lists ranked candidates (GET) or clears all records
// (DELETE).
// @Summary List ranked candidates
// @Description List scored candidates ordered by score, then recency
// @Tags candidates
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /resumes/candidates [get]
func (a *API) CandidatesHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		candidates, err := a.screener.ListRanked(r.Context())
		if err != nil {
			log.Printf("failed to list candidates: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"ok":    false,
				"error": "failed to list candidates",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"ok":         true,
			"candidates": candidates,
		})
	case http.MethodDelete:
		if err := a.screener.ClearAll(r.Context()); err != nil {
			log.Printf("failed to clear candidates: %v", err)
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"ok":    false,
				"error": "failed to clear candidates",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}
