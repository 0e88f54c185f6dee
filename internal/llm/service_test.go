package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// fakeCompletions returns a chat-completions server whose single choice
// carries the given content.
func fakeCompletions(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); !strings.HasPrefix(got, "Bearer ") {
			t.Errorf("Authorization header = %q, want bearer token", got)
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestService(endpoint string) *Service {
	s := NewService("groq", "test-key", "openai/gpt-oss-20b")
	s.endpoint = endpoint
	return s
}

func TestScore_NoCredential(t *testing.T) {
	// No network call may be attempted: point the service at a server
	// that fails the test if hit.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request sent despite missing credential")
	}))
	defer srv.Close()

	s := NewService("groq", "", "openai/gpt-oss-20b")
	s.endpoint = srv.URL

	result := s.Score(context.Background(), "resume", "job")
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	if result.Justification != "GROQ_API_KEY not configured." {
		t.Errorf("Justification = %q, want %q", result.Justification, "GROQ_API_KEY not configured.")
	}
}

func TestScore_ClampsAndToleratesProse(t *testing.T) {
	srv := fakeCompletions(t, `Sure! {"score": 15, "justification": "Strong match"} thanks`)
	defer srv.Close()

	result := newTestService(srv.URL).Score(context.Background(), "resume", "job")
	if result.Score != 10 {
		t.Errorf("Score = %v, want 10 (clamped)", result.Score)
	}
	if result.Justification != "Strong match" {
		t.Errorf("Justification = %q, want %q", result.Justification, "Strong match")
	}
}

func TestScore_ClampsNegative(t *testing.T) {
	srv := fakeCompletions(t, `{"score": -3, "justification": "Poor fit"}`)
	defer srv.Close()

	result := newTestService(srv.URL).Score(context.Background(), "resume", "job")
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0 (clamped)", result.Score)
	}
	if result.Justification != "Poor fit" {
		t.Errorf("Justification = %q, want %q", result.Justification, "Poor fit")
	}
}

func TestScore_InvalidJSONContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "No JSON at all", content: "I cannot rate this resume."},
		{name: "Broken JSON", content: "{ score: broken }"},
		{name: "Missing score", content: `{"justification": "looks fine"}`},
		{name: "Empty justification", content: `{"score": 7, "justification": ""}`},
		{name: "Score is a string", content: `{"score": "seven", "justification": "ok"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := fakeCompletions(t, tt.content)
			defer srv.Close()

			result := newTestService(srv.URL).Score(context.Background(), "resume", "job")
			if result.Score != 0 {
				t.Errorf("Score = %v, want 0", result.Score)
			}
			if result.Justification != "Model did not return valid JSON." {
				t.Errorf("Justification = %q, want invalid-JSON sentinel", result.Justification)
			}
		})
	}
}

func TestScore_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limit exceeded"},
		})
	}))
	defer srv.Close()

	result := newTestService(srv.URL).Score(context.Background(), "resume", "job")
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	if !strings.HasPrefix(result.Justification, "Scoring failed: ") {
		t.Errorf("Justification = %q, want scoring-failed prefix", result.Justification)
	}
	if !strings.Contains(result.Justification, "rate limit exceeded") {
		t.Errorf("Justification = %q, want service error message included", result.Justification)
	}
}

func TestScore_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	result := newTestService(srv.URL).Score(context.Background(), "resume", "job")
	if result.Score != 0 {
		t.Errorf("Score = %v, want 0", result.Score)
	}
	if !strings.HasPrefix(result.Justification, "Scoring failed: ") {
		t.Errorf("Justification = %q, want scoring-failed prefix", result.Justification)
	}
}

func TestBuildPrompt_Truncation(t *testing.T) {
	longResume := strings.Repeat("r", MaxResumeChars+500)
	longJob := strings.Repeat("j", MaxJobDescChars+500)

	prompt := BuildPrompt(longResume, longJob)

	if strings.Contains(prompt, strings.Repeat("r", MaxResumeChars+1)) {
		t.Error("resume text not truncated to cap")
	}
	if strings.Contains(prompt, strings.Repeat("j", MaxJobDescChars+1)) {
		t.Error("job description not truncated to cap")
	}
	if !strings.Contains(prompt, strings.Repeat("r", MaxResumeChars)) {
		t.Error("truncated resume text missing from prompt")
	}
}

func TestBuildPrompt_Deterministic(t *testing.T) {
	a := BuildPrompt("resume text", "job text")
	b := BuildPrompt("resume text", "job text")
	if a != b {
		t.Error("BuildPrompt is not deterministic for identical inputs")
	}

	if !strings.Contains(a, `"score"`) || !strings.Contains(a, `"justification"`) {
		t.Error("prompt does not request score/justification JSON keys")
	}
	if !strings.Contains(a, "resume text") || !strings.Contains(a, "job text") {
		t.Error("prompt is missing its inputs")
	}
}
