package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"
)

type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGroq   Provider = "groq"
	ProviderNone   Provider = "none"
)

const (
	groqEndpoint   = "https://api.groq.com/openai/v1/chat/completions"
	openaiEndpoint = "https://api.openai.com/v1/chat/completions"

	// requestTimeout bounds a single scoring call; a candidate must not
	// block the rest of the batch forever.
	requestTimeout = 60 * time.Second
)

// MatchResult is the bounded outcome of scoring a resume against a job
// description. Score is always within [0, 10].
type MatchResult struct {
	Score         float64 `json:"score"`
	Justification string  `json:"justification"`
}

// ScoreProvider is the scoring capability consumed by the pipeline. The
// contract is hard: implementations always return a usable result and
// never an error, whatever the remote service does.
type ScoreProvider interface {
	Score(ctx context.Context, resumeText, jobDescription string) MatchResult
}

type Service struct {
	provider Provider
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

func NewService(provider, apiKey, model string) *Service {
	s := &Service{
		provider: Provider(provider),
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: requestTimeout},
	}
	switch s.provider {
	case ProviderOpenAI:
		s.endpoint = openaiEndpoint
	default:
		s.endpoint = groqEndpoint
	}
	return s
}

// Score rates the resume against the job description. Every failure path
// degrades to a zero score with an explanatory justification: a candidate
// is never lost because the scoring dependency misbehaved.
func (s *Service) Score(ctx context.Context, resumeText, jobDescription string) MatchResult {
	if s == nil || s.apiKey == "" {
		return MatchResult{Score: 0, Justification: s.credentialEnvName() + " not configured."}
	}

	prompt := BuildPrompt(resumeText, jobDescription)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		log.Printf("scoring call failed: %v", err)
		return MatchResult{Score: 0, Justification: "Scoring failed: " + err.Error()}
	}

	return parseMatchJSON(content)
}

func (s *Service) credentialEnvName() string {
	if s != nil && s.provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GROQ_API_KEY"
}

// complete sends a chat-completions request and returns the raw textual
// content of the first choice.
func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"model": s.model,
		"messages": []map[string]string{
			{
				"role":    "system",
				"content": "You are a helpful AI assistant that returns strict JSON when asked.",
			},
			{
				"role":    "user",
				"content": prompt,
			},
		},
		"temperature": 0.2,
		"response_format": map[string]string{
			"type": "json_object",
		},
	}

	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", s.provider, err)
	}
	defer resp.Body.Close()

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("%s API error: %d", s.provider, resp.StatusCode)
		}
		return "", fmt.Errorf("malformed %s response: %w", s.provider, err)
	}

	// Prefer the service's own error message when it sends one.
	if result.Error.Message != "" {
		return "", fmt.Errorf("%s error: %s", s.provider, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s API error: %d", s.provider, resp.StatusCode)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", s.provider)
	}

	return result.Choices[0].Message.Content, nil
}

// parseMatchJSON pulls a {score, justification} object out of the model's
// response. The text between the first '{' and the last '}' is treated as
// the candidate payload, tolerating prose around the JSON. Anything that
// fails to parse, or lacks a numeric score or non-empty justification,
// degrades to the invalid-JSON sentinel.
func parseMatchJSON(content string) MatchResult {
	invalid := MatchResult{Score: 0, Justification: "Model did not return valid JSON."}

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return invalid
	}

	var parsed struct {
		Score         json.Number `json:"score"`
		Justification string      `json:"justification"`
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &parsed); err != nil {
		return invalid
	}

	score, err := parsed.Score.Float64()
	if err != nil || parsed.Justification == "" {
		return invalid
	}

	return MatchResult{
		Score:         clamp(score, 0, 10),
		Justification: parsed.Justification,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
