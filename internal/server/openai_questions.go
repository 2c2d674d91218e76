package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"feud-night/internal/room"
)

// GeneratedQuestion is one survey question with weighted answers. Points
// should sum to 100 in descending order, but that is the question
// source's contract; the board consumes whatever comes back.
type GeneratedQuestion struct {
	Question string                 `json:"question"`
	Answers  []room.GeneratedAnswer `json:"answers"`
}

type openAIChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openAIChatMessage `json:"messages"`
	Temperature float64             `json:"temperature,omitempty"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (s *Server) generateQuestion(ctx context.Context) (GeneratedQuestion, error) {
	if strings.TrimSpace(s.cfg.OpenAIAPIKey) == "" {
		return GeneratedQuestion{}, errors.New("OpenAI API key is not configured.")
	}
	systemPrompt, err := readPromptFile(s.cfg.OpenAIPromptSystemPath)
	if err != nil {
		return GeneratedQuestion{}, err
	}
	userPrompt, err := readPromptFile(s.cfg.OpenAIPromptUserPath)
	if err != nil {
		return GeneratedQuestion{}, err
	}

	reqBody := openAIChatRequest{
		Model: s.cfg.OpenAIModel,
		Messages: []openAIChatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 1.2,
		MaxTokens:   500,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return GeneratedQuestion{}, fmt.Errorf("failed to build OpenAI request")
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, "https://api.openai.com/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return GeneratedQuestion{}, fmt.Errorf("failed to build OpenAI request")
	}
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(s.cfg.OpenAIAPIKey))
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return GeneratedQuestion{}, fmt.Errorf("failed to reach OpenAI")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return GeneratedQuestion{}, fmt.Errorf("failed to read OpenAI response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return GeneratedQuestion{}, fmt.Errorf("OpenAI request failed (%d)", resp.StatusCode)
	}

	var parsed openAIChatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return GeneratedQuestion{}, fmt.Errorf("failed to parse OpenAI response")
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return GeneratedQuestion{}, fmt.Errorf("OpenAI error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return GeneratedQuestion{}, errors.New("OpenAI returned no choices.")
	}
	return parseGeneratedQuestion(parsed.Choices[0].Message.Content)
}

func readPromptFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt template: %s", path)
	}
	return strings.TrimSpace(string(content)), nil
}

// parseGeneratedQuestion decodes the model's JSON payload, tolerating
// markdown code fences and surrounding prose. Points sums are not
// validated; blank or duplicate answers are kept as-is.
func parseGeneratedQuestion(raw string) (GeneratedQuestion, error) {
	raw = stripCodeFences(raw)
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end < start {
		return GeneratedQuestion{}, errors.New("question source did not return JSON.")
	}
	var q GeneratedQuestion
	if err := json.Unmarshal([]byte(raw[start:end+1]), &q); err != nil {
		return GeneratedQuestion{}, fmt.Errorf("failed to parse generated question")
	}
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" {
		return GeneratedQuestion{}, errors.New("generated question is empty.")
	}
	if len(q.Answers) == 0 {
		return GeneratedQuestion{}, errors.New("generated question has no answers.")
	}
	for i := range q.Answers {
		q.Answers[i].Text = strings.TrimSpace(q.Answers[i].Text)
	}
	return q, nil
}

func stripCodeFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "```") {
		return raw
	}
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	if idx := strings.LastIndex(raw, "```"); idx != -1 {
		raw = raw[:idx]
	}
	return strings.TrimSpace(raw)
}
