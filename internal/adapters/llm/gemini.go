package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mailagent/server/internal/ports"
)

const defaultModel = "gemini-1.5-flash"

// GeminiClient generates assistant text through the Gemini REST API.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

func NewGeminiClient(cfg GeminiConfig, logger *slog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini client: api key is empty")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}, nil
}

type generateRequest struct {
	Contents          []content        `json:"contents"`
	SystemInstruction *content         `json:"systemInstruction,omitempty"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *GeminiClient) GenerateReply(ctx context.Context, req ports.DraftRequest) (string, error) {
	system := fmt.Sprintf(
		"You are a helpful email assistant. Reply to the user's message conversationally in a %s tone. Keep answers focused on email composition and communication.",
		req.Tone)
	return c.generate(ctx, system, req.Message)
}

func (c *GeminiClient) GenerateEmail(ctx context.Context, req ports.EmailDraftRequest) (ports.EmailDraft, error) {
	system := fmt.Sprintf(
		"You are an email writing assistant. Compose a complete email in a %s tone based on the user's request. Start the output with a line of the form \"Subject: <subject>\" followed by a blank line and the email body. Do not include placeholders the user must fill in unless unavoidable.",
		req.Tone)
	prompt := req.Prompt
	if req.Recipient != "" {
		prompt = fmt.Sprintf("Recipient: %s\n\n%s", req.Recipient, prompt)
	}

	raw, err := c.generate(ctx, system, prompt)
	if err != nil {
		return ports.EmailDraft{}, err
	}
	subject, body := parseEmailDraft(raw)
	return ports.EmailDraft{Subject: subject, Body: body, To: req.Recipient}, nil
}

func (c *GeminiClient) generate(ctx context.Context, system, prompt string) (string, error) {
	payload := generateRequest{
		Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}},
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			TopP:            0.9,
			MaxOutputTokens: 2048,
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("build gemini request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call gemini: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read gemini response: %w", err)
	}

	var out generateResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := resp.Status
		if out.Error != nil {
			msg = out.Error.Message
		}
		return "", fmt.Errorf("gemini: %s", msg)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}

	var text strings.Builder
	for _, p := range out.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	return strings.TrimSpace(text.String()), nil
}

// parseEmailDraft splits generated text into subject and body. A "Subject:"
// line anywhere in the first few lines wins; otherwise a short first line is
// promoted to subject, and failing both the subject is left generic.
func parseEmailDraft(raw string) (subject, body string) {
	lines := strings.Split(strings.TrimSpace(raw), "\n")

	scan := len(lines)
	if scan > 5 {
		scan = 5
	}
	for i := 0; i < scan; i++ {
		trimmed := strings.TrimSpace(lines[i])
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "subject:") {
			subject = strings.TrimSpace(trimmed[len("subject:"):])
			body = strings.TrimSpace(strings.Join(append(lines[:i:i], lines[i+1:]...), "\n"))
			return subject, body
		}
	}

	if len(lines) > 1 {
		first := strings.TrimSpace(lines[0])
		if first != "" && len(first) <= 78 && !strings.HasSuffix(first, ",") {
			return first, strings.TrimSpace(strings.Join(lines[1:], "\n"))
		}
	}
	return "Generated Email", strings.TrimSpace(raw)
}

var _ ports.DraftGenerator = (*GeminiClient)(nil)
