package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mailagent/server/internal/ports"
)

func TestParseEmailDraft(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		raw         string
		wantSubject string
		wantBody    string
	}{
		{
			name:        "subject line first",
			raw:         "Subject: Quarterly Update\n\nHi team,\n\nHere is the update.",
			wantSubject: "Quarterly Update",
			wantBody:    "Hi team,\n\nHere is the update.",
		},
		{
			name:        "subject line lowercased and offset",
			raw:         "Here you go:\nsubject: Meeting Reschedule\nHi Alex,\nCan we move to 3pm?",
			wantSubject: "Meeting Reschedule",
			wantBody:    "Here you go:\nHi Alex,\nCan we move to 3pm?",
		},
		{
			name:        "short first line promoted",
			raw:         "Following up on invoice 1042\nHi Sam,\n\nJust checking in on the invoice.",
			wantSubject: "Following up on invoice 1042",
			wantBody:    "Hi Sam,\n\nJust checking in on the invoice.",
		},
		{
			name:        "salutation first line not promoted",
			raw:         "Dear Dr. Martinez,\n\nThank you for your time last week.",
			wantSubject: "Generated Email",
			wantBody:    "Dear Dr. Martinez,\n\nThank you for your time last week.",
		},
		{
			name:        "long first line falls back",
			raw:         strings.Repeat("word ", 30) + "\nrest of the body here",
			wantSubject: "Generated Email",
		},
		{
			name:        "single line",
			raw:         "Thanks, see you then.",
			wantSubject: "Generated Email",
			wantBody:    "Thanks, see you then.",
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			subject, body := parseEmailDraft(tc.raw)
			if subject != tc.wantSubject {
				t.Fatalf("subject: got %q want %q", subject, tc.wantSubject)
			}
			if tc.wantBody != "" && body != tc.wantBody {
				t.Fatalf("body: got %q want %q", body, tc.wantBody)
			}
		})
	}
}

func TestGenerateEmailAgainstStubServer(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if !strings.HasSuffix(r.URL.Path, "/models/gemini-1.5-flash:generateContent") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.SystemInstruction == nil {
			t.Errorf("expected system instruction")
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"Subject: Hello\n\nHi there,\nbody text."}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "test-key", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	draft, err := client.GenerateEmail(context.Background(), ports.EmailDraftRequest{
		Prompt:    "say hello",
		Tone:      "friendly",
		Recipient: "sam@example.com",
	})
	if err != nil {
		t.Fatalf("generate email: %v", err)
	}
	if draft.Subject != "Hello" {
		t.Fatalf("subject: got %q", draft.Subject)
	}
	if draft.Body != "Hi there,\nbody text." {
		t.Fatalf("body: got %q", draft.Body)
	}
	if draft.To != "sam@example.com" {
		t.Fatalf("recipient: got %q", draft.To)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid"}}`))
	}))
	defer srv.Close()

	client, err := NewGeminiClient(GeminiConfig{APIKey: "bad-key", BaseURL: srv.URL}, nil)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	_, err = client.GenerateReply(context.Background(), ports.DraftRequest{Message: "hi", Tone: "casual"})
	if err == nil || !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("expected api error surfaced, got %v", err)
	}
}
