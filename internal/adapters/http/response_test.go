package http

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
)

func TestResponseEnvelopes(t *testing.T) {
	t.Parallel()

	t.Run("success with data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		writeSuccess(rec, 200, map[string]any{"user_id": "abc"})

		if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
			t.Fatalf("content type = %q", ct)
		}
		var body struct {
			Status string         `json:"status"`
			Data   map[string]any `json:"data"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != "success" || body.Data["user_id"] != "abc" {
			t.Fatalf("unexpected envelope: %s", rec.Body.String())
		}
	})

	t.Run("message omits data", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		writeMessage(rec, 200, "Logged out")

		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["message"] != "Logged out" {
			t.Fatalf("unexpected envelope: %s", rec.Body.String())
		}
		if _, present := body["data"]; present {
			t.Fatalf("message envelope should omit data: %s", rec.Body.String())
		}
	})

	t.Run("error carries code", func(t *testing.T) {
		t.Parallel()
		rec := httptest.NewRecorder()
		writeError(rec, 404, "NOT_FOUND", "no such record")

		if rec.Code != 404 {
			t.Fatalf("status = %d", rec.Code)
		}
		var body errorEnvelope
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Status != "error" || body.Code != "NOT_FOUND" || body.Message != "no such record" {
			t.Fatalf("unexpected envelope: %s", rec.Body.String())
		}
	})
}
