package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rizwanhussain01/EventHub/internal/config"
)

func TestPlannerService_Chat(t *testing.T) {
	t.Parallel()

	t.Run("rejects empty prompt", func(t *testing.T) {
		svc := NewPlannerService(config.PlannerConfig{GeminiAPIKey: "key"}, nil)
		_, err := svc.Chat(context.Background(), "   ")
		assertDomainErrorCode(t, err, "VALIDATION_FAILED")
	})

	t.Run("missing key is an upstream error", func(t *testing.T) {
		svc := NewPlannerService(config.PlannerConfig{}, nil)
		_, err := svc.Chat(context.Background(), "help me plan")
		assertDomainErrorCode(t, err, "UPSTREAM_ERROR")
	})

	t.Run("forwards prompt and returns the first candidate", func(t *testing.T) {
		var gotBody string
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("key") != "test-key" {
				t.Errorf("missing api key in %q", r.URL.String())
			}
			raw, _ := io.ReadAll(r.Body)
			gotBody = string(raw)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"candidates": []map[string]any{
					{"content": map[string]any{"parts": []map[string]any{{"text": "Start with the venue."}}}},
				},
			})
		}))
		defer upstream.Close()

		svc := NewPlannerService(config.PlannerConfig{
			GeminiURL:    upstream.URL,
			GeminiAPIKey: "test-key",
		}, nil)

		reply, err := svc.Chat(context.Background(), "where do I start?")
		if err != nil {
			t.Fatalf("chat: %v", err)
		}
		if reply != "Start with the venue." {
			t.Fatalf("unexpected reply %q", reply)
		}
		if !strings.Contains(gotBody, "where do I start?") {
			t.Fatalf("prompt not forwarded upstream: %s", gotBody)
		}
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer upstream.Close()

		svc := NewPlannerService(config.PlannerConfig{
			GeminiURL:    upstream.URL,
			GeminiAPIKey: "test-key",
		}, nil)

		_, err := svc.Chat(context.Background(), "help")
		assertDomainErrorCode(t, err, "UPSTREAM_ERROR")
	})

	t.Run("empty candidate list yields fallback text", func(t *testing.T) {
		upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer upstream.Close()

		svc := NewPlannerService(config.PlannerConfig{
			GeminiURL:    upstream.URL,
			GeminiAPIKey: "test-key",
		}, nil)

		reply, err := svc.Chat(context.Background(), "help")
		if err != nil {
			t.Fatalf("chat: %v", err)
		}
		if reply != "Sorry, no reply from AI." {
			t.Fatalf("unexpected fallback %q", reply)
		}
	})
}
