package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rizwanhussain01/EventHub/internal/config"
	apperrors "github.com/rizwanhussain01/EventHub/pkg/util"
)

const plannerSystemPrompt = `You are an expert Event Planner AI assistant for EventHub platform. Your role is to help event organizers plan, organize, and execute successful events.

You provide advice on:
- Event planning strategies and timelines
- Budget management and cost optimization
- Marketing and promotion ideas
- Venue selection and setup
- Attendee engagement strategies
- Event logistics and coordination
- Post-event follow-up and analytics
`

// PlannerService proxies organizer prompts to the Gemini generateContent
// API with the event-planner system prompt prepended.
type PlannerService struct {
	cfg    config.PlannerConfig
	client *http.Client
	logger *zap.Logger
}

// NewPlannerService constructs the service.
func NewPlannerService(cfg config.PlannerConfig, logger *zap.Logger) *PlannerService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlannerService{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Chat sends the prompt upstream and returns the model reply.
func (s *PlannerService) Chat(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", apperrors.NewValidationError("prompt is required", nil)
	}
	if s.cfg.GeminiAPIKey == "" {
		return "", apperrors.NewBadGateway("AI service is not configured", nil)
	}

	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: plannerSystemPrompt + "\nUser: " + prompt}}},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", apperrors.MapError(err)
	}

	url := fmt.Sprintf("%s?key=%s", s.cfg.GeminiURL, s.cfg.GeminiAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", apperrors.MapError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("planner upstream call failed", zap.Error(err))
		return "", apperrors.NewBadGateway("AI service error, please try again later", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.NewBadGateway("AI service error, please try again later", err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("planner upstream returned non-200",
			zap.Int("status", resp.StatusCode))
		return "", apperrors.NewBadGateway("AI service error, please try again later", nil)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperrors.NewBadGateway("AI service error, please try again later", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "Sorry, no reply from AI.", nil
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
