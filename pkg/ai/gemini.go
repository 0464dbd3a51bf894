package ai

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"resume-builder/pkg/ai/formatters"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const (
	DefaultImproveModel = "gemini-2.5-pro"
	DefaultChatModel    = "gemini-2.5-flash"
)

// Gemini talks to Google Gemini directly. Chat keeps one session for the
// lifetime of the service.
type Gemini struct {
	client       *genai.Client
	improveModel string
	chatModel    string
	steps        []string
	logger       *zap.Logger

	mu      sync.Mutex
	session *genai.ChatSession
}

func NewGemini(ctx context.Context, apiKey string, opts Options, logger *zap.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g := &Gemini{
		client:       client,
		improveModel: opts.ImproveModel,
		chatModel:    opts.ChatModel,
		steps:        opts.Steps,
		logger:       logger,
	}
	if g.improveModel == "" {
		g.improveModel = DefaultImproveModel
	}
	if g.chatModel == "" {
		g.chatModel = DefaultChatModel
	}
	return g, nil
}

func (g *Gemini) Improve(ctx context.Context, text string, mode Mode) string {
	f, err := formatters.ForMode(string(mode))
	if err != nil {
		g.logger.Warn("improve skipped", zap.Error(err))
		return text
	}
	model := g.client.GenerativeModel(g.improveModel)
	resp, err := model.GenerateContent(ctx, genai.Text(f.Prompt(text)))
	if err != nil {
		g.logger.Error("gemini improve failed", zap.String("mode", string(mode)), zap.Error(err))
		return text
	}
	out, err := extractText(resp)
	if err != nil || strings.TrimSpace(out) == "" {
		g.logger.Warn("gemini improve returned no text", zap.String("mode", string(mode)), zap.Error(err))
		return text
	}
	return strings.TrimSpace(out)
}

func (g *Gemini) Chat(ctx context.Context, message, contextSummary string) Reply {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.session == nil {
		g.session = g.chatModelFor().StartChat()
	}
	resp, err := g.session.SendMessage(ctx, genai.Text(formatters.ChatMessage(contextSummary, message)))
	if err != nil {
		g.logger.Error("gemini chat failed", zap.Error(err))
		return Reply{Text: ChatFailureText}
	}
	out, err := extractText(resp)
	if err != nil {
		g.logger.Error("gemini chat returned no text", zap.Error(err))
		return Reply{Text: ChatFailureText}
	}
	reply, err := parseReply(out)
	if err != nil {
		g.logger.Error("gemini chat reply unusable", zap.Error(err))
		return Reply{Text: ChatFailureText}
	}
	return reply
}

func (g *Gemini) chatModelFor() *genai.GenerativeModel {
	model := g.client.GenerativeModel(g.chatModel)
	model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(formatters.ChatInstruction(g.steps))}}
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"response":        {Type: genai.TypeString},
			"navigation_step": {Type: genai.TypeInteger, Nullable: true},
		},
		Required: []string{"response"},
	}
	return model
}

func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}
	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}
	return strings.Join(parts, ""), nil
}
