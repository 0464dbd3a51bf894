package ai

import (
	"context"

	"go.uber.org/zap"
)

const (
	ProviderGemini  = "gemini"
	ProviderService = "service"
	ProviderNone    = "none"
)

type Options struct {
	Provider     string
	APIKey       string
	ServiceURL   string
	ImproveModel string
	ChatModel    string
	// Steps are the editor step names, in index order, described to the assistant.
	Steps []string
}

// New picks a backend. A missing credential or endpoint yields Unavailable
// rather than an error.
func New(ctx context.Context, opts Options, logger *zap.Logger) (Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch opts.Provider {
	case ProviderGemini, "":
		if opts.APIKey == "" {
			logger.Warn("API_KEY is missing, ai features disabled")
			return NewUnavailable(logger), nil
		}
		return NewGemini(ctx, opts.APIKey, opts, logger)
	case ProviderService:
		if opts.ServiceURL == "" {
			logger.Warn("AI_SERVICE_URL is missing, ai features disabled")
			return NewUnavailable(logger), nil
		}
		return NewClient(opts.ServiceURL, opts.Steps, logger), nil
	}
	return NewUnavailable(logger), nil
}
