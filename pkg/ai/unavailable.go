package ai

import (
	"context"

	"go.uber.org/zap"
)

// Unavailable is used when no credential or endpoint is configured.
type Unavailable struct {
	logger *zap.Logger
}

func NewUnavailable(logger *zap.Logger) *Unavailable {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Unavailable{logger: logger}
}

func (u *Unavailable) Improve(_ context.Context, text string, mode Mode) string {
	u.logger.Warn("ai unavailable, returning text unchanged", zap.String("mode", string(mode)))
	return text
}

func (u *Unavailable) Chat(context.Context, string, string) Reply {
	return Reply{Text: MissingKeyText}
}

func (u *Unavailable) Close() error { return nil }
