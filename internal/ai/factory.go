package ai

import (
	"strings"

	"github.com/nvarma/eldercare-hub/internal/config"
)

const (
	ModeMock = "mock"
	ModeGroq = "groq"
)

func NewClient(cfg *config.Config) Client {
	mode := strings.ToLower(strings.TrimSpace(cfg.AIMode))
	if mode == "" {
		mode = ModeMock
	}

	switch mode {
	case ModeGroq:
		return NewGroqClient(cfg)
	default:
		return NewMockClient()
	}
}
