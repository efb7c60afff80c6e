package review

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dshills/mrscope/internal/cache"
	"github.com/dshills/mrscope/internal/config"
	"github.com/dshills/mrscope/internal/providers"
	"github.com/dshills/mrscope/internal/redact"
)

// timestampLayout matches the artifact headers' date format.
const timestampLayout = "2006-01-02 15:04:05"

// Service runs the review operations against one LLM client.
type Service struct {
	llm   providers.Completer
	cfg   config.Config
	log   *slog.Logger
	cache *cache.Cache
	now   func() time.Time
}

// NewService wires a Service from configuration. The response cache is
// created per the llm config section.
func NewService(llm providers.Completer, cfg config.Config, log *slog.Logger) (*Service, error) {
	c, err := cache.New(cfg.LLM.CacheEnabled, cfg.LLM.CacheDir, cfg.LLM.CacheTTLSecs)
	if err != nil {
		return nil, fmt.Errorf("creating response cache: %w", err)
	}
	return &Service{
		llm:   llm,
		cfg:   cfg,
		log:   log,
		cache: c,
		now:   time.Now,
	}, nil
}

// complete runs one chat completion through the cache.
func (s *Service) complete(ctx context.Context, system, user string) (string, error) {
	key := cache.Key(s.llm.Model(), system, user)
	if content, ok := s.cache.Get(key); ok {
		s.log.Info("LLM RESPONSE CACHED", "key", key[:12])
		return content, nil
	}

	s.log.Info("LLM REQUEST START", "prompt_chars", len(user))
	start := s.now()
	resp, err := s.llm.Complete(ctx, providers.Request{SystemPrompt: system, UserPrompt: user})
	if err != nil {
		s.log.Error("LLM REQUEST FAILED", "error", err)
		return "", err
	}
	s.log.Info("LLM REQUEST FINISH", "seconds", time.Since(start).Seconds(), "tokens", resp.TokensUsed)

	if err := s.cache.Put(key, resp.Content); err != nil {
		s.log.Warn("CACHE WRITE FAILED", "error", err)
	}
	return resp.Content, nil
}

// sanitize applies secret redaction when enabled.
func (s *Service) sanitize(text string) string {
	if !s.cfg.LLM.RedactSecrets {
		return text
	}
	return redact.Secrets(text)
}
