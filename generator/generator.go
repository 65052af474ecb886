package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"auto_blog_publisher/logger"
)

// Generator turns a title and rough notes into a Post with one model call.
type Generator struct {
	llm     LLMClient
	timeout time.Duration
	log     logger.Logger
	now     func() time.Time
}

// New wires a Generator around llm. A zero timeout leaves the deadline to the
// caller's context and the provider.
func New(llm LLMClient, timeout time.Duration, log logger.Logger) (*Generator, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Generator{llm: llm, timeout: timeout, log: log, now: time.Now}, nil
}

// Generate runs a single generation attempt. No retries.
func (g *Generator) Generate(ctx context.Context, title, notes string, tags []string) (Post, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := g.now()
	raw, err := g.llm.Complete(ctx, BuildPrompt(title, notes, tags))
	if err != nil {
		return Post{}, fmt.Errorf("llm complete: %w", err)
	}

	post, err := PostProcess(raw, title, tags)
	if err != nil {
		return Post{}, err
	}
	post.CreatedAt = g.now()

	g.log.Debug("Generated blog post",
		logger.String("title", post.Title),
		logger.Int("content_length", len(post.Content)),
		logger.Duration("duration", post.CreatedAt.Sub(start)),
	)
	return post, nil
}
