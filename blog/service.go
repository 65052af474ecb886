package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"auto_blog_publisher/generator"
	"auto_blog_publisher/logger"
	"auto_blog_publisher/publisher"
)

const (
	msgGenerated = "Blog post generated successfully"
	msgPublished = " and published to Hashnode"
	msgFailed    = "Failed to generate blog post: "
)

// PostGenerator produces a post from title, notes and tags.
type PostGenerator interface {
	Generate(ctx context.Context, title, notes string, tags []string) (generator.Post, error)
}

// PostPublisher sends posts to the blogging platform.
type PostPublisher interface {
	Publish(ctx context.Context, req publisher.PublishRequest) publisher.Result
	PublicationInfo(ctx context.Context) *publisher.PublicationInfo
}

// Recorder receives per-call measurements.
type Recorder interface {
	ObserveGeneration(success bool, d time.Duration)
	ObservePublish(code string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGeneration(bool, time.Duration) {}
func (nopRecorder) ObservePublish(string)                 {}

// Service sequences generation and optional publishing. It keeps no state
// between calls.
type Service struct {
	gen PostGenerator
	pub PostPublisher
	log logger.Logger
	rec Recorder
}

// NewService wires the orchestrator. log and rec may be nil.
func NewService(gen PostGenerator, pub PostPublisher, log logger.Logger, rec Recorder) (*Service, error) {
	if gen == nil {
		return nil, errors.New("post generator is required")
	}
	if pub == nil {
		return nil, errors.New("post publisher is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	if rec == nil {
		rec = nopRecorder{}
	}
	return &Service{gen: gen, pub: pub, log: log, rec: rec}, nil
}

// Generate produces a post and, when asked, publishes it. Only a generation
// failure makes the outcome unsuccessful.
func (s *Service) Generate(ctx context.Context, req Request) Outcome {
	start := time.Now()
	log := s.log.With(logger.String("title", req.Title))
	log.Info("Generating blog post", logger.Bool("publish_immediately", req.PublishImmediately))

	post, err := s.gen.Generate(ctx, req.Title, req.Notes, req.Tags)
	s.rec.ObserveGeneration(err == nil, time.Since(start))
	if err != nil {
		log.Error("Error generating blog post", logger.Error(err))
		return Outcome{
			Message:               msgFailed + generationReason(err),
			GenerationTimeSeconds: time.Since(start).Seconds(),
		}
	}
	elapsed := time.Since(start).Seconds()

	var url string
	if req.PublishImmediately {
		res := s.publishQuietly(ctx, PublishRequestFromPost(post))
		if res.Success {
			url = res.PostURL
			log.Info("Blog post published to Hashnode", logger.String("url", url))
		} else {
			log.Warn("Failed to publish to Hashnode",
				logger.String("error_code", res.ErrorCode),
				logger.String("message", res.Message),
			)
		}
	}

	msg := msgGenerated
	if url != "" {
		msg += msgPublished
	}
	return Outcome{
		Success:               true,
		BlogPost:              &post,
		HashnodeURL:           url,
		Message:               msg,
		GenerationTimeSeconds: elapsed,
	}
}

// GenerateAndPublish is Generate with publishing forced on.
func (s *Service) GenerateAndPublish(ctx context.Context, req Request) Outcome {
	req.PublishImmediately = true
	return s.Generate(ctx, req)
}

// PublishExisting publishes a caller-supplied post. Unlike the generate path,
// a publish failure is the overall failure and is returned as *PublishError.
func (s *Service) PublishExisting(ctx context.Context, req publisher.PublishRequest) (publisher.Result, error) {
	if strings.TrimSpace(req.Title) == "" {
		return publisher.Result{}, fmt.Errorf("%w: title cannot be empty", ErrValidation)
	}
	if strings.TrimSpace(req.ContentMarkdown) == "" {
		return publisher.Result{}, fmt.Errorf("%w: content cannot be empty", ErrValidation)
	}

	s.log.Info("Publishing blog post to Hashnode", logger.String("title", req.Title))
	res := s.pub.Publish(ctx, req)
	s.rec.ObservePublish(res.ErrorCode)
	if !res.Success {
		return res, &PublishError{Code: res.ErrorCode, Message: res.Message}
	}
	return res, nil
}

// PublicationInfo returns the configured publication, or
// ErrPublicationUnavailable when the lookup came back empty or the publisher
// panicked.
func (s *Service) PublicationInfo(ctx context.Context) (info *publisher.PublicationInfo, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Publisher panicked fetching publication info", logger.Any("panic", r))
			info, err = nil, ErrPublicationUnavailable
		}
	}()

	info = s.pub.PublicationInfo(ctx)
	if info == nil {
		return nil, ErrPublicationUnavailable
	}
	return info, nil
}

// publishQuietly runs the optional publish step; a panicking publisher is
// reported as an UNKNOWN_ERROR result.
func (s *Service) publishQuietly(ctx context.Context, req publisher.PublishRequest) (res publisher.Result) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Publisher panicked", logger.Any("panic", r))
			res = publisher.Result{Message: fmt.Sprintf("Publishing failed: %v", r), ErrorCode: publisher.CodeUnknownError}
		}
		s.rec.ObservePublish(res.ErrorCode)
	}()
	return s.pub.Publish(ctx, req)
}

// generationReason maps a generation error to a user-facing reason without
// leaking provider internals.
func generationReason(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "generation timed out"
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, generator.ErrEmptyOutput):
		return "model returned empty output"
	default:
		return "generation provider request failed"
	}
}
