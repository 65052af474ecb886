// Package blog orchestrates post generation and optional publishing.
package blog

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"auto_blog_publisher/generator"
	"auto_blog_publisher/publisher"
)

var (
	// ErrValidation marks a malformed request; it is raised before any provider call.
	ErrValidation = errors.New("validation error")
	// ErrPublicationUnavailable means the publication lookup returned nothing.
	ErrPublicationUnavailable = errors.New("could not fetch publication information")
)

// Request asks for one generated post.
type Request struct {
	Title              string   `json:"title"`
	Notes              string   `json:"notes"`
	Tags               []string `json:"tags,omitempty"`
	PublishImmediately bool     `json:"publish_immediately"`
}

// Limits bounds title and notes length, counted in characters after trimming.
type Limits struct {
	MaxTitleLength int
	MaxNotesLength int
}

// Normalize trims title, notes and tags, drops empty tags and enforces limits.
// The returned Request always has a non-empty title and notes.
func (r Request) Normalize(l Limits) (Request, error) {
	r.Title = strings.TrimSpace(r.Title)
	r.Notes = strings.TrimSpace(r.Notes)

	if err := checkLength("title", r.Title, l.MaxTitleLength); err != nil {
		return Request{}, err
	}
	if err := checkLength("notes", r.Notes, l.MaxNotesLength); err != nil {
		return Request{}, err
	}

	if r.Tags != nil {
		tags := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		r.Tags = tags
	}
	return r, nil
}

func checkLength(field, value string, limit int) error {
	n := utf8.RuneCountInString(value)
	if n == 0 {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
	}
	if limit > 0 && n > limit {
		return fmt.Errorf("%w: %s must be at most %d characters", ErrValidation, field, limit)
	}
	return nil
}

// Outcome is what a generate call reports back. A failed optional publish
// never flips Success; it only leaves HashnodeURL empty.
type Outcome struct {
	Success               bool            `json:"success"`
	BlogPost              *generator.Post `json:"blog_post,omitempty"`
	HashnodeURL           string          `json:"hashnode_url,omitempty"`
	Message               string          `json:"message"`
	GenerationTimeSeconds float64         `json:"generation_time_seconds"`
}

// PublishError is a failed standalone publish, carrying the provider code.
type PublishError struct {
	Code    string
	Message string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// PublishRequestFromPost derives the publish payload from a post.
func PublishRequestFromPost(post generator.Post) publisher.PublishRequest {
	return publisher.PublishRequest{
		Title:           post.Title,
		ContentMarkdown: post.Content,
		Tags:            post.Tags,
	}
}
