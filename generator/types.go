package generator

import "time"

// Post is the structured blog post produced by one successful generation.
// It is never mutated after Generate returns it.
type Post struct {
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags,omitempty"`
	Summary   string    `json:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
