// internal/domain/homework/homework.go
package homework

import (
	"context"
	"encoding/json"
)

// Homework is one submission's review state as reported by the status
// endpoint. HomeworkName and Status are pointers so that an absent field can
// be told apart from an empty one; both are required before translation.
type Homework struct {
	ID              int64   `json:"id"`
	Status          *string `json:"status"`
	HomeworkName    *string `json:"homework_name"`
	ReviewerComment string  `json:"reviewer_comment"`
	DateUpdated     string  `json:"date_updated"`
	LessonName      string  `json:"lesson_name"`
}

// Answer is one validated poll response: the homeworks whose review status
// changed inside the queried window, in endpoint order, plus the watermark
// to use for the next poll. It lives for a single loop iteration.
type Answer struct {
	Homeworks   []Homework
	CurrentDate int64
}

// Client fetches review statuses changed since the given watermark (Unix
// seconds). Implementations classify failures as TransportError or
// ProtocolError; a successful call returns the parsed JSON payload without
// judging its structure.
type Client interface {
	Fetch(ctx context.Context, from int64) (json.RawMessage, error)
	// Probe issues a minimal request to verify the endpoint accepts the
	// configured credentials. Failures carry the same classification as Fetch.
	Probe(ctx context.Context) error
}
