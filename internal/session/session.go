// Package session keeps each user's running list of loads and the last
// evaluation computed from it. Nothing here outlives the session TTL.
package session

import (
	"context"
	"errors"
	"time"

	"vehicle-fit/internal/domain"
)

var ErrNotFound = errors.New("session not found")

type Session struct {
	ID        string             `json:"id"`
	Loads     domain.LoadSet     `json:"loads"`
	Last      *domain.Evaluation `json:"last_evaluation,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func (s *Session) clone() *Session {
	out := *s
	out.Loads = domain.LoadSet{Items: s.Loads.Snapshot()}
	return &out
}

// Store implementations apply Update atomically per session: fn sees the
// current state and its changes are saved only if it returns nil.
type Store interface {
	Create(ctx context.Context) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	Delete(ctx context.Context, id string) error
}
