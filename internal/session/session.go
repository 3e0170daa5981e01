// Package session issues and resolves server-side sessions. A session
// binds a transport token to at most one identity at a time and carries
// one-shot notices delivered to exactly the next render.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is the anonymous state for lookups, and an
	// idempotent no-op for teardown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrTeardownFailed signals a store I/O fault during destruction.
	ErrTeardownFailed = errors.New("session teardown failed")
)

// Kind classifies a one-shot notice.
type Kind string

const (
	NoticeSuccess    Kind = "success"
	NoticeError      Kind = "error"
	NoticeValidation Kind = "validation"
)

// Notice is a message shown once on the next render, then discarded.
type Notice struct {
	Kind Kind   `json:"kind"`
	Text string `json:"text"`
}

// Record is the persisted session state. UserID 0 means the session
// carries no identity yet (it may still hold notices).
type Record struct {
	SessionID string    `json:"session_id"`
	UserID    uint      `json:"identity_id"`
	ExpiresAt time.Time `json:"expires_at"`
	Flashes   []Notice  `json:"flash_queue,omitempty"`
}

// Store persists session records with a TTL.
type Store interface {
	Get(ctx context.Context, token string) (*Record, error)
	Save(ctx context.Context, record *Record, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{
		store: store,
		ttl:   ttl,
		now:   time.Now,
	}
}

// Create binds an identity to a fresh session and returns its token.
// UserID 0 creates an anonymous session used only to carry notices.
func (m *Manager) Create(ctx context.Context, userID uint) (string, error) {
	record := &Record{
		SessionID: uuid.NewString(),
		UserID:    userID,
		ExpiresAt: m.now().Add(m.ttl),
	}

	if err := m.store.Save(ctx, record, m.ttl); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	return record.SessionID, nil
}

// Current resolves the identity bound to a token. A missing, expired or
// anonymous session yields ok=false, which is not an error.
func (m *Manager) Current(ctx context.Context, token string) (uint, bool, error) {
	if token == "" {
		return 0, false, nil
	}

	record, err := m.store.Get(ctx, token)

	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to resolve session: %w", err)
	}

	if !record.ExpiresAt.After(m.now()) || record.UserID == 0 {
		return 0, false, nil
	}

	return record.UserID, true, nil
}

// Destroy invalidates a session. Destroying an already-gone session is
// a no-op success.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	if err := m.store.Delete(ctx, token); err != nil && !errors.Is(err, ErrSessionNotFound) {
		return fmt.Errorf("%w: %v", ErrTeardownFailed, err)
	}

	return nil
}

// Flash queues a one-shot notice against the session.
func (m *Manager) Flash(ctx context.Context, token string, kind Kind, text string) error {
	record, err := m.store.Get(ctx, token)

	if err != nil {
		return err
	}

	record.Flashes = append(record.Flashes, Notice{Kind: kind, Text: text})

	ttl := record.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return ErrSessionNotFound
	}

	return m.store.Save(ctx, record, ttl)
}

// PopFlashes returns the queued notices and clears them, so a notice is
// delivered to exactly one render. A missing session has no notices.
func (m *Manager) PopFlashes(ctx context.Context, token string) ([]Notice, error) {
	if token == "" {
		return nil, nil
	}

	record, err := m.store.Get(ctx, token)

	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read notices: %w", err)
	}

	notices := record.Flashes

	if len(notices) == 0 {
		return nil, nil
	}

	record.Flashes = nil

	ttl := record.ExpiresAt.Sub(m.now())
	if ttl <= 0 {
		return nil, nil
	}

	if err := m.store.Save(ctx, record, ttl); err != nil {
		return nil, fmt.Errorf("failed to clear notices: %w", err)
	}

	return notices, nil
}
