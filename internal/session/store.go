// Package session holds per-admin authoring state between requests: the course
// draft and any data handed from one step of a flow to the next.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when nothing is stored under the key, or it expired.
var ErrNotFound = errors.New("session value not found")

// Well-known keys.
const (
	KeyDraft = "draft"
)

// Store is a session-scoped key-value store. Values are written as a flow
// progresses (Put), consumed once by the step that needs them (Take), and dropped
// when the flow completes (Clear).
type Store interface {
	Put(ctx context.Context, sessionID, key string, value any) error
	Get(ctx context.Context, sessionID, key string, dest any) error
	Take(ctx context.Context, sessionID, key string, dest any) error
	Delete(ctx context.Context, sessionID, key string) error
	Clear(ctx context.Context, sessionID string) error
}

func validate(sessionID, key string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("session key is required")
	}
	return nil
}
