// Package notice collects the short, user-visible messages produced by the
// login flow and the token refresh daemon.
package notice

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Kind classifies a notice.
type Kind string

const (
	// KindInfo is a neutral notice such as a successful login.
	KindInfo Kind = "info"
	// KindError is a recoverable failure the user can act on.
	KindError Kind = "error"
	// KindSessionExpired tells the user they have to log in again.
	KindSessionExpired Kind = "session_expired"
)

const defaultCapacity = 32

// Notice is a transient message for the user.
type Notice struct {
	Kind    Kind      `json:"kind"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier receives notices.
type Notifier interface {
	Notify(kind Kind, message string)
}

// Board keeps the most recent notices in a bounded ring and logs each of them.
type Board struct {
	mu       sync.Mutex
	items    []Notice
	next     int
	full     bool
	capacity int
	now      func() time.Time
}

// NewBoard creates a board holding up to capacity notices. A capacity below one
// selects the default.
func NewBoard(capacity int) *Board {
	if capacity < 1 {
		capacity = defaultCapacity
	}

	return &Board{
		items:    make([]Notice, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Notify implements Notifier.
func (b *Board) Notify(kind Kind, message string) {
	n := Notice{Kind: kind, Message: message, At: b.now()}

	switch kind {
	case KindError, KindSessionExpired:
		log.Warn().Str("kind", string(kind)).Msg(message)
	default:
		log.Info().Str("kind", string(kind)).Msg(message)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[b.next] = n
	b.next = (b.next + 1) % b.capacity

	if b.next == 0 {
		b.full = true
	}
}

// Recent returns the stored notices, oldest first.
func (b *Board) Recent() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		return append([]Notice(nil), b.items[:b.next]...)
	}

	out := make([]Notice, 0, b.capacity)
	out = append(out, b.items[b.next:]...)

	return append(out, b.items[:b.next]...)
}

// Latest returns the most recent notice.
func (b *Board) Latest() (Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full && b.next == 0 {
		return Notice{}, false
	}

	return b.items[(b.next-1+b.capacity)%b.capacity], true
}

// Discard drops notices.
type Discard struct{}

// Notify implements Notifier.
func (Discard) Notify(Kind, string) {}
