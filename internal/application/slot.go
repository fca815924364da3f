package application

import (
	"time"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
)

type SlotState int

const (
	SlotInactive SlotState = iota
	SlotActivating
	SlotIdle
	SlotLeased
)

func (s SlotState) String() string {
	switch s {
	case SlotInactive:
		return "inactive"
	case SlotActivating:
		return "activating"
	case SlotIdle:
		return "idle"
	case SlotLeased:
		return "leased"
	default:
		return "unknown"
	}
}

// SessionSlot is one pool position. The slot identity persists for the
// process lifetime; its inner client is created and destroyed repeatedly in
// response to demand and idleness. All state transitions happen under the
// owning pool's mutex.
type SessionSlot struct {
	id         int
	credential domain.Credential
	state      SlotState
	client     ports.SongClient
	lastUsedAt time.Time
}

func (s *SessionSlot) ID() int { return s.id }

func (s *SessionSlot) State() SlotState { return s.state }

// claim transitions Idle -> Leased and stamps the use time.
func (s *SessionSlot) claim(now time.Time) {
	s.state = SlotLeased
	s.lastUsedAt = now
}

// release transitions Leased -> Idle.
func (s *SessionSlot) release(now time.Time) {
	s.state = SlotIdle
	s.lastUsedAt = now
}

// deactivate destroys the inner client and transitions Idle -> Inactive. A
// leased slot must never be deactivated; that is a lease-discipline bug and
// is signaled without touching any state.
func (s *SessionSlot) deactivate() error {
	if s.state == SlotLeased {
		return domain.ErrInvalidLease
	}
	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
	s.state = SlotInactive

	return nil
}

// reapable reports whether the slot has been idle beyond the threshold.
func (s *SessionSlot) reapable(now time.Time, idleAfter time.Duration) bool {
	return s.state == SlotIdle && now.Sub(s.lastUsedAt) > idleAfter
}
