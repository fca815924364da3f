package application

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/suno-artist-bot/internal/domain"
	"github.com/bnema/suno-artist-bot/internal/ports"
	"github.com/sirupsen/logrus"
)

const (
	// defaultIdleAfter is how long a slot may sit idle before the reaper
	// deactivates its client.
	defaultIdleAfter = 30 * time.Minute
	// defaultReapEvery is the reaper tick.
	defaultReapEvery = time.Minute
)

type PoolConfig struct {
	IdleAfter time.Duration
	ReapEvery time.Duration
	Clock     ports.Clock
	Logger    *logrus.Entry
}

func (c PoolConfig) withDefaults() PoolConfig {
	if c.IdleAfter <= 0 {
		c.IdleAfter = defaultIdleAfter
	}
	if c.ReapEvery <= 0 {
		c.ReapEvery = defaultReapEvery
	}
	if c.Clock == nil {
		c.Clock = ports.SystemClock{}
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	return c
}

// SessionPool holds a fixed list of session slots, one per configured
// credential. Slots are never added or removed after construction; only
// their inner clients come and go.
type SessionPool struct {
	cfg     PoolConfig
	factory ports.ClientFactory
	log     *logrus.Entry

	mu    sync.Mutex
	slots []*SessionSlot

	reapStop context.CancelFunc
	reapDone chan struct{}
	stopOnce sync.Once
}

func NewSessionPool(credentials []domain.Credential, factory ports.ClientFactory, cfg PoolConfig) *SessionPool {
	cfg = cfg.withDefaults()

	slots := make([]*SessionSlot, len(credentials))
	for i, credential := range credentials {
		slots[i] = &SessionSlot{id: i, credential: credential}
	}

	return &SessionPool{
		cfg:     cfg,
		factory: factory,
		log:     cfg.Logger,
		slots:   slots,
	}
}

// Lease is the exclusive right to use one slot's client for the duration of
// a single commission.
type Lease struct {
	pool *SessionPool
	slot *SessionSlot
	once sync.Once
}

func (l *Lease) Client() ports.SongClient { return l.slot.client }

func (l *Lease) SlotID() int { return l.slot.id }

// Release hands the slot back to the pool. Idempotent.
func (l *Lease) Release() {
	l.once.Do(func() {
		l.pool.mu.Lock()
		defer l.pool.mu.Unlock()
		l.slot.release(l.pool.cfg.Clock.Now())
	})
}

// Acquire returns a leased slot, activating an inactive one if no idle slot
// exists. It never blocks waiting for a lease to free up: if every slot is
// leased or failed to activate, it returns domain.ErrPoolExhausted and the
// caller decides whether to retry.
func (p *SessionPool) Acquire(ctx context.Context) (*Lease, error) {
	attempted := make(map[int]bool, len(p.slots))

	for {
		p.mu.Lock()

		for _, slot := range p.slots {
			if slot.State() == SlotIdle {
				slot.claim(p.cfg.Clock.Now())
				p.mu.Unlock()
				return &Lease{pool: p, slot: slot}, nil
			}
		}

		var candidate *SessionSlot
		for _, slot := range p.slots {
			if slot.State() == SlotInactive && !attempted[slot.id] {
				candidate = slot
				break
			}
		}
		if candidate == nil {
			p.mu.Unlock()
			return nil, domain.ErrPoolExhausted
		}

		// Mark the slot before dropping the lock so a concurrent
		// Acquire never picks the same one.
		candidate.state = SlotActivating
		attempted[candidate.id] = true
		p.mu.Unlock()

		p.log.WithField("slot", candidate.id).Info("activating session client")
		client, err := p.factory(ctx, candidate.credential)

		p.mu.Lock()
		if err != nil {
			candidate.state = SlotInactive
			p.mu.Unlock()
			p.log.WithField("slot", candidate.id).WithError(err).Error("failed to activate session client")
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue
		}

		candidate.client = client
		candidate.claim(p.cfg.Clock.Now())
		p.mu.Unlock()

		return &Lease{pool: p, slot: candidate}, nil
	}
}

// SlotStates returns a snapshot of every slot's state in pool order.
func (p *SessionPool) SlotStates() []SlotState {
	p.mu.Lock()
	defer p.mu.Unlock()

	states := make([]SlotState, len(p.slots))
	for i, slot := range p.slots {
		states[i] = slot.State()
	}
	return states
}

// StartReaper launches the background reaper. Stop it with StopReaper.
func (p *SessionPool) StartReaper() {
	ctx, cancel := context.WithCancel(context.Background())
	p.reapStop = cancel
	p.reapDone = make(chan struct{})

	go func() {
		defer close(p.reapDone)

		ticker := time.NewTicker(p.cfg.ReapEvery)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.reap()
			}
		}
	}()
}

// StopReaper stops the background reaper. Idempotent; a no-op if the reaper
// was never started.
func (p *SessionPool) StopReaper() {
	p.stopOnce.Do(func() {
		if p.reapStop == nil {
			return
		}
		p.reapStop()
		<-p.reapDone
	})
}

func (p *SessionPool) reap() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.log.Debug("running idle slot cleanup")
	now := p.cfg.Clock.Now()
	for _, slot := range p.slots {
		if !slot.reapable(now, p.cfg.IdleAfter) {
			continue
		}
		p.log.WithField("slot", slot.id).Info("deactivating idle session client")
		if err := slot.deactivate(); err != nil {
			p.log.WithField("slot", slot.id).WithError(err).Error("slot deactivation refused")
		}
	}
}
