package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/example/ecofinds/internal/domain/cart"
	"github.com/example/ecofinds/internal/domain/listing"
	"github.com/example/ecofinds/internal/domain/user"
	"github.com/example/ecofinds/internal/infrastructure/store"
	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry holds the live sessions of this process
type Registry struct {
	mu         sync.RWMutex
	sessions   map[string]*entry
	services   Services
	eventStore store.EventStoreInterface
	ttl        time.Duration
	now        func() time.Time
}

func NewRegistry(services Services, eventStore store.EventStoreInterface, ttl time.Duration) *Registry {
	return &Registry{
		sessions:   make(map[string]*entry),
		services:   services,
		eventStore: eventStore,
		ttl:        ttl,
		now:        time.Now,
	}
}

// Create starts a new logged-out session on the auth screen
func (r *Registry) Create() *Controller {
	c := newController(uuid.New().String(), r.services)

	r.mu.Lock()
	r.sessions[c.id] = &entry{controller: c, lastSeen: r.now()}
	r.mu.Unlock()

	log.Printf("[Session] Created session %s", c.id)
	return c
}

// Get returns the session's controller and marks it as active
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	e.lastSeen = r.now()
	return e.controller, nil
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Remove ends a session and drops its event streams
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	_, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		r.dropStreams(id)
	}
}

func (r *Registry) dropStreams(id string) {
	r.eventStore.Drop(cart.GetCartID(id))
	r.eventStore.Drop(user.GetIdentityID(id))
	r.eventStore.Drop(listing.GetStreamID(id))
}

// Sweep removes sessions idle for longer than the TTL and returns how many were removed
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var expired []string
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			expired = append(expired, id)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		r.dropStreams(id)
	}
	if len(expired) > 0 {
		log.Printf("[Session] Swept %d idle sessions", len(expired))
	}
	return len(expired)
}

// Run sweeps on every tick until ctx is cancelled
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
