package cart

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	SessionCookie = "cartSession"
	SessionTTL    = 30 * 24 * time.Hour
)

var ErrInvalidSession = errors.New("invalid cart session id")

// Sessions maps a shopper session id to its cart. A session stores only the
// contact number the shopper set; when it is empty the returned State carries
// the store number from the shared ContactCache as of that call.
type Sessions interface {
	Get(ctx context.Context, id string) (State, error)
	Dispatch(ctx context.Context, id string, a Action) (State, error)
	Close() error
}

// ContactCache holds the store's WhatsApp number. It is the only copy;
// sessions read it on every Get and Dispatch.
type ContactCache struct {
	mu    sync.RWMutex
	value string
}

func (c *ContactCache) Get() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.value
}

func (c *ContactCache) Set(v string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

// resolve fills in the store number when the shopper has not set their own.
func (c *ContactCache) resolve(s State) State {
	if s.ContactNumber == "" {
		s.ContactNumber = c.Get()
	}
	return s
}

func emptyState() State {
	return State{Lines: []Line{}}
}

func validID(id string) error {
	if strings.TrimSpace(id) == "" || len(id) > 64 {
		return ErrInvalidSession
	}
	return nil
}

type memoryEntry struct {
	store    *Store
	lastSeen time.Time
}

// MemorySessions keeps carts in process. Idle carts are dropped lazily.
type MemorySessions struct {
	mu        sync.Mutex
	entries   map[string]*memoryEntry
	contact   *ContactCache
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewMemorySessions(contact *ContactCache, ttl time.Duration) *MemorySessions {
	if ttl <= 0 {
		ttl = SessionTTL
	}
	return &MemorySessions{
		entries: make(map[string]*memoryEntry),
		contact: contact,
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemorySessions) store(id string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if now.Sub(m.lastSweep) > m.ttl {
		for k, e := range m.entries {
			if now.Sub(e.lastSeen) > m.ttl {
				delete(m.entries, k)
			}
		}
		m.lastSweep = now
	}

	e, ok := m.entries[id]
	if !ok {
		e = &memoryEntry{store: NewStore(emptyState())}
		m.entries[id] = e
	}
	e.lastSeen = now
	return e.store
}

func (m *MemorySessions) Get(_ context.Context, id string) (State, error) {
	if err := validID(id); err != nil {
		return State{}, err
	}
	return m.contact.resolve(m.store(id).State()), nil
}

func (m *MemorySessions) Dispatch(_ context.Context, id string, a Action) (State, error) {
	if err := validID(id); err != nil {
		return State{}, err
	}
	return m.contact.resolve(m.store(id).Dispatch(a)), nil
}

func (m *MemorySessions) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *MemorySessions) Close() error { return nil }
