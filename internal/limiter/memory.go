package limiter

import (
	"context"
	"encoding/hex"
	"sync"
	"time"
)

type attempts struct {
	fails        int
	blockedUntil time.Time
	updatedAt    time.Time
}

// Memory is a process-local limiter used with the non-postgres store drivers.
type Memory struct {
	mu     sync.Mutex
	policy Policy
	now    func() time.Time
	state  map[string]*attempts
}

// NewMemory constructs an in-memory limiter.
func NewMemory(p Policy) *Memory {
	return &Memory{policy: p, now: time.Now, state: map[string]*attempts{}}
}

func memKey(username string, ipHash []byte) string {
	return username + "|" + hex.EncodeToString(ipHash)
}

// Allow reports whether login is currently allowed and a retry-after duration.
func (m *Memory) Allow(_ context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.state[memKey(username, ipHash)]
	if !ok {
		return true, 0, nil
	}
	if now := m.now(); a.blockedUntil.After(now) {
		return false, a.blockedUntil.Sub(now), nil
	}
	return true, 0, nil
}

// Success resets counters for (username, ip).
func (m *Memory) Success(_ context.Context, username string, ipHash []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.state, memKey(username, ipHash))
	return nil
}

// Failure records a failed attempt and blocks once the window holds MaxFails failures.
func (m *Memory) Failure(_ context.Context, username string, ipHash []byte) (bool, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	k := memKey(username, ipHash)
	a, ok := m.state[k]
	if !ok || now.Sub(a.updatedAt) > m.policy.Window {
		a = &attempts{}
		m.state[k] = a
	}
	a.fails++
	a.updatedAt = now
	if a.fails < m.policy.MaxFails {
		return false, 0, nil
	}
	a.blockedUntil = now.Add(m.policy.BlockFor)
	return true, m.policy.BlockFor, nil
}
