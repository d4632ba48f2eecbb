package playback

import (
	"sync"

	"github.com/avleth/kodiscreen/kodi"
)

// Registry hands out one Monitor per dashboard session id. Monitors are
// never evicted; a kiosk deployment has a handful of sessions at most.
type Registry struct {
	client   *kodi.Client
	mu       sync.Mutex
	monitors map[string]*Monitor
}

func NewRegistry(client *kodi.Client) *Registry {
	return &Registry{
		client:   client,
		monitors: map[string]*Monitor{},
	}
}

func (r *Registry) For(sessionID string) *Monitor {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.monitors[sessionID]; ok {
		return m
	}
	m := NewMonitor(r.client)
	r.monitors[sessionID] = m
	return m
}
