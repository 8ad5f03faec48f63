package gateway

import (
	"sync"
	"time"
)

// ConnMap tracks live connections by connection id
type ConnMap struct {
	mu    sync.RWMutex
	conns map[string]*connEntry
}

type connEntry struct {
	client *Client
	since  time.Time
}

// NewConnMap creates a new ConnMap
func NewConnMap() *ConnMap {
	return &ConnMap{
		conns: make(map[string]*connEntry),
	}
}

// Register registers a client; it returns false if the connection id is already taken
func (m *ConnMap) Register(client *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.conns[client.ConnId]; exists {
		return false
	}
	m.conns[client.ConnId] = &connEntry{client: client, since: time.Now()}
	return true
}

// Unregister removes a client; it reports whether the client was registered
func (m *ConnMap) Unregister(client *Client) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.conns[client.ConnId]
	if !exists || entry.client != client {
		return false
	}
	delete(m.conns, client.ConnId)
	return true
}

// Get returns a client by connection id
func (m *ConnMap) Get(connId string) (*Client, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.conns[connId]
	if !ok {
		return nil, false
	}
	return entry.client, true
}

// All returns a snapshot of all clients
func (m *ConnMap) All() []*Client {
	m.mu.RLock()
	defer m.mu.RUnlock()

	clients := make([]*Client, 0, len(m.conns))
	for _, entry := range m.conns {
		clients = append(clients, entry.client)
	}
	return clients
}

// Len returns the number of live connections
func (m *ConnMap) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}
