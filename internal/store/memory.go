package store

import "sync"

// Memory is an in-memory Store used by tests.
type Memory struct {
	mu      sync.Mutex
	text    string
	hasText bool

	session    []byte
	hasSession bool

	closed bool
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the cached document text.
func (m *Memory) Load() (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return "", false, ErrStoreClosed
	}
	return m.text, m.hasText, nil
}

// Save overwrites the cached document text.
func (m *Memory) Save(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}
	m.text = text
	m.hasText = true
	return nil
}

// Clear records an explicitly empty document.
func (m *Memory) Clear() error {
	return m.Save("")
}

// LoadSession returns the last committed session metadata.
func (m *Memory) LoadSession() (SessionInfo, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return SessionInfo{}, false, ErrStoreClosed
	}
	if !m.hasSession {
		return SessionInfo{}, false, nil
	}
	return decodeSession(m.session), true, nil
}

// SaveSession overwrites the session metadata.
func (m *Memory) SaveSession(info SessionInfo) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	data, err := encodeSession(info)
	if err != nil {
		return err
	}
	m.session = data
	m.hasSession = true
	return nil
}

// Close marks the store closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

var _ Store = (*Memory)(nil)
