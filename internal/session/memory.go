package session

import (
	"context"
	"sync"
)

type userState struct {
	pending PendingInput
	menu    Menu
	city    string
	lang    string
}

type memoryManager struct {
	mu    sync.RWMutex
	users map[int64]*userState
}

// NewMemoryManager constructs an in-process Manager. State is lost on
// restart; use the Redis backend when persistence across deploys matters.
func NewMemoryManager() Manager {
	return &memoryManager{users: make(map[int64]*userState)}
}

func (m *memoryManager) state(userID int64) *userState {
	st, ok := m.users[userID]
	if !ok {
		st = &userState{pending: PendingNone, menu: MenuMain}
		m.users[userID] = st
	}
	return st
}

func (m *memoryManager) Pending(_ context.Context, userID int64) (PendingInput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.users[userID]; ok {
		return st.pending, nil
	}
	return PendingNone, nil
}

func (m *memoryManager) SetPending(_ context.Context, userID int64, p PendingInput) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state(userID).pending = p
	return nil
}

func (m *memoryManager) ClearPending(ctx context.Context, userID int64) error {
	return m.SetPending(ctx, userID, PendingNone)
}

func (m *memoryManager) Menu(_ context.Context, userID int64) (Menu, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.users[userID]; ok {
		return st.menu, nil
	}
	return MenuMain, nil
}

func (m *memoryManager) SetMenu(_ context.Context, userID int64, menu Menu) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state(userID).menu = menu
	return nil
}

func (m *memoryManager) City(_ context.Context, userID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.users[userID]; ok {
		return st.city, nil
	}
	return "", nil
}

func (m *memoryManager) SetCity(_ context.Context, userID int64, city string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state(userID).city = city
	return nil
}

func (m *memoryManager) Language(_ context.Context, userID int64) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.users[userID]; ok {
		return st.lang, nil
	}
	return "", nil
}

func (m *memoryManager) SetLanguage(_ context.Context, userID int64, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state(userID).lang = code
	return nil
}

func (m *memoryManager) Clear(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
	return nil
}

func (m *memoryManager) Close() error { return nil }
