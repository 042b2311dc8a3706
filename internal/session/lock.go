package session

import "sync"

// UserLocks serializes update handling per user. Telegram can deliver a
// user's next message while the previous one is still being handled; without
// this, two handlers could read and write the same pending state.
type UserLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

// NewUserLocks returns an empty lock set.
func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[int64]*userLock)}
}

// Lock acquires the lock for userID and returns its release function. Lock
// entries are reference counted and removed once the last holder releases,
// so the map does not grow with the total user population.
func (u *UserLocks) Lock(userID int64) (unlock func()) {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &userLock{}
		u.locks[userID] = l
	}
	l.refs++
	u.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		u.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(u.locks, userID)
		}
		u.mu.Unlock()
	}
}
