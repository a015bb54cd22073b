package services

import "sync"

// userLocks serializes credential read-modify-write per username so two
// concurrent failed attempts cannot both read the same counter and undercount,
// and a reset cannot interleave with a failure into an inconsistent record.
// No ordering is imposed across different usernames.
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for a username, creating it on first use, and
// returns the unlock function. Entries are kept for the process lifetime;
// the universe of usernames is the registered user set, which is small.
func (ul *userLocks) Lock(username string) func() {
	ul.mu.Lock()
	lock, ok := ul.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		ul.locks[username] = lock
	}
	ul.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
