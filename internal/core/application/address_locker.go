package application

import "sync"

// addressLocker serializes operations on the same address while letting
// those on different addresses run concurrently.
type addressLocker struct {
	lock  *sync.Mutex
	locks map[string]*addressLock
}

type addressLock struct {
	sync.Mutex
	refs int
}

func newAddressLocker() *addressLocker {
	return &addressLocker{
		lock:  &sync.Mutex{},
		locks: make(map[string]*addressLock),
	}
}

// acquire blocks until the address is available and returns the func to
// release it.
func (l *addressLocker) acquire(address string) func() {
	l.lock.Lock()
	al, ok := l.locks[address]
	if !ok {
		al = &addressLock{}
		l.locks[address] = al
	}
	al.refs++
	l.lock.Unlock()

	al.Lock()
	return func() {
		al.Unlock()

		l.lock.Lock()
		defer l.lock.Unlock()
		al.refs--
		if al.refs == 0 {
			delete(l.locks, address)
		}
	}
}

func (l *addressLocker) size() int {
	l.lock.Lock()
	defer l.lock.Unlock()
	return len(l.locks)
}
