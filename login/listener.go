package login

import "sync"

// LoginListener is notified synchronously with the new state after every
// login or logout transition.
type LoginListener func(loggedIn bool)

// listenerList holds registered listeners in insertion order. Registration
// may happen concurrently with notification, so one mutex guards both the
// append and the iterate-and-invoke.
type listenerList struct {
	listeners []LoginListener
	lock      sync.Mutex
}

func (ll *listenerList) add(listener LoginListener) {
	ll.lock.Lock()
	defer ll.lock.Unlock()
	ll.listeners = append(ll.listeners, listener)
}

func (ll *listenerList) notify(loggedIn bool) {
	ll.lock.Lock()
	defer ll.lock.Unlock()
	for _, listener := range ll.listeners {
		listener(loggedIn)
	}
}
