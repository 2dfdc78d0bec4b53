// Package store holds the two state containers the UI renders from: App
// (trip-planning query state) and Session (authentication and profile
// state). Each container owns its fields, mediates gateway calls, and
// notifies subscribers after every mutation. Containers are constructed
// explicitly and share nothing; the only dependency direction is
// store -> client.
package store

import "sync"

// notifier fans a change signal out to subscribers. Both containers embed
// it; the UI layer subscribes and re-reads whatever state it renders.
// Callbacks run synchronously on the mutating goroutine and must not
// call back into the container.
type notifier struct {
	mu   sync.Mutex
	seq  int
	subs map[int]func()
}

// Subscribe registers fn to run after each state change. The returned
// function cancels the subscription.
func (n *notifier) Subscribe(fn func()) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.subs == nil {
		n.subs = make(map[int]func())
	}
	id := n.seq
	n.seq++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

func (n *notifier) notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.subs))
	for _, fn := range n.subs {
		fns = append(fns, fn)
	}
	n.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
