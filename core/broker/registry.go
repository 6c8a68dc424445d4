package broker

import "sync"

// subscription is a registry membership entry keyed by handler or receiver identity.
// Fields are set once at subscription time and never mutated afterwards, so a
// snapshot can be iterated without further synchronization.
type subscription struct {
	key     any     // identity the entry is keyed by (the Handler or the Receiver)
	name    string  // message name the handler consumes
	group   string  // subscriber group ("" is the default group)
	handler Handler // handler with broker middleware applied
}

// matches reports whether the subscription should receive the message.
func (s *subscription) matches(msg Message) bool {
	return s.group == msg.Group && s.name == msg.Name
}

// registry owns the mutable subscriber membership. One mutex guards all
// mutation and snapshot reads; it is held only for the copy itself, never
// across handler invocation.
type registry struct {
	mu    sync.Mutex
	subs  map[any]*subscription
	order []any // insertion order, preserved across idempotent re-subscription
}

func newRegistry() *registry {
	return &registry{
		subs: make(map[any]*subscription),
	}
}

// add inserts a subscription keyed by sub.key. Re-subscribing an existing
// identity replaces the stored entry in place rather than creating a
// duplicate, keeping its original position.
func (r *registry) add(sub *subscription) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subs[sub.key]; !exists {
		r.order = append(r.order, sub.key)
	}
	r.subs[sub.key] = sub
}

// remove deletes the subscription for the given identity.
// Removing an unknown identity is a silent no-op; the return value reports
// whether an entry was actually removed.
func (r *registry) remove(key any) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.subs[key]; !exists {
		return false
	}
	delete(r.subs, key)

	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// snapshot returns an independent copy of the current membership in insertion
// order, safe to iterate without holding the lock. This is the seam that lets
// dispatch proceed without blocking concurrent subscribe/unsubscribe calls.
func (r *registry) snapshot() []*subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make([]*subscription, 0, len(r.order))
	for _, key := range r.order {
		snapshot = append(snapshot, r.subs[key])
	}
	return snapshot
}

// len returns the current number of subscriptions.
func (r *registry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}
