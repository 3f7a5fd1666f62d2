package tree

import "sync"

// Notifier is the single broadcast point for tree invalidation. Fire(nil)
// means the whole tree must be re-resolved from the root; Fire(node) means
// only that node and its descendants need re-rendering.
//
// Delivery is synchronous and preserves fire order across concurrent
// producers. There is no coalescing: callers who fire in a tight loop get
// every event delivered. Handlers must not call Fire or Subscribe
// re-entrantly.
type Notifier struct {
	mu   sync.Mutex
	subs []*subscription
	next uint64
}

type subscription struct {
	id uint64
	fn func(Node)
}

// Subscribe registers a handler. The returned Disposable removes it; calling
// Dispose more than once is harmless.
func (n *Notifier) Subscribe(fn func(Node)) Disposable {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.next++
	sub := &subscription{id: n.next, fn: fn}
	n.subs = append(n.subs, sub)
	id := sub.id
	return DisposeFunc(func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, s := range n.subs {
			if s.id == id {
				n.subs = append(n.subs[:i], n.subs[i+1:]...)
				return
			}
		}
	})
}

// Fire broadcasts an invalidation. Holding the lock for the duration of
// delivery is what guarantees total fire order; handlers are expected to do
// no more than hand the event off (e.g. into a channel).
func (n *Notifier) Fire(node Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range n.subs {
		s.fn(node)
	}
}
