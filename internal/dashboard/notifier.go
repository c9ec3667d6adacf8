package dashboard

import "sync"

// Notifier fans out update pings to SSE subscribers. A ping carries no
// payload; subscribers re-render from the latest state when they wake.
type Notifier struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subscribers: make(map[chan struct{}]struct{})}
}

// Subscribe registers a listener. Callers must Unsubscribe when done.
func (n *Notifier) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	n.mu.Lock()
	n.subscribers[ch] = struct{}{}
	n.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a listener channel.
func (n *Notifier) Unsubscribe(ch chan struct{}) {
	n.mu.Lock()
	delete(n.subscribers, ch)
	n.mu.Unlock()
	close(ch)
}

// Broadcast pings every subscriber without blocking. A subscriber with
// a ping already pending needs no second one: it re-renders once.
func (n *Notifier) Broadcast() {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for ch := range n.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
