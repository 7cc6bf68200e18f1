package clipboard

import "sync"

// Notifier fans a "history changed" signal out to subscribers. A slow
// subscriber sees one pending signal no matter how many were sent.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

// NewNotifier returns a Notifier with no subscribers.
func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan struct{})}
}

// Subscribe returns a channel that receives a value after each change and
// a function that unsubscribes and closes the channel.
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	ch := make(chan struct{}, 1)
	n.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs, id)
			close(ch)
		})
	}
}

// Notify signals every subscriber without blocking.
func (n *Notifier) Notify() {
	if n == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
