package i18n

import (
	"sort"
	"sync"
)

// Broadcaster owns the current locale and notifies subscribers when it
// changes. Views subscribe when they are created and call the returned
// func when they are torn down.
type Broadcaster struct {
	mu      sync.Mutex
	current Locale
	nextID  int
	subs    map[int]func(Locale)
}

// NewBroadcaster starts with the given locale.
func NewBroadcaster(initial Locale) *Broadcaster {
	return &Broadcaster{
		current: Parse(string(initial)),
		subs:    make(map[int]func(Locale)),
	}
}

// Current returns the active locale.
func (b *Broadcaster) Current() Locale {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Subscribe registers fn for future changes. The returned func removes
// the subscription; calling it more than once is a no-op.
func (b *Broadcaster) Subscribe(fn func(Locale)) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Set switches to l and notifies subscribers in subscription order.
// It reports whether the locale actually changed.
func (b *Broadcaster) Set(l Locale) bool {
	l = Parse(string(l))

	b.mu.Lock()
	if l == b.current {
		b.mu.Unlock()
		return false
	}
	b.current = l

	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	fns := make([]func(Locale), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, b.subs[id])
	}
	b.mu.Unlock()

	// Callbacks run without the lock so they may call Current or Subscribe.
	for _, fn := range fns {
		fn(l)
	}
	return true
}

// Toggle flips the locale and returns the new one.
func (b *Broadcaster) Toggle() Locale {
	next := b.Current().Toggle()
	b.Set(next)
	return next
}

// Subscribers returns how many subscriptions are live.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
