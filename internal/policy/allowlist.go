package policy

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// ChangeKind tells subscribers what happened to the allow-list.
type ChangeKind string

const (
	ChangeAdded   ChangeKind = "added"
	ChangeRemoved ChangeKind = "removed"
	ChangeReset   ChangeKind = "reset"
)

// Change is delivered to subscribers after every mutation.
type Change struct {
	Kind  ChangeKind
	Path  string   // empty for ChangeReset
	Items []string // snapshot after the change
}

// AllowList is the ordered, observable set of on-task executable paths.
// Order is preserved and duplicates are kept; matching is case-insensitive.
// Subscribers are called synchronously on the mutating goroutine.
type AllowList struct {
	mu     sync.RWMutex
	items  []string
	subs   map[int]func(Change)
	nextID int
}

// NewAllowList creates an allow-list holding a copy of items.
func NewAllowList(items ...string) *AllowList {
	return &AllowList{
		items: append([]string(nil), items...),
		subs:  make(map[int]func(Change)),
	}
}

// Add appends path. Blank or non-UTF-8 paths are ignored and reported as false.
func (l *AllowList) Add(path string) bool {
	path = strings.TrimSpace(path)
	if path == "" || !utf8.ValidString(path) {
		return false
	}

	l.mu.Lock()
	l.items = append(l.items, path)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.publish(Change{Kind: ChangeAdded, Path: path, Items: snapshot})
	return true
}

// Remove deletes the first entry matching path, ignoring case like Matches.
func (l *AllowList) Remove(path string) bool {
	path = strings.TrimSpace(path)
	l.mu.Lock()
	idx := -1
	for i, item := range l.items {
		if strings.EqualFold(item, path) {
			idx = i
			break
		}
	}
	if idx < 0 {
		l.mu.Unlock()
		return false
	}
	removed := l.items[idx]
	l.items = append(l.items[:idx], l.items[idx+1:]...)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.publish(Change{Kind: ChangeRemoved, Path: removed, Items: snapshot})
	return true
}

// Reset replaces the whole list.
func (l *AllowList) Reset(items []string) {
	l.mu.Lock()
	l.items = append([]string(nil), items...)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.publish(Change{Kind: ChangeReset, Items: snapshot})
}

// Items returns a copy of the entries in order.
func (l *AllowList) Items() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.snapshotLocked()
}

// Len returns the number of entries.
func (l *AllowList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Matches reports whether path equals any entry, ignoring case.
func (l *AllowList) Matches(path string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, item := range l.items {
		if strings.EqualFold(item, path) {
			return true
		}
	}
	return false
}

// Subscribe registers fn for change notifications and returns its cancel func.
func (l *AllowList) Subscribe(fn func(Change)) (unsubscribe func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.subs, id)
		l.mu.Unlock()
	}
}

func (l *AllowList) snapshotLocked() []string {
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out
}

func (l *AllowList) publish(c Change) {
	l.mu.RLock()
	subs := make([]func(Change), 0, len(l.subs))
	for _, fn := range l.subs {
		subs = append(subs, fn)
	}
	l.mu.RUnlock()

	for _, fn := range subs {
		fn(c)
	}
}
