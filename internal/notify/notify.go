// Package notify holds the transient user-facing signals raised by background work
// (commits, quick actions) and broadcasts a ping to listeners when they change.
package notify

import (
	"fmt"
	"sync"
	"time"
)

// Level is the severity of a notification
type Level int

const (
	// LevelInfo is a neutral status message
	LevelInfo Level = iota
	// LevelSuccess confirms a completed action
	LevelSuccess
	// LevelWarning reports a degraded but completed action
	LevelWarning
	// LevelError reports a failed action
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// DefaultTTL is how long a notification stays active
const DefaultTTL = 4 * time.Second

// maxKept bounds the history so a long session does not grow without limit
const maxKept = 50

// Notification is a single message
type Notification struct {
	Level   Level
	Message string
	At      time.Time
}

// Notifier is what producers depend on
type Notifier interface {
	Notify(level Level, message string)
}

// Center stores notifications and pings subscribers when one is added.
// It is safe for concurrent use.
type Center struct {
	mu        sync.RWMutex
	items     []Notification
	ttl       time.Duration
	now       func() time.Time
	listeners map[chan struct{}]struct{}
}

// NewCenter creates a Center. A ttl <= 0 uses DefaultTTL.
func NewCenter(ttl time.Duration) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl:       ttl,
		now:       time.Now,
		listeners: make(map[chan struct{}]struct{}),
	}
}

// Notify adds a notification stamped with the current time
func (c *Center) Notify(level Level, message string) {
	c.Add(Notification{Level: level, Message: message, At: c.now()})
}

// Add stores n and pings every subscriber
func (c *Center) Add(n Notification) {
	c.mu.Lock()
	c.items = append(c.items, n)
	if len(c.items) > maxKept {
		c.items = c.items[len(c.items)-maxKept:]
	}
	c.mu.Unlock()
	c.broadcast()
}

// Success, Info, Warning and Error are shorthands for Notify

func (c *Center) Success(message string) { c.Notify(LevelSuccess, message) }
func (c *Center) Info(message string)    { c.Notify(LevelInfo, message) }
func (c *Center) Warning(message string) { c.Notify(LevelWarning, message) }
func (c *Center) Error(message string)   { c.Notify(LevelError, message) }

// All returns every stored notification, oldest first
func (c *Center) All() []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Active returns the notifications younger than the TTL at now
func (c *Center) Active(now time.Time) []Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Notification
	for _, n := range c.items {
		if now.Sub(n.At) < c.ttl {
			out = append(out, n)
		}
	}
	return out
}

// Latest returns the most recent notification
func (c *Center) Latest() (Notification, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.items) == 0 {
		return Notification{}, false
	}
	return c.items[len(c.items)-1], true
}

// Clear removes all notifications
func (c *Center) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	c.broadcast()
}

// Subscribe returns a channel pinged whenever the notification list changes.
// The caller must call Unsubscribe when done.
func (c *Center) Subscribe() chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.listeners[ch] = struct{}{}
	c.mu.Unlock()
	return ch
}

// Unsubscribe removes a listener channel and closes it
func (c *Center) Unsubscribe(ch chan struct{}) {
	c.mu.Lock()
	_, ok := c.listeners[ch]
	delete(c.listeners, ch)
	c.mu.Unlock()
	if ok {
		close(ch)
	}
}

// broadcast pings listeners without blocking; a full channel already has a ping pending
func (c *Center) broadcast() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for ch := range c.listeners {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Discard drops every notification; used by non-interactive callers that report
// errors through return values instead
type Discard struct{}

func (Discard) Notify(Level, string) {}
