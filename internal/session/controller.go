package session

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/dysebot/dashboard/internal/log"
)

// Notifier surfaces transient user-facing messages (the toast slot in
// the original dashboard UI)
type Notifier interface {
	Notify(message string)
}

// LogNotifier is the default Notifier; it writes notifications to the
// structured log.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.LogInfoWithFields("session", "notification", map[string]any{
		"message": message,
	})
}

// Controller owns the process-wide authentication state. All mutation
// goes through Bootstrap and Logout; reads get a copy of the current
// immutable State value.
type Controller struct {
	mu       sync.Mutex
	store    Store
	notifier Notifier
	state    State
	restored bool
}

func NewController(store Store, notifier Notifier) *Controller {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Controller{
		store:    store,
		notifier: notifier,
		state:    Clear(State{}),
	}
}

// State returns the current authentication state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Bootstrap runs the initialization protocol: restore a stored session
// first, then let OAuth callback parameters in the query override it —
// a fresh callback always wins over a stored session. It returns true
// when callback parameters were consumed successfully, so the caller
// can strip them from the visible URL.
func (c *Controller) Bootstrap(query url.Values) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.restored {
		c.restored = true
		if sess, ok := c.store.Load(); ok {
			c.state = State{Session: sess}
		}
	}

	token := query.Get("token")
	userJSON := query.Get("user")
	guildsJSON := query.Get("guilds")
	if token == "" || userJSON == "" || guildsJSON == "" {
		return false
	}

	next := ApplyCallback(c.state, token, userJSON, guildsJSON)
	c.state = next
	if next.Error != "" {
		log.LogErrorWithFields("session", "Failed to parse OAuth callback data", map[string]any{
			"error": next.Error,
		})
		return false
	}

	if err := c.store.Save(next.Session); err != nil {
		log.LogError("Failed to persist session: %v", err)
	}
	c.notifier.Notify(fmt.Sprintf("Welcome back, %s!", next.Session.User.Username))
	return true
}

// Login is kept for interface compatibility: the redirect flow already
// completed the exchange server-side before this code can run. It
// never fails.
func (c *Controller) Login(code string) {
	c.mu.Lock()
	c.state.Loading = false
	c.state.Error = ""
	c.mu.Unlock()
}

// Logout clears the in-memory state and the durable store
// unconditionally. Calling it without an active session is a no-op
// beyond the notification.
func (c *Controller) Logout() {
	c.mu.Lock()
	c.state = Clear(c.state)
	c.store.Clear()
	c.mu.Unlock()

	c.notifier.Notify("Logged out successfully")
}
