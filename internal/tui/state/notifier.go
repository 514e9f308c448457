package state

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 4 * time.Second

// Severity of a notification. The zero value is SeveritySuccess.
type Severity int

const (
	SeveritySuccess Severity = iota
	SeverityError
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "success"
}

// Notification is the single visible message.
type Notification struct {
	Message   string
	Severity  Severity
	ExpiresAt time.Time
}

// NotificationExpiredMsg is delivered when a notification's timer fires.
type NotificationExpiredMsg struct {
	Gen uint64
}

// Notifier is a single-slot message surface with auto-expiry. Each Notify
// bumps a generation so the timers of earlier notifications become no-ops.
type Notifier struct {
	ttl     time.Duration
	gen     uint64
	current *Notification
}

// NewNotifier creates a notifier. A non-positive ttl uses DefaultNotificationTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl}
}

// TTL returns the notification lifetime.
func (n *Notifier) TTL() time.Duration { return n.ttl }

// Notify replaces the current message and returns the command that expires it.
func (n *Notifier) Notify(message string, sev Severity, now time.Time) tea.Cmd {
	n.gen++
	gen := n.gen
	n.current = &Notification{Message: message, Severity: sev, ExpiresAt: now.Add(n.ttl)}
	return tea.Tick(n.ttl, func(time.Time) tea.Msg {
		return NotificationExpiredMsg{Gen: gen}
	})
}

// Expire clears the surface if gen belongs to the current notification.
func (n *Notifier) Expire(gen uint64) bool {
	if n.current == nil || gen != n.gen {
		return false
	}
	n.current = nil
	return true
}

// Current returns the notification visible at now.
func (n *Notifier) Current(now time.Time) (Notification, bool) {
	if n.current == nil || !now.Before(n.current.ExpiresAt) {
		return Notification{}, false
	}
	return *n.current, true
}

// Gen returns the generation of the latest notification.
func (n *Notifier) Gen() uint64 { return n.gen }
