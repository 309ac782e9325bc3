package workspace

import (
	"log/slog"
	"sync"
)

// Notifier receives the user-facing outcome of workspace operations. The
// embedding UI renders these as toasts; Confirm blocks for a yes/no answer
// before destructive operations.
type Notifier interface {
	Success(title, body string)
	Error(title, body string)
	Confirm(title, body string) bool
}

// SlogNotifier logs notifications. Confirm answers with the configured
// default, which suits headless embeddings (imports, scripted cleanup).
type SlogNotifier struct {
	Logger      *slog.Logger
	AutoConfirm bool
}

func (n *SlogNotifier) Success(title, body string) {
	n.Logger.Info("notify", "title", title, "body", body)
}

func (n *SlogNotifier) Error(title, body string) {
	n.Logger.Warn("notify", "title", title, "body", body)
}

func (n *SlogNotifier) Confirm(title, body string) bool {
	n.Logger.Info("confirm", "title", title, "body", body, "answer", n.AutoConfirm)
	return n.AutoConfirm
}

// Notification is one recorded toast.
type Notification struct {
	Title string
	Body  string
	IsErr bool
}

// RecorderNotifier records notifications for inspection; used in tests and
// by UIs that drain a queue instead of reacting to callbacks.
type RecorderNotifier struct {
	mu            sync.Mutex
	notifications []Notification
	ConfirmAnswer bool
	confirms      int
}

func (n *RecorderNotifier) Success(title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, Notification{Title: title, Body: body})
}

func (n *RecorderNotifier) Error(title, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, Notification{Title: title, Body: body, IsErr: true})
}

func (n *RecorderNotifier) Confirm(title, body string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirms++
	return n.ConfirmAnswer
}

// Notifications returns a copy of everything recorded so far.
func (n *RecorderNotifier) Notifications() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.notifications))
	copy(out, n.notifications)
	return out
}

// Errors returns only the recorded error notifications.
func (n *RecorderNotifier) Errors() []Notification {
	var out []Notification
	for _, note := range n.Notifications() {
		if note.IsErr {
			out = append(out, note)
		}
	}
	return out
}

// Confirms returns how many confirmation prompts were shown.
func (n *RecorderNotifier) Confirms() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.confirms
}
