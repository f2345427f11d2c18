// Package notify delivers cart outcome messages to the user.
package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/rocketshoes-labs/cartctl/internal/cart"
)

// Terminal writes one line per outcome, prefixed with a check or a cross.
type Terminal struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer
}

// NewTerminal returns a Terminal writing successes to out and errors to errOut.
func NewTerminal(out, errOut io.Writer) *Terminal {
	return &Terminal{out: out, err: errOut}
}

func (t *Terminal) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.out, "✓ %s\n", msg)
}

func (t *Terminal) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.err, "✗ %s\n", msg)
}

// Kind is the outcome class of a Notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one message delivered to a Recorder.
type Notification struct {
	Kind    Kind
	Message string
}

// Recorder keeps every notification it receives, in order.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) { r.add(KindSuccess, msg) }

func (r *Recorder) Error(msg string) { r.add(KindError, msg) }

func (r *Recorder) add(k Kind, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Kind: k, Message: msg})
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Multi fans each notification out to every notifier in order.
type Multi []cart.Notifier

func (m Multi) Success(msg string) {
	for _, n := range m {
		n.Success(msg)
	}
}

func (m Multi) Error(msg string) {
	for _, n := range m {
		n.Error(msg)
	}
}

// Log records each notification as a debug entry, so --verbose output shows
// outcomes next to the events that produced them.
type Log struct {
	log logrus.FieldLogger
}

// NewLog returns a notifier writing to l.
func NewLog(l logrus.FieldLogger) *Log {
	return &Log{log: l}
}

func (n *Log) Success(msg string) {
	n.log.WithField("outcome", KindSuccess).Debug(msg)
}

func (n *Log) Error(msg string) {
	n.log.WithField("outcome", KindError).Debug(msg)
}
