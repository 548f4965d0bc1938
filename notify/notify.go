package notify

import (
	"context"
)

type Type int

const (
	Alarm Type = iota
	Info
)

func (t Type) String() string {
	switch t {
	case Alarm:
		return "Alarm"
	case Info:
		return "Info"
	default:
		return "Unknown"
	}
}

// Notification is a message for the operators of the service.
type Notification struct {
	Type    Type
	Source  string
	Message string
	Fields  map[string]any
}

// Notifier dispatches notifications to an operator channel.
// Implementations must be safe for concurrent use.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// NilNotifier drops every notification.
type NilNotifier struct{}

func NewNilNotifier() *NilNotifier {
	return &NilNotifier{}
}

func (*NilNotifier) Send(context.Context, Notification) error {
	return nil
}

// Multi fans a notification out to several notifiers and returns the
// first error.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, n Notification) error {
	var first error
	for _, notifier := range m {
		if err := notifier.Send(ctx, n); err != nil && first == nil {
			first = err
		}
	}
	return first
}
