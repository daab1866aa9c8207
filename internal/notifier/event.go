package notifier

import (
	"time"

	"SignalSentinel/internal/model"
)

// Event types carried on broadcast channels.
const (
	EventSignal  = "signal"
	EventStatus  = "status"
	EventDismiss = "dismiss"
)

// Event is the wire envelope shared by the WebSocket hub and Redis.
type Event struct {
	Type   string        `json:"type"`
	Time   time.Time     `json:"time"`
	Signal *model.Signal `json:"signal,omitempty"`
	Status *model.Status `json:"status,omitempty"`
	ID     string        `json:"id,omitempty"`
}

func SignalEvent(sig model.Signal) Event {
	return Event{Type: EventSignal, Time: time.Now().UTC(), Signal: &sig}
}

func StatusEvent(st model.Status) Event {
	return Event{Type: EventStatus, Time: time.Now().UTC(), Status: &st}
}

func DismissEvent(id string) Event {
	return Event{Type: EventDismiss, Time: time.Now().UTC(), ID: id}
}
