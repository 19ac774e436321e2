package pubsub

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind discriminates the two event variants a session can emit.
type Kind string

const (
	// KindJoin signals that a second participant has arrived. It carries no
	// payload.
	KindJoin Kind = "Join"
	// KindUpdate carries the newly encoded board after an accepted move.
	KindUpdate Kind = "Update"
)

var ErrUnknownEvent = errors.New("unknown event frame")

// Event is the tagged union pushed to subscribers. On the wire it travels as
// either {"Join":{}} or {"Update":{"board":"<encoded>"}}.
type Event struct {
	Kind  Kind
	Board string
}

func NewJoinEvent() Event {
	return Event{Kind: KindJoin}
}

func NewUpdateEvent(board string) Event {
	return Event{Kind: KindUpdate, Board: board}
}

type updateFrame struct {
	Board string `json:"board"`
}

type eventFrame struct {
	Join   *struct{}    `json:"Join,omitempty"`
	Update *updateFrame `json:"Update,omitempty"`
}

func (e Event) MarshalJSON() ([]byte, error) {
	switch e.Kind {
	case KindJoin:
		return json.Marshal(eventFrame{Join: &struct{}{}})
	case KindUpdate:
		return json.Marshal(eventFrame{Update: &updateFrame{Board: e.Board}})
	default:
		return nil, fmt.Errorf("%w: kind %q", ErrUnknownEvent, string(e.Kind))
	}
}

func (e *Event) UnmarshalJSON(data []byte) error {
	var frame eventFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		return fmt.Errorf("failed to unmarshal event frame: %w", err)
	}

	switch {
	case frame.Join != nil && frame.Update == nil:
		*e = Event{Kind: KindJoin}
	case frame.Update != nil && frame.Join == nil:
		*e = Event{Kind: KindUpdate, Board: frame.Update.Board}
	default:
		return fmt.Errorf("%w: expected exactly one of Join or Update", ErrUnknownEvent)
	}

	return nil
}
