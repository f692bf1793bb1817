package easel

import "github.com/google/uuid"

// EventKind tells what kind of mutation produced an Event.
type EventKind int

// Mutations reported to subscribers.
const (
	EventCommit EventKind = iota
	EventUndo
	EventRedo
	EventClear
	EventResize
	EventLoad
)

func (k EventKind) String() string {
	switch k {
	case EventCommit:
		return "commit"
	case EventUndo:
		return "undo"
	case EventRedo:
		return "redo"
	case EventClear:
		return "clear"
	case EventResize:
		return "resize"
	case EventLoad:
		return "load"
	}
	return "unknown"
}

// Event describes a mutation of the session, delivered after it completed.
type Event struct {
	Kind EventKind
	// ID is the identifier of the snapshot now shown on the surface.
	ID        uuid.UUID
	Width     int
	Height    int
	UndoDepth int
	RedoDepth int
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to be called synchronously after every committed
// mutation. The returned function removes the subscription.
func (s *Session) Subscribe(fn func(Event)) (cancel func()) {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) publish(kind EventKind) {
	if len(s.subs) == 0 {
		return
	}
	ev := Event{
		Kind:      kind,
		Width:     s.surface.Width(),
		Height:    s.surface.Height(),
		UndoDepth: s.history.UndoDepth(),
		RedoDepth: s.history.RedoDepth(),
	}
	if cur, ok := s.history.Current(); ok {
		ev.ID = cur.ID
	}
	for _, sub := range append([]subscriber(nil), s.subs...) {
		sub.fn(ev)
	}
}
