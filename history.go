package easel

import (
	"github.com/google/uuid"
)

// DefaultCapacity is the number of snapshots retained by the undo stack.
const DefaultCapacity = 20

// Snapshot is an immutable full copy of a surface's pixel buffer.
type Snapshot struct {
	ID     uuid.UUID
	Width  int
	Height int
	pix    []byte
}

func newSnapshot(w, h int, pix []byte) Snapshot {
	buf := make([]byte, len(pix))
	copy(buf, pix)
	return Snapshot{
		ID:     uuid.New(),
		Width:  w,
		Height: h,
		pix:    buf,
	}
}

// Pix returns a copy of the snapshot buffer.
func (s Snapshot) Pix() []byte {
	buf := make([]byte, len(s.pix))
	copy(buf, s.pix)
	return buf
}

// IsZero reports whether s holds no pixel data.
func (s Snapshot) IsZero() bool {
	return s.pix == nil
}

// History is a bounded undo/redo stack of surface snapshots.
// The undo stack is ordered oldest first and its top is the current state;
// its bottom entry is the floor below which undo is not possible.
type History struct {
	undo     []Snapshot
	redo     []Snapshot
	capacity int
}

// NewHistory creates a history holding at most capacity undo entries.
// A non-positive capacity selects DefaultCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{capacity: capacity}
}

// Capacity returns the maximum length of the undo stack.
func (h *History) Capacity() int { return h.capacity }

// UndoDepth returns the number of snapshots on the undo stack.
func (h *History) UndoDepth() int { return len(h.undo) }

// RedoDepth returns the number of snapshots on the redo stack.
func (h *History) RedoDepth() int { return len(h.redo) }

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.undo) > 1 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// Current returns the top of the undo stack.
func (h *History) Current() (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	return h.undo[len(h.undo)-1], true
}

// Push records a newly committed state. The oldest entry is evicted when
// the capacity is exceeded and the redo stack is always discarded.
func (h *History) Push(s Snapshot) {
	h.undo = append(h.undo, s)
	if n := len(h.undo) - h.capacity; n > 0 {
		copy(h.undo, h.undo[n:])
		for i := len(h.undo) - n; i < len(h.undo); i++ {
			h.undo[i] = Snapshot{}
		}
		h.undo = h.undo[:len(h.undo)-n]
	}
	h.clearRedo()
}

// Undo moves the current state onto the redo stack and returns the new
// current state. It fails with ErrNoHistory at the floor.
func (h *History) Undo() (Snapshot, error) {
	if len(h.undo) <= 1 {
		return Snapshot{}, ErrNoHistory
	}
	top := h.undo[len(h.undo)-1]
	h.undo[len(h.undo)-1] = Snapshot{}
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, top)

	return h.undo[len(h.undo)-1], nil
}

// Redo moves the most recently undone state back onto the undo stack and
// returns it. It fails with ErrNoFuture when nothing was undone.
func (h *History) Redo() (Snapshot, error) {
	if len(h.redo) == 0 {
		return Snapshot{}, ErrNoFuture
	}
	top := h.redo[len(h.redo)-1]
	h.redo[len(h.redo)-1] = Snapshot{}
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, top)

	return top, nil
}

// Reset drops every entry and installs baseline as the only (floor) state.
func (h *History) Reset(baseline Snapshot) {
	for i := range h.undo {
		h.undo[i] = Snapshot{}
	}
	h.undo = append(h.undo[:0], baseline)
	h.clearRedo()
}

func (h *History) clearRedo() {
	for i := range h.redo {
		h.redo[i] = Snapshot{}
	}
	h.redo = h.redo[:0]
}
