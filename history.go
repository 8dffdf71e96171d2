package wypal

// History is a linear undo/redo stack of cleaned outputs. Taking a new
// snapshot after an undo discards the redo branch; there is no tree.
//
// History is not safe for concurrent use. It expects a single writer.
type History struct {
	past    []string
	current string
	future  []string // future[0] is the next redo
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{}
}

// Snapshot records text as the current checkpoint. Recording the current
// text again is a no-op. The initial empty state is not kept as a
// checkpoint, so undo never returns to a blank output.
func (h *History) Snapshot(text string) {
	if text == h.current {
		return
	}
	if h.current != "" {
		h.past = append(h.past, h.current)
	}
	h.current = text
	h.future = nil
}

// Undo steps back one checkpoint and returns it. It returns false, and
// changes nothing, when there is nothing to undo.
func (h *History) Undo() (string, bool) {
	if len(h.past) == 0 {
		return "", false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]string{h.current}, h.future...)
	h.current = prev
	return prev, true
}

// Redo steps forward one checkpoint and returns it. It returns false, and
// changes nothing, when there is nothing to redo.
func (h *History) Redo() (string, bool) {
	if len(h.future) == 0 {
		return "", false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.current)
	h.current = next
	return next, true
}

// Current returns the current checkpoint.
func (h *History) Current() string { return h.current }

// CanUndo reports whether Undo would succeed.
func (h *History) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether Redo would succeed.
func (h *History) CanRedo() bool { return len(h.future) > 0 }
