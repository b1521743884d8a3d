package state

// undoStacks tracks past and future snapshots of the context text.
// Both stacks are unbounded, matching the app's original behavior.
// Invariant: after Record (any non-undo/redo edit), future is empty.
type undoStacks struct {
	past   []string
	future []string
}

// Record pushes the pre-edit value onto past and clears future.
func (u *undoStacks) Record(old string) {
	u.past = append(u.past, old)
	u.future = nil
}

// Undo pops the top of past and returns it as the value to restore, pushing
// the current (pre-undo) value onto the front of future. Returns false with
// no state change if past is empty.
func (u *undoStacks) Undo(current string) (string, bool) {
	if len(u.past) == 0 {
		return "", false
	}
	top := u.past[len(u.past)-1]
	u.past = u.past[:len(u.past)-1]
	u.future = append([]string{current}, u.future...)
	return top, true
}

// Redo pops the front of future and returns it as the value to restore,
// pushing the current (pre-redo) value onto past. Returns false with no
// state change if future is empty.
func (u *undoStacks) Redo(current string) (string, bool) {
	if len(u.future) == 0 {
		return "", false
	}
	front := u.future[0]
	u.future = u.future[1:]
	u.past = append(u.past, current)
	return front, true
}

func (u *undoStacks) CanUndo() bool { return len(u.past) > 0 }
func (u *undoStacks) CanRedo() bool { return len(u.future) > 0 }
