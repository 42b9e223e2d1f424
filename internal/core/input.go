package core

// Action represents a semantic game action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionLeft             // Left, A - shift piece left
	ActionRight            // Right, D - shift piece right
	ActionSoftDrop         // Down, S - drop one row
	ActionRotate           // Up, W, X - rotate clockwise
	ActionRotateCCW        // Z - rotate counter-clockwise
	ActionHardDrop         // Space - drop to the floor and lock
	ActionHold             // C, Shift+Tab - swap with hold slot
	ActionConfirm          // Enter - start the game / confirm selection
	ActionBack             // B, Escape - go back to menu
	ActionRestart          // R - restart after game over
	ActionQuit             // Q, Ctrl+C - exit
	ActionPause            // P - pause/unpause
)

var actionNames = map[Action]string{
	ActionNone:      "None",
	ActionLeft:      "Left",
	ActionRight:     "Right",
	ActionSoftDrop:  "SoftDrop",
	ActionRotate:    "Rotate",
	ActionRotateCCW: "RotateCCW",
	ActionHardDrop:  "HardDrop",
	ActionHold:      "Hold",
	ActionConfirm:   "Confirm",
	ActionBack:      "Back",
	ActionRestart:   "Restart",
	ActionQuit:      "Quit",
	ActionPause:     "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// InputFrame collects the actions triggered during one simulation tick.
// Several presses of the same action within a tick count once, except for
// the repeatable movement actions which keep a press count.
type InputFrame struct {
	Actions map[Action]int
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]int),
	}
}

// Set records one press of an action for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]int)
	}
	f.Actions[a]++
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Count(a) > 0
}

// Count returns how many times the action was pressed this frame.
func (f InputFrame) Count(a Action) int {
	if f.Actions == nil {
		return 0
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
