package core

// Action represents a semantic input action, abstracted from physical key presses.
// The platform maps keys to actions; the game loop turns held actions into an
// engine input snapshot.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow
	ActionDown           // S, Down arrow
	ActionLeft           // A, Left arrow
	ActionRight          // D, Right arrow
	ActionFire           // Space
	ActionCharge         // E
	ActionPause          // P
	ActionMenu           // B, Escape - back to map select
	ActionConfirm        // Enter
	ActionRestart        // R
	ActionQuit           // Q, Ctrl+C
	ActionPick1          // 1 - first offered upgrade
	ActionPick2          // 2
	ActionPick3          // 3
)

var actionNames = map[Action]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionFire:    "Fire",
	ActionCharge:  "Charge",
	ActionPause:   "Pause",
	ActionMenu:    "Menu",
	ActionConfirm: "Confirm",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPick1:   "Pick1",
	ActionPick2:   "Pick2",
	ActionPick3:   "Pick3",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// PickIndex returns the zero-based upgrade slot for a pick action.
func (a Action) PickIndex() (int, bool) {
	switch a {
	case ActionPick1:
		return 0, true
	case ActionPick2:
		return 1, true
	case ActionPick3:
		return 2, true
	default:
		return 0, false
	}
}

// InputFrame is the set of actions triggered during one tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}
