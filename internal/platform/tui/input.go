package tui

import (
	"time"

	"github.com/vovakirdan/star-strike/internal/core"
	"github.com/vovakirdan/star-strike/internal/engine"
)

// holdWindow is how long a key counts as held after its last press.
// Terminals only report presses; auto-repeat refreshes the window.
const holdWindow = 150 * time.Millisecond

// heldKeys tracks movement and fire keys as levels.
type heldKeys struct {
	last map[core.Action]time.Time
}

func newHeldKeys() heldKeys {
	return heldKeys{last: make(map[core.Action]time.Time)}
}

// press records a key press at now.
func (h *heldKeys) press(a core.Action, now time.Time) {
	switch a {
	case core.ActionUp, core.ActionDown, core.ActionLeft, core.ActionRight, core.ActionFire:
		h.last[a] = now
		// Opposite directions cancel each other's hold.
		if opp, ok := opposite[a]; ok {
			delete(h.last, opp)
		}
	}
}

var opposite = map[core.Action]core.Action{
	core.ActionUp:    core.ActionDown,
	core.ActionDown:  core.ActionUp,
	core.ActionLeft:  core.ActionRight,
	core.ActionRight: core.ActionLeft,
}

func (h *heldKeys) held(a core.Action, now time.Time) bool {
	t, ok := h.last[a]
	return ok && now.Sub(t) < holdWindow
}

func (h *heldKeys) reset() {
	clear(h.last)
}

// input builds the engine input snapshot for one tick from held levels
// and this tick's one-shot triggers.
func (h *heldKeys) input(now time.Time, frame core.InputFrame) engine.Input {
	return engine.Input{
		Up:         h.held(core.ActionUp, now),
		Down:       h.held(core.ActionDown, now),
		Left:       h.held(core.ActionLeft, now),
		Right:      h.held(core.ActionRight, now),
		Fire:       h.held(core.ActionFire, now),
		ChargeFire: frame.Has(core.ActionCharge),
		Pause:      frame.Has(core.ActionPause),
	}
}
