package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/star-strike/internal/core"
)

// gameBindings maps key names, as reported by tea.KeyMsg.String, to actions.
var gameBindings = map[string]core.Action{
	"w": core.ActionUp, "up": core.ActionUp,
	"s": core.ActionDown, "down": core.ActionDown,
	"a": core.ActionLeft, "left": core.ActionLeft,
	"d": core.ActionRight, "right": core.ActionRight,
	" ": core.ActionFire,
	"e": core.ActionCharge, "x": core.ActionCharge,
	"p": core.ActionPause,
	"b": core.ActionMenu, "esc": core.ActionMenu,
	"enter":  core.ActionConfirm,
	"r":      core.ActionRestart,
	"1":      core.ActionPick1,
	"2":      core.ActionPick2,
	"3":      core.ActionPick3,
	"q":      core.ActionQuit,
	"ctrl+c": core.ActionQuit,
}

// MenuAction is a menu command derived from a key.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionScoreboard
	MenuActionBack
	MenuActionQuit
)

var menuBindings = map[string]MenuAction{
	"w": MenuActionUp, "up": MenuActionUp, "k": MenuActionUp,
	"s": MenuActionDown, "down": MenuActionDown, "j": MenuActionDown,
	"enter": MenuActionSelect, " ": MenuActionSelect,
	"tab": MenuActionScoreboard,
	"b":   MenuActionBack, "esc": MenuActionBack,
	"q": MenuActionQuit, "ctrl+c": MenuActionQuit,
}

// KeyMapper translates key messages into game and menu actions.
type KeyMapper struct{}

// NewKeyMapper returns a mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey returns the action for msg and whether it asks to quit.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	a, ok := gameBindings[msg.String()]
	if !ok {
		return core.ActionNone, false
	}
	return a, a == core.ActionQuit
}

// MapKeyToFrame records msg's action in frame and reports a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// MapKeyToMenuAction returns the menu command for msg.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	return menuBindings[msg.String()]
}
