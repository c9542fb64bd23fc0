package core

// ButtonAction is a semantic player intent produced by one physical button.
// Values are plain data handed from the input pipeline to the game.
type ButtonAction uint8

const (
	ActionMoveLeft  ButtonAction = iota // shift piece one column left
	ActionMoveRight                     // shift piece one column right
	ActionDrop                          // hard drop to the lowest free row
	ActionRotate                        // rotate piece by a quarter turn
)

// AllActions lists every button action in wiring order.
var AllActions = [...]ButtonAction{ActionMoveLeft, ActionMoveRight, ActionDrop, ActionRotate}

// String returns a human-readable name for the action.
func (a ButtonAction) String() string {
	switch a {
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionDrop:
		return "Drop"
	case ActionRotate:
		return "Rotate"
	default:
		return "Unknown"
	}
}

// ParseAction maps a config key such as "move_left" or "rotate" to an action.
func ParseAction(s string) (ButtonAction, bool) {
	switch s {
	case "move_left", "left":
		return ActionMoveLeft, true
	case "move_right", "right":
		return ActionMoveRight, true
	case "drop", "move_down", "down":
		return ActionDrop, true
	case "rotate":
		return ActionRotate, true
	}
	return 0, false
}
