package highlight

import "strings"

// Kind is an editor interaction that can move the active word.
type Kind int

const (
	KindCaretMove Kind = iota + 1
	KindDragSelect
	KindMotion
)

func (k Kind) String() string {
	switch k {
	case KindCaretMove:
		return "caret_move"
	case KindDragSelect:
		return "drag_select"
	case KindMotion:
		return "motion"
	default:
		return "unknown"
	}
}

// ParseCommand narrows a host post-command notification to a Kind. It
// reports false for commands that cannot move the caret.
func ParseCommand(name string, args map[string]any) (Kind, bool) {
	switch name {
	case "move":
		return KindCaretMove, true
	case "drag_select":
		return KindDragSelect, true
	case "set_motion":
		motion, _ := args["motion"].(string)
		if strings.Contains(motion, "move") {
			return KindMotion, true
		}
	}
	return 0, false
}
