package preview

// Action represents a viewer input action.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionCycleMode
	ActionNextWorld
	ActionQuit
)

// InputEvent carries a session action into the hub.
type InputEvent struct {
	SessionID string
	Action    Action
}

// ParseInput converts raw terminal bytes into actions. Handles WASD,
// arrow key escape sequences, m, tab, q and Ctrl-C.
func ParseInput(data []byte) []Action {
	var actions []Action
	i := 0
	for i < len(data) {
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, ActionUp)
			case 'B':
				actions = append(actions, ActionDown)
			case 'C':
				actions = append(actions, ActionRight)
			case 'D':
				actions = append(actions, ActionLeft)
			}
			i += 3
			continue
		}

		switch data[i] {
		case 'w', 'W':
			actions = append(actions, ActionUp)
		case 's', 'S':
			actions = append(actions, ActionDown)
		case 'a', 'A':
			actions = append(actions, ActionLeft)
		case 'd', 'D':
			actions = append(actions, ActionRight)
		case 'm', 'M':
			actions = append(actions, ActionCycleMode)
		case '\t':
			actions = append(actions, ActionNextWorld)
		case 'q', 'Q', 3: // 3 is Ctrl-C
			actions = append(actions, ActionQuit)
		}
		i++
	}
	return actions
}
