package grid

import "fmt"

// Action is one of the four compass moves available on a grid.
// The zero value None marks a cell without an action (goals, walls).
type Action int

const (
	None Action = iota
	Left
	Right
	Up
	Down
)

// AllActions in the order builders attach them to states
var AllActions = []Action{Left, Right, Up, Down}

func (a Action) String() string {
	switch a {
	case None:
		return "none"
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Hash makes Action usable as a rollout action
func (a Action) Hash() string {
	return a.String()
}

// Glyph returns the two character arrow used when printing policies
func (a Action) Glyph() string {
	switch a {
	case Left:
		return "<<"
	case Right:
		return ">>"
	case Up:
		return "/\\"
	case Down:
		return "\\/"
	}
	return "  "
}

// ParseAction is the inverse of String for the four moves.
func ParseAction(s string) (Action, error) {
	for _, a := range AllActions {
		if a.String() == s {
			return a, nil
		}
	}
	return None, fmt.Errorf("unknown action %q", s)
}

// MarshalText encodes the action as its label
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(text []byte) error {
	if string(text) == "none" {
		*a = None
		return nil
	}
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func mustMove(a Action, op string) {
	if a < Left || a > Down {
		panic(fmt.Sprintf("grid.%s: not a move: %s", op, a))
	}
}

// Opposite returns the reverse move. Panics when a is not one of the four moves.
func Opposite(a Action) Action {
	mustMove(a, "Opposite")
	return [...]Action{Left: Right, Right: Left, Up: Down, Down: Up}[a]
}

// RotateLeft turns a a quarter counter-clockwise (up becomes left).
// Panics when a is not one of the four moves.
func RotateLeft(a Action) Action {
	mustMove(a, "RotateLeft")
	return [...]Action{Left: Down, Right: Up, Up: Left, Down: Right}[a]
}

// RotateRight turns a a quarter clockwise (up becomes right).
// Panics when a is not one of the four moves.
func RotateRight(a Action) Action {
	mustMove(a, "RotateRight")
	return [...]Action{Left: Up, Right: Down, Up: Right, Down: Left}[a]
}
