package dialogue

import "strings"

// State is a position in the product search flow.
type State string

const (
	StateInitial                State = "initial"
	StateAwaitingCategory       State = "awaiting_category"
	StateAwaitingStyle          State = "awaiting_style"
	StateAwaitingGenderForStyle State = "awaiting_gender_for_style"
	StateAwaitingGenderDirect   State = "awaiting_gender_direct"
	StateTerminal               State = "terminal"
)

var knownStates = map[State]bool{
	StateInitial:                true,
	StateAwaitingCategory:       true,
	StateAwaitingStyle:          true,
	StateAwaitingGenderForStyle: true,
	StateAwaitingGenderDirect:   true,
	StateTerminal:               true,
}

// ParseState maps a stored value back to a State. Unknown values and
// the terminal marker map to StateInitial.
func ParseState(s string) State {
	st := State(strings.TrimSpace(s))
	if !knownStates[st] || st == StateTerminal {
		return StateInitial
	}
	return st
}

// Valid reports whether s is one of the defined states.
func (s State) Valid() bool { return knownStates[s] }

// Stored is the state to persist after a turn ending in s.
// Terminal loops back to initial on the next turn.
func (s State) Stored() State {
	if s == StateTerminal || !s.Valid() {
		return StateInitial
	}
	return s
}

func (s State) String() string { return string(s) }

// Normalize folds user input to the form used as a table key.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
