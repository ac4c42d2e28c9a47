package dialogue

import "github.com/shopassist/shopassist/internal/catalog"

// Action is what a transition does besides moving to its target state.
type Action string

const (
	ActionAskStyle          Action = "ask_style"
	ActionAskCategoryGender Action = "ask_category_gender"
	ActionAskStyleGender    Action = "ask_style_gender"
	ActionFetchStyle        Action = "fetch_style"
	ActionFetchCategory     Action = "fetch_category"
)

// Transition is one row of the dialogue table.
type Transition struct {
	From   State  `json:"from"`
	Input  string `json:"input"`
	Action Action `json:"action"`
	To     State  `json:"to"`
}

type tableKey struct {
	state State
	input string
}

var (
	transitions = buildTransitions()
	table       = indexTransitions(transitions)
)

func buildTransitions() []Transition {
	var ts []Transition
	add := func(from State, input string, a Action, to State) {
		ts = append(ts, Transition{From: from, Input: input, Action: a, To: to})
	}

	add(StateAwaitingCategory, AllStyle, ActionAskStyle, StateAwaitingStyle)
	for _, c := range catalog.Categories() {
		add(StateAwaitingCategory, c, ActionAskCategoryGender, StateAwaitingGenderDirect)
	}
	for _, s := range catalog.Styles() {
		add(StateAwaitingStyle, s, ActionAskStyleGender, StateAwaitingGenderForStyle)
	}
	for _, g := range catalog.StyleGenders() {
		add(StateAwaitingGenderForStyle, g, ActionFetchStyle, StateTerminal)
	}
	for _, g := range []string{catalog.GenderMen, catalog.GenderWomen, catalog.GenderUnisex} {
		add(StateAwaitingGenderDirect, g, ActionFetchCategory, StateTerminal)
	}
	return ts
}

func indexTransitions(ts []Transition) map[tableKey]Transition {
	m := make(map[tableKey]Transition, len(ts))
	for _, t := range ts {
		m[tableKey{t.From, t.Input}] = t
	}
	return m
}

// Transitions returns the full table in menu order.
func Transitions() []Transition {
	return append([]Transition(nil), transitions...)
}

// Lookup finds the transition for a state and normalized input.
func Lookup(s State, input string) (Transition, bool) {
	t, ok := table[tableKey{s, input}]
	return t, ok
}

// Vocabulary lists the inputs s accepts, in menu order.
func Vocabulary(s State) []string {
	var out []string
	for _, t := range transitions {
		if t.From == s {
			out = append(out, t.Input)
		}
	}
	return out
}
