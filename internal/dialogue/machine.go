package dialogue

import (
	"github.com/shopassist/shopassist/internal/catalog"
	"github.com/shopassist/shopassist/internal/intent"
)

// Position is a user's stored place in the flow.
type Position struct {
	State      State
	PendingURL string
}

// Decision is the outcome of one turn.
type Decision struct {
	From  State
	To    State
	Input string

	// Action is empty when no table row fired.
	Action Action
	// Advanced is set when the slot state moved forward.
	Advanced bool
	// Restarted is set when a confident intent match reset an active flow.
	Restarted bool

	Text     string
	Choices  []Choice
	FetchURL string

	// PendingURL is the in-progress catalog query to store for the user.
	PendingURL string
}

// Fetch reports whether the turn ends with a catalog retrieval.
func (d Decision) Fetch() bool { return d.FetchURL != "" }

// Keyword returns the last keyword to store: the input when the
// dialogue advanced, prior otherwise.
func (d Decision) Keyword(prior string) string {
	if d.Advanced {
		return d.Input
	}
	return prior
}

// Machine runs the product search flow. It holds no per-user state and
// is safe for concurrent use.
type Machine struct{}

func NewMachine() *Machine { return &Machine{} }

// Step decides the next move for a message. It is pure: the same
// position, text and resolution always produce the same decision.
func (m *Machine) Step(pos Position, text string, res intent.Resolution) Decision {
	pos = sanitize(pos)
	input := Normalize(text)
	d := Decision{
		From:       pos.State,
		To:         pos.State,
		Input:      input,
		PendingURL: pos.PendingURL,
	}

	if t, ok := Lookup(pos.State, input); ok && accepts(t, pos) {
		return apply(t, pos, d)
	}
	return fallback(pos, res, d)
}

// sanitize drops positions that cannot continue, such as a gender
// state without a matching pending query.
func sanitize(pos Position) Position {
	pos.State = pos.State.Stored()
	switch pos.State {
	case StateAwaitingGenderForStyle:
		if _, ok := catalog.StyleOf(pos.PendingURL); ok {
			return pos
		}
	case StateAwaitingGenderDirect:
		if _, ok := catalog.CategoryOf(pos.PendingURL); ok {
			return pos
		}
	default:
		pos.PendingURL = ""
		return pos
	}
	return Position{State: StateInitial}
}

func accepts(t Transition, pos Position) bool {
	if t.Action != ActionFetchCategory {
		return true
	}
	category, _ := catalog.CategoryOf(pos.PendingURL)
	for _, g := range catalog.CategoryGenders(category) {
		if g == t.Input {
			return true
		}
	}
	return false
}

func apply(t Transition, pos Position, d Decision) Decision {
	d.Action = t.Action
	d.To = t.To
	d.Advanced = true

	switch t.Action {
	case ActionAskStyle:
		d.PendingURL = ""
		d = withMenu(d, StyleMenu())

	case ActionAskCategoryGender:
		q, _ := catalog.CategoryQuery(t.Input)
		d.PendingURL = q.BaseURL
		d = withMenu(d, CategoryGenderMenu(t.Input))

	case ActionAskStyleGender:
		q, _ := catalog.StyleQuery(t.Input)
		d.PendingURL = q.BaseURL
		d = withMenu(d, StyleGenderMenu())

	case ActionFetchStyle:
		q, _ := catalog.Query{BaseURL: pos.PendingURL}.WithStyleGender(t.Input)
		d.FetchURL = q.URL()
		d.PendingURL = ""
		d.Text = ProductsIntro

	case ActionFetchCategory:
		q, _ := catalog.Query{BaseURL: pos.PendingURL}.WithCategoryGender(t.Input)
		d.FetchURL = q.URL()
		d.PendingURL = ""
		d.Text = ProductsIntro
	}
	return d
}

func fallback(pos Position, res intent.Resolution, d Decision) Decision {
	if res.Confident {
		d.Text = res.Reply
		d.Choices = CategoryMenu().Choices
		d.To = StateAwaitingCategory
		d.PendingURL = ""
		if pos.State == StateInitial {
			d.Advanced = true
		} else {
			d.Restarted = true
		}
		return d
	}

	d.Text = res.Reply
	if d.Text == "" {
		d.Text = intent.FallbackReply
	}
	// Initial has no menu of its own. Offer the category menu so a
	// choice left over from a finished search still leads somewhere.
	if pos.State == StateInitial {
		d.Choices = CategoryMenu().Choices
		d.To = StateAwaitingCategory
		return d
	}
	if menu, ok := MenuFor(pos); ok {
		d.Choices = menu.Choices
	}
	return d
}

// MenuFor returns the menu a position is waiting on.
func MenuFor(pos Position) (Menu, bool) {
	switch pos.State {
	case StateAwaitingCategory:
		return CategoryMenu(), true
	case StateAwaitingStyle:
		return StyleMenu(), true
	case StateAwaitingGenderForStyle:
		return StyleGenderMenu(), true
	case StateAwaitingGenderDirect:
		if c, ok := catalog.CategoryOf(pos.PendingURL); ok {
			return CategoryGenderMenu(c), true
		}
	}
	return Menu{}, false
}

func withMenu(d Decision, m Menu) Decision {
	d.Text = m.Prompt
	d.Choices = m.Choices
	return d
}
