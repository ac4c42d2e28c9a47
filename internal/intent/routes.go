package intent

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Resolver is the part of Matcher the routes need.
type Resolver interface {
	Resolve(ctx context.Context, text string) Resolution
}

// ResolutionView is the JSON form of a Resolution.
type ResolutionView struct {
	Query       string  `json:"query"`
	Nearest     string  `json:"nearest,omitempty"`
	Distance    float64 `json:"distance"`
	Confident   bool    `json:"confident"`
	Unavailable bool    `json:"unavailable"`
	Reply       string  `json:"reply"`
	Error       string  `json:"error,omitempty"`
}

// View flattens r for display. Distance is zero when the match failed.
func (r Resolution) View(query string) ResolutionView {
	v := ResolutionView{
		Query:       query,
		Confident:   r.Confident,
		Unavailable: r.Unavailable,
		Reply:       r.Reply,
	}
	if r.Match.Available() {
		v.Nearest = r.Match.Phrase.Text
		v.Distance = r.Match.Distance
	} else if r.Match.Err != nil {
		v.Error = r.Match.Err.Error()
	}
	return v
}

// RegisterRoutes mounts the intent corpus endpoints under /api/intents.
func RegisterRoutes(r chi.Router, store *Store, resolver Resolver) {
	r.Route("/api/intents", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/match", handleMatch(resolver))
	})
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		phrases, err := store.List(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if phrases == nil {
			phrases = []Phrase{}
		}
		writeJSON(w, http.StatusOK, phrases)
	}
}

func handleMatch(resolver Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text := strings.TrimSpace(r.URL.Query().Get("text"))
		if text == "" {
			http.Error(w, "text is required", http.StatusBadRequest)
			return
		}
		res := resolver.Resolve(r.Context(), text)
		writeJSON(w, http.StatusOK, res.View(text))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
