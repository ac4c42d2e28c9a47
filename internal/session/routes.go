package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts read-only session endpoints under /api/sessions.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/sessions/{userID}", func(r chi.Router) {
		r.Get("/", handleGet(store))
		r.Get("/keyword", handleKeyword(store))
		r.Get("/turns", handleTurns(store))
		r.Get("/turns/{id}", handleTurnByID(store))
	})
}

func handleGet(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := store.Get(r.Context(), chi.URLParam(r, "userID"))
		if errors.Is(err, ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

func handleKeyword(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kw, ok, err := store.GetLastKeyword(r.Context(), chi.URLParam(r, "userID"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.Error(w, "no keyword", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"last_keyword": kw})
	}
}

func handleTurns(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		filter := TurnFilter{UserID: chi.URLParam(r, "userID")}

		if v := q.Get("since"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.Since = &t
			}
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Limit = n
			}
		}
		if v := q.Get("offset"); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				filter.Offset = n
			}
		}

		turns, err := store.Turns(r.Context(), filter)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, turns)
	}
}

func handleTurnByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		turn, err := store.TurnByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil || turn.UserID != chi.URLParam(r, "userID") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, turn)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
