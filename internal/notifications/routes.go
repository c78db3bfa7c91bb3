package notifications

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// DefaultListLimit caps list responses when no limit is requested.
const DefaultListLimit = 50

// RegisterRoutes mounts notification endpoints under /api/notifications on the given router.
func RegisterRoutes(r chi.Router, store *Store, defaultLimit int) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultListLimit
	}
	r.Route("/api/notifications", func(r chi.Router) {
		r.Get("/", handleList(store, defaultLimit))
		r.Get("/{id}", handleGetByID(store))
	})
}

func handleList(store *Store, defaultLimit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := ListFilter{
			GuildID: q.Get("guild"),
			Limit:   defaultLimit,
		}

		if v := q.Get("level"); v != "" {
			filter.Level = Level(v)
			if !filter.Level.Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown level " + v})
				return
			}
		}
		if v := q.Get("since"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.Since = t
			}
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				filter.Limit = n
			}
		}

		notifications, err := store.List(r.Context(), filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, notifications)
	}
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		n, err := store.GetByID(r.Context(), id)
		if err != nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
			return
		}

		writeJSON(w, http.StatusOK, n)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
