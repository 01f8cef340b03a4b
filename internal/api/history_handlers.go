package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/migalsp/easyscale-operator/internal/schedule"
	"github.com/migalsp/easyscale-operator/internal/state"
)

type historyEntry struct {
	Timestamp        time.Time `json:"timestamp"`
	Kind             string    `json:"kind"`
	Namespace        string    `json:"namespace"`
	Name             string    `json:"name"`
	WindowName       string    `json:"windowName,omitempty"`
	PreviousReplicas int32     `json:"previousReplicas"`
	DesiredReplicas  int32     `json:"desiredReplicas"`
	Reason           string    `json:"reason"`
	Success          bool      `json:"success"`
	Error            string    `json:"error,omitempty"`
}

// handleHistory serves GET /api/history with optional namespace, name,
// kind and limit query parameters.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	filter := state.Filter{
		Namespace: q.Get("namespace"),
		Name:      q.Get("name"),
		Kind:      schedule.Kind(q.Get("kind")),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "Invalid limit", http.StatusBadRequest)
			return
		}
		filter.Limit = limit
	}

	records := s.Store.History(filter)
	entries := make([]historyEntry, 0, len(records))
	for _, rec := range records {
		entries = append(entries, historyEntry{
			Timestamp:        rec.Timestamp,
			Kind:             string(rec.Identity.Kind),
			Namespace:        rec.Identity.Namespace,
			Name:             rec.Identity.Name,
			WindowName:       rec.WindowName,
			PreviousReplicas: rec.PreviousReplicas,
			DesiredReplicas:  rec.DesiredReplicas,
			Reason:           rec.Reason,
			Success:          rec.Success,
			Error:            rec.Error,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entries)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}
