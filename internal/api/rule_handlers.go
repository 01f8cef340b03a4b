package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"

	easyscalev1 "github.com/migalsp/easyscale-operator/api/v1"
)

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		var list easyscalev1.ScalingRuleList
		if err := s.Client.List(ctx, &list); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(list.Items)

	case http.MethodPost:
		var rule easyscalev1.ScalingRule
		if err := json.NewDecoder(r.Body).Decode(&rule); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if rule.Namespace == "" {
			rule.Namespace = "default"
		}
		if err := s.Client.Create(ctx, &rule); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rule)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRuleActions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Expected path: /api/rules/{namespace}/{name}
	parts := strings.Split(r.URL.Path, "/")
	if len(parts) < 5 {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	namespace := parts[3]
	name := parts[4]

	rule := &easyscalev1.ScalingRule{}
	if err := s.Client.Get(ctx, client.ObjectKey{Name: name, Namespace: namespace}, rule); err != nil {
		if errors.IsNotFound(err) {
			http.Error(w, "Rule not found", http.StatusNotFound)
		} else {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rule)

	case http.MethodPut:
		var updated easyscalev1.ScalingRule
		if err := json.NewDecoder(r.Body).Decode(&updated); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
			current := &easyscalev1.ScalingRule{}
			if err := s.Client.Get(ctx, client.ObjectKey{Name: name, Namespace: namespace}, current); err != nil {
				return err
			}
			current.Spec = updated.Spec
			return s.Client.Update(ctx, current)
		})

		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(updated)

	case http.MethodDelete:
		if err := s.Client.Delete(ctx, rule); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
