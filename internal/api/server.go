package api

import (
	"context"
	"net/http"

	"sigs.k8s.io/controller-runtime/pkg/client"
	logf "sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/migalsp/easyscale-operator/internal/state"
)

// Version is set at build time via ldflags
var Version = "dev"

// Server exposes scaling rules and the in-memory operation history over
// a read-mostly JSON API. It implements manager.Runnable so the
// controller manager owns its lifecycle.
type Server struct {
	Client client.Client
	Store  *state.Store
	Port   string
}

func (s *Server) Start(ctx context.Context) error {
	log := logf.FromContext(ctx).WithName("api-server")

	mux := http.NewServeMux()

	mux.HandleFunc("/api/rules", s.handleRules)
	mux.HandleFunc("/api/rules/", s.handleRuleActions)
	mux.HandleFunc("/api/history", s.handleHistory)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/login", HandleLogin)
	mux.HandleFunc("/api/logout", HandleLogout)

	// Wrap with auth middleware
	handler := AuthMiddleware(mux)

	addr := ":" + s.Port
	if s.Port == "" {
		addr = ":8082"
	}

	server := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	log.Info("Starting API server", "addr", addr)

	go func() {
		<-ctx.Done()
		log.Info("Shutting down API server")
		server.Shutdown(context.Background())
	}()

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
