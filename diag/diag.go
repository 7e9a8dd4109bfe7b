// Package diag is the read-only diagnostics HTTP surface: a status page
// reporting the façade's backend registry, live handle/callback counts,
// and simulator time. It never participates in simulation control flow —
// every handler only reads a Snapshot taken under the façade's own narrow
// lock.
package diag

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/sarchlab/gogpi/gpi"
)

// Server serves the diagnostics status page over HTTP.
type Server struct {
	facade *gpi.Facade
	http   *http.Server
}

// New builds a Server bound to addr, dispatching through facade. The
// server is not started until Start is called.
func New(facade *gpi.Facade, addr string) *Server {
	s := &Server{facade: facade}

	r := mux.NewRouter()
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start runs the status page on its own goroutine until ctx is canceled.
// Returns the listen error if one arrives within 50ms, otherwise nil; it
// does not confirm that the listener is accepting connections. Shutdown
// happens asynchronously when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = s.http.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-errCh:
		return err
	case <-time.After(50 * time.Millisecond):
		return nil
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.facade.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(snap)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
