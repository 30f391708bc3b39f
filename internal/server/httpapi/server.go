// Package httpapi exposes the portal over HTTP: authentication endpoints,
// the employee directory, and the role report.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/dkoval/companyportal/internal/logging"
	"github.com/dkoval/companyportal/internal/server/services"
	"github.com/dkoval/companyportal/internal/server/session"
)

type Server struct {
	address   string
	logger    logging.Logger
	auth      *services.AuthService
	employees *services.EmployeeService
	sessions  session.Store
	secretKey []byte
}

func NewServer(address string, l logging.Logger, as *services.AuthService, es *services.EmployeeService, sessions session.Store, secretKey string) *Server {
	return &Server{
		address:   address,
		logger:    l.With("module", "http_server"),
		auth:      as,
		employees: es,
		sessions:  sessions,
		secretKey: []byte(secretKey),
	}
}

// Handler builds the full middleware chain and route table.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/logout", s.handleLogout).Methods(http.MethodPost)
	r.HandleFunc("/api/me", s.handleMe).Methods(http.MethodGet)

	protected := r.PathPrefix("/api").Subrouter()
	protected.Use(s.requireAuthenticated)
	protected.HandleFunc("/employees", s.handleListEmployees).Methods(http.MethodGet)
	protected.HandleFunc("/employees", s.handleCreateEmployee).Methods(http.MethodPost)
	protected.HandleFunc("/employees/{id:[0-9]+}", s.handleGetEmployee).Methods(http.MethodGet)
	protected.HandleFunc("/employees/{id:[0-9]+}", s.handleUpdateEmployee).Methods(http.MethodPut)
	protected.HandleFunc("/employees/{id:[0-9]+}", s.handleDeleteEmployee).Methods(http.MethodDelete)
	protected.HandleFunc("/reports/roles", s.handleRoleReport).Methods(http.MethodGet)

	return s.withRecover(s.withRequestLog(s.withSession(r)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
