// Package server initializes and runs the portal application: configuration,
// storage, services, and the HTTP server with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dkoval/companyportal/internal/logging"
	"github.com/dkoval/companyportal/internal/server/config"
	"github.com/dkoval/companyportal/internal/server/httpapi"
	"github.com/dkoval/companyportal/internal/server/repositories/repomanager"
	"github.com/dkoval/companyportal/internal/server/services"
	"github.com/dkoval/companyportal/internal/server/session"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	authService     *services.AuthService
	employeeService *services.EmployeeService
	sessions        session.Store
}

func NewApp(c *config.Config) (*App, error) {

	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	rm, err := repomanager.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	as := services.NewAuthService(rm.Users(), c)
	es := services.NewEmployeeService(rm.Employees())

	return &App{
		config:          c,
		logger:          logger,
		authService:     as,
		employeeService: es,
		sessions:        session.NewMemoryStore(),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.authService, app.employeeService, app.sessions, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
