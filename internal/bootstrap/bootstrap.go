package bootstrap

import (
	"net/http"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/metrics"
	"github.com/cesariojr/ecommerce-microservices/internal/services"
	"github.com/cesariojr/ecommerce-microservices/internal/store"

	"github.com/gin-gonic/gin"
)

// Application holds all initialized components
type Application struct {
	Config *config.Config

	// Core infrastructure
	DB              *store.Store
	MetricsRecorder metrics.Recorder

	// Services
	UserService          *services.UserService
	AuthorizationService *services.AuthorizationService
	GrantService         *services.GrantService

	// HTTP
	HandlerSet handlerSet
	Router     *gin.Engine
	Server     *http.Server
}

// Run initializes and starts the application
func Run(cfg *config.Config) error {
	app := &Application{Config: cfg}

	// Phase 1: Initialize infrastructure
	if err := app.initializeInfrastructure(); err != nil {
		return err
	}

	// Phase 2: Initialize business layer
	app.initializeBusinessLayer()

	// Phase 3: Initialize HTTP layer
	app.initializeHTTPLayer()

	// Phase 4: Start server with graceful shutdown
	app.startWithGracefulShutdown()

	return nil
}

// initializeInfrastructure sets up database and metrics
func (app *Application) initializeInfrastructure() error {
	var err error

	app.DB, err = initializeDatabase(app.Config)
	if err != nil {
		return err
	}

	app.MetricsRecorder = metrics.Init(app.Config.MetricsEnabled)

	return nil
}

// initializeBusinessLayer sets up services
func (app *Application) initializeBusinessLayer() {
	app.UserService,
		app.AuthorizationService,
		app.GrantService = initializeServices(
		app.Config,
		app.DB,
		app.MetricsRecorder,
	)
}

// initializeHTTPLayer sets up handlers, router, and server
func (app *Application) initializeHTTPLayer() {
	app.HandlerSet = initializeHandlers(
		app.UserService,
		app.AuthorizationService,
		app.GrantService,
	)

	app.Router = setupRouter(
		app.Config,
		app.DB,
		app.HandlerSet,
		app.MetricsRecorder,
		app.GrantService,
	)

	app.Server = createHTTPServer(app.Config, app.Router)
}

// startWithGracefulShutdown starts the server and handles graceful shutdown
func (app *Application) startWithGracefulShutdown() {
	m := newGracefulManager()

	addServerRunningJob(m, app.Server)
	addServerShutdownJob(m, app.Server)
	addCredentialCleanupJob(m, app.Config, app.DB)
	addStoreShutdownJob(m, app.DB)

	<-m.Done()
}
