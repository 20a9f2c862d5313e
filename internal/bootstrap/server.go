package bootstrap

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/store"

	"github.com/appleboy/graceful"
)

func newGracefulManager() *graceful.Manager {
	return graceful.NewManager()
}

// createHTTPServer creates the HTTP server instance
func createHTTPServer(cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// addServerRunningJob adds the HTTP server running job
func addServerRunningJob(m *graceful.Manager, srv *http.Server) {
	m.AddRunningJob(func(ctx context.Context) error {
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("Failed to start server: %v", err)
			}
		}()
		<-ctx.Done()
		return nil
	})
}

// addServerShutdownJob adds HTTP server shutdown handler
func addServerShutdownJob(m *graceful.Manager, srv *http.Server) {
	m.AddShutdownJob(func() error {
		log.Println("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
			return err
		}

		log.Println("Server exited")
		return nil
	})
}

// addCredentialCleanupJob adds the periodic sweep of expired authorization
// codes and refresh tokens. Expiry is always enforced at redemption time;
// the sweep only keeps the tables from growing unbounded.
func addCredentialCleanupJob(m *graceful.Manager, cfg *config.Config, db *store.Store) {
	if cfg.CleanupInterval <= 0 {
		return
	}

	m.AddRunningJob(func(ctx context.Context) error {
		ticker := time.NewTicker(cfg.CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if deleted, err := db.DeleteExpiredCredentials(time.Now()); err != nil {
					log.Printf("Failed to clean up expired credentials: %v", err)
				} else if deleted > 0 {
					log.Printf("Cleaned up %d expired credentials", deleted)
				}
			case <-ctx.Done():
				return nil
			}
		}
	})
}

// addStoreShutdownJob closes the database on shutdown
func addStoreShutdownJob(m *graceful.Manager, db *store.Store) {
	m.AddShutdownJob(func() error {
		log.Println("Closing database...")
		return db.Close()
	})
}
