package bootstrap

import (
	"github.com/cesariojr/ecommerce-microservices/internal/config"
	"github.com/cesariojr/ecommerce-microservices/internal/metrics"
	"github.com/cesariojr/ecommerce-microservices/internal/services"
	"github.com/cesariojr/ecommerce-microservices/internal/store"
	"github.com/cesariojr/ecommerce-microservices/internal/token"
)

// initializeServices wires the business services. All services share one
// token codec so access tokens verify identically everywhere.
func initializeServices(
	cfg *config.Config,
	db *store.Store,
	m metrics.Recorder,
) (
	*services.UserService,
	*services.AuthorizationService,
	*services.GrantService,
) {
	codec := token.NewCodec(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	userService := services.NewUserService(db, codec, cfg, m)
	authorizationService := services.NewAuthorizationService(db, cfg, m)
	grantService := services.NewGrantService(db, codec, cfg, m)

	return userService, authorizationService, grantService
}
