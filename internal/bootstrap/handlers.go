package bootstrap

import (
	"github.com/cesariojr/ecommerce-microservices/internal/handlers"
	"github.com/cesariojr/ecommerce-microservices/internal/services"
)

// handlerSet groups all HTTP handlers
type handlerSet struct {
	auth          *handlers.AuthHandler
	authorization *handlers.AuthorizationHandler
	token         *handlers.TokenHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(
	userService *services.UserService,
	authorizationService *services.AuthorizationService,
	grantService *services.GrantService,
) handlerSet {
	return handlerSet{
		auth:          handlers.NewAuthHandler(userService, grantService),
		authorization: handlers.NewAuthorizationHandler(authorizationService),
		token:         handlers.NewTokenHandler(grantService),
	}
}
