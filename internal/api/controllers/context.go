package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bloodline/internal/models/db_models"
	"bloodline/internal/services"
	"bloodline/pkg/middleware"
)

// currentActor rebuilds the authenticated identity from the JWT middleware's
// context keys. Returns false when the token claims are malformed, which
// should not happen behind the middleware.
func currentActor(c *gin.Context) (services.Actor, bool) {
	accountID, err := uuid.Parse(c.GetString(middleware.ContextAccountID))
	if err != nil {
		return services.Actor{}, false
	}
	return services.Actor{
		AccountID: accountID,
		Role:      db_models.Role(c.GetString(middleware.ContextRole)),
	}, true
}

func currentAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(middleware.ContextAccountID))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
