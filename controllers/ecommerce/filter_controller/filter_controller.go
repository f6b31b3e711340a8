package filter_controller

import (
	"errors"
	"log"
	"net/http"

	"github.com/AngelinaFiera614/wrenchmark-sub010/middleware"
	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/AngelinaFiera614/wrenchmark-sub010/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var (
	metadataSource services.MetadataSource
	sessionService *services.FilterSessionService
)

// InitFilterControllers wires the services used by the handlers in this package
func InitFilterControllers(metadata services.MetadataSource, sessions *services.FilterSessionService) {
	metadataSource = metadata
	sessionService = sessions
}

// sessionParams resolves the caller and the :id path parameter
func sessionParams(c *gin.Context) (string, uuid.UUID, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Authorization required"))
		return "", uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid filter session ID"))
		return "", uuid.Nil, false
	}
	return userID, id, true
}

func respondSessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Filter session not found"))
	case errors.Is(err, services.ErrSessionForbidden):
		c.JSON(http.StatusForbidden, models.ErrorResponse(c, "Filter session belongs to another user"))
	case errors.Is(err, services.ErrSnapshotNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse(c, "Filter session has not been refreshed yet"))
	default:
		log.Printf("❌ filter session: %v", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse(c, "Failed to process filter session"))
	}
}
