package filter_controller

import (
	"net/http"

	"github.com/AngelinaFiera614/wrenchmark-sub010/middleware"
	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/gin-gonic/gin"
)

// CreateFilterSession godoc
// @Summary Open a filter session
// @Description Opens a filter session seeded with the given filters (empty body = no filters)
// @Tags store
// @Accept json
// @Produce json
// @Param body body models.MotorcycleFilters false "Initial filters"
// @Success 201 {object} models.ApiResponse{data=models.FilterSessionResponse}
// @Failure 400 {object} models.ApiResponse
// @Failure 401 {object} models.ApiResponse
// @Router /store/filter-sessions [post]
func CreateFilterSession(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse(c, "Authorization required"))
		return
	}

	var initial models.MotorcycleFilters
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&initial); err != nil {
			c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid filters: "+err.Error()))
			return
		}
	}

	session, err := sessionService.Create(c.Request.Context(), userID, initial)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.SuccessResponse(c, "Filter session created", session))
}

// GetFilterSession godoc
// @Summary Get a filter session
// @Tags store
// @Produce json
// @Param id path string true "Filter session ID"
// @Success 200 {object} models.ApiResponse{data=models.FilterSessionResponse}
// @Failure 403 {object} models.ApiResponse
// @Failure 404 {object} models.ApiResponse
// @Router /store/filter-sessions/{id} [get]
func GetFilterSession(c *gin.Context) {
	userID, id, ok := sessionParams(c)
	if !ok {
		return
	}

	session, err := sessionService.Get(userID, id)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filter session fetched", session))
}

// UpdateFilterSession godoc
// @Summary Replace the filters of a session
// @Description Replaces the whole filter selection and schedules a debounced refresh
// @Tags store
// @Accept json
// @Produce json
// @Param id path string true "Filter session ID"
// @Param body body models.MotorcycleFilters true "Complete filter selection"
// @Success 200 {object} models.ApiResponse{data=models.FilterSessionResponse}
// @Failure 400 {object} models.ApiResponse
// @Failure 404 {object} models.ApiResponse
// @Router /store/filter-sessions/{id} [put]
func UpdateFilterSession(c *gin.Context) {
	userID, id, ok := sessionParams(c)
	if !ok {
		return
	}

	var next models.MotorcycleFilters
	if err := c.ShouldBindJSON(&next); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse(c, "Invalid filters: "+err.Error()))
		return
	}

	session, err := sessionService.Update(userID, id, next)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filters updated", session))
}

// ResetFilterSession godoc
// @Summary Clear every filter of a session
// @Tags store
// @Produce json
// @Param id path string true "Filter session ID"
// @Success 200 {object} models.ApiResponse{data=models.FilterSessionResponse}
// @Failure 404 {object} models.ApiResponse
// @Router /store/filter-sessions/{id}/reset [post]
func ResetFilterSession(c *gin.Context) {
	userID, id, ok := sessionParams(c)
	if !ok {
		return
	}

	session, err := sessionService.Reset(userID, id)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filters reset", session))
}

// GetFilterSnapshot godoc
// @Summary Get the latest refresh of a session
// @Tags store
// @Produce json
// @Param id path string true "Filter session ID"
// @Success 200 {object} models.ApiResponse{data=models.FilterSnapshot}
// @Failure 404 {object} models.ApiResponse
// @Router /store/filter-sessions/{id}/snapshot [get]
func GetFilterSnapshot(c *gin.Context) {
	userID, id, ok := sessionParams(c)
	if !ok {
		return
	}

	snapshot, err := sessionService.Snapshot(c.Request.Context(), userID, id)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filter snapshot fetched", snapshot))
}

// DeleteFilterSession godoc
// @Summary Close a filter session
// @Description Closes the session; a refresh still pending is cancelled
// @Tags store
// @Produce json
// @Param id path string true "Filter session ID"
// @Success 200 {object} models.ApiResponse
// @Failure 404 {object} models.ApiResponse
// @Router /store/filter-sessions/{id} [delete]
func DeleteFilterSession(c *gin.Context) {
	userID, id, ok := sessionParams(c)
	if !ok {
		return
	}

	if err := sessionService.Close(c.Request.Context(), userID, id); err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Filter session closed", nil))
}
