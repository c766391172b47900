package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glowist/glowist-backend/internal/services"
)

type RoutineHandler struct {
	routineService services.RoutineService
	logService     services.RoutineLogService
}

func NewRoutineHandler(routineService services.RoutineService, logService services.RoutineLogService) *RoutineHandler {
	return &RoutineHandler{
		routineService: routineService,
		logService:     logService,
	}
}

// GetRoutine returns the user's routine for :type, creating an empty one on
// first access.
func (rh *RoutineHandler) GetRoutine(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	routine, err := rh.routineService.GetOrCreate(c.Request.Context(), userID, c.Param("type"))
	if err != nil {
		if errors.Is(err, services.ErrInvalidRoutineType) {
			RespondError(c, http.StatusBadRequest, "invalid_routine_type", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "load_routine_failed", err)
		return
	}
	RespondOK(c, routine)
}

func (rh *RoutineHandler) AddStep(c *gin.Context) {
	routineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	var input services.StepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	routine, err := rh.routineService.AddStep(c.Request.Context(), routineID, input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "routine_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "add_step_failed", err)
		return
	}
	RespondOK(c, routine)
}

func (rh *RoutineHandler) UpdateStep(c *gin.Context) {
	routineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	var patch services.StepPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	routine, err := rh.routineService.UpdateStep(c.Request.Context(), routineID, c.Param("stepId"), patch)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "routine_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "update_step_failed", err)
		return
	}
	if routine == nil {
		// Unknown step id is not an error, nothing changed.
		RespondOK(c, gin.H{"updated": false})
		return
	}
	RespondOK(c, routine)
}

func (rh *RoutineHandler) RemoveStep(c *gin.Context) {
	routineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	routine, err := rh.routineService.RemoveStep(c.Request.Context(), routineID, c.Param("stepId"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "routine_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "remove_step_failed", err)
		return
	}
	RespondOK(c, routine)
}

func (rh *RoutineHandler) ReorderSteps(c *gin.Context) {
	routineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	var req struct {
		OrderedIDs []string `json:"ordered_ids"`
		Strict     bool     `json:"strict"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	routine, err := rh.routineService.ReorderSteps(c.Request.Context(), routineID, req.OrderedIDs, req.Strict)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncompleteOrder):
			RespondError(c, http.StatusBadRequest, "incomplete_order", err)
		case errors.Is(err, services.ErrNotFound):
			RespondError(c, http.StatusNotFound, "routine_not_found", err)
		default:
			RespondError(c, http.StatusInternalServerError, "reorder_failed", err)
		}
		return
	}
	RespondOK(c, routine)
}

// GetLog returns the completed step ids for ?day (defaults to today). Reads
// never fail, a broken log renders as an unchecked list.
func (rh *RoutineHandler) GetLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	routineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	completed := rh.logService.Completed(c.Request.Context(), userID, routineID, c.Query("day"))
	RespondOK(c, gin.H{"completed_step_ids": completed})
}

func (rh *RoutineHandler) SetLog(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	routineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_routine_id", err)
		return
	}
	var req struct {
		Day              string   `json:"day"`
		CompletedStepIDs []string `json:"completed_step_ids"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if err := rh.logService.SetCompleted(c.Request.Context(), userID, routineID, req.Day, req.CompletedStepIDs); err != nil {
		RespondError(c, http.StatusBadRequest, "save_log_failed", err)
		return
	}
	RespondOK(c, gin.H{"saved": true})
}
