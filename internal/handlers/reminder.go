package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowist/glowist-backend/internal/services"
)

type ReminderHandler struct {
	reminderService services.ReminderService
}

func NewReminderHandler(reminderService services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: reminderService}
}

// GetAll returns both routine-type settings, filling defaults for types the
// user never configured.
func (rh *ReminderHandler) GetAll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	settings, err := rh.reminderService.GetAll(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "load_reminders_failed", err)
		return
	}
	RespondOK(c, settings)
}

// Set toggles the reminder for :type. Enabled requests carry the time to
// schedule; disabled ones keep the stored time for the next enable.
func (rh *ReminderHandler) Set(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	var req struct {
		Enabled bool `json:"enabled"`
		Hour    int  `json:"hour"`
		Minute  int  `json:"minute"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	routineType := c.Param("type")

	var err error
	var setting any
	if req.Enabled {
		setting, err = rh.reminderService.Enable(c.Request.Context(), userID, routineType, req.Hour, req.Minute)
	} else {
		setting, err = rh.reminderService.Disable(c.Request.Context(), userID, routineType)
	}
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPermissionDenied):
			RespondError(c, http.StatusConflict, "notifications_not_permitted", err)
		case errors.Is(err, services.ErrInvalidRoutineType):
			RespondError(c, http.StatusBadRequest, "invalid_routine_type", err)
		default:
			RespondError(c, http.StatusBadRequest, "save_reminder_failed", err)
		}
		return
	}
	RespondOK(c, setting)
}

// Adjust shifts the reminder hour or minute by a signed delta with wraparound.
func (rh *ReminderHandler) Adjust(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	var req struct {
		Field string `json:"field"`
		Delta int    `json:"delta"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	setting, err := rh.reminderService.AdjustTime(c.Request.Context(), userID, c.Param("type"), req.Field, req.Delta)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPermissionDenied):
			RespondError(c, http.StatusConflict, "notifications_not_permitted", err)
		case errors.Is(err, services.ErrInvalidRoutineType):
			RespondError(c, http.StatusBadRequest, "invalid_routine_type", err)
		default:
			RespondError(c, http.StatusBadRequest, "adjust_reminder_failed", err)
		}
		return
	}
	RespondOK(c, setting)
}

// Sync reconciles schedules with the settings table, called by the client
// after login or app start.
func (rh *ReminderHandler) Sync(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	if err := rh.reminderService.SyncAll(c.Request.Context(), userID); err != nil {
		RespondError(c, http.StatusInternalServerError, "sync_reminders_failed", err)
		return
	}
	RespondOK(c, gin.H{"synced": true})
}
