package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glowist/glowist-backend/internal/requestdata"
	"github.com/glowist/glowist-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// currentUserID pulls the authenticated user id that RequireAuth placed on
// the request context.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, false
	}
	return rd.UserID, true
}

func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "user_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "load_user_failed", err)
		return
	}
	user.Password = ""
	RespondOK(c, user)
}

// UploadAvatar accepts a multipart "avatar" file and replaces the stored
// avatar image.
func (uh *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "missing_avatar_file", err)
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_avatar_file", err)
		return
	}
	defer file.Close()
	raw, err := io.ReadAll(io.LimitReader(file, 5<<20))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "unreadable_avatar_file", err)
		return
	}
	user, err := uh.userService.UpdateAvatarImage(c.Request.Context(), userID, raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_avatar_failed", err)
		return
	}
	user.Password = ""
	RespondOK(c, user)
}

func (uh *UserHandler) RegisterDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	var req struct {
		Platform string `json:"platform"`
		Token    string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	device, err := uh.userService.RegisterDevice(c.Request.Context(), userID, req.Platform, req.Token)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "register_device_failed", err)
		return
	}
	RespondOK(c, device)
}

func (uh *UserHandler) RemoveDevice(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	deviceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_device_id", err)
		return
	}
	if err := uh.userService.RemoveDevice(c.Request.Context(), userID, deviceID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "device_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "remove_device_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
