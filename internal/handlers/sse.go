package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/glowist/glowist-backend/internal/realtime"
	"github.com/glowist/glowist-backend/internal/sse"
)

type SSEHandler struct {
	hub *sse.SSEHub
}

func NewSSEHandler(hub *sse.SSEHub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream subscribes the caller to their personal event channel and holds the
// connection open until the client disconnects.
func (sh *SSEHandler) Stream(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	client := sh.hub.NewSSEClient(userID)
	sh.hub.AddChannel(client, realtime.UserChannel(userID.String()))
	defer sh.hub.CloseClient(client)

	sh.hub.ServeHTTP(c.Writer, c.Request, client)
}
