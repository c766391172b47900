package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glowist/glowist-backend/internal/services"
)

type ShelfHandler struct {
	shelfService services.ShelfService
}

func NewShelfHandler(shelfService services.ShelfService) *ShelfHandler {
	return &ShelfHandler{shelfService: shelfService}
}

// List returns the user's shelf, optionally filtered by ?status.
func (sh *ShelfHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	items, err := sh.shelfService.List(c.Request.Context(), userID, c.Query("status"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "load_shelf_failed", err)
		return
	}
	RespondOK(c, items)
}

func (sh *ShelfHandler) Add(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	var input services.ShelfAddInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := sh.shelfService.Add(c.Request.Context(), userID, input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "product_not_found", err)
			return
		}
		RespondError(c, http.StatusBadRequest, "add_shelf_item_failed", err)
		return
	}
	RespondOK(c, item)
}

func (sh *ShelfHandler) Update(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return
	}
	var patch services.ShelfPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	item, err := sh.shelfService.Update(c.Request.Context(), userID, itemID, patch)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "update_shelf_item_failed", err)
		return
	}
	if item == nil {
		RespondError(c, http.StatusNotFound, "shelf_item_not_found", errors.New("shelf item not found"))
		return
	}
	RespondOK(c, item)
}

func (sh *ShelfHandler) Remove(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		RespondError(c, http.StatusForbidden, "forbidden", errors.New("no authenticated user"))
		return
	}
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_item_id", err)
		return
	}
	if err := sh.shelfService.Remove(c.Request.Context(), userID, itemID); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RespondError(c, http.StatusNotFound, "shelf_item_not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "remove_shelf_item_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}
