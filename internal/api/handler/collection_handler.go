package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/api/dto"
	"bookshelf/internal/api/service"
)

type CollectionHandler struct {
	svc service.CollectionService
}

func NewCollectionHandler(svc service.CollectionService) *CollectionHandler {
	return &CollectionHandler{svc: svc}
}

// RegisterRoutes mounts /api/mybooks. All routes require a session; PUT and
// PATCH are both accepted for entry updates.
func (h *CollectionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Add)
	rg.PUT("/:id", h.Update)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Remove)
}

func (h *CollectionHandler) List(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entries, err := h.svc.ListForUser(ctx, userID, c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	resp := make([]dto.CollectionEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, dto.FromEntryToResponse(e))
	}

	c.JSON(http.StatusOK, resp)
}

func (h *CollectionHandler) Add(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	var req dto.AddToCollectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.svc.Add(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBookNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
		case errors.Is(err, service.ErrAlreadyInCollection):
			c.JSON(http.StatusConflict, gin.H{"message": "Book already in collection"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reading status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.FromEntryToResponse(*entry))
}

func (h *CollectionHandler) Update(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	entryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid entry id"})
		return
	}

	var req dto.UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	entry, err := h.svc.UpdateEntry(ctx, userID, entryID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEntryNotFound):
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found in collection"})
		case errors.Is(err, service.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid reading status"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.FromEntryToResponse(*entry))
}

func (h *CollectionHandler) Remove(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
		return
	}

	entryID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid entry id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.RemoveEntry(ctx, userID, entryID); err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found in collection"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book removed from collection"})
}
