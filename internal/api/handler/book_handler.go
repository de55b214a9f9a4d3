package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/internal/api/dto"
	"bookshelf/internal/api/repository"
	"bookshelf/internal/api/service"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler {
	return &BookHandler{svc: svc}
}

func (h *BookHandler) RegisterRoutes(rg *gin.RouterGroup, session gin.HandlerFunc) {
	// Public routes
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	// Mutations require a resolved session
	rg.POST("", session, h.Create)
	rg.PUT("/:id", session, h.Update)
	rg.DELETE("/:id", session, h.Delete)
}

func (h *BookHandler) List(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	page := 1
	limit := 10

	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	filter := repository.BookFilter{
		Genre:  c.Query("genre"),
		Search: c.Query("search"),
	}

	books, total, err := h.svc.List(ctx, page, limit, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	resp := make([]dto.BookResponse, 0, len(books))
	for _, b := range books {
		resp = append(resp, dto.FromModelToBookResponse(b))
	}

	c.JSON(http.StatusOK, dto.PaginatedBooksResponse{
		Books:       resp,
		CurrentPage: page,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		TotalBooks:  total,
	})
}

func (h *BookHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToBookResponse(*b))
}

func (h *BookHandler) Create(c *gin.Context) {
	var in dto.CreateBookDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	book := in.ToModel()
	if err := h.svc.Create(ctx, &book); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusCreated, dto.FromModelToBookResponse(book))
}

func (h *BookHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid book id"})
		return
	}

	var in dto.UpdateBookDTO
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	b, err := h.svc.Update(ctx, id, in)
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, dto.FromModelToBookResponse(*b))
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid book id"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Book not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Book deleted successfully"})
}
