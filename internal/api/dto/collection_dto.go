package dto

import (
	"time"

	"bookshelf/internal/api/models"
)

// AddToCollectionRequest: payload to add a book to the caller's collection
type AddToCollectionRequest struct {
	BookID int64   `json:"bookId" binding:"required"`
	Status *string `json:"status,omitempty"`
	Rating *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Review *string `json:"review,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// UpdateEntryRequest: partial update of an owned collection entry.
// Absent fields are left untouched.
type UpdateEntryRequest struct {
	Status *string `json:"status,omitempty"`
	Rating *int    `json:"rating,omitempty" binding:"omitempty,min=1,max=5"`
	Review *string `json:"review,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// CollectionEntryResponse flattens the entry with the referenced book's
// title/author/cover/average rating at the same level, matching what the
// frontend binds its cards to.
type CollectionEntryResponse struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"bookId"`
	Status     string     `json:"status"`
	Rating     *int       `json:"rating,omitempty"`
	Review     string     `json:"review,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	FinishDate *time.Time `json:"finishDate,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	// joined from the referenced book
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	CoverImage    string  `json:"coverImage"`
	AverageRating float64 `json:"averageRating"`
}

func FromEntryToResponse(e models.CollectionEntry) CollectionEntryResponse {
	resp := CollectionEntryResponse{
		ID:         e.ID,
		BookID:     e.BookID,
		Status:     e.Status,
		Rating:     e.Rating,
		Review:     e.Review,
		Notes:      e.Notes,
		StartDate:  e.StartDate,
		FinishDate: e.FinishDate,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.Book != nil {
		resp.Title = e.Book.Title
		resp.Author = e.Book.Author
		resp.CoverImage = e.Book.CoverImage
		resp.AverageRating = e.Book.AverageRating
	}
	return resp
}
