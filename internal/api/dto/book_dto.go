package dto

import (
	"time"

	"bookshelf/internal/api/models"
)

// CreateBookDTO used for POST /api/books
type CreateBookDTO struct {
	Title         string  `json:"title" binding:"required"`
	Author        string  `json:"author" binding:"required"`
	CoverImage    string  `json:"coverImage" binding:"required"`
	Description   *string `json:"description,omitempty"`
	PublishedYear *int    `json:"publishedYear,omitempty"`
	Pages         *int    `json:"pages,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Availability  *bool   `json:"availability,omitempty"`
}

// UpdateBookDTO used for PUT /api/books/:id (partial updates allowed)
type UpdateBookDTO struct {
	Title         *string `json:"title,omitempty"`
	Author        *string `json:"author,omitempty"`
	CoverImage    *string `json:"coverImage,omitempty"`
	Description   *string `json:"description,omitempty"`
	PublishedYear *int    `json:"publishedYear,omitempty"`
	Pages         *int    `json:"pages,omitempty"`
	Genre         *string `json:"genre,omitempty"`
	ISBN          *string `json:"isbn,omitempty"`
	Availability  *bool   `json:"availability,omitempty"`
}

// BookResponse DTO for responses
type BookResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	CoverImage    string    `json:"coverImage"`
	Description   *string   `json:"description,omitempty"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	Pages         *int      `json:"pages,omitempty"`
	Genre         *string   `json:"genre,omitempty"`
	ISBN          *string   `json:"isbn,omitempty"`
	AverageRating float64   `json:"averageRating"`
	TotalRatings  int64     `json:"totalRatings"`
	Availability  bool      `json:"availability"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PaginatedBooksResponse mirrors the wire shape the frontend pages through.
type PaginatedBooksResponse struct {
	Books       []BookResponse `json:"books"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int64          `json:"totalPages"`
	TotalBooks  int64          `json:"totalBooks"`
}

// Converters
func (d CreateBookDTO) ToModel() models.Book {
	b := models.Book{
		Title:         d.Title,
		Author:        d.Author,
		CoverImage:    d.CoverImage,
		Description:   d.Description,
		PublishedYear: d.PublishedYear,
		Pages:         d.Pages,
		Genre:         d.Genre,
		ISBN:          d.ISBN,
		Availability:  true,
	}
	if d.Availability != nil {
		b.Availability = *d.Availability
	}
	return b
}

func (d UpdateBookDTO) ApplyTo(b *models.Book) {
	if d.Title != nil {
		b.Title = *d.Title
	}
	if d.Author != nil {
		b.Author = *d.Author
	}
	if d.CoverImage != nil {
		b.CoverImage = *d.CoverImage
	}
	if d.Description != nil {
		b.Description = d.Description
	}
	if d.PublishedYear != nil {
		b.PublishedYear = d.PublishedYear
	}
	if d.Pages != nil {
		b.Pages = d.Pages
	}
	if d.Genre != nil {
		b.Genre = d.Genre
	}
	if d.ISBN != nil {
		b.ISBN = d.ISBN
	}
	if d.Availability != nil {
		b.Availability = *d.Availability
	}
}

func FromModelToBookResponse(b models.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		CoverImage:    b.CoverImage,
		Description:   b.Description,
		PublishedYear: b.PublishedYear,
		Pages:         b.Pages,
		Genre:         b.Genre,
		ISBN:          b.ISBN,
		AverageRating: b.AverageRating,
		TotalRatings:  b.TotalRatings,
		Availability:  b.Availability,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
