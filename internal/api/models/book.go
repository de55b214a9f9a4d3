package models

import "time"

type Book struct {
	ID            int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title         string    `json:"title" gorm:"not null"`
	Author        string    `json:"author" gorm:"not null"`
	Description   *string   `json:"description,omitempty"`
	CoverImage    string    `json:"coverImage" gorm:"not null"`
	PublishedYear *int      `json:"publishedYear,omitempty"`
	Pages         *int      `json:"pages,omitempty"`
	Genre         *string   `json:"genre,omitempty"`
	ISBN          *string   `json:"isbn,omitempty" gorm:"column:isbn"`
	AverageRating float64   `json:"averageRating" gorm:"type:decimal(2,1);default:0"`
	TotalRatings  int64     `json:"totalRatings" gorm:"default:0"`
	Availability  bool      `json:"availability" gorm:"default:true"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Book) TableName() string {
	return "books"
}
