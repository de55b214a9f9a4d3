package models

import "time"

// Reading statuses, wire values kept identical to what the frontend sends.
const (
	StatusWantToRead       = "Want to Read"
	StatusCurrentlyReading = "Currently Reading"
	StatusRead             = "Read"
)

// ValidStatus reports whether s is one of the known reading statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusWantToRead, StatusCurrentlyReading, StatusRead:
		return true
	}
	return false
}

// CollectionEntry is a user's personal record for one book. The composite
// unique index on (user_id, book_id) is the storage-level guarantee that a
// user holds at most one entry per book; the service-level existence check
// is only an optimization on top of it.
type CollectionEntry struct {
	ID         int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID     string     `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_book"`
	BookID     int64      `json:"book_id" gorm:"not null;uniqueIndex:idx_user_book"`
	Status     string     `json:"status" gorm:"not null;default:'Want to Read'"`
	Rating     *int       `json:"rating,omitempty" gorm:"check:rating >= 1 AND rating <= 5"`
	Review     string     `json:"review,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	StartDate  *time.Time `json:"startDate,omitempty"`
	FinishDate *time.Time `json:"finishDate,omitempty"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Book *Book `json:"book,omitempty" gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE;"`
}

func (CollectionEntry) TableName() string {
	return "collection_entries"
}
