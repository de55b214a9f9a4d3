package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookshelf/internal/api/models"
)

type CollectionRepository interface {
	Create(ctx context.Context, entry *models.CollectionEntry) error
	ListByUser(ctx context.Context, userID, status string) ([]models.CollectionEntry, error)
	GetByIDAndUser(ctx context.Context, id int64, userID string) (*models.CollectionEntry, error)
	Update(ctx context.Context, id int64, userID string, fields map[string]any) (*models.CollectionEntry, error)
	Delete(ctx context.Context, id int64, userID string) error
	Exists(ctx context.Context, userID string, bookID int64) (bool, error)
	AggregateForBook(ctx context.Context, bookID int64) (average float64, count int64, err error)
}

type collectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) CollectionRepository {
	return &collectionRepository{db: db}
}

func (r *collectionRepository) Create(ctx context.Context, entry *models.CollectionEntry) error {
	// Unique-violation on (user_id, book_id) surfaces here; the service
	// translates it. Returned as-is so the pg error code stays inspectable.
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *collectionRepository) ListByUser(ctx context.Context, userID, status string) ([]models.CollectionEntry, error) {
	var entries []models.CollectionEntry

	q := r.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	if err := q.Order("updated_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list collection: %w", err)
	}
	return entries, nil
}

// GetByIDAndUser scopes the lookup to the owning user. A foreign user's
// entry id misses here exactly like a nonexistent one, so ownership never
// leaks through the error.
func (r *collectionRepository) GetByIDAndUser(ctx context.Context, id int64, userID string) (*models.CollectionEntry, error) {
	var entry models.CollectionEntry
	if err := r.db.WithContext(ctx).
		Preload("Book").
		Where("id = ? AND user_id = ?", id, userID).
		First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *collectionRepository) Update(ctx context.Context, id int64, userID string, fields map[string]any) (*models.CollectionEntry, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CollectionEntry{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(fields)
	if result.Error != nil {
		return nil, fmt.Errorf("update collection entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return r.GetByIDAndUser(ctx, id, userID)
}

func (r *collectionRepository) Delete(ctx context.Context, id int64, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CollectionEntry{})
	if result.Error != nil {
		return fmt.Errorf("delete collection entry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *collectionRepository) Exists(ctx context.Context, userID string, bookID int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CollectionEntry{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AggregateForBook computes the mean and count over every non-null rating
// referencing the book, across all users. Always derived from full current
// state so concurrent recomputations converge instead of drifting.
func (r *collectionRepository) AggregateForBook(ctx context.Context, bookID int64) (float64, int64, error) {
	var agg struct {
		Average float64
		Count   int64
	}

	err := r.db.WithContext(ctx).
		Model(&models.CollectionEntry{}).
		Select("COALESCE(AVG(rating), 0) as average, COUNT(rating) as count").
		Where("book_id = ? AND rating IS NOT NULL", bookID).
		Scan(&agg).Error
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate ratings: %w", err)
	}

	return agg.Average, agg.Count, nil
}
