package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bookshelf/internal/api/models"
)

// BookFilter narrows a catalog listing. Zero values mean "no filter".
type BookFilter struct {
	Genre  string
	Search string
}

type BookRepository interface {
	List(ctx context.Context, page, pageSize int, filter BookFilter) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Save(ctx context.Context, b *models.Book) error
	Delete(ctx context.Context, id int64) error
	UpdateAggregate(ctx context.Context, id int64, average float64, count int64) error
}

type bookRepository struct {
	db *gorm.DB
}

func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

// List returns a page of books sorted by descending average rating, with the
// total count of records matching the filter. Search is a case-insensitive
// substring match on title or author.
func (r *bookRepository) List(ctx context.Context, page, pageSize int, filter BookFilter) ([]models.Book, int64, error) {
	var list []models.Book
	var total int64

	q := r.db.WithContext(ctx).Model(&models.Book{})
	if filter.Genre != "" {
		q = q.Where("genre = ?", filter.Genre)
	}
	if filter.Search != "" {
		p := "%" + filter.Search + "%"
		q = q.Where("title ILIKE ? OR author ILIKE ?", p, p)
	}

	// Count total records matching the filter
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize

	if err := q.
		Order("average_rating desc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}

	return list, total, nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	var b models.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookRepository) Create(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("create book: %w", err)
	}
	// GORM populates b.ID and b.CreatedAt
	return nil
}

func (r *bookRepository) Save(ctx context.Context, b *models.Book) error {
	if err := r.db.WithContext(ctx).Save(b).Error; err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	return nil
}

// Delete removes the book and, in the same transaction, every collection
// entry that references it. Dangling entries would otherwise survive with a
// missing book behind them.
func (r *bookRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("book_id = ?", id).Delete(&models.CollectionEntry{}).Error; err != nil {
			return fmt.Errorf("delete collection entries for book: %w", err)
		}

		result := tx.Delete(&models.Book{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete book: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// UpdateAggregate persists a freshly computed average rating and rating count
// onto the book row without touching any other column.
func (r *bookRepository) UpdateAggregate(ctx context.Context, id int64, average float64, count int64) error {
	if err := r.db.WithContext(ctx).
		Model(&models.Book{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"average_rating": average,
			"total_ratings":  count,
		}).Error; err != nil {
		return fmt.Errorf("update aggregate rating: %w", err)
	}
	return nil
}
