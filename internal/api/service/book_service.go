package service

import (
	"context"
	"errors"
	"log/slog"

	"gorm.io/gorm"

	"bookshelf/internal/api/dto"
	"bookshelf/internal/api/models"
	"bookshelf/internal/api/repository"
	"bookshelf/internal/cache"
)

var ErrBookNotFound = errors.New("book not found")

type BookService interface {
	List(ctx context.Context, page, pageSize int, filter repository.BookFilter) ([]models.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Book, error)
	Create(ctx context.Context, b *models.Book) error
	Update(ctx context.Context, id int64, in dto.UpdateBookDTO) (*models.Book, error)
	Delete(ctx context.Context, id int64) error
}

type bookService struct {
	repo   repository.BookRepository
	cache  *cache.BookCache
	logger *slog.Logger
}

func NewBookService(repo repository.BookRepository, bookCache *cache.BookCache, logger *slog.Logger) BookService {
	return &bookService{
		repo:   repo,
		cache:  bookCache,
		logger: logger,
	}
}

func (s *bookService) List(ctx context.Context, page, pageSize int, filter repository.BookFilter) ([]models.Book, int64, error) {
	return s.repo.List(ctx, page, pageSize, filter)
}

func (s *bookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	if cached, err := s.cache.GetBook(ctx, id); err == nil {
		return cached, nil
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// best-effort, a cold cache just means the next read hits the DB again
	if err := s.cache.SetBook(ctx, b); err != nil {
		s.logger.Warn("failed to cache book", "book_id", id, "error", err)
	}

	return b, nil
}

func (s *bookService) Create(ctx context.Context, b *models.Book) error {
	return s.repo.Create(ctx, b)
}

func (s *bookService) Update(ctx context.Context, id int64, in dto.UpdateBookDTO) (*models.Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	in.ApplyTo(b)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate book cache", "book_id", id, "error", err)
	}

	return b, nil
}

// Delete removes the book and cascades to any collection entries that
// reference it, so no entry is ever left pointing at a missing book.
func (s *bookService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn("failed to invalidate book cache", "book_id", id, "error", err)
	}

	return nil
}
