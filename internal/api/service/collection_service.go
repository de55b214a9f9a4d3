package service

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"gorm.io/gorm"

	"bookshelf/internal/api/dto"
	"bookshelf/internal/api/models"
	"bookshelf/internal/api/repository"
	"bookshelf/internal/cache"
)

var (
	ErrAlreadyInCollection = errors.New("book already in collection")
	ErrEntryNotFound       = errors.New("book not found in collection")
	ErrInvalidStatus       = errors.New("invalid reading status")
)

// CollectionService owns the per-user collection rules: one entry per
// (user, book), ownership-scoped mutations, and the aggregate rating on the
// referenced book.
type CollectionService interface {
	Add(ctx context.Context, userID string, req dto.AddToCollectionRequest) (*models.CollectionEntry, error)
	ListForUser(ctx context.Context, userID, status string) ([]models.CollectionEntry, error)
	UpdateEntry(ctx context.Context, userID string, entryID int64, req dto.UpdateEntryRequest) (*models.CollectionEntry, error)
	RemoveEntry(ctx context.Context, userID string, entryID int64) error
}

type collectionService struct {
	repo     repository.CollectionRepository
	bookRepo repository.BookRepository
	cache    *cache.BookCache
	logger   *slog.Logger
}

func NewCollectionService(
	repo repository.CollectionRepository,
	bookRepo repository.BookRepository,
	bookCache *cache.BookCache,
	logger *slog.Logger,
) CollectionService {
	return &collectionService{
		repo:     repo,
		bookRepo: bookRepo,
		cache:    bookCache,
		logger:   logger,
	}
}

func (s *collectionService) Add(ctx context.Context, userID string, req dto.AddToCollectionRequest) (*models.CollectionEntry, error) {
	// The book must exist before anything else
	if _, err := s.bookRepo.GetByID(ctx, req.BookID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}

	// Cheap pre-check; the unique index on (user_id, book_id) is what
	// actually guarantees it under concurrent adds
	exists, err := s.repo.Exists(ctx, userID, req.BookID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyInCollection
	}

	entry := &models.CollectionEntry{
		UserID: userID,
		BookID: req.BookID,
		Status: models.StatusWantToRead,
		Rating: req.Rating,
	}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		entry.Status = *req.Status
	}
	if req.Review != nil {
		entry.Review = *req.Review
	}
	if req.Notes != nil {
		entry.Notes = *req.Notes
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrAlreadyInCollection
		}
		return nil, err
	}

	if req.Rating != nil {
		s.recomputeAggregate(ctx, req.BookID)
	}

	// Reload with the book joined so the response can be flattened
	return s.repo.GetByIDAndUser(ctx, entry.ID, userID)
}

func (s *collectionService) ListForUser(ctx context.Context, userID, status string) ([]models.CollectionEntry, error) {
	return s.repo.ListByUser(ctx, userID, status)
}

func (s *collectionService) UpdateEntry(ctx context.Context, userID string, entryID int64, req dto.UpdateEntryRequest) (*models.CollectionEntry, error) {
	// Scoped by (id, user_id): another user's entry misses the same way a
	// nonexistent one does, so existence never leaks across users
	entry, err := s.repo.GetByIDAndUser(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	fields := map[string]any{}
	if req.Status != nil {
		if !models.ValidStatus(*req.Status) {
			return nil, ErrInvalidStatus
		}
		fields["status"] = *req.Status

		// Date stamps fire once per entry and never overwrite
		now := time.Now()
		if *req.Status == models.StatusCurrentlyReading && entry.StartDate == nil {
			fields["start_date"] = now
		}
		if *req.Status == models.StatusRead && entry.FinishDate == nil {
			fields["finish_date"] = now
		}
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Review != nil {
		fields["review"] = *req.Review
	}
	if req.Notes != nil {
		fields["notes"] = *req.Notes
	}

	if len(fields) == 0 {
		return entry, nil
	}

	updated, err := s.repo.Update(ctx, entryID, userID, fields)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}

	if req.Rating != nil {
		s.recomputeAggregate(ctx, entry.BookID)
		// re-read so the flattened response carries the fresh aggregate
		if fresh, err := s.repo.GetByIDAndUser(ctx, entryID, userID); err == nil {
			updated = fresh
		}
	}

	return updated, nil
}

func (s *collectionService) RemoveEntry(ctx context.Context, userID string, entryID int64) error {
	entry, err := s.repo.GetByIDAndUser(ctx, entryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	if err := s.repo.Delete(ctx, entryID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEntryNotFound
		}
		return err
	}

	if entry.Rating != nil {
		s.recomputeAggregate(ctx, entry.BookID)
	}

	return nil
}

// recomputeAggregate rebuilds the book's average rating from every non-null
// rating currently referencing it and persists the result rounded to one
// decimal. Always a full recompute, never an incremental adjustment: each
// run is idempotent over current state, so concurrent rating changes settle
// on whichever recomputation lands last instead of drifting.
func (s *collectionService) recomputeAggregate(ctx context.Context, bookID int64) {
	avg, count, err := s.repo.AggregateForBook(ctx, bookID)
	if err != nil {
		s.logger.Warn("failed to compute aggregate rating", "book_id", bookID, "error", err)
		return
	}

	rounded := math.Round(avg*10) / 10

	if err := s.bookRepo.UpdateAggregate(ctx, bookID, rounded, count); err != nil {
		s.logger.Warn("failed to persist aggregate rating", "book_id", bookID, "error", err)
		return
	}

	if err := s.cache.Invalidate(ctx, bookID); err != nil {
		s.logger.Warn("failed to invalidate book cache", "book_id", bookID, "error", err)
	}
}
