package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"bookshelf/internal/api/dto"
	"bookshelf/internal/api/models"
	"bookshelf/internal/cache"
)

func newTestBookService(repo *mockBookRepo) BookService {
	disabledCache, _ := cache.NewBookCache("", "", time.Minute)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewBookService(repo, disabledCache, logger)
}

func TestBookGetByID_NotFound(t *testing.T) {
	repo := new(mockBookRepo)
	svc := newTestBookService(repo)

	repo.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetByID(context.Background(), 404)
	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookUpdate_AppliesOnlyProvidedFields(t *testing.T) {
	repo := new(mockBookRepo)
	svc := newTestBookService(repo)

	existing := &models.Book{ID: 1, Title: "Old Title", Author: "Old Author", CoverImage: "old.jpg"}
	repo.On("GetByID", mock.Anything, int64(1)).Return(existing, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(b *models.Book) bool {
		return b.Title == "New Title" && b.Author == "Old Author" && b.CoverImage == "old.jpg"
	})).Return(nil)

	newTitle := "New Title"
	updated, err := svc.Update(context.Background(), 1, dto.UpdateBookDTO{Title: &newTitle})

	require.NoError(t, err)
	assert.Equal(t, "New Title", updated.Title)
	assert.Equal(t, "Old Author", updated.Author)
	repo.AssertExpectations(t)
}

func TestBookUpdate_NotFound(t *testing.T) {
	repo := new(mockBookRepo)
	svc := newTestBookService(repo)

	repo.On("GetByID", mock.Anything, int64(2)).Return(nil, gorm.ErrRecordNotFound)

	title := "anything"
	_, err := svc.Update(context.Background(), 2, dto.UpdateBookDTO{Title: &title})
	assert.ErrorIs(t, err, ErrBookNotFound)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestBookDelete_NotFound(t *testing.T) {
	repo := new(mockBookRepo)
	svc := newTestBookService(repo)

	repo.On("Delete", mock.Anything, int64(3)).Return(gorm.ErrRecordNotFound)

	err := svc.Delete(context.Background(), 3)
	assert.ErrorIs(t, err, ErrBookNotFound)
}
