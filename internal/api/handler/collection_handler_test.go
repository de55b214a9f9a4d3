package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"bookshelf/internal/api/dto"
	"bookshelf/internal/api/handler"
	"bookshelf/internal/api/models"
	"bookshelf/internal/api/service"
)

type mockCollectionService struct {
	mock.Mock
}

func (m *mockCollectionService) Add(ctx context.Context, userID string, req dto.AddToCollectionRequest) (*models.CollectionEntry, error) {
	args := m.Called(ctx, userID, req)
	if e, ok := args.Get(0).(*models.CollectionEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollectionService) ListForUser(ctx context.Context, userID, status string) ([]models.CollectionEntry, error) {
	args := m.Called(ctx, userID, status)
	if entries, ok := args.Get(0).([]models.CollectionEntry); ok {
		return entries, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollectionService) UpdateEntry(ctx context.Context, userID string, entryID int64, req dto.UpdateEntryRequest) (*models.CollectionEntry, error) {
	args := m.Called(ctx, userID, entryID, req)
	if e, ok := args.Get(0).(*models.CollectionEntry); ok {
		return e, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockCollectionService) RemoveEntry(ctx context.Context, userID string, entryID int64) error {
	args := m.Called(ctx, userID, entryID)
	return args.Error(0)
}

// newCollectionRouter mounts the handler behind a stub session that
// resolves every request to the given user.
func newCollectionRouter(svc service.CollectionService, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rg := r.Group("/api/mybooks")
	rg.Use(func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	})
	handler.NewCollectionHandler(svc).RegisterRoutes(rg)
	return r
}

func TestAddHandler_BookMissing(t *testing.T) {
	svc := new(mockCollectionService)
	r := newCollectionRouter(svc, "user-a")

	svc.On("Add", mock.Anything, "user-a", mock.Anything).Return(nil, service.ErrBookNotFound)

	body := bytes.NewBufferString(`{"bookId": 42}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/mybooks", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Book not found")
}

func TestAddHandler_Duplicate(t *testing.T) {
	svc := new(mockCollectionService)
	r := newCollectionRouter(svc, "user-a")

	svc.On("Add", mock.Anything, "user-a", mock.Anything).Return(nil, service.ErrAlreadyInCollection)

	body := bytes.NewBufferString(`{"bookId": 42}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/mybooks", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "Book already in collection")
}

func TestAddHandler_RatingOutOfRange(t *testing.T) {
	svc := new(mockCollectionService)
	r := newCollectionRouter(svc, "user-a")

	body := bytes.NewBufferString(`{"bookId": 42, "rating": 6}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/mybooks", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddHandler_FlattenedResponse(t *testing.T) {
	svc := new(mockCollectionService)
	r := newCollectionRouter(svc, "user-a")

	rating := 4
	entry := &models.CollectionEntry{
		ID: 7, UserID: "user-a", BookID: 42,
		Status: models.StatusWantToRead, Rating: &rating,
		Book: &models.Book{
			ID: 42, Title: "Dune", Author: "Frank Herbert",
			CoverImage: "dune.jpg", AverageRating: 4.0,
		},
	}
	svc.On("Add", mock.Anything, "user-a", mock.Anything).Return(entry, nil)

	body := bytes.NewBufferString(`{"bookId": 42, "rating": 4}`)
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/mybooks", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	// book fields sit at the same level as the entry fields
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Dune", resp["title"])
	assert.Equal(t, "Frank Herbert", resp["author"])
	assert.Equal(t, "dune.jpg", resp["coverImage"])
	assert.Equal(t, models.StatusWantToRead, resp["status"])
	assert.EqualValues(t, 4, resp["rating"])
	assert.EqualValues(t, 42, resp["bookId"])
}

func TestListHandler_PassesStatusFilter(t *testing.T) {
	svc := new(mockCollectionService)
	r := newCollectionRouter(svc, "user-a")

	svc.On("ListForUser", mock.Anything, "user-a", models.StatusRead).Return([]models.CollectionEntry{}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/api/mybooks?status=Read", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
	svc.AssertExpectations(t)
}

func TestUpdateHandler_NotFound(t *testing.T) {
	svc := new(mockCollectionService)
	r := newCollectionRouter(svc, "user-a")

	svc.On("UpdateEntry", mock.Anything, "user-a", int64(9), mock.Anything).Return(nil, service.ErrEntryNotFound)

	for _, method := range []string{http.MethodPut, http.MethodPatch} {
		body := bytes.NewBufferString(`{"status": "Read"}`)
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(method, "/api/mybooks/9", body)
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		assert.Contains(t, w.Body.String(), "Book not found in collection")
	}
}

func TestRemoveHandler_Success(t *testing.T) {
	svc := new(mockCollectionService)
	r := newCollectionRouter(svc, "user-a")

	svc.On("RemoveEntry", mock.Anything, "user-a", int64(7)).Return(nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/api/mybooks/7", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Book removed from collection")
}
