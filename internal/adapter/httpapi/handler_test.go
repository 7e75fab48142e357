package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nexusdev/nexushomes-backend/internal/adapter/httpapi/middleware"
	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

type MockListingService struct{ mock.Mock }

func (m *MockListingService) Active(ctx context.Context) ([]*domain.Listing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}
func (m *MockListingService) ByID(ctx context.Context, id string) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingService) ByUser(ctx context.Context, userID string) ([]*domain.Listing, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Listing), args.Error(1)
}
func (m *MockListingService) Create(ctx context.Context, listing *domain.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}
func (m *MockListingService) Update(ctx context.Context, userID string, listing *domain.Listing) error {
	args := m.Called(ctx, userID, listing)
	return args.Error(0)
}
func (m *MockListingService) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

type MockImageStore struct{ mock.Mock }

func (m *MockImageStore) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

// testRouter registers the routes without the JWT middleware so tests can
// inject an identity straight into the request context.
func testRouter(h *ListingHandler) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/listings", h.HandleGetActive)
	r.Get("/api/listings/{id}", h.HandleGetByID)
	r.Get("/api/my/listings", h.HandleGetMine)
	r.Post("/api/listings", h.HandlePublish)
	r.Put("/api/listings/{id}", h.HandleUpdate)
	r.Delete("/api/listings/{id}", h.HandleDelete)
	return r
}

func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.WithIdentity(req.Context(), domain.Identity{UserID: userID, Name: "Ana"}))
}

func TestHandleGetActive_ReturnsListings(t *testing.T) {
	svc := new(MockListingService)
	svc.On("Active", mock.Anything).
		Return([]*domain.Listing{{ID: "a", Title: "Casa A", Status: domain.StatusActive}}, nil).Once()
	h := NewListingHandler(svc, new(MockImageStore), nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/listings", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var listings []domain.Listing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "Casa A", listings[0].Title)
}

func TestHandleGetByID_NotFoundIs404(t *testing.T) {
	svc := new(MockListingService)
	svc.On("ByID", mock.Anything, "ghost").Return(nil, domain.ErrListingNotFound).Once()
	h := NewListingHandler(svc, new(MockImageStore), nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/listings/ghost", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetMine_RequiresIdentity(t *testing.T) {
	h := NewListingHandler(new(MockListingService), new(MockImageStore), nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/my/listings", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleGetMine_UsesCallerID(t *testing.T) {
	svc := new(MockListingService)
	svc.On("ByUser", mock.Anything, "user-1").
		Return([]*domain.Listing{{ID: "a", UserID: "user-1"}}, nil).Once()
	h := NewListingHandler(svc, new(MockImageStore), nil, logger.NewNop())

	req := asUser(httptest.NewRequest(http.MethodGet, "/api/my/listings", nil), "user-1")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func publishRequest(t *testing.T, fields map[string]string, images map[string][]byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, form.WriteField(k, v))
	}
	for name, data := range images {
		part, err := form.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/listings", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func validDraftFields() map[string]string {
	return map[string]string{
		"title":       "Casa Linda",
		"description": "Two bedroom house close to downtown",
		"type":        "Casa",
		"price":       "1500",
		"contact":     "555-0101",
		"address":     "Calle 1",
		"location":    "Centro",
		"latitude":    "18.4861",
		"longitude":   "-69.9312",
	}
}

func TestHandlePublish_Success(t *testing.T) {
	svc := new(MockListingService)
	store := new(MockImageStore)
	h := NewListingHandler(svc, store, nil, logger.NewNop())

	store.On("Upload", mock.Anything, "front.jpg", []byte("jpeg-bytes")).
		Return("https://cdn.example.com/front.jpg", nil).Once()
	svc.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.Listing) bool {
		return l.Title == "Casa Linda" &&
			l.UserID == "user-1" &&
			l.Status == domain.StatusActive &&
			len(l.Image) == 1
	})).Return("listing-1", nil).Once()

	req := asUser(publishRequest(t, validDraftFields(), map[string][]byte{"front.jpg": []byte("jpeg-bytes")}), "user-1")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "listing-1", body["id"])
	assert.Equal(t, "Listing published successfully!", body["message"])
	store.AssertExpectations(t)
	svc.AssertExpectations(t)
}

func TestHandlePublish_ValidationFailureIs400(t *testing.T) {
	svc := new(MockListingService)
	store := new(MockImageStore)
	h := NewListingHandler(svc, store, nil, logger.NewNop())

	fields := validDraftFields()
	delete(fields, "title")

	req := asUser(publishRequest(t, fields, map[string][]byte{"front.jpg": []byte("jpeg-bytes")}), "user-1")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestHandlePublish_RequiresIdentity(t *testing.T) {
	h := NewListingHandler(new(MockListingService), new(MockImageStore), nil, logger.NewNop())

	req := publishRequest(t, validDraftFields(), nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleUpdate_NotOwnerIs403(t *testing.T) {
	svc := new(MockListingService)
	svc.On("Update", mock.Anything, "intruder", mock.Anything).Return(domain.ErrNotOwner).Once()
	h := NewListingHandler(svc, new(MockImageStore), nil, logger.NewNop())

	body := strings.NewReader(`{"title":"hacked"}`)
	req := asUser(httptest.NewRequest(http.MethodPut, "/api/listings/l1", body), "intruder")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandleUpdate_TakesIDFromPath(t *testing.T) {
	svc := new(MockListingService)
	svc.On("Update", mock.Anything, "user-1", mock.MatchedBy(func(l *domain.Listing) bool {
		return l.ID == "l1" && l.Title == "Casa renovated"
	})).Return(nil).Once()
	h := NewListingHandler(svc, new(MockImageStore), nil, logger.NewNop())

	body := strings.NewReader(`{"id":"spoofed","title":"Casa renovated"}`)
	req := asUser(httptest.NewRequest(http.MethodPut, "/api/listings/l1", body), "user-1")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestHandleDelete_Success(t *testing.T) {
	svc := new(MockListingService)
	svc.On("Delete", mock.Anything, "user-1", "l1").Return(nil).Once()
	h := NewListingHandler(svc, new(MockImageStore), nil, logger.NewNop())

	req := asUser(httptest.NewRequest(http.MethodDelete, "/api/listings/l1", nil), "user-1")
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}

func TestWriteError_UnknownErrorIs500(t *testing.T) {
	svc := new(MockListingService)
	svc.On("Active", mock.Anything).
		Return(nil, &domain.RemoteError{Op: "listings.find", Err: assert.AnError}).Once()
	h := NewListingHandler(svc, new(MockImageStore), nil, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/api/listings", nil)
	rec := httptest.NewRecorder()
	testRouter(h).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
