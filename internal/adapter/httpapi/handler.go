package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nexusdev/nexushomes-backend/internal/adapter/httpapi/middleware"
	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/listing/usecase"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

// maxUploadMemory bounds how much of a publish request is held in memory
// before spilling to disk. Three compressed photos fit comfortably.
const maxUploadMemory = 32 << 20

var draftFields = []string{
	"title", "description", "type", "price", "contact",
	"address", "location", "latitude", "longitude",
}

// ListingHandler exposes the listing operations over REST.
type ListingHandler struct {
	service usecase.ListingService
	images  domain.ImageStore
	mailer  usecase.Mailer
	logger  logger.Logger
}

// NewListingHandler builds the handler. mailer may be nil.
func NewListingHandler(service usecase.ListingService, images domain.ImageStore, mailer usecase.Mailer, log logger.Logger) *ListingHandler {
	return &ListingHandler{service: service, images: images, mailer: mailer, logger: log}
}

// HandleGetActive returns every publicly visible listing.
func (h *ListingHandler) HandleGetActive(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.Active(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listings)
}

func (h *ListingHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	listing, err := h.service.ByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listing)
}

// HandleGetMine returns the authenticated user's own listings, active or
// not.
func (h *ListingHandler) HandleGetMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}
	listings, err := h.service.ByUser(r.Context(), identity.UserID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, listings)
}

// HandlePublish drives the publish workflow for one multipart request:
// form values become draft field edits, each "images" part becomes a
// selected image, then the workflow validates, uploads and creates.
func (h *ListingHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		http.Error(w, "invalid multipart request body", http.StatusBadRequest)
		return
	}

	source := newFormImageSource()
	workflow := usecase.NewPublishWorkflow(h.service, h.images, source, identity, h.mailer, h.logger)

	for _, field := range draftFields {
		if value := r.FormValue(field); value != "" {
			workflow.UpdateField(field, value)
		}
	}

	for _, header := range r.MultipartForm.File["images"] {
		ref, err := source.add(header)
		if err != nil {
			http.Error(w, "could not read uploaded image", http.StatusBadRequest)
			return
		}
		workflow.SelectImage(ref)
	}

	id, err := workflow.Publish(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, map[string]string{"id": id, "message": workflow.Message()})
}

// HandleUpdate overwrites an existing listing owned by the caller.
func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var listing domain.Listing
	if err := json.NewDecoder(r.Body).Decode(&listing); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	listing.ID = chi.URLParam(r, "id")

	if err := h.service.Update(r.Context(), identity.UserID, &listing); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, &listing)
}

func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.service.Delete(r.Context(), identity.UserID, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ListingHandler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Errorf("failed to encode response: %v", err)
	}
}

func (h *ListingHandler) writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		http.Error(w, validationErr.Message, http.StatusBadRequest)
	case errors.Is(err, domain.ErrNotOwner):
		http.Error(w, "you are not the owner of this listing", http.StatusForbidden)
	case errors.Is(err, domain.ErrListingNotFound):
		http.Error(w, "listing not found", http.StatusNotFound)
	default:
		h.logger.Errorf("request failed: %v", err)
		http.Error(w, "something went wrong, please try again", http.StatusInternalServerError)
	}
}

// formImageSource holds the uploaded multipart images in memory and hands
// them to the publish workflow by reference.
type formImageSource struct {
	files map[string]formImage
}

type formImage struct {
	name string
	data []byte
}

func newFormImageSource() *formImageSource {
	return &formImageSource{files: make(map[string]formImage)}
}

func (s *formImageSource) add(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	ref := uuid.NewString()
	s.files[ref] = formImage{name: header.Filename, data: data}
	return ref, nil
}

func (s *formImageSource) Read(ctx context.Context, ref string) ([]byte, string, error) {
	img, ok := s.files[ref]
	if !ok {
		return nil, "", fmt.Errorf("unknown image reference %q", ref)
	}
	return img.data, img.name, nil
}
