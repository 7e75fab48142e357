package usecase

import (
	"context"
	"strings"
	"sync"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

// MaxImages caps how many images a single listing may carry. Enforced by
// the workflow, not by the data model.
const MaxImages = 3

// Mailer notifies the owner after a successful publish. Optional.
type Mailer interface {
	SendListingPublishedEmail(toEmail, listingTitle string) error
}

// PublishWorkflow stages one listing draft: form field edits plus up to
// MaxImages selected local images. Publish validates the draft, uploads
// the images in selection order and writes the composed record once every
// upload has succeeded. A failed publish keeps the draft and the selection
// so the user can correct and resubmit.
type PublishWorkflow struct {
	service  ListingService
	images   domain.ImageStore
	source   domain.ImageSource
	identity domain.Identity
	mailer   Mailer
	logger   logger.Logger

	mu       sync.Mutex
	draft    domain.Listing
	selected []string
	loading  bool
	message  string
}

// NewPublishWorkflow builds a workflow bound to one authenticated session.
// mailer may be nil.
func NewPublishWorkflow(service ListingService, images domain.ImageStore, source domain.ImageSource, identity domain.Identity, mailer Mailer, log logger.Logger) *PublishWorkflow {
	return &PublishWorkflow{
		service:  service,
		images:   images,
		source:   source,
		identity: identity,
		mailer:   mailer,
		logger:   log,
	}
}

// UpdateField applies a single-field edit to the draft. Unrecognized field
// names are ignored.
func (w *PublishWorkflow) UpdateField(field, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	switch field {
	case "title":
		w.draft.Title = value
	case "description":
		w.draft.Description = value
	case "type":
		w.draft.Type = value
	case "price":
		w.draft.Price = value
	case "contact":
		w.draft.Contact = value
	case "address":
		w.draft.Address = value
	case "location":
		w.draft.Location = value
	case "latitude":
		w.draft.Latitude = value
	case "longitude":
		w.draft.Longitude = value
	}
}

// SelectImage appends a local image reference to the selection. Once the
// cap is reached further calls are silently ignored.
func (w *PublishWorkflow) SelectImage(ref string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.selected) < MaxImages {
		w.selected = append(w.selected, ref)
	}
}

// DeselectImage removes the first occurrence of ref from the selection.
func (w *PublishWorkflow) DeselectImage(ref string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	for i, known := range w.selected {
		if known == ref {
			w.selected = append(w.selected[:i], w.selected[i+1:]...)
			return
		}
	}
}

func (w *PublishWorkflow) Draft() domain.Listing {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft
}

func (w *PublishWorkflow) SelectedImages() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	selected := make([]string, len(w.selected))
	copy(selected, w.selected)
	return selected
}

func (w *PublishWorkflow) IsLoading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

func (w *PublishWorkflow) Message() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.message
}

func (w *PublishWorkflow) DismissMessage() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.message = ""
}

// Validate checks the draft in a fixed order and reports the first failing
// rule. It performs no network calls.
func (w *PublishWorkflow) Validate() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	d := w.draft
	switch {
	case len(w.selected) == 0:
		return &domain.ValidationError{Message: "Select at least one image for your property."}
	case blank(d.Title):
		return &domain.ValidationError{Message: "The listing title is required."}
	case blank(d.Description):
		return &domain.ValidationError{Message: "Please add a detailed description."}
	case blank(d.Type):
		return &domain.ValidationError{Message: "You must select a property type."}
	case blank(d.Price):
		return &domain.ValidationError{Message: "The price is required."}
	case blank(d.Contact):
		return &domain.ValidationError{Message: "Add a contact number or email."}
	case blank(d.Address):
		return &domain.ValidationError{Message: "The physical address is required."}
	case blank(d.Location):
		return &domain.ValidationError{Message: "Enter the sector or neighborhood name."}
	case blank(d.Latitude) || blank(d.Longitude):
		return &domain.ValidationError{Message: "GPS coordinates are required."}
	}
	return nil
}

// Publish validates and commits the draft. Images upload sequentially in
// selection order; the first failed upload aborts the whole attempt before
// any document is written. On success the draft and the selection are
// reset; on any failure they are preserved.
func (w *PublishWorkflow) Publish(ctx context.Context) (string, error) {
	if err := w.Validate(); err != nil {
		w.setMessage(err.Error())
		return "", err
	}

	w.setLoading(true)
	defer w.setLoading(false)

	w.mu.Lock()
	draft := w.draft
	selected := make([]string, len(w.selected))
	copy(selected, w.selected)
	w.mu.Unlock()

	urls := make([]string, 0, len(selected))
	for _, ref := range selected {
		data, fileName, err := w.source.Read(ctx, ref)
		if err != nil {
			w.logger.Errorf("PublishWorkflow: could not read image %s: %v", ref, err)
			w.setMessage("Could not read the selected image.")
			return "", err
		}

		url, err := w.images.Upload(ctx, fileName, data)
		if err != nil {
			w.logger.Errorf("PublishWorkflow: upload failed for %s: %v", ref, err)
			w.setMessage("The images could not be uploaded.")
			return "", err
		}
		urls = append(urls, url)
	}

	if len(urls) == 0 {
		w.setMessage("The images could not be uploaded.")
		return "", &domain.ValidationError{Message: "no images were uploaded"}
	}

	record := draft
	record.Image = urls
	record.Status = domain.StatusActive
	record.UserID = w.identity.UserID

	id, err := w.service.Create(ctx, &record)
	if err != nil {
		w.setMessage("Could not save the listing: " + err.Error())
		return "", err
	}

	if w.mailer != nil && w.identity.Email != "" {
		if err := w.mailer.SendListingPublishedEmail(w.identity.Email, record.Title); err != nil {
			w.logger.Warnf("PublishWorkflow: confirmation email failed for %s: %v", id, err)
		}
	}

	w.mu.Lock()
	w.draft = domain.Listing{}
	w.selected = nil
	w.message = "Listing published successfully!"
	w.mu.Unlock()

	return id, nil
}

func (w *PublishWorkflow) setLoading(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.loading = v
}

func (w *PublishWorkflow) setMessage(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.message = msg
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
