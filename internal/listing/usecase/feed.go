package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
)

// FeedState is the observable triple consumed by a presentation layer:
// the currently known listings, whether a load is in flight, and the last
// user-facing message.
type FeedState struct {
	Listings  []*domain.Listing
	IsLoading bool
	Message   string
}

// Feed mirrors the listing collection for one client session. Every load
// replaces the list wholesale; overlapping loads are not coordinated, so
// the last call to finish wins. The feed is the only writer of its state.
type Feed struct {
	service ListingService

	mu    sync.Mutex
	state FeedState
}

func NewFeed(service ListingService) *Feed {
	return &Feed{
		service: service,
		state:   FeedState{Listings: []*domain.Listing{}},
	}
}

// Snapshot returns a copy of the current state.
func (f *Feed) Snapshot() FeedState {
	f.mu.Lock()
	defer f.mu.Unlock()
	listings := make([]*domain.Listing, len(f.state.Listings))
	copy(listings, f.state.Listings)
	return FeedState{Listings: listings, IsLoading: f.state.IsLoading, Message: f.state.Message}
}

func (f *Feed) DismissMessage() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Message = ""
}

// LoadAll replaces the list with all publicly visible listings.
func (f *Feed) LoadAll(ctx context.Context) {
	f.begin()
	listings, err := f.service.Active(ctx)
	f.finishList(listings, err, "Could not load the listings")
}

// LoadMine replaces the list with the listings owned by ownerID.
func (f *Feed) LoadMine(ctx context.Context, ownerID string) {
	f.begin()
	listings, err := f.service.ByUser(ctx, ownerID)
	f.finishList(listings, err, "Could not load your listings")
}

// LoadByID replaces the list with at most one listing. A missing id leaves
// the list empty without surfacing an error.
func (f *Feed) LoadByID(ctx context.Context, id string) {
	f.begin()
	listing, err := f.service.ByID(ctx, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.IsLoading = false
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		f.state.Listings = []*domain.Listing{}
	case err != nil:
		f.state.Listings = []*domain.Listing{}
		f.state.Message = "Could not load the listing: " + err.Error()
	default:
		f.state.Listings = []*domain.Listing{listing}
	}
}

// Update writes the listing through the service and, on success, patches
// the matching in-memory entry in place.
func (f *Feed) Update(ctx context.Context, userID string, listing *domain.Listing) error {
	if listing.ID == "" {
		return &domain.ValidationError{Message: "listing id is required"}
	}
	if err := f.service.Update(ctx, userID, listing); err != nil {
		f.setMessage("Could not update the listing: " + err.Error())
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i, known := range f.state.Listings {
		if known.ID == listing.ID {
			f.state.Listings[i] = listing
			break
		}
	}
	return nil
}

// Delete removes the listing remotely and, on success, drops the matching
// in-memory entry so the change is visible immediately.
func (f *Feed) Delete(ctx context.Context, userID, id string) error {
	if err := f.service.Delete(ctx, userID, id); err != nil {
		f.setMessage("Could not delete the listing: " + err.Error())
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.state.Listings[:0]
	for _, known := range f.state.Listings {
		if known.ID != id {
			kept = append(kept, known)
		}
	}
	f.state.Listings = kept
	return nil
}

func (f *Feed) begin() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.IsLoading = true
}

func (f *Feed) finishList(listings []*domain.Listing, err error, errPrefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.IsLoading = false
	if err != nil {
		f.state.Listings = []*domain.Listing{}
		f.state.Message = errPrefix + ": " + err.Error()
		return
	}
	if listings == nil {
		listings = []*domain.Listing{}
	}
	f.state.Listings = listings
}

func (f *Feed) setMessage(msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Message = msg
}
