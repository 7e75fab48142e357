package usecase

import (
	"context"
	"errors"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

// ListingService mediates every read and write of the listing collection.
// Implemented by ListingUsecase; declared here so the feed, the publish
// workflow and the HTTP handlers can be tested against a mock.
type ListingService interface {
	Active(ctx context.Context) ([]*domain.Listing, error)
	ByID(ctx context.Context, id string) (*domain.Listing, error)
	ByUser(ctx context.Context, userID string) ([]*domain.Listing, error)
	Create(ctx context.Context, listing *domain.Listing) (string, error)
	Update(ctx context.Context, userID string, listing *domain.Listing) error
	Delete(ctx context.Context, userID, id string) error
}

// ListingUsecase wraps the store gateway with a read-through cache, owner
// checks on mutations and best-effort event publication.
type ListingUsecase struct {
	repo   domain.ListingRepository
	cache  domain.ListingCache
	events domain.EventPublisher
	logger logger.Logger
}

// NewListingUsecase builds the usecase. Cache and events may be nil; the
// usecase then skips them.
func NewListingUsecase(repo domain.ListingRepository, cache domain.ListingCache, events domain.EventPublisher, log logger.Logger) *ListingUsecase {
	return &ListingUsecase{repo: repo, cache: cache, events: events, logger: log}
}

func (uc *ListingUsecase) Active(ctx context.Context) ([]*domain.Listing, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.GetActive(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	listings, err := uc.repo.FindByFilter(ctx, domain.Filter{Status: domain.StatusActive})
	if err != nil {
		uc.logger.Errorf("ListingUsecase.Active: fetch failed: %v", err)
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetActive(ctx, listings); err != nil {
			uc.logger.Warnf("ListingUsecase.Active: cache write failed: %v", err)
		}
	}
	return listings, nil
}

func (uc *ListingUsecase) ByID(ctx context.Context, id string) (*domain.Listing, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.GetListing(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetListing(ctx, listing); err != nil {
			uc.logger.Warnf("ListingUsecase.ByID: cache write failed for %s: %v", id, err)
		}
	}
	return listing, nil
}

func (uc *ListingUsecase) ByUser(ctx context.Context, userID string) ([]*domain.Listing, error) {
	return uc.repo.FindByFilter(ctx, domain.Filter{UserID: userID})
}

// Create persists a new listing and fills in the store-assigned id.
func (uc *ListingUsecase) Create(ctx context.Context, listing *domain.Listing) (string, error) {
	id, err := uc.repo.Create(ctx, listing)
	if err != nil {
		uc.logger.Errorf("ListingUsecase.Create: create failed for user %s: %v", listing.UserID, err)
		return "", err
	}
	listing.ID = id
	uc.logger.Infof("ListingUsecase.Create: created listing %s for user %s", id, listing.UserID)

	uc.afterWrite(ctx, listing)
	if uc.events != nil {
		if err := uc.events.ListingCreated(ctx, listing); err != nil {
			uc.logger.Warnf("ListingUsecase.Create: event publish failed for %s: %v", id, err)
		}
	}
	return id, nil
}

// Update overwrites an existing listing. Only the owner may update, and
// the stored owner id always survives the edit.
func (uc *ListingUsecase) Update(ctx context.Context, userID string, listing *domain.Listing) error {
	if listing.ID == "" {
		return &domain.ValidationError{Message: "listing id is required"}
	}

	existing, err := uc.repo.FindByID(ctx, listing.ID)
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		uc.logger.Warnf("ListingUsecase.Update: user %s is not the owner of %s", userID, listing.ID)
		return domain.ErrNotOwner
	}

	listing.UserID = existing.UserID
	if err := uc.repo.Update(ctx, listing); err != nil {
		uc.logger.Errorf("ListingUsecase.Update: update failed for %s: %v", listing.ID, err)
		return err
	}

	uc.afterWrite(ctx, listing)
	if uc.events != nil {
		if err := uc.events.ListingUpdated(ctx, listing); err != nil {
			uc.logger.Warnf("ListingUsecase.Update: event publish failed for %s: %v", listing.ID, err)
		}
	}
	return nil
}

// Delete removes a listing owned by userID. Deleting an id that no longer
// exists is treated as success.
func (uc *ListingUsecase) Delete(ctx context.Context, userID, id string) error {
	existing, err := uc.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrListingNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.UserID != userID {
		uc.logger.Warnf("ListingUsecase.Delete: user %s is not the owner of %s", userID, id)
		return domain.ErrNotOwner
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		uc.logger.Errorf("ListingUsecase.Delete: delete failed for %s: %v", id, err)
		return err
	}

	if uc.cache != nil {
		if err := uc.cache.DeleteListing(ctx, id); err != nil {
			uc.logger.Warnf("ListingUsecase.Delete: cache delete failed for %s: %v", id, err)
		}
		if err := uc.cache.InvalidateActive(ctx); err != nil {
			uc.logger.Warnf("ListingUsecase.Delete: cache invalidation failed: %v", err)
		}
	}
	if uc.events != nil {
		if err := uc.events.ListingDeleted(ctx, id); err != nil {
			uc.logger.Warnf("ListingUsecase.Delete: event publish failed for %s: %v", id, err)
		}
	}
	return nil
}

func (uc *ListingUsecase) afterWrite(ctx context.Context, listing *domain.Listing) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.SetListing(ctx, listing); err != nil {
		uc.logger.Warnf("ListingUsecase: cache write failed for %s: %v", listing.ID, err)
	}
	if err := uc.cache.InvalidateActive(ctx); err != nil {
		uc.logger.Warnf("ListingUsecase: cache invalidation failed: %v", err)
	}
}
