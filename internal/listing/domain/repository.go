package domain

import "context"

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) (string, error)
	Update(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByFilter(ctx context.Context, filter Filter) ([]*Listing, error)
}

// ImageStore turns raw image bytes into a durable public URL.
type ImageStore interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

// ImageSource resolves a locally selected image reference into its bytes
// and a file name usable by an ImageStore.
type ImageSource interface {
	Read(ctx context.Context, ref string) (data []byte, fileName string, err error)
}

type ListingCache interface {
	GetListing(ctx context.Context, id string) (*Listing, error)
	SetListing(ctx context.Context, listing *Listing) error
	DeleteListing(ctx context.Context, id string) error
	GetActive(ctx context.Context) ([]*Listing, error)
	SetActive(ctx context.Context, listings []*Listing) error
	InvalidateActive(ctx context.Context) error
}

// EventPublisher emits listing lifecycle events. Publication is best
// effort; failures are logged and never surfaced to the user.
type EventPublisher interface {
	ListingCreated(ctx context.Context, listing *Listing) error
	ListingUpdated(ctx context.Context, listing *Listing) error
	ListingDeleted(ctx context.Context, id string) error
}
