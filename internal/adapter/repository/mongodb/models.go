package mongodb

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
)

// listingDocument is the stored shape of a Listing. Field names match the
// documents written by the mobile client, so both can share a collection.
type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Contact     string             `bson:"contact"`
	Type        string             `bson:"type"`
	Price       string             `bson:"price"`
	Address     string             `bson:"address"`
	Location    string             `bson:"location"`
	Latitude    string             `bson:"latitude"`
	Longitude   string             `bson:"longitude"`
	Image       []string           `bson:"image"`
	Status      string             `bson:"status"`
	UserID      string             `bson:"userId"`
}

// toListingDocument converts a domain Listing for storage. An empty domain
// ID maps to NilObjectID so MongoDB assigns one on insert.
func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", l.ID, err)
		}
	}

	return &listingDocument{
		ID:          docID,
		Title:       l.Title,
		Description: l.Description,
		Contact:     l.Contact,
		Type:        l.Type,
		Price:       l.Price,
		Address:     l.Address,
		Location:    l.Location,
		Latitude:    l.Latitude,
		Longitude:   l.Longitude,
		Image:       l.Image,
		Status:      l.Status,
		UserID:      l.UserID,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	return &domain.Listing{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Contact:     d.Contact,
		Type:        d.Type,
		Price:       d.Price,
		Address:     d.Address,
		Location:    d.Location,
		Latitude:    d.Latitude,
		Longitude:   d.Longitude,
		Image:       d.Image,
		Status:      d.Status,
		UserID:      d.UserID,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}
