package mongodb

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

const listingsCollection = "listings"

// ListingRepository translates listing operations into document-store
// calls. It holds no local state beyond the collection handle.
type ListingRepository struct {
	collection *mongo.Collection
	logger     logger.Logger
}

func NewListingRepository(db *mongo.Database, log logger.Logger) *ListingRepository {
	return &ListingRepository{collection: db.Collection(listingsCollection), logger: log}
}

func (r *ListingRepository) Create(ctx context.Context, listing *domain.Listing) (string, error) {
	doc, err := toListingDocument(listing)
	if err != nil {
		return "", &domain.ValidationError{Message: err.Error()}
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		r.logger.Errorf("ListingRepository.Create: insert failed: %v", err)
		return "", &domain.RemoteError{Op: "listings.insert", Err: err}
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", &domain.MalformedResponseError{Op: "listings.insert", Reason: "inserted id is not an ObjectID"}
	}
	return oid.Hex(), nil
}

// Update overwrites the whole document. There is no optimistic-concurrency
// check; the last writer wins.
func (r *ListingRepository) Update(ctx context.Context, listing *domain.Listing) error {
	doc, err := toListingDocument(listing)
	if err != nil {
		return &domain.ValidationError{Message: err.Error()}
	}
	if doc.ID.IsZero() {
		return &domain.ValidationError{Message: "listing id is required for update"}
	}

	res, err := r.collection.UpdateByID(ctx, doc.ID, bson.M{"$set": doc})
	if err != nil {
		r.logger.Errorf("ListingRepository.Update: update failed for %s: %v", listing.ID, err)
		return &domain.RemoteError{Op: "listings.update", Err: err}
	}
	if res.MatchedCount == 0 {
		return domain.ErrListingNotFound
	}
	return nil
}

// Delete removes the document. Deleting an id that is already absent (or
// that never was a valid store id) is treated as success.
func (r *ListingRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		r.logger.Debugf("ListingRepository.Delete: ignoring malformed id %q", id)
		return nil
	}

	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		r.logger.Errorf("ListingRepository.Delete: delete failed for %s: %v", id, err)
		return &domain.RemoteError{Op: "listings.delete", Err: err}
	}
	return nil
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrListingNotFound
	}

	var doc listingDocument
	err = r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrListingNotFound
	}
	if err != nil {
		r.logger.Errorf("ListingRepository.FindByID: lookup failed for %s: %v", id, err)
		return nil, &domain.RemoteError{Op: "listings.findOne", Err: err}
	}
	return toDomainListing(&doc), nil
}

func (r *ListingRepository) FindByFilter(ctx context.Context, filter domain.Filter) ([]*domain.Listing, error) {
	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}

	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		r.logger.Errorf("ListingRepository.FindByFilter: query failed: %v", err)
		return nil, &domain.RemoteError{Op: "listings.find", Err: err}
	}

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, &domain.RemoteError{Op: "listings.find", Err: err}
	}
	return toDomainListings(docs), nil
}
