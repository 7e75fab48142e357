package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
)

const (
	listingKeyPrefix = "listing:"
	activeListKey    = "listings:active"
)

// NewClient connects to Redis and verifies the connection with a ping.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

// ListingCache keeps individual listings and the active-listings page in
// Redis. A miss is reported as (nil, nil) so callers fall through to the
// store.
type ListingCache struct {
	client     *redis.Client
	listingTTL time.Duration
	activeTTL  time.Duration
}

func NewListingCache(client *redis.Client, listingTTL, activeTTL time.Duration) *ListingCache {
	return &ListingCache{client: client, listingTTL: listingTTL, activeTTL: activeTTL}
}

func (c *ListingCache) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	data, err := c.client.Get(ctx, listingKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listing domain.Listing
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *ListingCache) SetListing(ctx context.Context, listing *domain.Listing) error {
	data, err := json.Marshal(listing)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, listingKeyPrefix+listing.ID, data, c.listingTTL).Err()
}

func (c *ListingCache) DeleteListing(ctx context.Context, id string) error {
	return c.client.Del(ctx, listingKeyPrefix+id).Err()
}

func (c *ListingCache) GetActive(ctx context.Context) ([]*domain.Listing, error) {
	data, err := c.client.Get(ctx, activeListKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var listings []*domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

func (c *ListingCache) SetActive(ctx context.Context, listings []*domain.Listing) error {
	data, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, activeListKey, data, c.activeTTL).Err()
}

func (c *ListingCache) InvalidateActive(ctx context.Context) error {
	return c.client.Del(ctx, activeListKey).Err()
}
