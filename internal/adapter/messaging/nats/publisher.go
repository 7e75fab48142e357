package nats

import (
	"context"
	"encoding/json"

	"github.com/nats-io/nats.go"

	"github.com/nexusdev/nexushomes-backend/internal/listing/domain"
)

const (
	SubjectListingCreated = "listing.created"
	SubjectListingUpdated = "listing.updated"
	SubjectListingDeleted = "listing.deleted"
)

// Publisher emits listing lifecycle events as JSON messages.
type Publisher struct {
	conn *nats.Conn
}

func NewPublisher(url string) (*Publisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, err
	}
	return &Publisher{conn: conn}, nil
}

func (p *Publisher) ListingCreated(ctx context.Context, listing *domain.Listing) error {
	return p.publish(SubjectListingCreated, listing)
}

func (p *Publisher) ListingUpdated(ctx context.Context, listing *domain.Listing) error {
	return p.publish(SubjectListingUpdated, listing)
}

func (p *Publisher) ListingDeleted(ctx context.Context, id string) error {
	return p.publish(SubjectListingDeleted, map[string]string{"id": id})
}

func (p *Publisher) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return p.conn.Publish(subject, data)
}

func (p *Publisher) Close() {
	p.conn.Close()
}
