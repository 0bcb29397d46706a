package events

import (
	"context"

	"github.com/api-sage/accounts-ledger/src/internal/domain"
)

var _ domain.EventPublisher = (*MovementPublisher)(nil)

// MovementPublisher emits ledger events on the configured exchange.
type MovementPublisher struct {
	publisher Publisher
	exchange  string
}

func NewMovementPublisher(publisher Publisher, exchange string) *MovementPublisher {
	if exchange == "" {
		exchange = "account_events"
	}
	return &MovementPublisher{publisher: publisher, exchange: exchange}
}

func (p *MovementPublisher) PublishMovementRecorded(ctx context.Context, event domain.MovementRecordedEvent) error {
	return p.publisher.Publish(ctx, p.exchange, domain.EventMovementRecorded, event)
}
