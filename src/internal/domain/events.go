package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const EventMovementRecorded = "account.movement.recorded"

// MovementRecordedEvent is published after a movement has been committed.
type MovementRecordedEvent struct {
	MovementID string          `json:"movementId"`
	AccountID  string          `json:"accountId"`
	Kind       MovementKind    `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	Balance    decimal.Decimal `json:"balance"`
	Reference  string          `json:"reference,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}

type EventPublisher interface {
	PublishMovementRecorded(ctx context.Context, event MovementRecordedEvent) error
}
