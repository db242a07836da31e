package repository

import (
	"context"

	"bazaar/internal/domain/entity"
)

// AuditRepository is the append-only compliance trail. There is deliberately
// no update, delete or upsert: an audit event is written once or not at all.
type AuditRepository interface {
	// Append persists one immutable audit event.
	Append(ctx context.Context, event *entity.AuditEvent) error
}
