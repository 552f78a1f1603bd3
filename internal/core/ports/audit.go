package ports

import (
	"context"

	"github.com/accountd/account-service/internal/core/domain"
)

// AuditRecorder accepts auth events for asynchronous recording. Enqueue
// must never block the request path beyond channel-buffer capacity.
type AuditRecorder interface {
	Enqueue(event domain.AuthEvent)
}

// AuditService processes a single auth event end to end.
type AuditService interface {
	Record(ctx context.Context, event domain.AuthEvent) error
}

// AuditRepository persists auth events and serves the admin listing.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuthEvent, error)
}
