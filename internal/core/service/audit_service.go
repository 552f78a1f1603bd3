package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/accountd/account-service/internal/api/metrics"
	"github.com/accountd/account-service/internal/core/domain"
	"github.com/accountd/account-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService that persists auth events to the
// audit repository.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Record persists a single auth event.
func (s *auditService) Record(ctx context.Context, event domain.AuthEvent) error {
	if err := s.repo.Insert(ctx, &event); err != nil {
		metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "error").Inc()
		return fmt.Errorf("record auth event: %w", err)
	}

	metrics.AuditEventsTotal.WithLabelValues(string(event.Action), "ok").Inc()
	s.log.Debug().
		Str("action", string(event.Action)).
		Str("email", event.Email).
		Bool("success", event.Success).
		Msg("auth event recorded")

	return nil
}
