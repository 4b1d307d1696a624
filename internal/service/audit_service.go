package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
	"github.com/hyeonwoo-dev/community-board-api/pkg/jobs"
)

type auditLogRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditService persists auth events off the request path through a
// bounded in-process queue. A full queue drops the event with a warning
// rather than stalling a login.
type AuditService struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditService builds the audit writer backed by the job queue.
func NewAuditService(repo auditLogRepository, cfg config.AuditConfig, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		entry, ok := job.Payload.(*models.AuditLog)
		if !ok {
			return fmt.Errorf("unexpected audit payload %T", job.Payload)
		}
		return repo.CreateAuditLog(ctx, entry)
	}

	queue := jobs.NewQueue("audit", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})

	return &AuditService{queue: queue, logger: logger}
}

// Start launches the queue workers.
func (s *AuditService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *AuditService) Stop() {
	s.queue.Stop()
}

// Record enqueues an audit entry. Implements AuditRecorder.
func (s *AuditService) Record(entry *models.AuditLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if err := s.queue.Enqueue(jobs.Job{ID: entry.ID, Type: entry.Action, Payload: entry}); err != nil {
		s.logger.Warn("failed to enqueue audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}
