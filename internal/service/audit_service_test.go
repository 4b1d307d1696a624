package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	"github.com/hyeonwoo-dev/community-board-api/pkg/config"
)

type collectingAuditRepo struct {
	mu   sync.Mutex
	logs []*models.AuditLog
}

func (m *collectingAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *collectingAuditRepo) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.logs)
}

func TestAuditServicePersistsAsync(t *testing.T) {
	repo := &collectingAuditRepo{}
	svc := NewAuditService(repo, config.AuditConfig{Workers: 1, BufferSize: 8}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	defer svc.Stop()

	userID := "u1"
	svc.Record(&models.AuditLog{UserID: &userID, Action: models.AuditActionLogin, Detail: "login succeeded"})
	svc.Record(&models.AuditLog{UserID: &userID, Action: models.AuditActionLogout, Detail: "logout"})

	require.Eventually(t, func() bool {
		return repo.count() == 2
	}, time.Second, 10*time.Millisecond)

	repo.mu.Lock()
	defer repo.mu.Unlock()
	assert.NotEmpty(t, repo.logs[0].ID)
	assert.Equal(t, models.AuditActionLogin, repo.logs[0].Action)
}

func TestAuditServiceRecordBeforeStart(t *testing.T) {
	repo := &collectingAuditRepo{}
	svc := NewAuditService(repo, config.AuditConfig{}, nil)

	// Queue not started: the event is dropped with a warning, never a panic.
	svc.Record(&models.AuditLog{Action: models.AuditActionLogin})
	assert.Zero(t, repo.count())
}
