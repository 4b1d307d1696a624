package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyeonwoo-dev/community-board-api/internal/models"
	appErrors "github.com/hyeonwoo-dev/community-board-api/pkg/errors"
	"github.com/hyeonwoo-dev/community-board-api/pkg/export"
	"github.com/hyeonwoo-dev/community-board-api/pkg/storage"
)

type exportPostRepository interface {
	ListAll(ctx context.Context) ([]models.Post, error)
}

type exportUserRepository interface {
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
}

// ExportResult points at a generated file through a signed download token.
type ExportResult struct {
	FileName      string    `json:"file_name"`
	DownloadToken string    `json:"download_token"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// ExportService renders admin datasets to CSV or PDF on local storage and
// hands out HMAC-signed download tokens.
type ExportService struct {
	posts   exportPostRepository
	users   exportUserRepository
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	storage *storage.LocalStorage
	signer  *storage.SignedURLSigner
	logger  *zap.Logger
}

// NewExportService constructs an ExportService instance.
func NewExportService(posts exportPostRepository, users exportUserRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		posts:   posts,
		users:   users,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		storage: store,
		signer:  signer,
		logger:  logger,
	}
}

// ExportPosts renders every post into the requested format.
func (s *ExportService) ExportPosts(ctx context.Context, format string) (*ExportResult, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load posts")
	}

	dataset := export.Dataset{
		Headers: []string{"id", "category", "anonymous_name", "content", "like_count", "created_at"},
	}
	for _, p := range posts {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"id":             p.ID,
			"category":       string(p.Category),
			"anonymous_name": p.AnonymousName,
			"content":        p.Content,
			"like_count":     strconv.Itoa(p.LikeCount),
			"created_at":     p.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(dataset, "posts", format)
}

// ExportUsers renders the user roster into the requested format. Password
// hashes and session slots never leave the database.
func (s *ExportService) ExportUsers(ctx context.Context, format string) (*ExportResult, error) {
	users, _, err := s.users.List(ctx, models.UserFilter{PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load users")
	}

	dataset := export.Dataset{
		Headers: []string{"id", "email", "name", "status", "role", "created_at"},
	}
	for _, u := range users {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"id":         u.ID,
			"email":      u.Email,
			"name":       u.Name,
			"status":     string(u.Status),
			"role":       string(u.Role),
			"created_at": u.CreatedAt.Format(time.RFC3339),
		})
	}

	return s.render(dataset, "users", format)
}

// Resolve validates a signed download token and returns the on-disk
// path of the export file it references.
func (s *ExportService) Resolve(token string) (string, error) {
	_, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	path, err := s.storage.Path(relPath)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "export file not found")
	}
	return path, nil
}

// CleanupOlderThan drops stale export files.
func (s *ExportService) CleanupOlderThan(ttl time.Duration) {
	deleted, err := s.storage.CleanupOlderThan(ttl)
	if err != nil {
		s.logger.Warn("export cleanup failed", zap.Error(err))
		return
	}
	if len(deleted) > 0 {
		s.logger.Info("cleaned stale exports", zap.Int("count", len(deleted)))
	}
}

func (s *ExportService) render(dataset export.Dataset, name, format string) (*ExportResult, error) {
	var (
		data []byte
		ext  string
		err  error
	)
	switch strings.ToLower(format) {
	case "csv", "":
		data, err = s.csv.Render(dataset)
		ext = "csv"
	case "pdf":
		data, err = s.pdf.Render(dataset, name)
		ext = "pdf"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	jobID := uuid.NewString()
	fileName := fmt.Sprintf("%s-%s.%s", name, jobID[:8], ext)
	if _, err := s.storage.Save(fileName, data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}

	token, expiresAt, err := s.signer.Generate(jobID, fileName)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download token")
	}

	return &ExportResult{FileName: fileName, DownloadToken: token, ExpiresAt: expiresAt}, nil
}
