package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/project-tracker-backend/config"
	"github.com/rpupo63/project-tracker-backend/database"
	"github.com/rpupo63/project-tracker-backend/errs"
	"github.com/rpupo63/project-tracker-backend/models"
)

// Export is the full portable snapshot of one user's data.
type Export struct {
	User       *models.User      `json:"user"`
	Projects   []*models.Project `json:"projects"`
	ExportedAt time.Time         `json:"exportedAt"`
}

// ExportService assembles user data exports and optionally archives them to
// an S3 bucket when EXPORT_BUCKET is configured.
type ExportService struct {
	db     database.Database
	logger zerolog.Logger
	s3     *s3.Client
	bucket string
}

func NewExportService(ctx context.Context, db database.Database, c map[string]string) *ExportService {
	logger := log.With().Str("serviceName", "exportService").Logger()
	svc := &ExportService{
		db:     db,
		logger: logger,
		bucket: config.GetString(c, "EXPORT_BUCKET", ""),
	}

	if svc.bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("Failed to load AWS config; export archiving disabled")
			svc.bucket = ""
		} else {
			svc.s3 = s3.NewFromConfig(awsCfg)
		}
	}
	return svc
}

// ArchiveEnabled reports whether exports can be archived to S3.
func (s *ExportService) ArchiveEnabled() bool {
	return s.s3 != nil && s.bucket != ""
}

// Export gathers the user row and project rows concurrently and returns the
// combined snapshot.
func (s *ExportService) Export(ctx context.Context, userID uuid.UUID) (*Export, error) {
	var (
		user     *models.User
		projects []*models.Project
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.db.UserRepo().FindByID(userID)
		return err
	})
	g.Go(func() error {
		var err error
		projects, err = s.db.ProjectRepo().FindAllByUser(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, errs.NewDatabaseError("export", "user data", err)
	}
	if user == nil {
		return nil, errs.NewNotFound("user")
	}

	return &Export{
		User:       user,
		Projects:   projects,
		ExportedAt: time.Now().UTC(),
	}, nil
}

// Archive uploads the export as JSON to the configured bucket and returns
// the object key.
func (s *ExportService) Archive(ctx context.Context, export *Export) (string, error) {
	if !s.ArchiveEnabled() {
		return "", errs.NewBadRequestError("export archiving is not configured")
	}

	payload, err := json.Marshal(export)
	if err != nil {
		return "", errs.NewInternalErrorWithCause("failed to marshal export", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", export.User.ID, export.ExportedAt.Format("2006-01-02T15-04-05Z"))
	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(payload),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("bucket", s.bucket).Str("key", key).Msg("Failed to upload export")
		return "", errs.NewInternalErrorWithCause("failed to upload export", err)
	}

	s.logger.Info().Str("bucket", s.bucket).Str("key", key).Msg("Export archived")
	return key, nil
}
