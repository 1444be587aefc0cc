package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/ordermanager/internal/common"
	sc "github.com/dmitrijs2005/ordermanager/internal/server/config"
	"github.com/dmitrijs2005/ordermanager/internal/server/models"
	"github.com/dmitrijs2005/ordermanager/internal/server/repositories/repomanager"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AttachmentUploadTask pairs a newly registered attachment with the
// presigned URL the client uploads the file content to.
type AttachmentUploadTask struct {
	Attachment *models.Attachment
	UploadURL  string
}

// AttachmentService manages order attachments. Metadata lives in the
// database; file content goes to S3-compatible object storage through
// presigned URLs, so bytes never pass through this server.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAttachmentService(db *sql.DB, repomanager repomanager.RepositoryManager, config *sc.Config) *AttachmentService {
	return &AttachmentService{
		db:          db,
		repomanager: repomanager,
		config:      config,
	}
}

func randomStorageKey(orderID string) string {
	d := time.Now()
	return fmt.Sprintf("orders/%s/%d/%d/%d/%v", orderID, d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,     // MINIO_ROOT_USER
			s.config.S3RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *AttachmentService) getPresignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (s *AttachmentService) getPresignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Register records a pending attachment for the order and returns a
// presigned PUT URL for the upload.
func (s *AttachmentService) Register(ctx context.Context, orderID, fileName string) (*AttachmentUploadTask, error) {
	if fileName == "" {
		return nil, fmt.Errorf("%w: file name is required", common.ErrorValidation)
	}
	if _, err := s.repomanager.Orders(s.db).Get(ctx, orderID); err != nil {
		return nil, err
	}

	key := randomStorageKey(orderID)
	url, err := s.getPresignedPutURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error presigning upload: %v", err)
	}

	attachment := &models.Attachment{
		OrderID:      orderID,
		FileName:     fileName,
		StorageKey:   key,
		UploadStatus: models.UploadStatusPending,
	}
	if _, err := s.repomanager.Attachments(s.db).Create(ctx, attachment); err != nil {
		return nil, fmt.Errorf("error creating attachment: %v", err)
	}

	return &AttachmentUploadTask{Attachment: attachment, UploadURL: url}, nil
}

// ListByOrder returns the attachment metadata recorded for the order.
func (s *AttachmentService) ListByOrder(ctx context.Context, orderID string) ([]*models.Attachment, error) {
	if _, err := s.repomanager.Orders(s.db).Get(ctx, orderID); err != nil {
		return nil, err
	}
	result, err := s.repomanager.Attachments(s.db).ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("error listing attachments: %v", err)
	}
	return result, nil
}

// MarkUploaded confirms that the client finished uploading the object.
func (s *AttachmentService) MarkUploaded(ctx context.Context, id string) error {
	if err := s.repomanager.Attachments(s.db).MarkUploaded(ctx, id); err != nil {
		return err
	}
	return nil
}

// GetDownloadURL returns a presigned GET URL for the attachment content.
func (s *AttachmentService) GetDownloadURL(ctx context.Context, id string) (string, error) {
	attachment, err := s.repomanager.Attachments(s.db).Get(ctx, id)
	if err != nil {
		return "", err
	}

	url, err := s.getPresignedGetURL(ctx, attachment.StorageKey)
	if err != nil {
		return "", fmt.Errorf("error presigning download: %v", err)
	}

	return url, nil
}
