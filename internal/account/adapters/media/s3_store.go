// Package media хранит аватары и резюме в S3-совместимом хранилище.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfolio/internal/account/domain/entities"
	"portfolio/internal/account/domain/services"
	svc "portfolio/internal/account/ports/services"
	"portfolio/pkg/logger"
)

const (
	methodUpload = "Upload"
	methodDelete = "Delete"

	msgUploading     = "uploading media object"
	msgUploaded      = "media object uploaded"
	msgDeleted       = "media object deleted"
	msgErrUpload     = "failed to upload media object"
	msgErrDelete     = "failed to delete media object"
	msgErrDetectMime = "failed to detect content type"

	errCtxLoadConfig = "loading s3 config"
	errCtxUpload     = "uploading to s3"
	errCtxDelete     = "deleting from s3"
	errCtxRewind     = "rewinding upload"

	defaultContentType = "application/octet-stream"
)

// ErrEmptyFile возвращается при загрузке файла без содержимого.
var ErrEmptyFile = errors.New("media file is empty")

// S3API - используемое подмножество *s3.Client.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ClientConfig описывает подключение к хранилищу.
type ClientConfig struct {
	Endpoint     string
	Region       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

var loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

// NewS3Client создает клиент S3 со статическими учетными данными.
func NewS3Client(ctx context.Context, cfg ClientConfig) (*s3.Client, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoadConfig, err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// S3Store реализует MediaStore поверх S3.
type S3Store struct {
	client    S3API
	bucket    string
	publicURL string
	newKey    func() string
}

// NewS3Store создает хранилище медиа. publicURL - базовый адрес, по которому объекты доступны клиентам.
func NewS3Store(client S3API, bucket, publicURL string) svc.MediaStore {
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		newKey:    func() string { return uuid.NewString() },
	}
}

// Upload кладет файл в каталог folder под случайным именем.
func (s *S3Store) Upload(ctx context.Context, folder string, file *services.MediaFile) (*entities.Media, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpload), zap.String("folder", folder))

	if file == nil || file.Content == nil {
		return nil, fmt.Errorf("%s: %w", errCtxUpload, ErrEmptyFile)
	}

	contentType, ext, err := s.detect(ctx, log, file)
	if err != nil {
		return nil, err
	}
	key := folder + "/" + s.newKey() + ext

	log.Debug(ctx, msgUploading, zap.String("key", key), zap.String("content_type", contentType))

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file.Content,
		ContentType: aws.String(contentType),
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		log.Error(ctx, msgErrUpload, zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpload, err)
	}

	log.Info(ctx, msgUploaded, zap.String("key", key))
	return &entities.Media{PublicID: key, URL: s.publicURL + "/" + key}, nil
}

// Delete удаляет объект по идентификатору. Пустой идентификатор игнорируется.
func (s *S3Store) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	log := logger.Log(ctx).With(zap.String("method", methodDelete), zap.String("key", publicID))

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	}); err != nil {
		log.Error(ctx, msgErrDelete, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxDelete, err)
	}

	log.Debug(ctx, msgDeleted)
	return nil
}

// detect определяет тип содержимого по первым байтам и возвращает поток в начало.
func (s *S3Store) detect(ctx context.Context, log *logger.Logger, file *services.MediaFile) (string, string, error) {
	contentType, ext := file.ContentType, filepath.Ext(file.Name)

	mime, err := mimetype.DetectReader(file.Content)
	if err != nil {
		log.Warn(ctx, msgErrDetectMime, zap.Error(err))
	} else if mime.String() != defaultContentType || contentType == "" {
		contentType = mime.String()
		if mime.Extension() != "" {
			ext = mime.Extension()
		}
	}

	if _, err := file.Content.Seek(0, io.SeekStart); err != nil {
		return "", "", fmt.Errorf("%s: %w", errCtxRewind, err)
	}

	if contentType == "" {
		contentType = defaultContentType
	}
	return contentType, strings.ToLower(ext), nil
}
