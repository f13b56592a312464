package s3

//go:generate go run go.uber.org/mock/mockgen -source=./s3.go -destination=./mocks/s3_mock.go -package=mocks

import (
	"context"
	"fmt"
	"mime/multipart"
	"path"
	"strings"

	"lodging/config"
	"lodging/infras/otel"
	"lodging/shared/constant"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

const (
	otelAttrObject = "object"
	otelAttrBucket = "bucket"
	otelAttrSize   = "size"

	// R2 and MinIO ignore the region but the SDK requires one.
	defaultRegion = "auto"
)

// S3 stores room images in an S3 compatible bucket. An empty bucket name means the
// configured default bucket.
type S3 interface {
	UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error)
	DeleteFile(ctx context.Context, bucketName, directory, objectName string) error
	GetObjectNameFromURL(bucketName, url string) (objectName string)
}

type s3Impl struct {
	client *s3.Client
	cfg    *config.Config
	otel   otel.Otel
}

func (svc *s3Impl) bucket(name string) string {
	if name == constant.Empty {
		return svc.cfg.External.S3.BucketName
	}

	return name
}

func (svc *s3Impl) UploadFile(ctx context.Context, bucketName, directory string, file multipart.File, fileHeader *multipart.FileHeader, fileName string) (url string, err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".UploadFile")
	defer scope.End()
	defer scope.TraceIfError(&err)

	bucketName = svc.bucket(bucketName)
	objectKey := path.Join(directory, fileName)

	scope.SetAttributes(map[string]any{
		otelAttrObject: objectKey,
		otelAttrBucket: bucketName,
		otelAttrSize:   fileHeader.Size,
	})

	_, err = svc.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucketName),
		Key:           aws.String(objectKey),
		Body:          file,
		ContentType:   aws.String(fileHeader.Header.Get(constant.RequestHeaderContentType)),
		ContentLength: aws.Int64(fileHeader.Size),
	})
	if err != nil {
		log.Error().Err(err).Str("object", objectKey).Msg("failed to upload file to s3")

		return constant.Empty, fmt.Errorf("failed to upload file to s3: %w", err)
	}

	return svc.publicURL(objectKey), nil
}

func (svc *s3Impl) DeleteFile(ctx context.Context, bucketName, directory, objectName string) (err error) {
	ctx, scope := svc.otel.NewScope(ctx, constant.OtelS3ScopeName, constant.OtelS3ScopeName+".DeleteFile")
	defer scope.End()
	defer scope.TraceIfError(&err)

	bucketName = svc.bucket(bucketName)
	objectKey := path.Join(directory, objectName)

	scope.SetAttributes(map[string]any{
		otelAttrObject: objectKey,
		otelAttrBucket: bucketName,
	})

	_, err = svc.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Error().Err(err).Str("object", objectKey).Msg("failed to delete file from s3")

		return fmt.Errorf("failed to delete file from s3: %w", err)
	}

	return nil
}

// GetObjectNameFromURL returns the object name of a url produced by UploadFile, or of a
// path style url on the API endpoint. The directory is stripped. Foreign urls yield "".
func (svc *s3Impl) GetObjectNameFromURL(bucketName, url string) string {
	prefixes := []string{
		strings.TrimSuffix(svc.cfg.External.S3.PublicDomain, "/") + "/",
		strings.TrimSuffix(svc.cfg.External.S3.APIEndpoint, "/") + "/" + svc.bucket(bucketName) + "/",
	}

	for _, prefix := range prefixes {
		if prefix == "/" {
			continue
		}

		if key, ok := strings.CutPrefix(url, prefix); ok && key != constant.Empty {
			return path.Base(key)
		}
	}

	return constant.Empty
}

func (svc *s3Impl) publicURL(objectKey string) string {
	return strings.TrimSuffix(svc.cfg.External.S3.PublicDomain, "/") + "/" + objectKey
}

func New(cfg *config.Config, otel otel.Otel) S3 {
	settings := cfg.External.S3

	awsCfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(defaultRegion),
		awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(settings.AccessKeyID, settings.SecretAccessKey, "")),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to load aws configuration")
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if settings.APIEndpoint != constant.Empty {
			o.BaseEndpoint = aws.String(settings.APIEndpoint)
		}

		o.UsePathStyle = true
	})

	return &s3Impl{
		client: client,
		cfg:    cfg,
		otel:   otel,
	}
}
