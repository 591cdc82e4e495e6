package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/knyharnia/bookstore/internal/infrastructure/config"
	"github.com/knyharnia/bookstore/pkg/circuitbreaker"
	apperrors "github.com/knyharnia/bookstore/pkg/errors"
	"github.com/knyharnia/bookstore/pkg/metrics"
)

// S3Storage 封面图片对象存储（AWS S3）
// 设计说明：
// 1. 上传走熔断器保护：S3持续超时时快速失败，不让每个创建请求都挂满超时
// 2. 上传成功返回公开访问URL（写入图书实体的CoverImageLink）
// 3. Delete用于补偿：图书持久化失败时删除已上传的封面
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
	timeout time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewS3Storage 创建S3存储
// cfg.S3.Endpoint非空时指向兼容实现（本地MinIO），并启用path-style寻址
func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.S3.Region),
	}
	if cfg.S3.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("加载AWS配置失败: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3.Endpoint)
			o.UsePathStyle = true
		}
	})

	breaker := circuitbreaker.NewCircuitBreaker("s3-upload", circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	breaker.SetStateChangeCallback(func(name string, from, to circuitbreaker.State) {
		log.Printf("熔断器[%s]状态变化: %s → %s", name, from, to)
		if metrics.UploadBreakerState != nil {
			metrics.UploadBreakerState.Set(float64(to))
		}
	})

	return &S3Storage{
		client:  client,
		bucket:  cfg.S3.Bucket,
		baseURL: publicBaseURL(cfg),
		timeout: cfg.S3.UploadTimeout,
		breaker: breaker,
	}, nil
}

// publicBaseURL 计算公开访问URL前缀
func publicBaseURL(cfg *config.Config) string {
	if cfg.S3.PublicBaseURL != "" {
		return strings.TrimRight(cfg.S3.PublicBaseURL, "/")
	}
	if cfg.S3.Endpoint != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(cfg.S3.Endpoint, "/"), cfg.S3.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3.Bucket, cfg.S3.Region)
}

// Upload 上传封面图片，返回公开访问URL
// 熔断器打开或PutObject失败统一返回上传失败错误（上层映射为502）
func (s *S3Storage) Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	err := s.breaker.Execute(func() error {
		uploadCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		_, putErr := s.client.PutObject(uploadCtx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        body,
			ContentType: aws.String(contentType),
		})
		return putErr
	})
	if err != nil {
		return "", apperrors.WrapWithCode(err, apperrors.ErrCodeUploadFailed, "上传封面图片失败")
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}

// Delete 删除已上传的对象（补偿操作）
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	deleteCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := s.client.DeleteObject(deleteCtx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.ErrCodeUploadFailed, "删除封面图片失败")
	}
	return nil
}

// BreakerState 当前熔断器状态（健康检查接口使用）
func (s *S3Storage) BreakerState() circuitbreaker.State {
	return s.breaker.State()
}
