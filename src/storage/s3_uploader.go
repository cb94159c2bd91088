package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"diary-app/src/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/sirupsen/logrus"
)

const objectSource = "diary-app"

// NewS3Client S3クライアントを作成
func NewS3Client(cfg config.S3Config) (s3iface.S3API, error) {
	awsConfig := &aws.Config{
		Region:           aws.String(cfg.Region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		DisableSSL:       aws.Bool(!cfg.UseSSL),
		S3ForcePathStyle: aws.Bool(true), // MinIOなどのS3互換ストレージ用
	}

	// エンドポイントが指定されている場合（MinIOなど）
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("AWSセッションの作成に失敗: %w", err)
	}
	return s3.New(sess), nil
}

// LogUploader ships rotated log files to a bucket
type LogUploader struct {
	client s3iface.S3API
	bucket string
	logger *logrus.Logger
	// skip reports files that are still being written
	skip func(path string) bool
}

// NewLogUploader S3アップローダーを作成
func NewLogUploader(client s3iface.S3API, bucket string, skip func(path string) bool, logger *logrus.Logger) *LogUploader {
	if skip == nil {
		skip = func(string) bool { return false }
	}
	return &LogUploader{
		client: client,
		bucket: bucket,
		logger: logger,
		skip:   skip,
	}
}

// UploadLogFile ログファイルをS3にアップロード
func (u *LogUploader) UploadLogFile(ctx context.Context, filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}
	defer file.Close()

	fileName := filepath.Base(filePath)
	objectKey := path.Join("logs", fileName)

	_, err = u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String("text/plain"),
		Metadata: map[string]*string{
			"upload-time": aws.String(time.Now().Format(time.RFC3339)),
			"source":      aws.String(objectSource),
		},
	})
	if err != nil {
		return fmt.Errorf("S3アップロードに失敗: %w", err)
	}

	u.logger.WithFields(logrus.Fields{
		"file":   fileName,
		"bucket": u.bucket,
		"key":    objectKey,
	}).Info("ログファイルをS3にアップロードしました")
	return nil
}

// UploadOldLogs uploads and removes log files older than maxAge, returning how many were shipped
func (u *LogUploader) UploadOldLogs(ctx context.Context, logDir string, maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(logDir)
	if err != nil {
		return 0, fmt.Errorf("ログディレクトリの読み取りに失敗: %w", err)
	}

	cutoffTime := time.Now().Add(-maxAge)
	uploaded := 0

	for _, entry := range entries {
		if ctx.Err() != nil {
			return uploaded, ctx.Err()
		}
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".log") {
			continue
		}

		filePath := filepath.Join(logDir, entry.Name())
		if u.skip(filePath) {
			continue
		}

		fileInfo, err := entry.Info()
		if err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ファイル情報の取得に失敗")
			continue
		}
		if !fileInfo.ModTime().Before(cutoffTime) {
			continue
		}

		if err := u.UploadLogFile(ctx, filePath); err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ログファイルのアップロードに失敗")
			continue
		}
		uploaded++

		// ローカルファイルを削除
		if err := os.Remove(filePath); err != nil {
			u.logger.WithError(err).WithField("file", entry.Name()).Error("ローカルファイルの削除に失敗")
		}
	}

	return uploaded, nil
}

// ReportArchive stores generated PDF reports under <prefix>/<owner>/<name>
type ReportArchive struct {
	client s3iface.S3API
	bucket string
	prefix string
	logger *logrus.Logger
}

// NewReportArchive creates a report archive in bucket
func NewReportArchive(client s3iface.S3API, bucket, prefix string, logger *logrus.Logger) *ReportArchive {
	return &ReportArchive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: logger,
	}
}

// Key returns the object key of a report
func (a *ReportArchive) Key(owner, name string) string {
	return path.Join(a.prefix, owner, name)
}

// Archive uploads one report and returns its object key
func (a *ReportArchive) Archive(ctx context.Context, owner, name string, data []byte) (string, error) {
	key := a.Key(owner, name)
	_, err := a.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/pdf"),
		Metadata: map[string]*string{
			"owner-id": aws.String(owner),
			"source":   aws.String(objectSource),
		},
	})
	if err != nil {
		return "", fmt.Errorf("レポートの保存に失敗: %w", err)
	}

	a.logger.WithFields(logrus.Fields{
		"owner_id": owner,
		"bucket":   a.bucket,
		"key":      key,
		"size":     len(data),
	}).Info("レポートをS3に保存しました")
	return key, nil
}
