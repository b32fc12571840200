/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package backups archives the CSV export of the ledger and ships it to disk
// or to an S3 compatible bucket.
package backups

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"

	"github.com/jerry-enebeli/commissions/config"
)

// ExportName is the file name of the CSV inside every archive.
const ExportName = "ledger.csv"

var ErrS3NotConfigured = errors.New("s3 backup is not configured")

// ObjectPutter is the part of the S3 client the backup needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type BackupManager struct {
	Config   *config.Configuration
	S3Client ObjectPutter
	Now      func() time.Time
}

// NewBackupManager builds a manager with an S3 client when a bucket is configured.
func NewBackupManager(ctx context.Context, cnf *config.Configuration) (*BackupManager, error) {
	bm := &BackupManager{Config: cnf, Now: time.Now}
	if cnf.Backup.S3BucketName == "" {
		return bm, nil
	}
	client, err := NewS3Client(ctx, cnf.Backup)
	if err != nil {
		return nil, err
	}
	bm.S3Client = client
	return bm, nil
}

// NewS3Client builds a client from static credentials. A custom endpoint
// switches to path-style addressing for S3 compatible stores.
func NewS3Client(ctx context.Context, cnf config.BackupConfig) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cnf.S3Region)}
	if cnf.AwsAccessKeyId != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cnf.AwsAccessKeyId, cnf.AwsSecretAccessKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if cnf.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cnf.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Archive zips the export as a single ledger.csv entry.
func Archive(export []byte, modified time.Time) ([]byte, error) {
	var buf bytes.Buffer
	writer := zip.NewWriter(&buf)

	w, err := writer.CreateHeader(&zip.FileHeader{
		Name:     ExportName,
		Method:   zip.Deflate,
		Modified: modified,
	})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(export); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ObjectKey names a backup by project, day and time of day.
func (bm *BackupManager) ObjectKey(at time.Time) string {
	return fmt.Sprintf("%s/%s/ledger-%s.zip", bm.Config.ProjectKey(), at.Format("2006-01-02"), at.Format("150405"))
}

// BackupToDisk writes the archived export under the configured backup
// directory and returns the file path.
func (bm *BackupManager) BackupToDisk(ctx context.Context, export []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := bm.Now()

	archive, err := Archive(export, now)
	if err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}

	dir := filepath.Join(bm.Config.Backup.Dir, now.Format("2006-01-02"))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("ledger-%s.zip", now.Format("150405")))
	if err := os.WriteFile(path, archive, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	logrus.WithField("path", path).Info("ledger backup written")
	return path, nil
}

// BackupToS3 uploads the archived export and returns its object key.
func (bm *BackupManager) BackupToS3(ctx context.Context, export []byte) (string, error) {
	if bm.S3Client == nil || bm.Config.Backup.S3BucketName == "" {
		return "", ErrS3NotConfigured
	}
	now := bm.Now()

	archive, err := Archive(export, now)
	if err != nil {
		return "", fmt.Errorf("failed to archive export: %w", err)
	}

	key := bm.ObjectKey(now)
	_, err = bm.S3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bm.Config.Backup.S3BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(archive),
		ContentType: aws.String("application/zip"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload backup: %w", err)
	}

	logrus.WithFields(logrus.Fields{"bucket": bm.Config.Backup.S3BucketName, "key": key}).Info("ledger backup uploaded")
	return key, nil
}
