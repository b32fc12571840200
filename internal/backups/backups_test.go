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

package backups

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-enebeli/commissions/config"
)

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, f.err
}

var fixed = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

func unzip(t *testing.T, data []byte) string {
	t.Helper()
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, r.File, 1)
	assert.Equal(t, ExportName, r.File[0].Name)
	f, err := r.File[0].Open()
	require.NoError(t, err)
	defer f.Close()
	content, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(content)
}

func TestArchive(t *testing.T) {
	data, err := Archive([]byte("Date,Carrier\n"), fixed)
	require.NoError(t, err)
	assert.Equal(t, "Date,Carrier\n", unzip(t, data))
}

func TestBackupManager_BackupToDisk(t *testing.T) {
	dir := t.TempDir()
	bm := &BackupManager{
		Config: &config.Configuration{ProjectName: "Acme Agency", Backup: config.BackupConfig{Dir: dir}},
		Now:    func() time.Time { return fixed },
	}

	path, err := bm.BackupToDisk(context.Background(), []byte("export"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "2024-03-09", "ledger-140507.zip"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export", unzip(t, data))
}

func TestBackupManager_BackupToDisk_ContextCancellation(t *testing.T) {
	bm := &BackupManager{Config: &config.Configuration{Backup: config.BackupConfig{Dir: t.TempDir()}}, Now: time.Now}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path, err := bm.BackupToDisk(ctx, []byte("export"))
	assert.Error(t, err)
	assert.Empty(t, path)
}

func TestBackupManager_BackupToS3(t *testing.T) {
	putter := &fakePutter{}
	bm := &BackupManager{
		Config:   &config.Configuration{ProjectName: "Acme Agency", Backup: config.BackupConfig{S3BucketName: "ledger-backups"}},
		S3Client: putter,
		Now:      func() time.Time { return fixed },
	}

	key, err := bm.BackupToS3(context.Background(), []byte("export"))
	require.NoError(t, err)
	assert.Equal(t, "acme-agency/2024-03-09/ledger-140507.zip", key)
	assert.Equal(t, "ledger-backups", aws.ToString(putter.input.Bucket))
	assert.Equal(t, key, aws.ToString(putter.input.Key))
	assert.Equal(t, "export", unzip(t, putter.body))
}

func TestBackupManager_BackupToS3_Failures(t *testing.T) {
	bm := &BackupManager{Config: &config.Configuration{}, Now: time.Now}
	_, err := bm.BackupToS3(context.Background(), nil)
	assert.ErrorIs(t, err, ErrS3NotConfigured)

	bm = &BackupManager{
		Config:   &config.Configuration{Backup: config.BackupConfig{S3BucketName: "b"}},
		S3Client: &fakePutter{err: errors.New("access denied")},
		Now:      time.Now,
	}
	_, err = bm.BackupToS3(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "failed to upload backup")
}

func TestNewBackupManager_WithoutBucket(t *testing.T) {
	bm, err := NewBackupManager(context.Background(), &config.Configuration{})
	require.NoError(t, err)
	assert.Nil(t, bm.S3Client)
}
