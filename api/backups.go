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

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jerry-enebeli/commissions/internal/backups"
	"github.com/jerry-enebeli/commissions/model"
)

// Backup archives the full ledger export to the backup directory.
func (a Api) Backup(c *gin.Context) {
	bm, err := backups.NewBackupManager(c.Request.Context(), a.conf)
	if err != nil {
		respondError(c, err)
		return
	}
	path, err := bm.BackupToDisk(c.Request.Context(), a.engine.Export(model.RecordFilter{}))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"path": path})
}

func (a Api) BackupS3(c *gin.Context) {
	bm, err := backups.NewBackupManager(c.Request.Context(), a.conf)
	if err != nil {
		respondError(c, err)
		return
	}
	key, err := bm.BackupToS3(c.Request.Context(), a.engine.Export(model.RecordFilter{}))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bucket": a.conf.Backup.S3BucketName, "key": key})
}
