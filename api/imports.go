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
	"encoding/json"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jerry-enebeli/commissions"
	apimodel "github.com/jerry-enebeli/commissions/api/model"
	"github.com/jerry-enebeli/commissions/model"
)

type importParams struct {
	Carrier        string `form:"carrier"`
	Preview        bool   `form:"preview"`
	SkipDuplicates bool   `form:"skipDuplicates"`
	SaveMapping    bool   `form:"saveMapping"`
}

// ImportStatements reads every part of the "files" field as one statement.
// An optional "mapping" form field holds a JSON column mapping applied to
// every file of the request.
func (a Api) ImportStatements(c *gin.Context) {
	var params importParams
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "invalid import parameters", err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "file upload failed", err)
		return
	}

	var override *model.ColumnMapping
	if raw := c.PostForm("mapping"); raw != "" {
		var m model.ColumnMapping
		if err := json.Unmarshal([]byte(raw), &m); err != nil {
			badRequest(c, "invalid mapping", err)
			return
		}
		override = &m
	}

	headers := form.File["files"]
	inputs := make([]commissions.FileInput, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			logrus.Error(err)
			badRequest(c, "file upload failed", err)
			return
		}
		opened = append(opened, f)
		inputs = append(inputs, commissions.FileInput{
			Name:        header.Filename,
			Reader:      f,
			Mapping:     override,
			SaveMapping: params.SaveMapping,
		})
	}

	result, err := a.engine.ImportBatch(c.Request.Context(), inputs, commissions.ImportOptions{
		Carrier:        params.Carrier,
		SkipDuplicates: params.SkipDuplicates,
		Preview:        params.Preview,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if params.Preview {
		status = http.StatusOK
	}
	c.JSON(status, result)
}

// CommitImport appends previewed candidates to the ledger.
func (a Api) CommitImport(c *gin.Context) {
	var req apimodel.CommitImport
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid commit payload", err)
		return
	}
	if err := req.ValidateCommitImport(); err != nil {
		respondError(c, err)
		return
	}

	result, err := a.engine.Commit(c.Request.Context(), req.Candidates, req.SkipDuplicates)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}
