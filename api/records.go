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
	"strconv"

	"github.com/gin-gonic/gin"

	apimodel "github.com/jerry-enebeli/commissions/api/model"
	"github.com/jerry-enebeli/commissions/model"
)

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "record id must be an integer", err)
		return 0, false
	}
	return id, true
}

func (a Api) GetRecords(c *gin.Context) {
	var filter model.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "invalid filter", err)
		return
	}
	c.JSON(http.StatusOK, a.engine.Records(filter))
}

func (a Api) AddRecord(c *gin.Context) {
	var req apimodel.AddRecord
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid record", err)
		return
	}
	if err := req.ValidateAddRecord(); err != nil {
		respondError(c, err)
		return
	}

	record, err := a.engine.AddRecord(c.Request.Context(), req.Carrier, req.Mapped(), req.Force)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

func (a Api) EditRecord(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var patch model.RecordPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid patch", err)
		return
	}

	record, err := a.engine.Edit(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (a Api) DeleteRecord(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := a.engine.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}

func (a Api) BulkEditRecords(c *gin.Context) {
	var req apimodel.BulkEdit
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid bulk edit", err)
		return
	}
	if err := req.ValidateBulkEdit(); err != nil {
		respondError(c, err)
		return
	}

	n, err := a.engine.BulkEdit(c.Request.Context(), model.NewIDSet(req.IDs...), req.Field, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

func (a Api) BulkDeleteRecords(c *gin.Context) {
	var req apimodel.BulkDelete
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid bulk delete", err)
		return
	}
	if err := req.ValidateBulkDelete(); err != nil {
		respondError(c, err)
		return
	}

	n, err := a.engine.BulkDelete(c.Request.Context(), model.NewIDSet(req.IDs...))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (a Api) Undo(c *gin.Context) {
	label, err := a.engine.Undo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"undone": label, "undoDepth": a.engine.Book().UndoDepth()})
}

// GetUndoHistory lists the changes undo can revert, most recent first.
func (a Api) GetUndoHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"changes": a.engine.Book().Changes()})
}

func (a Api) GetReport(c *gin.Context) {
	var filter model.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "invalid filter", err)
		return
	}
	c.JSON(http.StatusOK, a.engine.Report(filter))
}

// Export streams the filtered ledger as CSV.
func (a Api) Export(c *gin.Context) {
	var filter model.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		badRequest(c, "invalid filter", err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="commissions.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", a.engine.Export(filter))
}
