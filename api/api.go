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
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jerry-enebeli/commissions"
	"github.com/jerry-enebeli/commissions/api/middleware"
	"github.com/jerry-enebeli/commissions/config"
	"github.com/jerry-enebeli/commissions/internal/apierror"
)

type Api struct {
	engine *commissions.Engine
	conf   *config.Configuration
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/imports", a.ImportStatements)
	router.POST("/imports/commit", a.CommitImport)

	router.GET("/records", a.GetRecords)
	router.POST("/records", a.AddRecord)
	router.PATCH("/records/:id", a.EditRecord)
	router.DELETE("/records/:id", a.DeleteRecord)
	router.POST("/records/bulk-edit", a.BulkEditRecords)
	router.POST("/records/bulk-delete", a.BulkDeleteRecords)
	router.GET("/undo", a.GetUndoHistory)
	router.POST("/undo", a.Undo)

	router.GET("/policies", a.GetPolicies)
	router.GET("/summary", a.GetSummary)
	router.GET("/report", a.GetReport)
	router.GET("/export", a.Export)
	router.GET("/carriers", a.GetCarriers)

	router.GET("/mappings", a.GetMappings)
	router.GET("/mappings/:carrier", a.GetMapping)
	router.PUT("/mappings/:carrier", a.SaveMapping)
	router.DELETE("/mappings/:carrier", a.DeleteMapping)

	router.POST("/backups", a.Backup)
	router.POST("/backups/s3", a.BackupS3)
	return a.router
}

func NewAPI(e *commissions.Engine) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	if conf.Telemetry.Enabled {
		r.Use(otelgin.Middleware(conf.ProjectName))
	}
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware(conf.Server.SecretKey))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{engine: e, conf: conf, router: r}
}

func respondError(c *gin.Context, err error) {
	apiErr := apierror.FromError(err)
	c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
}

func badRequest(c *gin.Context, message string, err error) {
	c.JSON(http.StatusBadRequest, apierror.NewAPIError(apierror.ErrInvalidInput, message, err.Error()))
}
