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
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jerry-enebeli/commissions"
	"github.com/jerry-enebeli/commissions/model"
)

func (a Api) GetMappings(c *gin.Context) {
	mappings, err := a.engine.Mappings().All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, mappings)
}

func (a Api) GetMapping(c *gin.Context) {
	carrier := c.Param("carrier")
	m, ok, err := a.engine.Mappings().Get(c.Request.Context(), carrier)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		respondError(c, fmt.Errorf("%s: %w", carrier, commissions.ErrMappingNotFound))
		return
	}
	c.JSON(http.StatusOK, m)
}

func (a Api) SaveMapping(c *gin.Context) {
	var m model.ColumnMapping
	if err := c.ShouldBindJSON(&m); err != nil {
		badRequest(c, "invalid mapping", err)
		return
	}
	if err := a.engine.Mappings().Save(c.Request.Context(), c.Param("carrier"), m); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (a Api) DeleteMapping(c *gin.Context) {
	if err := a.engine.Mappings().Delete(c.Request.Context(), c.Param("carrier")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("carrier")})
}
