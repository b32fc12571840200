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

	"github.com/jerry-enebeli/commissions/policy"
)

func (a Api) GetPolicies(c *gin.Context) {
	var criteria policy.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		badRequest(c, "invalid policy criteria", err)
		return
	}
	c.JSON(http.StatusOK, a.engine.Policies(criteria))
}

func (a Api) GetSummary(c *gin.Context) {
	var criteria policy.Criteria
	if err := c.ShouldBindQuery(&criteria); err != nil {
		badRequest(c, "invalid policy criteria", err)
		return
	}
	c.JSON(http.StatusOK, a.engine.Summary(criteria))
}

func (a Api) GetCarriers(c *gin.Context) {
	c.JSON(http.StatusOK, a.engine.Carriers())
}
