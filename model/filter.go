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

package model

import "github.com/shopspring/decimal"

// RecordFilter narrows the ledger for listing, reporting and export. Empty
// fields do not filter. Dates are inclusive and compared as ISO strings.
type RecordFilter struct {
	Search         string       `json:"search" form:"search"`
	Carrier        string       `json:"carrier" form:"carrier"`
	CommissionType string       `json:"commissionType" form:"commissionType"`
	Agent          string       `json:"agent" form:"agent"`
	BusinessType   BusinessType `json:"businessType" form:"businessType"`
	StartDate      string       `json:"startDate" form:"startDate"`
	EndDate        string       `json:"endDate" form:"endDate"`
}

// IsZero reports whether the filter keeps every record.
func (f RecordFilter) IsZero() bool {
	return f == RecordFilter{}
}

// Report holds the headline figures of a filtered record set.
type Report struct {
	Filter       RecordFilter                     `json:"filter"`
	Net          decimal.Decimal                  `json:"net"`
	Commissions  decimal.Decimal                  `json:"commissions"`
	Chargebacks  decimal.Decimal                  `json:"chargebacks"`
	Transactions int                              `json:"transactions"`
	Clients      int                              `json:"clients"`
	ByBusiness   map[BusinessType]decimal.Decimal `json:"byBusiness"`
}
