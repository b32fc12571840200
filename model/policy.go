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

// PolicyStatus is the health classification of a policy's net commission.
type PolicyStatus string

const (
	StatusHealthy PolicyStatus = "healthy"
	StatusAtRisk  PolicyStatus = "at-risk"
	StatusChurned PolicyStatus = "churned"
)

// Policy is a view derived from the ledger. It is never persisted.
type Policy struct {
	PolicyNumber     string             `json:"policyNumber"`
	ClientName       string             `json:"clientName"`
	Carrier          string             `json:"carrier"`
	Agent            string             `json:"agent"`
	BusinessType     BusinessType       `json:"businessType"`
	PolicyType       string             `json:"policyType"`
	TotalCommissions decimal.Decimal    `json:"totalCommissions"`
	TotalChargebacks decimal.Decimal    `json:"totalChargebacks"`
	NetRevenue       decimal.Decimal    `json:"netRevenue"`
	FirstPayment     string             `json:"firstPayment"`
	LastPayment      string             `json:"lastPayment"`
	HasChargeback    bool               `json:"hasChargeback"`
	Status           PolicyStatus       `json:"status"`
	Transactions     []CommissionRecord `json:"transactions"`
}

// PortfolioSummary rolls a policy list up into headline figures.
type PortfolioSummary struct {
	Policies         int                  `json:"policies"`
	ByStatus         map[PolicyStatus]int `json:"byStatus"`
	TotalCommissions decimal.Decimal      `json:"totalCommissions"`
	TotalChargebacks decimal.Decimal      `json:"totalChargebacks"`
	NetRevenue       decimal.Decimal      `json:"netRevenue"`
	ChargebackRate   decimal.Decimal      `json:"chargebackRate"`
}
