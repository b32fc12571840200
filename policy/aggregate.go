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

// Package policy derives per-policy views from the ledger. Nothing here is
// cached: callers aggregate the current ledger on every read.
package policy

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jerry-enebeli/commissions/model"
)

// Key is the grouping key of a policy number.
func Key(policyNumber string) string {
	return strings.ToUpper(strings.TrimSpace(policyNumber))
}

// Aggregate groups records by policy number and returns the policies by net
// revenue, highest first. Equal net revenues keep first-appearance order.
// Records without a policy number belong to no policy.
func Aggregate(records []model.CommissionRecord) []model.Policy {
	index := make(map[string]int)
	var policies []model.Policy

	for _, r := range records {
		key := Key(r.PolicyNumber)
		if key == "" {
			continue
		}

		i, ok := index[key]
		if !ok {
			i = len(policies)
			index[key] = i
			policies = append(policies, model.Policy{
				PolicyNumber:     key,
				ClientName:       r.ClientName,
				Carrier:          r.Carrier,
				Agent:            r.Agent,
				BusinessType:     r.BusinessType,
				PolicyType:       r.PolicyType,
				TotalCommissions: decimal.Zero,
				TotalChargebacks: decimal.Zero,
				NetRevenue:       decimal.Zero,
				FirstPayment:     r.PaymentDate,
				LastPayment:      r.PaymentDate,
			})
		}
		p := &policies[i]

		if r.Amount.IsNegative() {
			p.TotalChargebacks = p.TotalChargebacks.Add(r.Amount.Abs())
			p.HasChargeback = true
		} else {
			p.TotalCommissions = p.TotalCommissions.Add(r.Amount)
		}
		p.NetRevenue = p.NetRevenue.Add(r.Amount)

		if r.PaymentDate < p.FirstPayment {
			p.FirstPayment = r.PaymentDate
		}
		if r.PaymentDate > p.LastPayment {
			p.LastPayment = r.PaymentDate
		}
		if len(r.ClientName) > len(p.ClientName) {
			p.ClientName = r.ClientName
		}
		p.Transactions = append(p.Transactions, r)
	}

	for i := range policies {
		p := &policies[i]
		sort.SliceStable(p.Transactions, func(a, b int) bool {
			return p.Transactions[a].PaymentDate < p.Transactions[b].PaymentDate
		})
		p.Status = Status(p.NetRevenue, p.HasChargeback)
	}
	sort.SliceStable(policies, func(a, b int) bool {
		return policies[a].NetRevenue.GreaterThan(policies[b].NetRevenue)
	})
	return policies
}

// Status classifies a policy. Every policy gets exactly one status.
func Status(netRevenue decimal.Decimal, hasChargeback bool) model.PolicyStatus {
	switch {
	case netRevenue.LessThanOrEqual(decimal.Zero):
		return model.StatusChurned
	case hasChargeback:
		return model.StatusAtRisk
	default:
		return model.StatusHealthy
	}
}

// Filter keeps the policies with the given status. An empty status keeps all.
func Filter(policies []model.Policy, status model.PolicyStatus) []model.Policy {
	if status == "" {
		return policies
	}
	out := make([]model.Policy, 0, len(policies))
	for _, p := range policies {
		if p.Status == status {
			out = append(out, p)
		}
	}
	return out
}

// Summarize rolls policies up into portfolio totals.
func Summarize(policies []model.Policy) model.PortfolioSummary {
	summary := model.PortfolioSummary{
		Policies: len(policies),
		ByStatus: map[model.PolicyStatus]int{
			model.StatusHealthy: 0,
			model.StatusAtRisk:  0,
			model.StatusChurned: 0,
		},
		TotalCommissions: decimal.Zero,
		TotalChargebacks: decimal.Zero,
		NetRevenue:       decimal.Zero,
		ChargebackRate:   decimal.Zero,
	}
	withChargeback := 0
	for _, p := range policies {
		if p.HasChargeback {
			withChargeback++
		}
		summary.ByStatus[p.Status]++
		summary.TotalCommissions = summary.TotalCommissions.Add(p.TotalCommissions)
		summary.TotalChargebacks = summary.TotalChargebacks.Add(p.TotalChargebacks)
		summary.NetRevenue = summary.NetRevenue.Add(p.NetRevenue)
	}
	if len(policies) > 0 {
		summary.ChargebackRate = decimal.NewFromInt(int64(withChargeback)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(len(policies)))).
			Round(1)
	}
	return summary
}

// Criteria narrows a policy list. Empty fields do not filter.
type Criteria struct {
	Search       string             `form:"search"`
	Status       model.PolicyStatus `form:"status"`
	BusinessType model.BusinessType `form:"businessType"`
	Carrier      string             `form:"carrier"`
}

// Select keeps the policies matching every set criterion. Search is a
// case-insensitive substring of the client name or policy number.
func Select(policies []model.Policy, c Criteria) []model.Policy {
	search := strings.ToLower(strings.TrimSpace(c.Search))
	out := make([]model.Policy, 0, len(policies))
	for _, p := range policies {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.ClientName), search) &&
			!strings.Contains(strings.ToLower(p.PolicyNumber), search) {
			continue
		}
		if c.Status != "" && p.Status != c.Status {
			continue
		}
		if c.BusinessType != "" && p.BusinessType != c.BusinessType {
			continue
		}
		if c.Carrier != "" && p.Carrier != c.Carrier {
			continue
		}
		out = append(out, p)
	}
	return out
}
