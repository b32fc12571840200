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

package commissions

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jerry-enebeli/commissions/ledger"
	"github.com/jerry-enebeli/commissions/mapping"
	"github.com/jerry-enebeli/commissions/model"
	"github.com/jerry-enebeli/commissions/policy"
)

// Records returns the ledger records matching filter, in ledger order.
func (e *Engine) Records(filter model.RecordFilter) []model.CommissionRecord {
	return FilterRecords(e.book.Snapshot().Records(), filter)
}

// Report summarizes the records matching filter.
func (e *Engine) Report(filter model.RecordFilter) model.Report {
	return BuildReport(e.Records(filter), filter)
}

// Policies aggregates the current ledger and keeps the policies matching c.
func (e *Engine) Policies(c policy.Criteria) []model.Policy {
	return policy.Select(policy.Aggregate(e.book.Snapshot().Records()), c)
}

// Summary rolls up the policies matching c.
func (e *Engine) Summary(c policy.Criteria) model.PortfolioSummary {
	return policy.Summarize(e.Policies(c))
}

// AddRecord normalizes and appends one manually entered record. A record
// that duplicates the ledger is refused with ErrDuplicateRecord unless force
// is set. An empty payment date means today.
func (e *Engine) AddRecord(ctx context.Context, carrier string, rec model.MappedRecord, force bool) (model.CommissionRecord, error) {
	carrier = strings.TrimSpace(carrier)
	if carrier == "" {
		return model.CommissionRecord{}, ErrMissingCarrier
	}
	if strings.TrimSpace(rec.PaymentDate) == "" {
		rec.PaymentDate = e.today()
	}

	record := e.normalizer.Normalize(carrier, rec)
	if record.Amount.IsZero() {
		return model.CommissionRecord{}, ledger.ErrZeroAmount
	}

	_, result, err := e.book.AppendRecords(ctx, []model.CommissionRecord{record}, false, func(c []model.DuplicateCandidate) error {
		if !force && c[0].IsDuplicate {
			return ErrDuplicateRecord
		}
		return nil
	})
	if err != nil {
		return model.CommissionRecord{}, err
	}
	record.ID = result.IDs[0]
	return record, nil
}

func (e *Engine) Edit(ctx context.Context, id int64, patch model.RecordPatch) (model.CommissionRecord, error) {
	return e.book.Edit(ctx, id, patch)
}

func (e *Engine) Delete(ctx context.Context, id int64) error {
	return e.book.Delete(ctx, id)
}

func (e *Engine) BulkEdit(ctx context.Context, ids model.IDSet, field, value string) (int, error) {
	return e.book.BulkEdit(ctx, ids, field, value)
}

func (e *Engine) BulkDelete(ctx context.Context, ids model.IDSet) (int, error) {
	return e.book.BulkDelete(ctx, ids)
}

// Undo reverts the most recent change and returns its description.
func (e *Engine) Undo(ctx context.Context) (string, error) {
	return e.book.Undo(ctx)
}

// FilterRecords keeps the records matching every set field of f. Search is
// a case-insensitive substring of client, policy, carrier or agent. The date
// range compares ISO-normalized payment dates; records without a date fall
// outside any range.
func FilterRecords(records []model.CommissionRecord, f model.RecordFilter) []model.CommissionRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	start := mapping.NormalizeDate(f.StartDate)
	end := mapping.NormalizeDate(f.EndDate)

	out := make([]model.CommissionRecord, 0, len(records))
	for _, r := range records {
		if search != "" && !containsFold(search, r.ClientName, r.PolicyNumber, r.Carrier, r.Agent) {
			continue
		}
		if f.Carrier != "" && r.Carrier != f.Carrier {
			continue
		}
		if f.CommissionType != "" && r.CommissionType != f.CommissionType {
			continue
		}
		if f.Agent != "" && r.Agent != f.Agent {
			continue
		}
		if f.BusinessType != "" && r.BusinessType != f.BusinessType {
			continue
		}
		if start != "" || end != "" {
			date := mapping.NormalizeDate(r.PaymentDate)
			if date == "" || (start != "" && date < start) || (end != "" && date > end) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func containsFold(search string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// BuildReport computes the headline figures of records.
func BuildReport(records []model.CommissionRecord, f model.RecordFilter) model.Report {
	report := model.Report{
		Filter:       f,
		Net:          decimal.Zero,
		Commissions:  decimal.Zero,
		Chargebacks:  decimal.Zero,
		Transactions: len(records),
		ByBusiness:   map[model.BusinessType]decimal.Decimal{},
	}

	clients := make(map[string]struct{})
	for _, r := range records {
		report.Net = report.Net.Add(r.Amount)
		if r.Amount.IsNegative() {
			report.Chargebacks = report.Chargebacks.Add(r.Amount.Abs())
		} else {
			report.Commissions = report.Commissions.Add(r.Amount)
		}
		if r.ClientName != "" {
			clients[r.ClientName] = struct{}{}
		}
		total, ok := report.ByBusiness[r.BusinessType]
		if !ok {
			total = decimal.Zero
		}
		report.ByBusiness[r.BusinessType] = total.Add(r.Amount)
	}
	report.Clients = len(clients)
	return report
}
