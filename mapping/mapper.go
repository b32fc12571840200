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

// Package mapping applies column mappings to statement rows and normalizes
// the result into canonical commission records.
package mapping

import "github.com/jerry-enebeli/commissions/model"

// Apply looks up each canonical field's mapped column in row. Unmapped
// fields and columns missing from the row come back empty.
func Apply(m model.ColumnMapping, row model.Row) model.MappedRecord {
	lookup := func(column string) string {
		if column == "" {
			return ""
		}
		return row[column]
	}

	return model.MappedRecord{
		PaymentDate:    lookup(m.PaymentDate),
		ClientName:     lookup(m.ClientName),
		PolicyNumber:   lookup(m.PolicyNumber),
		PolicyType:     lookup(m.PolicyType),
		CommissionType: lookup(m.CommissionType),
		Agent:          lookup(m.Agent),
		Amount:         lookup(m.Amount),
	}
}

// ApplyAll maps every row in order.
func ApplyAll(m model.ColumnMapping, rows []model.Row) []model.MappedRecord {
	out := make([]model.MappedRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, Apply(m, row))
	}
	return out
}
