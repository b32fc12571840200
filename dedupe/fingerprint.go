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

// Package dedupe fingerprints commission records and flags candidates that
// repeat the ledger or an earlier row of the same batch.
package dedupe

import (
	"strings"

	"github.com/jerry-enebeli/commissions/model"
)

// Fingerprint is the duplicate identity of a record: payment date, policy
// number, amount to the cent and carrier. The record id plays no part.
func Fingerprint(r model.CommissionRecord) string {
	return strings.Join([]string{
		strings.TrimSpace(r.PaymentDate),
		strings.ToUpper(strings.TrimSpace(r.PolicyNumber)),
		r.Amount.StringFixed(2),
		strings.ToUpper(strings.TrimSpace(r.Carrier)),
	}, "|")
}

// Set builds the fingerprint set of existing records.
func Set(records []model.CommissionRecord) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		set[Fingerprint(r)] = struct{}{}
	}
	return set
}

// Classify flags each record of batch, in order. A record already in the
// ledger is "existing"; otherwise one whose fingerprint appeared earlier in
// the batch is "batch". The first of two identical batch records is new.
func Classify(batch []model.CommissionRecord, existing []model.CommissionRecord) []model.DuplicateCandidate {
	ledgerSet := Set(existing)
	seen := make(map[string]struct{}, len(batch))
	out := make([]model.DuplicateCandidate, 0, len(batch))

	for _, r := range batch {
		fp := Fingerprint(r)
		dup := model.DuplicateNone
		if _, ok := ledgerSet[fp]; ok {
			dup = model.DuplicateExisting
		} else if _, ok := seen[fp]; ok {
			dup = model.DuplicateBatch
		}
		seen[fp] = struct{}{}

		out = append(out, model.DuplicateCandidate{
			CommissionRecord: r,
			IsDuplicate:      dup != model.DuplicateNone,
			DuplicateType:    dup,
		})
	}

	return out
}
