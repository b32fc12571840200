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

// Package ledger holds the commission ledger. A Ledger value is immutable:
// every merge operation returns a new Ledger and leaves the receiver as it
// was, so older values double as undo snapshots.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jerry-enebeli/commissions/model"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrUnknownField   = errors.New("unknown record field")
	ErrZeroAmount     = errors.New("amount must not be zero")
	ErrInvalidAmount  = errors.New("invalid amount")
	ErrNothingToUndo  = errors.New("nothing to undo")
)

// BusinessClassifier recomputes a record's business line after a carrier change.
type BusinessClassifier interface {
	BusinessType(carrier, commissionType, policyType string) model.BusinessType
}

// Ledger is an ordered, immutable sequence of commission records.
type Ledger struct {
	records []model.CommissionRecord
}

// AppendResult reports how many candidates an append accepted and skipped,
// and the ids given to the accepted ones.
type AppendResult struct {
	Imported int     `json:"imported"`
	Skipped  int     `json:"skipped"`
	IDs      []int64 `json:"ids,omitempty"`
}

// New returns a ledger holding a copy of records.
func New(records []model.CommissionRecord) Ledger {
	return Ledger{records: append([]model.CommissionRecord(nil), records...)}
}

// Records returns a copy of the ledger contents in order.
func (l Ledger) Records() []model.CommissionRecord {
	return append([]model.CommissionRecord(nil), l.records...)
}

// Len returns the number of records.
func (l Ledger) Len() int {
	return len(l.records)
}

// Find returns the record with the given id.
func (l Ledger) Find(id int64) (model.CommissionRecord, bool) {
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return model.CommissionRecord{}, false
}

// NextID returns the id the next appended record will get.
func (l Ledger) NextID() int64 {
	var max int64
	for _, r := range l.records {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// Append adds the candidates in order, assigning fresh ids. With
// skipDuplicates every candidate flagged as a duplicate is left out.
func (l Ledger) Append(candidates []model.DuplicateCandidate, skipDuplicates bool) (Ledger, AppendResult, error) {
	result := AppendResult{}
	next := make([]model.CommissionRecord, len(l.records), len(l.records)+len(candidates))
	copy(next, l.records)
	id := l.NextID()

	for _, c := range candidates {
		if skipDuplicates && c.DuplicateType != model.DuplicateNone {
			result.Skipped++
			continue
		}
		if c.Amount.IsZero() {
			return l, AppendResult{}, fmt.Errorf("policy %q on %s: %w", c.PolicyNumber, c.PaymentDate, ErrZeroAmount)
		}
		record := c.CommissionRecord
		record.ID = id
		id++
		next = append(next, record)
		result.Imported++
		result.IDs = append(result.IDs, record.ID)
	}

	return Ledger{records: next}, result, nil
}

// Edit merges patch over the record with the given id. A carrier change
// recomputes the business line from the new carrier and the record's
// existing commission and policy types.
func (l Ledger) Edit(id int64, patch model.RecordPatch, classifier BusinessClassifier) (Ledger, model.CommissionRecord, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return l, model.CommissionRecord{}, fmt.Errorf("record %d: %w", id, ErrRecordNotFound)
	}

	updated, err := applyPatch(l.records[idx], patch, classifier)
	if err != nil {
		return l, model.CommissionRecord{}, err
	}

	next := l.Records()
	next[idx] = updated
	return Ledger{records: next}, updated, nil
}

// Delete removes the record with the given id.
func (l Ledger) Delete(id int64) (Ledger, error) {
	idx := l.indexOf(id)
	if idx < 0 {
		return l, fmt.Errorf("record %d: %w", id, ErrRecordNotFound)
	}

	next := make([]model.CommissionRecord, 0, len(l.records)-1)
	next = append(next, l.records[:idx]...)
	next = append(next, l.records[idx+1:]...)
	return Ledger{records: next}, nil
}

// BulkEdit sets field to value on every record whose id is selected. It
// returns the number of records changed.
func (l Ledger) BulkEdit(ids model.IDSet, field, value string, classifier BusinessClassifier) (Ledger, int, error) {
	patch, err := PatchFor(field, value)
	if err != nil {
		return l, 0, err
	}

	next := l.Records()
	changed := 0
	for i, r := range next {
		if !ids.Contains(r.ID) {
			continue
		}
		updated, err := applyPatch(r, patch, classifier)
		if err != nil {
			return l, 0, err
		}
		next[i] = updated
		changed++
	}

	return Ledger{records: next}, changed, nil
}

// BulkDelete removes every selected record and returns how many were removed.
func (l Ledger) BulkDelete(ids model.IDSet) (Ledger, int) {
	next := make([]model.CommissionRecord, 0, len(l.records))
	for _, r := range l.records {
		if !ids.Contains(r.ID) {
			next = append(next, r)
		}
	}
	return Ledger{records: next}, len(l.records) - len(next)
}

// PatchFor builds a single-field patch from a canonical field name and a
// string value.
func PatchFor(field, value string) (model.RecordPatch, error) {
	var p model.RecordPatch
	switch field {
	case model.FieldPaymentDate:
		p.PaymentDate = &value
	case "carrier":
		p.Carrier = &value
	case model.FieldClientName:
		p.ClientName = &value
	case model.FieldPolicyNumber:
		p.PolicyNumber = &value
	case model.FieldPolicyType:
		p.PolicyType = &value
	case model.FieldCommissionType:
		p.CommissionType = &value
	case model.FieldAgent:
		p.Agent = &value
	case "businessType":
		bt := model.BusinessType(value)
		p.BusinessType = &bt
	case model.FieldAmount:
		amount, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return p, fmt.Errorf("%q: %w", value, ErrInvalidAmount)
		}
		p.Amount = &amount
	default:
		return p, fmt.Errorf("%q: %w", field, ErrUnknownField)
	}
	return p, nil
}

func applyPatch(r model.CommissionRecord, patch model.RecordPatch, classifier BusinessClassifier) (model.CommissionRecord, error) {
	updated := patch.Apply(r)
	if updated.Amount.IsZero() {
		return r, fmt.Errorf("record %d: %w", r.ID, ErrZeroAmount)
	}
	if patch.Carrier != nil && classifier != nil {
		updated.BusinessType = classifier.BusinessType(updated.Carrier, updated.CommissionType, updated.PolicyType)
	}
	return updated, nil
}

func (l Ledger) indexOf(id int64) int {
	for i, r := range l.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}
