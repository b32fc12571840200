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

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

func init() {
	// Persisted records carry amount as a JSON number.
	decimal.MarshalJSONWithoutQuotes = true
}

// BusinessType is the product line a commission belongs to.
type BusinessType string

const (
	BusinessMedicare     BusinessType = "Medicare"
	BusinessACA          BusinessType = "ACA"
	BusinessLife         BusinessType = "Life"
	BusinessUnclassified BusinessType = ""
)

// CommissionRecord is the canonical ledger element.
type CommissionRecord struct {
	ID             int64           `json:"id"`
	PaymentDate    string          `json:"paymentDate"`
	Carrier        string          `json:"carrier"`
	ClientName     string          `json:"clientName"`
	PolicyNumber   string          `json:"policyNumber"`
	PolicyType     string          `json:"policyType"`
	CommissionType string          `json:"commissionType"`
	Agent          string          `json:"agent"`
	Amount         decimal.Decimal `json:"amount"`
	BusinessType   BusinessType    `json:"businessType"`
}

// IsChargeback reports whether the record claws back previously paid commission.
func (r CommissionRecord) IsChargeback() bool {
	return r.Amount.IsNegative()
}

// DuplicateType tells where a candidate's fingerprint was already seen.
type DuplicateType string

const (
	DuplicateNone     DuplicateType = ""
	DuplicateExisting DuplicateType = "existing"
	DuplicateBatch    DuplicateType = "batch"
)

// MarshalJSON encodes DuplicateNone as null.
func (d DuplicateType) MarshalJSON() ([]byte, error) {
	if d == DuplicateNone {
		return []byte("null"), nil
	}
	return []byte(`"` + string(d) + `"`), nil
}

// UnmarshalJSON accepts null, "existing" and "batch".
func (d *DuplicateType) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*d = DuplicateNone
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*d = DuplicateType(s)
	return nil
}

// DuplicateCandidate is a normalized record waiting for the caller's import decision.
type DuplicateCandidate struct {
	CommissionRecord
	IsDuplicate   bool          `json:"isDuplicate"`
	DuplicateType DuplicateType `json:"duplicateType"`
}

// RecordPatch carries the fields of an edit. Nil fields are left untouched.
type RecordPatch struct {
	PaymentDate    *string          `json:"paymentDate,omitempty"`
	Carrier        *string          `json:"carrier,omitempty"`
	ClientName     *string          `json:"clientName,omitempty"`
	PolicyNumber   *string          `json:"policyNumber,omitempty"`
	PolicyType     *string          `json:"policyType,omitempty"`
	CommissionType *string          `json:"commissionType,omitempty"`
	Agent          *string          `json:"agent,omitempty"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	BusinessType   *BusinessType    `json:"businessType,omitempty"`
}

// Apply merges the patch over r and returns the result. r is not modified.
func (p RecordPatch) Apply(r CommissionRecord) CommissionRecord {
	if p.PaymentDate != nil {
		r.PaymentDate = *p.PaymentDate
	}
	if p.Carrier != nil {
		r.Carrier = *p.Carrier
	}
	if p.ClientName != nil {
		r.ClientName = *p.ClientName
	}
	if p.PolicyNumber != nil {
		r.PolicyNumber = *p.PolicyNumber
	}
	if p.PolicyType != nil {
		r.PolicyType = *p.PolicyType
	}
	if p.CommissionType != nil {
		r.CommissionType = *p.CommissionType
	}
	if p.Agent != nil {
		r.Agent = *p.Agent
	}
	if p.Amount != nil {
		r.Amount = *p.Amount
	}
	if p.BusinessType != nil {
		r.BusinessType = *p.BusinessType
	}
	return r
}
