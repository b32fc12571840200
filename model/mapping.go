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

// Canonical field names every import maps source columns onto.
const (
	FieldPaymentDate    = "paymentDate"
	FieldClientName     = "clientName"
	FieldPolicyNumber   = "policyNumber"
	FieldPolicyType     = "policyType"
	FieldCommissionType = "commissionType"
	FieldAgent          = "agent"
	FieldAmount         = "amount"
)

// Hidden metadata keys attached to rows pulled from multi-section statements.
const (
	StatementDateKey = "_statementDate"
	SectionKey       = "_section"
)

// CanonicalFields lists the canonical fields in their display order.
var CanonicalFields = []string{
	FieldPaymentDate,
	FieldClientName,
	FieldPolicyNumber,
	FieldPolicyType,
	FieldCommissionType,
	FieldAgent,
	FieldAmount,
}

// RawRow is one document line split into fields.
type RawRow []string

// Row is a RawRow zipped to its header names.
type Row map[string]string

// ColumnMapping assigns a source column to each canonical field. An empty
// value means the field is unmapped.
type ColumnMapping struct {
	PaymentDate    string `json:"paymentDate" yaml:"paymentDate"`
	ClientName     string `json:"clientName" yaml:"clientName"`
	PolicyNumber   string `json:"policyNumber" yaml:"policyNumber"`
	PolicyType     string `json:"policyType" yaml:"policyType"`
	CommissionType string `json:"commissionType" yaml:"commissionType"`
	Agent          string `json:"agent" yaml:"agent"`
	Amount         string `json:"amount" yaml:"amount"`
}

// Get returns the source column assigned to a canonical field.
func (m ColumnMapping) Get(field string) string {
	switch field {
	case FieldPaymentDate:
		return m.PaymentDate
	case FieldClientName:
		return m.ClientName
	case FieldPolicyNumber:
		return m.PolicyNumber
	case FieldPolicyType:
		return m.PolicyType
	case FieldCommissionType:
		return m.CommissionType
	case FieldAgent:
		return m.Agent
	case FieldAmount:
		return m.Amount
	}
	return ""
}

// With returns a copy of m with field assigned to column. Unknown fields are ignored.
func (m ColumnMapping) With(field, column string) ColumnMapping {
	switch field {
	case FieldPaymentDate:
		m.PaymentDate = column
	case FieldClientName:
		m.ClientName = column
	case FieldPolicyNumber:
		m.PolicyNumber = column
	case FieldPolicyType:
		m.PolicyType = column
	case FieldCommissionType:
		m.CommissionType = column
	case FieldAgent:
		m.Agent = column
	case FieldAmount:
		m.Amount = column
	}
	return m
}

// IsEmpty reports whether no canonical field is mapped.
func (m ColumnMapping) IsEmpty() bool {
	return m == ColumnMapping{}
}

// MappedRecord holds the raw string value of each canonical field.
type MappedRecord struct {
	PaymentDate    string `json:"paymentDate"`
	ClientName     string `json:"clientName"`
	PolicyNumber   string `json:"policyNumber"`
	PolicyType     string `json:"policyType"`
	CommissionType string `json:"commissionType"`
	Agent          string `json:"agent"`
	Amount         string `json:"amount"`
}
