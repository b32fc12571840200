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
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jerry-enebeli/commissions/mapping"
	"github.com/jerry-enebeli/commissions/model"
)

// EditableFields are the record fields a bulk edit may set.
var EditableFields = []interface{}{
	model.FieldPaymentDate,
	"carrier",
	model.FieldClientName,
	model.FieldPolicyNumber,
	model.FieldPolicyType,
	model.FieldCommissionType,
	model.FieldAgent,
	model.FieldAmount,
	"businessType",
}

type AddRecord struct {
	Carrier        string `json:"carrier"`
	PaymentDate    string `json:"paymentDate"`
	ClientName     string `json:"clientName"`
	PolicyNumber   string `json:"policyNumber"`
	PolicyType     string `json:"policyType"`
	CommissionType string `json:"commissionType"`
	Agent          string `json:"agent"`
	Amount         string `json:"amount"`
	Force          bool   `json:"force"`
}

type BulkEdit struct {
	IDs   []int64 `json:"ids"`
	Field string  `json:"field"`
	Value string  `json:"value"`
}

type BulkDelete struct {
	IDs []int64 `json:"ids"`
}

type CommitImport struct {
	Candidates     []model.DuplicateCandidate `json:"candidates"`
	SkipDuplicates bool                       `json:"skipDuplicates"`
}

func nonZeroAmount(value interface{}) error {
	raw, _ := value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if mapping.ParseAmount(raw).IsZero() {
		return errors.New("must be a non-zero amount")
	}
	return nil
}

func knownDate(value interface{}) error {
	raw, _ := value.(string)
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", mapping.NormalizeDate(raw)); err != nil {
		return errors.New("must be a date as YYYY-MM-DD or M/D/YYYY")
	}
	return nil
}

func (r *AddRecord) ValidateAddRecord() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Carrier, validation.Required),
		validation.Field(&r.Amount, validation.Required, validation.By(nonZeroAmount)),
		validation.Field(&r.PaymentDate, validation.By(knownDate)),
	)
}

// Mapped returns the record fields in the shape the normalizer takes.
func (r AddRecord) Mapped() model.MappedRecord {
	return model.MappedRecord{
		PaymentDate:    r.PaymentDate,
		ClientName:     r.ClientName,
		PolicyNumber:   r.PolicyNumber,
		PolicyType:     r.PolicyType,
		CommissionType: r.CommissionType,
		Agent:          r.Agent,
		Amount:         r.Amount,
	}
}

func (b *BulkEdit) ValidateBulkEdit() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.IDs, validation.Required),
		validation.Field(&b.Field, validation.Required, validation.In(EditableFields...)),
		validation.Field(&b.Value, validation.When(b.Field == model.FieldAmount, validation.Required, validation.By(nonZeroAmount))),
	)
}

func (b *BulkDelete) ValidateBulkDelete() error {
	return validation.ValidateStruct(b,
		validation.Field(&b.IDs, validation.Required),
	)
}

func (c *CommitImport) ValidateCommitImport() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Candidates, validation.Required),
	)
}
