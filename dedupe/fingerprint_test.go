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

package dedupe

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-enebeli/commissions/model"
)

func record(date, policy, amount, carrier string) model.CommissionRecord {
	return model.CommissionRecord{
		PaymentDate:  date,
		PolicyNumber: policy,
		Amount:       decimal.RequireFromString(amount),
		Carrier:      carrier,
	}
}

func TestFingerprint(t *testing.T) {
	a := record("2024-01-01", "h123", "25.5", "Humana")
	assert.Equal(t, "2024-01-01|H123|25.50|HUMANA", Fingerprint(a))

	b := record(" 2024-01-01 ", " H123 ", "25.50", " HUMANA ")
	b.ID = 99
	b.ClientName = "SOMEONE ELSE"
	b.Agent = "AGENT"
	assert.Equal(t, Fingerprint(a), Fingerprint(b), "only date, policy, amount and carrier count")

	assert.NotEqual(t, Fingerprint(a), Fingerprint(record("2024-01-02", "H123", "25.5", "Humana")))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(record("2024-01-01", "H124", "25.5", "Humana")))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(record("2024-01-01", "H123", "25.51", "Humana")))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(record("2024-01-01", "H123", "25.5", "Aetna")))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(record("2024-01-01", "H123", "-25.5", "Humana")))

	assert.Equal(t, Fingerprint(record("2024-01-01", "H1", "10.004", "X")), Fingerprint(record("2024-01-01", "H1", "10", "X")),
		"amounts agree to the cent")
}

func TestFingerprintDeterminism(t *testing.T) {
	gofakeit.Seed(7)
	for i := 0; i < 100; i++ {
		r := model.CommissionRecord{
			PaymentDate:  gofakeit.Date().Format("2006-01-02"),
			PolicyNumber: gofakeit.Regex(`[A-Z]{2}[0-9]{6}`),
			Carrier:      gofakeit.Company(),
			Amount:       decimal.NewFromFloat(gofakeit.Price(-500, 500)).Round(2),
			ClientName:   gofakeit.Name(),
		}
		twin := r
		twin.ID = int64(i)
		twin.ClientName = gofakeit.Name()
		twin.PolicyType = gofakeit.Word()

		assert.Equal(t, Fingerprint(r), Fingerprint(twin))
	}
}

func TestClassifyBatchOrder(t *testing.T) {
	a := record("2024-01-01", "H123", "25.5", "Humana")

	got := Classify([]model.CommissionRecord{a, a}, nil)
	require.Len(t, got, 2)
	assert.False(t, got[0].IsDuplicate)
	assert.Equal(t, model.DuplicateNone, got[0].DuplicateType)
	assert.True(t, got[1].IsDuplicate)
	assert.Equal(t, model.DuplicateBatch, got[1].DuplicateType)
}

func TestClassifyAgainstLedger(t *testing.T) {
	existing := []model.CommissionRecord{record("2024-01-01", "H123", "25.5", "Humana")}
	fresh := record("2024-02-01", "H123", "25.5", "Humana")

	got := Classify([]model.CommissionRecord{existing[0], existing[0], fresh, fresh}, existing)
	require.Len(t, got, 4)
	assert.Equal(t, model.DuplicateExisting, got[0].DuplicateType)
	assert.Equal(t, model.DuplicateExisting, got[1].DuplicateType, "ledger membership takes precedence over batch")
	assert.Equal(t, model.DuplicateNone, got[2].DuplicateType)
	assert.Equal(t, model.DuplicateBatch, got[3].DuplicateType)
}

func TestClassifyDoesNotMutateInputs(t *testing.T) {
	batch := []model.CommissionRecord{record("2024-01-01", "H1", "1", "X")}
	existing := []model.CommissionRecord{record("2024-01-01", "H2", "2", "X")}

	_ = Classify(batch, existing)
	_ = Classify(batch, existing)
	assert.Equal(t, "H1", batch[0].PolicyNumber)
	assert.Len(t, existing, 1)
	assert.Equal(t, model.DuplicateNone, Classify(batch, existing)[0].DuplicateType)
}
