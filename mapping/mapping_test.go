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

package mapping

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-enebeli/commissions/model"
)

func TestApply(t *testing.T) {
	row := model.Row{"Date": "2024-01-01", "Policy": "H123", "Client": "JOHN DOE", "Amount": "25.50", "Extra": "x"}
	m := model.ColumnMapping{PaymentDate: "Date", PolicyNumber: "Policy", ClientName: "Client", Amount: "Amount", Agent: "Missing"}

	got := Apply(m, row)
	assert.Equal(t, model.MappedRecord{
		PaymentDate:  "2024-01-01",
		ClientName:   "JOHN DOE",
		PolicyNumber: "H123",
		Amount:       "25.50",
	}, got)

	assert.Equal(t, model.MappedRecord{}, Apply(model.ColumnMapping{}, row), "an empty mapping never invents data")
}

func TestParseAmount(t *testing.T) {
	tests := map[string]string{
		"25.50":      "25.5",
		"$1,250.00":  "1250",
		" -$40.10 ":  "-40.1",
		"(12.50)":    "-12.5",
		"$ (7.00)":   "-7",
		"15.00-":     "-15",
		"abc":        "0",
		"":           "0",
		"0.00":       "0",
		"1,000,000":  "1000000",
		"$12.345678": "12.345678",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseAmount(in).String())
		})
	}
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "DOE JOHN", NormalizeText("  Doe,   John "))
	assert.Equal(t, "MARY ANN SMITH", NormalizeText("mary\tann\n smith"))
	assert.Equal(t, "", NormalizeText("  ,  "))
}

func TestNormalizeDate(t *testing.T) {
	assert.Equal(t, "2024-01-15", NormalizeDate("01/15/2024"))
	assert.Equal(t, "2024-01-05", NormalizeDate("1/5/2024"))
	assert.Equal(t, "2024-03-09", NormalizeDate("3/9/24"))
	assert.Equal(t, "2024-01-01", NormalizeDate(" 2024-01-01 "))
	assert.Equal(t, "Jan 2024", NormalizeDate("Jan 2024"))
	assert.Equal(t, "13/45/2024", NormalizeDate("13/45/2024"), "invalid dates pass through")
}

func TestRegistryClassify(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		name                             string
		carrier, commissionType, polType string
		want                             model.BusinessType
	}{
		{"medicare carrier", "Humana", "", "", model.BusinessMedicare},
		{"carrier wins over keywords", "Ambetter", "Advance", "Term", model.BusinessACA},
		{"life carrier", "Americo", "", "", model.BusinessLife},
		{"listed twice resolves to medicare", "Mutual of Omaha", "Life FYC", "", model.BusinessMedicare},
		{"carrier match is exact", "HUMANA", "", "", model.BusinessUnclassified},
		{"commission keyword", "Unknown Co", "FYC Renewal", "", model.BusinessLife},
		{"commission keyword case-insensitive", "Unknown Co", "ADVANCE", "", model.BusinessLife},
		{"policy keyword", "Unknown Co", "Renewal", "Whole Life 20 Pay", model.BusinessLife},
		{"policy keyword iul", "Unknown Co", "", "IUL Accumulator", model.BusinessLife},
		{"unclassified", "Unknown Co", "Renewal", "PPO", model.BusinessUnclassified},
		{"empty", "", "", "", model.BusinessUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Classify(tt.carrier, tt.commissionType, tt.polType))
		})
	}
}

func TestRegistryCarriers(t *testing.T) {
	carriers := DefaultRegistry().Carriers()
	assert.IsIncreasing(t, carriers)

	count := 0
	for _, c := range carriers {
		if c == "Mutual of Omaha" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLoadRegistryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	content := "medicare:\n  - Acme Health\naca:\n  - Acme Marketplace\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	r, err := LoadRegistryFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acme Health"}, r.Medicare)
	assert.Equal(t, []string{"Acme Marketplace"}, r.ACA)
	assert.Equal(t, DefaultRegistry().Life, r.Life, "tables absent from the file keep their defaults")
	assert.Equal(t, model.BusinessMedicare, r.Classify("Acme Health", "", ""))
	assert.Equal(t, model.BusinessUnclassified, r.Classify("Humana", "", ""))

	_, err = LoadRegistryFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(DefaultRegistry())

	rec := n.Normalize(" Humana ", model.MappedRecord{
		PaymentDate:    "01/15/2024",
		ClientName:     "doe,  jane",
		PolicyNumber:   " h123 ",
		PolicyType:     "PPO",
		CommissionType: "New",
		Agent:          "smith , bob",
		Amount:         "$1,025.50",
	})

	assert.Equal(t, int64(0), rec.ID)
	assert.Equal(t, "2024-01-15", rec.PaymentDate)
	assert.Equal(t, "Humana", rec.Carrier)
	assert.Equal(t, "DOE JANE", rec.ClientName)
	assert.Equal(t, "h123", rec.PolicyNumber)
	assert.Equal(t, "SMITH BOB", rec.Agent)
	assert.True(t, rec.Amount.Equal(decimal.RequireFromString("1025.50")))
	assert.Equal(t, model.BusinessMedicare, rec.BusinessType)
}

func TestNormalizeAllDropsZeroAmounts(t *testing.T) {
	n := NewNormalizer(DefaultRegistry())
	recs := []model.MappedRecord{
		{PolicyNumber: "P1", Amount: "10"},
		{PolicyNumber: "P2", Amount: "0.00"},
		{PolicyNumber: "P3", Amount: "n/a"},
		{PolicyNumber: "P4", Amount: "-5"},
	}

	out, filtered := n.NormalizeAll("Humana", recs)
	assert.Equal(t, 2, filtered)
	require.Len(t, out, 2)
	assert.Equal(t, "P1", out[0].PolicyNumber)
	assert.Equal(t, "P4", out[1].PolicyNumber)
	for _, r := range out {
		assert.False(t, r.Amount.IsZero())
	}
}

func TestValidate(t *testing.T) {
	headers := []string{"Date", "Policy", "Amount"}

	err := Validate(model.ColumnMapping{PolicyNumber: "Policy"}, headers)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMappingIncomplete))
	var incomplete *IncompleteError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{model.FieldAmount}, incomplete.Missing)

	assert.NoError(t, Validate(model.ColumnMapping{PaymentDate: "Date", Amount: "Amount"}, headers))
	assert.NoError(t, Validate(model.ColumnMapping{PaymentDate: model.StatementDateKey, Amount: "Amount"}, headers))

	err = Validate(model.ColumnMapping{PolicyNumber: "Nope", Amount: "Amount"}, headers)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMappingIncomplete))
	assert.Contains(t, err.Error(), "policyNumber")
}
