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
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jerry-enebeli/commissions/model"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	usDatePattern     = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2}|\d{4})$`)
)

// Normalizer converts mapped rows into canonical commission records.
type Normalizer struct {
	registry Registry
}

// NewNormalizer returns a Normalizer classifying with the given registry.
func NewNormalizer(registry Registry) *Normalizer {
	return &Normalizer{registry: registry}
}

// Registry returns the tables the normalizer classifies with.
func (n *Normalizer) Registry() Registry {
	return n.registry
}

// BusinessType classifies a record by carrier and commission/policy type.
func (n *Normalizer) BusinessType(carrier, commissionType, policyType string) model.BusinessType {
	return n.registry.Classify(carrier, commissionType, policyType)
}

// Normalize converts one mapped record. The returned record has no id; ids
// are assigned when the ledger accepts it.
func (n *Normalizer) Normalize(carrier string, rec model.MappedRecord) model.CommissionRecord {
	carrier = strings.TrimSpace(carrier)
	commissionType := strings.TrimSpace(rec.CommissionType)
	policyType := strings.TrimSpace(rec.PolicyType)

	return model.CommissionRecord{
		PaymentDate:    NormalizeDate(rec.PaymentDate),
		Carrier:        carrier,
		ClientName:     NormalizeText(rec.ClientName),
		PolicyNumber:   strings.TrimSpace(rec.PolicyNumber),
		PolicyType:     policyType,
		CommissionType: commissionType,
		Agent:          NormalizeText(rec.Agent),
		Amount:         ParseAmount(rec.Amount),
		BusinessType:   n.BusinessType(carrier, commissionType, policyType),
	}
}

// NormalizeAll normalizes recs in order and drops records whose amount is
// exactly zero. The number of dropped records is returned alongside.
func (n *Normalizer) NormalizeAll(carrier string, recs []model.MappedRecord) ([]model.CommissionRecord, int) {
	out := make([]model.CommissionRecord, 0, len(recs))
	filtered := 0
	for _, rec := range recs {
		record := n.Normalize(carrier, rec)
		if record.Amount.IsZero() {
			filtered++
			continue
		}
		out = append(out, record)
	}
	return out, filtered
}

// ParseAmount strips currency symbols and thousands separators and parses
// the rest as a decimal. Accounting parentheses and a trailing minus mark a
// negative amount. Anything unparseable is zero.
func ParseAmount(raw string) decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return decimal.Zero
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	if strings.HasSuffix(s, "-") {
		negative = true
		s = strings.TrimSuffix(s, "-")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	if negative {
		d = d.Neg()
	}
	return d
}

// NormalizeText uppercases, drops commas and collapses whitespace.
func NormalizeText(s string) string {
	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, ",", "")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeDate rewrites US style M/D/YYYY and M/D/YY dates to YYYY-MM-DD.
// Other values are only trimmed.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if !usDatePattern.MatchString(s) {
		return s
	}

	layout := "1/2/2006"
	if m := usDatePattern.FindStringSubmatch(s); len(m[3]) == 2 {
		layout = "1/2/06"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}
