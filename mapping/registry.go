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
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jerry-enebeli/commissions/model"
)

// Registry holds the configuration tables used for business-line
// classification.
type Registry struct {
	Medicare               []string `json:"medicare" yaml:"medicare"`
	ACA                    []string `json:"aca" yaml:"aca"`
	Life                   []string `json:"life" yaml:"life"`
	CommissionTypeKeywords []string `json:"commission_type_keywords" yaml:"commission_type_keywords"`
	PolicyTypeKeywords     []string `json:"policy_type_keywords" yaml:"policy_type_keywords"`
}

// DefaultRegistry returns the built-in carrier and keyword tables. A carrier
// listed under more than one line resolves to the first in Medicare, ACA,
// Life order.
func DefaultRegistry() Registry {
	return Registry{
		Medicare: []string{
			"Humana", "UnitedHealthcare", "Aetna", "Cigna", "Blue Cross Blue Shield",
			"Wellcare", "Devoted Health", "Anthem", "Kaiser Permanente", "Mutual of Omaha",
		},
		ACA: []string{
			"Ambetter", "Oscar", "Molina", "BCBS Marketplace", "Cigna Marketplace",
			"UnitedHealthcare Marketplace", "Aetna Marketplace", "Florida Blue",
			"Bright Health", "Friday Health", "Avera Health",
		},
		Life: []string{
			"Mutual of Omaha", "Transamerica", "Prudential", "Lincoln Financial",
			"John Hancock", "MetLife", "New York Life", "Northwestern Mutual",
			"MassMutual", "AIG", "Nationwide", "Principal", "Pacific Life",
			"Protective Life", "Americo", "Foresters", "Globe Life", "SBLI",
			"Ethos", "Ladder",
		},
		CommissionTypeKeywords: []string{"advance", "life", "fyc", "trail"},
		PolicyTypeKeywords:     []string{"term", "iul", "whole life", "universal", "addvantage", "builder"},
	}
}

// Merge returns r with every non-empty table of other replacing its own.
func (r Registry) Merge(other Registry) Registry {
	if len(other.Medicare) > 0 {
		r.Medicare = other.Medicare
	}
	if len(other.ACA) > 0 {
		r.ACA = other.ACA
	}
	if len(other.Life) > 0 {
		r.Life = other.Life
	}
	if len(other.CommissionTypeKeywords) > 0 {
		r.CommissionTypeKeywords = other.CommissionTypeKeywords
	}
	if len(other.PolicyTypeKeywords) > 0 {
		r.PolicyTypeKeywords = other.PolicyTypeKeywords
	}
	return r
}

// LoadRegistryFile reads a YAML registry and merges it over the defaults.
func LoadRegistryFile(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Registry{}, fmt.Errorf("error reading registry file: %w", err)
	}

	var fromFile Registry
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return Registry{}, fmt.Errorf("error decoding registry file: %w", err)
	}
	return DefaultRegistry().Merge(fromFile), nil
}

// Classify resolves the business line: carrier membership first, then the
// commission type keywords, then the policy type keywords.
func (r Registry) Classify(carrier, commissionType, policyType string) model.BusinessType {
	carrier = strings.TrimSpace(carrier)
	switch {
	case contains(r.Medicare, carrier):
		return model.BusinessMedicare
	case contains(r.ACA, carrier):
		return model.BusinessACA
	case contains(r.Life, carrier):
		return model.BusinessLife
	case containsKeyword(commissionType, r.CommissionTypeKeywords):
		return model.BusinessLife
	case containsKeyword(policyType, r.PolicyTypeKeywords):
		return model.BusinessLife
	}
	return model.BusinessUnclassified
}

func contains(list []string, item string) bool {
	if item == "" {
		return false
	}
	for _, v := range list {
		if v == item {
			return true
		}
	}
	return false
}

func containsKeyword(text string, keywords []string) bool {
	text = strings.ToLower(text)
	if text == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// Carriers returns every carrier the registry knows, sorted, without repeats.
func (r Registry) Carriers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range [][]string{r.Medicare, r.ACA, r.Life} {
		for _, c := range list {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	sort.Strings(out)
	return out
}
