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

package main

import (
	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/commissions/model"
	"github.com/jerry-enebeli/commissions/policy"
)

func policiesCommands(a *app) *cobra.Command {
	var (
		criteria    policy.Criteria
		summaryOnly bool
	)
	cmd := &cobra.Command{
		Use:   "policies",
		Short: "list policies built from the ledger with a portfolio summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			summary := e.Summary(criteria)
			if summaryOnly {
				return printJSON(cmd, summary)
			}
			return printJSON(cmd, struct {
				Summary  model.PortfolioSummary `json:"summary"`
				Policies []model.Policy         `json:"policies"`
			}{summary, e.Policies(criteria)})
		},
	}
	cmd.Flags().StringVar(&criteria.Search, "search", "", "substring of client name or policy number")
	cmd.Flags().StringVar((*string)(&criteria.Status), "status", "", "healthy, at-risk or churned")
	cmd.Flags().StringVar((*string)(&criteria.BusinessType), "business-type", "", "Medicare, ACA or Life")
	cmd.Flags().StringVar(&criteria.Carrier, "carrier", "", "exact carrier")
	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the summary")
	return cmd
}
