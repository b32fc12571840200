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
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/commissions"
	"github.com/jerry-enebeli/commissions/ledger"
	"github.com/jerry-enebeli/commissions/model"
)

func registerFilter(cmd *cobra.Command, f *model.RecordFilter) {
	cmd.Flags().StringVar(&f.Search, "search", "", "substring of client, policy, carrier or agent")
	cmd.Flags().StringVar(&f.Carrier, "carrier", "", "exact carrier")
	cmd.Flags().StringVar(&f.CommissionType, "commission-type", "", "exact commission type")
	cmd.Flags().StringVar(&f.Agent, "agent", "", "exact agent")
	cmd.Flags().StringVar((*string)(&f.BusinessType), "business-type", "", "Medicare, ACA or Life")
	cmd.Flags().StringVar(&f.StartDate, "from", "", "first payment date, inclusive")
	cmd.Flags().StringVar(&f.EndDate, "to", "", "last payment date, inclusive")
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("record id must be an integer: %q", raw)
	}
	return id, nil
}

func recordsCommands(a *app) *cobra.Command {
	var filter model.RecordFilter
	cmd := &cobra.Command{
		Use:   "records",
		Short: "list ledger records",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, e.Records(filter))
		},
	}
	registerFilter(cmd, &filter)
	return cmd
}

func reportCommands(a *app) *cobra.Command {
	var filter model.RecordFilter
	cmd := &cobra.Command{
		Use:   "report",
		Short: "totals for the filtered ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, e.Report(filter))
		},
	}
	registerFilter(cmd, &filter)
	return cmd
}

func addCommands(a *app) *cobra.Command {
	var (
		carrier string
		rec     model.MappedRecord
		force   bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "add one record by hand",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			record, err := e.AddRecord(cmd.Context(), carrier, rec, force)
			if err != nil {
				return err
			}
			return printJSON(cmd, record)
		},
	}
	cmd.Flags().StringVar(&carrier, "carrier", "", "carrier")
	cmd.Flags().StringVar(&rec.PaymentDate, "date", "", "payment date, today when empty")
	cmd.Flags().StringVar(&rec.ClientName, "client", "", "client name")
	cmd.Flags().StringVar(&rec.PolicyNumber, "policy", "", "policy number")
	cmd.Flags().StringVar(&rec.PolicyType, "policy-type", "", "policy type")
	cmd.Flags().StringVar(&rec.CommissionType, "commission-type", "", "commission type")
	cmd.Flags().StringVar(&rec.Agent, "agent", "", "agent")
	cmd.Flags().StringVar(&rec.Amount, "amount", "", "amount, negative for a chargeback")
	cmd.Flags().BoolVar(&force, "force", false, "add even when the record duplicates the ledger")
	_ = cmd.MarkFlagRequired("carrier")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func editCommands(a *app) *cobra.Command {
	var field, value string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "set one field of a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch, err := ledger.PatchFor(field, value)
			if err != nil {
				return err
			}
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			record, err := e.Edit(cmd.Context(), id, patch)
			if err != nil {
				return err
			}
			return printJSON(cmd, record)
		},
	}
	cmd.Flags().StringVar(&field, "field", "", "field to set")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func deleteCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted record %d\n", id)
			return nil
		},
	}
	return cmd
}

func bulkEditCommands(a *app) *cobra.Command {
	var (
		ids          []int64
		field, value string
	)
	cmd := &cobra.Command{
		Use:   "bulk-edit",
		Short: "set one field on several records",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			n, err := e.BulkEdit(cmd.Context(), model.NewIDSet(ids...), field, value)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated %d records\n", n)
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "record ids")
	cmd.Flags().StringVar(&field, "field", "", "field to set")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	_ = cmd.MarkFlagRequired("ids")
	_ = cmd.MarkFlagRequired("field")
	return cmd
}

func bulkDeleteCommands(a *app) *cobra.Command {
	var ids []int64
	cmd := &cobra.Command{
		Use:   "bulk-delete",
		Short: "delete several records",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			n, err := e.BulkDelete(cmd.Context(), model.NewIDSet(ids...))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %d records\n", n)
			return nil
		},
	}
	cmd.Flags().Int64SliceVar(&ids, "ids", nil, "record ids")
	_ = cmd.MarkFlagRequired("ids")
	return cmd
}

func undoCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "undo",
		Short: "restore the ledger as it was before the last change",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			label, err := e.Undo(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "undone: %s (%d more steps available)\n", label, e.Book().UndoDepth())
			return nil
		},
	}
	return cmd
}

func exportCommands(a *app) *cobra.Command {
	var (
		filter model.RecordFilter
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "write the filtered ledger as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			records := e.Records(filter)
			if out == "" {
				return commissions.WriteCSV(cmd.OutOrStdout(), records)
			}
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			return commissions.WriteCSV(f, records)
		},
	}
	registerFilter(cmd, &filter)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, stdout when empty")
	return cmd
}
