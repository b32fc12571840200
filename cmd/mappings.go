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

	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/commissions"
)

func mappingsCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mappings",
		Short: "manage saved carrier column mappings",
	}
	cmd.AddCommand(mappingsListCommands(a))
	cmd.AddCommand(mappingsImportCommands(a))
	cmd.AddCommand(mappingsDeleteCommands(a))
	return cmd
}

func mappingsListCommands(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "print every saved mapping",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			all, err := e.Mappings().All(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, all)
		},
	}
}

func mappingsImportCommands(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "save the carrier mappings of a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mappings, err := commissions.LoadMappingsFile(args[0])
			if err != nil {
				return err
			}
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			n, err := e.Mappings().SaveAll(cmd.Context(), mappings)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %d mappings\n", n)
			return nil
		},
	}
}

func mappingsDeleteCommands(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <carrier>",
		Short: "forget the mapping saved for a carrier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.Mappings().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted mapping for %s\n", args[0])
			return nil
		},
	}
}
