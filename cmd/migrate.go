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

	migrate "github.com/rubenv/sql-migrate"
	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/commissions/database"
)

func migrateCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "apply or roll back the SQL store migrations",
	}

	cmd.AddCommand(migrateDirectionCommands(a, "up", migrate.Up))
	cmd.AddCommand(migrateDirectionCommands(a, "down", migrate.Down))

	return cmd
}

func migrateDirectionCommands(a *app, use string, direction migrate.MigrationDirection) *cobra.Command {
	cmd := &cobra.Command{
		Use: use,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver := database.DriverFor(a.cnf.DataSource.Dns)
			db, err := database.ConnectDB(driver, a.cnf.DataSource.Dns)
			if err != nil {
				return fmt.Errorf("error connecting to database: %w", err)
			}
			defer db.Close()

			n, err := database.Migrate(db, driver, direction)
			if err != nil {
				return err
			}
			if direction == migrate.Up {
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations!\n", n)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migrations!\n", n)
			}
			return nil
		},
	}
	return cmd
}
