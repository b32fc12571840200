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

	"github.com/jerry-enebeli/commissions/internal/backups"
	"github.com/jerry-enebeli/commissions/model"
)

func backupCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "archive the ledger export",
	}

	cmd.AddCommand(backupToDiskCommands(a))
	cmd.AddCommand(backupToS3Commands(a))

	return cmd
}

func backupToDiskCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "write the archive under the backup directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			bm, err := backups.NewBackupManager(cmd.Context(), a.cnf)
			if err != nil {
				return err
			}
			path, err := bm.BackupToDisk(cmd.Context(), e.Export(model.RecordFilter{}))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	return cmd
}

func backupToS3Commands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "s3",
		Short: "upload the archive to the configured bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.Engine(cmd.Context())
			if err != nil {
				return err
			}
			bm, err := backups.NewBackupManager(cmd.Context(), a.cnf)
			if err != nil {
				return err
			}
			key, err := bm.BackupToS3(cmd.Context(), e.Export(model.RecordFilter{}))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", a.cnf.Backup.S3BucketName, key)
			return nil
		},
	}

	return cmd
}
