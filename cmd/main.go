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
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/commissions"
	"github.com/jerry-enebeli/commissions/config"
	"github.com/jerry-enebeli/commissions/internal/notification"
)

// CLI wraps the root cobra command.
type CLI struct {
	cmd *cobra.Command
}

// app holds what every command shares. The engine is opened on first use
// so that commands like migrate do not load the ledger.
type app struct {
	cnf    *config.Configuration
	engine *commissions.Engine
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

func preRun(a *app, configFile *string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			logrus.Warnf("error loading .env: %v", err)
		}

		if err := config.InitConfig(*configFile); err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		a.cnf = cnf
		return nil
	}
}

// Engine opens the engine from the loaded configuration.
func (a *app) Engine(ctx context.Context) (*commissions.Engine, error) {
	if a.engine != nil {
		return a.engine, nil
	}
	e, err := commissions.New(ctx, a.cnf)
	if err != nil {
		notification.NotifyError(err)
		return nil, fmt.Errorf("error creating engine: %w", err)
	}
	a.engine = e
	return e, nil
}

func (a *app) close() {
	if a.engine == nil {
		return
	}
	if err := a.engine.Close(); err != nil {
		logrus.Error(err)
	}
}

// printJSON writes v to stdout as indented JSON.
func printJSON(cmd *cobra.Command, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func NewCLI() *CLI {
	var configFile string
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "commissions",
		Short:         "Insurance commission statement reconciliation",
		SilenceUsage:  true,
		SilenceErrors: true,
		Run:           func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./commissions.json", "Configuration file")
	rootCmd.PersistentPreRunE = preRun(a, &configFile)
	rootCmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		a.close()
	}

	rootCmd.AddCommand(importCommands(a))
	rootCmd.AddCommand(previewCommands(a))
	rootCmd.AddCommand(recordsCommands(a))
	rootCmd.AddCommand(reportCommands(a))
	rootCmd.AddCommand(addCommands(a))
	rootCmd.AddCommand(editCommands(a))
	rootCmd.AddCommand(deleteCommands(a))
	rootCmd.AddCommand(bulkEditCommands(a))
	rootCmd.AddCommand(bulkDeleteCommands(a))
	rootCmd.AddCommand(undoCommands(a))
	rootCmd.AddCommand(exportCommands(a))
	rootCmd.AddCommand(policiesCommands(a))
	rootCmd.AddCommand(mappingsCommands(a))
	rootCmd.AddCommand(serverCommands(a))
	rootCmd.AddCommand(migrateCommands(a))
	rootCmd.AddCommand(backupCommands(a))
	rootCmd.AddCommand(configCommands(a))

	return &CLI{cmd: rootCmd}
}

func (c CLI) executeCLI() {
	if err := c.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
