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
)

// configCommands prints the loaded configuration with secrets masked.
func configCommands(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "print the loaded configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cnf := *a.cnf
			cnf.Server.SecretKey = mask(cnf.Server.SecretKey)
			cnf.Classifier.ApiKey = mask(cnf.Classifier.ApiKey)
			cnf.Extractor.ApiKey = mask(cnf.Extractor.ApiKey)
			cnf.Backup.AwsSecretAccessKey = mask(cnf.Backup.AwsSecretAccessKey)
			return printJSON(cmd, cnf)
		},
	}
	return cmd
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "****"
}
