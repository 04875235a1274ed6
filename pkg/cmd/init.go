// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-covered/pkg/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init [flags] [design_file]",
	Short: "create a default configuration file.",
	Long: `Create a configuration file in the current directory, with every kind of
	 coverage enabled.  An existing configuration is not overwritten unless --force
	 is given.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filename := GetString(cmd, "output")
		//
		if _, err := os.Stat(filename); err == nil && !GetFlag(cmd, "force") {
			fmt.Printf("%s already exists (use --force to overwrite)\n", filename)
			os.Exit(2)
		}
		//
		cfg := config.DefaultConfig()
		//
		if len(args) == 1 {
			cfg.Design = args[0]
		}
		//
		if err := cfg.Save(filename); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		log.Infof("wrote %s", filename)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringP("output", "o", config.FILENAME, "specify configuration file.")
	initCmd.Flags().BoolP("force", "f", false, "overwrite an existing configuration.")
}
