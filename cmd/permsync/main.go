// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"os"

	"github.com/go-arcade/permsync/internal/bootstrap"
	"github.com/go-arcade/permsync/pkg/log"
	"github.com/go-arcade/permsync/pkg/version"
	"github.com/spf13/cobra"
)

var (
	configFile   string
	manifestFile string
)

var rootCmd = &cobra.Command{
	Use:          "permsync",
	Short:        "Synchronize code-declared permissions into the permission table",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one permission sync pass and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := bootstrap.Bootstrap(configFile, manifestFile, initApp)
		if err != nil {
			return err
		}
		out := app.SyncOnce(cmd.Context())
		cleanup()
		_ = log.Sync()
		if code := bootstrap.ExitCode(out); code != 0 {
			os.Exit(code)
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Sync at startup, then serve metrics until a signal arrives",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := bootstrap.Bootstrap(configFile, manifestFile, initApp)
		if err != nil {
			return err
		}
		bootstrap.Run(app, cleanup)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "conf.d/config.toml", "conf file path, e.g. --conf ./conf.d/config.toml")
	rootCmd.PersistentFlags().StringVar(&manifestFile, "manifest", "", "permission manifest path, overrides the manifest setting")
	rootCmd.AddCommand(syncCmd, runCmd, version.VersionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
