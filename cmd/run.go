/*
Copyright © 2019 NAME HERE <EMAIL ADDRESS>

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
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"go-predecode/internal/app"
	"go-predecode/internal/entrypoints/run"
	"go-predecode/pkg/ingest"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Consume, pre-decode and produce.",
	Long:  `Primary subcommand. Consume queue records from files, unix sockets, kafka or syslog, pre-decode them into JSON events and produce to stdout, files, kafka, elasticsearch or redis. Optionally keep hourly statistics and serve a decode API.`,
	Run:   run.Entrypoint,
}

func init() {
	rootCmd.AddCommand(runCmd)

	var b strings.Builder
	b.WriteString(runCmd.Long + "\n\nInputs:\n")
	for _, m := range ingest.Modules {
		fmt.Fprintf(&b, "\n  %s: %s\n", m, m.Explain())
	}
	runCmd.Long = b.String()

	pFlags := runCmd.PersistentFlags()

	app.RegisterInputs(runCmd.Name(), pFlags)
	app.RegisterOutputs(runCmd.Name(), pFlags)
	app.RegisterStats(runCmd.Name(), pFlags)
	app.RegisterAPI(runCmd.Name(), pFlags)
}
