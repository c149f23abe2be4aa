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
	"github.com/spf13/cobra"

	"go-predecode/internal/app"
	"go-predecode/internal/entrypoints/syslog"
)

// syslogCmd represents the syslog command
var syslogCmd = &cobra.Command{
	Use:   "syslog",
	Short: "Super simple syslog relay",
	Long:  `Spawns a simple server for collecting UDP syslog messages in BSD or RFC5424 format and relays them as syslog queue records, without decoding, to configured outputs. Can be used to feed the run subcommand via kafka without an external syslog daemon.`,
	Run:   syslog.Entrypoint,
}

func init() {
	rootCmd.AddCommand(syslogCmd)

	pFlags := syslogCmd.PersistentFlags()

	app.RegisterInputSyslog(syslogCmd.Name(), pFlags)
	app.RegisterOutputs(syslogCmd.Name(), pFlags)
}
