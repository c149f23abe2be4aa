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
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/spf13/cobra"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	debug, trace bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "predecode",
	Short: "Pre-decoder for OSSEC style queue records.",
	Long: `Splits queue records into location and payload, recognizes the leading timestamp,
extracts hostname and program name from syslog headers and ships normalized events.

Examples:

	predecode decode '1:/var/log/auth.log:Jun  1 10:11:12 web sshd[42]: Accepted password'
	tail -f /var/log/syslog | predecode decode --location /var/log/syslog --json
	predecode run --input-file-enabled --input-file-paths /var/log/archive.gz --input-file-envelope --output-stdout`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()

	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.predecode.yaml)")
	pFlags.BoolVar(&debug, "debug", false, "Run in debug mode. Increases logging verbosity.")
	pFlags.BoolVar(&trace, "trace", false, "Run in trace mode. Log like a maniac.")

	pFlags.Int("work-threads", 2, "Number of threads for decoding messages")
	viper.BindPFlag("work.threads", pFlags.Lookup("work-threads"))

	pFlags.String("hostname", "", "Hostname for local records without syslog header. Defaults to system hostname.")
	viper.BindPFlag("decoder.hostname", pFlags.Lookup("hostname"))

	pFlags.Bool("keep-log-date", false, "Use date found in log instead of time of decoding.")
	viper.BindPFlag("decoder.keep_log_date", pFlags.Lookup("keep-log-date"))

	pFlags.String("timezone", "", "IANA timezone for decoding time and epoch timestamps. Local time when empty.")
	viper.BindPFlag("decoder.timezone", pFlags.Lookup("timezone"))
}

func initLogging() {
	log.SetFormatter(&log.JSONFormatter{})
	if debug && !trace {
		log.Info("Setting log level to debug")
		log.SetLevel(log.DebugLevel)
	}
	if trace {
		log.Info("Setting log level to trace")
		log.SetLevel(log.TraceLevel)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.Fatal(err)
		}

		// Search config in home directory with name ".predecode" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".predecode")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Info("Using config file: ", viper.ConfigFileUsed())
	}
}
