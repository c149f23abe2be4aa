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
	"github.com/spf13/viper"

	"go-predecode/internal/entrypoints/decode"
)

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:   "decode [records...]",
	Short: "Show pre-decoding result for records.",
	Long:  `Decode records given as arguments, or read them line by line from stdin, and print phase 1 result. Useful for testing new log sources.`,
	Run:   decode.Entrypoint,
}

func init() {
	rootCmd.AddCommand(decodeCmd)

	pFlags := decodeCmd.PersistentFlags()

	pFlags.Bool("json", false, "Print events as JSON.")
	viper.BindPFlag(decodeCmd.Name()+".json", pFlags.Lookup("json"))

	pFlags.String("location", "", "Treat input as plain log lines from this location instead of queue records.")
	viper.BindPFlag(decodeCmd.Name()+".location", pFlags.Lookup("location"))
}
