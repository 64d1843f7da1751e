package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/dynroutes"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of dynroutes",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dynroutes version %s\n", strings.TrimSpace(dynroutes.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
