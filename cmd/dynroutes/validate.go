package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dynroutes/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <workflow.json | id>",
	Short: "Check the workflow for consistency",
	Long:  `Reports broken links and junctions whose ports do not match their connections.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime(cmd)
		defer rt.Close()

		if err := cli.Validate(cmd.Context(), rt, args[0], cmd.OutOrStdout()); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
