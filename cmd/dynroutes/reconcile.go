package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dynroutes/internal/cli"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile <workflow.json | id>",
	Short: "Repair the ports of every junction",
	Long: `Runs the startup pass on every junction of a workflow file or stored workflow:
one trailing free input, one output per extra connection and a single routed type.
Stored workflows are saved back; files are printed unless --write is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		write, _ := cmd.Flags().GetBool("write")

		rt := mustRuntime(cmd)
		defer rt.Close()

		if err := cli.Reconcile(cmd.Context(), rt, args[0], write, cmd.OutOrStdout()); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
	reconcileCmd.Flags().BoolP("write", "w", false, "Update the workflow file in place")
}
