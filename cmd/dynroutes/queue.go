package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dynroutes/internal/cli"
	"github.com/spf13/cobra"
)

var queueCmd = &cobra.Command{
	Use:   "queue <workflow.json | id>",
	Short: "Shuffle junction routes as a queued prompt would",
	Long: `Reconciles the workflow, then randomly reassigns which upstream link feeds
which input of every junction and prints the routes that moved.
Use --seed for a reproducible shuffle.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		write, _ := cmd.Flags().GetBool("write")

		rt := mustRuntime(cmd)
		defer rt.Close()

		if err := cli.Queue(cmd.Context(), rt, args[0], write, cmd.OutOrStdout()); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(queueCmd)
	queueCmd.Flags().BoolP("write", "w", false, "Update the workflow file in place")
}
