package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dynroutes/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <workflow.json | id>",
	Short: "Export the workflow graph visualization",
	Long:  `Reconciles the workflow in memory and outputs a Mermaid diagram (graph LR) with colored links.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := mustRuntime(cmd)
		defer rt.Close()

		if err := cli.Graph(cmd.Context(), rt, args[0], cmd.OutOrStdout()); err != nil {
			fmt.Printf("Error inspecting graph: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
