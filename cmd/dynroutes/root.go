package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dynroutes/internal/cli"
	"github.com/aretw0/dynroutes/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dynroutes",
	Short: "dynroutes keeps routing junctions of node-graph workflows in shape",
	Long: `dynroutes manages DynamicRoutes junctions in ComfyUI/LiteGraph workflows:
it resizes their ports as links come and go, propagates the routed type and
shuffles which upstream link feeds which input on every run request.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default: ./"+config.DefaultPath+" when present)")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
	flags.String("kind", "", "Node class handled as a routing junction")
	flags.Uint64("seed", 0, "Seed for reproducible shuffles")
	flags.String("palette", "", "YAML file of extra link colors")
	flags.String("store", "", "Workflow store: file, memory or redis")
	flags.String("dir", "", "Directory of the file store")
	flags.String("redis-url", "", "Redis URL of the redis store")
}

// overrides collects the persistent flags that were set explicitly.
func overrides(cmd *cobra.Command) cli.Overrides {
	flags := cmd.Flags()
	str := func(name string) string {
		v, _ := flags.GetString(name)
		return v
	}

	o := cli.Overrides{
		LogLevel:    str("log-level"),
		NodeKind:    str("kind"),
		PaletteFile: str("palette"),
		Backend:     str("store"),
		Dir:         str("dir"),
		RedisURL:    str("redis-url"),
	}
	if flags.Changed("seed") {
		seed, _ := flags.GetUint64("seed")
		o.Seed = &seed
	}
	if f := flags.Lookup("listen"); f != nil && f.Changed {
		o.Listen = f.Value.String()
	}
	return o
}

// mustRuntime loads the configuration, applies the flags and builds the engine.
// It exits the process on failure.
func mustRuntime(cmd *cobra.Command) *cli.Runtime {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Environ())
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}
	overrides(cmd).Apply(&cfg)

	rt, err := cli.NewRuntime(cfg, os.Stderr)
	if err != nil {
		fmt.Printf("Error initializing dynroutes: %v\n", err)
		os.Exit(1)
	}
	return rt
}
