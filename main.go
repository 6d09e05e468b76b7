package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/typefirst/goalsolve/cmd"
)

func main() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "goalsolve [subcommand]",
	Short:        "goalsolve\n a goal evaluation engine for type-checker obligations",
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(cmd.DemoCmd)
}
