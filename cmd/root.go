package cmd

import (
	"os"

	"github.com/blaqat/theme-generation/cmd/commands/check"
	"github.com/blaqat/theme-generation/cmd/commands/generate"
	"github.com/blaqat/theme-generation/cmd/commands/history"
	"github.com/blaqat/theme-generation/cmd/commands/reverse"
	"github.com/blaqat/theme-generation/cmd/commands/scaffold"
	"github.com/blaqat/theme-generation/cmd/commands/watch"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands.
func rootCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "themegen",
		Short: "A bidirectional color-theme generator for templated editor themes",
		Long: `themegen turns a theme template plus TOML binding files into concrete
editor themes, and runs the same transform in reverse: given a template
and a finished theme, it recovers a binding file with a factored color
palette.

Quick start:
  themegen new mytheme                  # Scaffold a template project
  themegen generate mytheme.json.template
  themegen reverse mytheme.json.template onedark.json
  themegen watch mytheme.json.template  # Regenerate on every edit`,
	}

	cmd.AddCommand(generate.NewCommand())
	cmd.AddCommand(reverse.NewCommand())
	cmd.AddCommand(check.NewCommand())
	cmd.AddCommand(scaffold.NewCommand())
	cmd.AddCommand(watch.NewCommand())
	cmd.AddCommand(history.NewCommand())

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	var root = rootCmd()
	err := root.Execute()
	if err != nil {
		os.Exit(1)
	}
}
