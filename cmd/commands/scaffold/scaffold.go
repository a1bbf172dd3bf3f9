package scaffold

import (
	"errors"
	"fmt"
	"os"

	"github.com/blaqat/theme-generation/internal/theme"
	"github.com/blaqat/theme-generation/internal/tui"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCommand returns the "new" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new [name]",
		Short: "Scaffold a new template project",
		Long: `Create a directory holding a starter template and binding files to
build a theme from. Run without flags on a terminal for an interactive
form, or pass flags for scripting.

Examples:
  # Interactive
  themegen new

  # Non-interactive
  themegen new mytheme --style light --variants 2 --dir ~/themes`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         runScaffold,
		SilenceUsage: true,
	}

	cmd.Flags().String("style", "", "Appearance of the first variant: dark or light")
	cmd.Flags().Int("variants", 0, "Number of binding files to create")
	cmd.Flags().String("dir", "", "Parent directory for the project (defaults to the current directory)")

	return cmd
}

func runScaffold(cmd *cobra.Command, args []string) error {
	opts := theme.ScaffoldOptions{}
	if len(args) > 0 {
		opts.Name = args[0]
	}
	opts.Style, _ = cmd.Flags().GetString("style")
	opts.Variants, _ = cmd.Flags().GetInt("variants")
	opts.Dir, _ = cmd.Flags().GetString("dir")

	if opts.Style != "" && opts.Style != "dark" && opts.Style != "light" {
		return fmt.Errorf("style must be dark or light, got %q", opts.Style)
	}

	flagged := cmd.Flags().Changed("style") || cmd.Flags().Changed("variants") || cmd.Flags().Changed("dir")
	interactive := !flagged && term.IsTerminal(int(os.Stdout.Fd()))

	if interactive {
		filled, err := tui.ScaffoldForm(opts)
		if err != nil {
			if errors.Is(err, tui.ErrAborted) {
				fmt.Fprintln(cmd.ErrOrStderr(), "Scaffold cancelled.")
				return nil
			}
			return err
		}
		opts = *filled
	} else if opts.Name == "" {
		return fmt.Errorf("a theme name is required when running non-interactively")
	}

	paths, err := theme.Scaffold(opts)
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Run \"themegen generate %s\" once you have filled in the bindings.\n", paths[0])
	return nil
}
