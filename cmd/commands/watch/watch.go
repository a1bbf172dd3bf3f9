package watch

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/blaqat/theme-generation/internal/theme"
	"github.com/blaqat/theme-generation/internal/watcher"

	"github.com/spf13/cobra"
)

// NewCommand returns the "watch" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <template>",
		Short: "Regenerate the theme whenever the template or bindings change",
		Long: `Generate once, then keep watching the template and its binding files,
regenerating after each save. Press Ctrl-C to stop.

Examples:
  themegen watch mytheme.json.template
  themegen watch mytheme.json.template --current-dir`,
		Args:         cobra.ExactArgs(1),
		RunE:         runWatch,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (overrides the install directory)")
	cmd.Flags().BoolP("current-dir", "c", false, "Write the theme next to the template")
	cmd.Flags().StringP("name", "n", "", "Theme file name (defaults to the template name)")

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	templatePath := args[0]

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = theme.TemplateName(templatePath)
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		if current, _ := cmd.Flags().GetBool("current-dir"); current {
			outputPath = filepath.Join(filepath.Dir(templatePath), name+".json")
		} else {
			installed, err := theme.InstallPath(name)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(installed), 0o755); err != nil {
				return fmt.Errorf("failed to create theme directory: %w", err)
			}
			outputPath = installed
		}
	}

	regenerate := func() {
		result, err := theme.Generate(templatePath, outputPath)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Regenerated %d variant(s) into %s\n",
			len(result.Variants), result.Output)
	}
	regenerate()

	bindings, err := theme.DiscoverBindings(filepath.Dir(templatePath))
	if err != nil {
		return err
	}
	paths := append([]string{templatePath}, bindings...)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d file(s). Press Ctrl-C to stop.\n", len(paths))
	return watcher.Watch(ctx, paths, watcher.DefaultDebounce, regenerate)
}
