package generate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/blaqat/theme-generation/internal/runlog"
	"github.com/blaqat/theme-generation/internal/theme"

	"github.com/charmbracelet/huh/spinner"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// NewCommand returns the "generate" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <template>",
		Short: "Materialize a template into a concrete theme",
		Long: `Materialize a theme template using every TOML binding file found next
to it. Each binding file produces one theme variant; the combined
document is installed into the editor's theme directory unless told
otherwise.

Examples:
  # Install into ~/.config/zed/themes/mytheme.json
  themegen generate mytheme.json.template

  # Write next to the template instead
  themegen generate mytheme.json.template --current-dir

  # Explicit output path
  themegen generate mytheme.json.template -o /tmp/out.json

  # Remove a previously installed theme
  themegen generate mytheme.json.template --delete`,
		Args:         cobra.ExactArgs(1),
		RunE:         runGenerate,
		SilenceUsage: true,
	}

	cmd.Flags().StringP("output", "o", "", "Output file path (overrides the install directory)")
	cmd.Flags().BoolP("current-dir", "c", false, "Write the theme next to the template")
	cmd.Flags().StringP("name", "n", "", "Theme file name (defaults to the template name)")
	cmd.Flags().BoolP("delete", "d", false, "Remove the installed theme instead of generating")

	return cmd
}

func runGenerate(cmd *cobra.Command, args []string) error {
	templatePath := args[0]

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = theme.TemplateName(templatePath)
	}

	if remove, _ := cmd.Flags().GetBool("delete"); remove {
		installed, err := theme.InstallPath(name)
		if err != nil {
			return err
		}
		if err := os.Remove(installed); err != nil {
			return fmt.Errorf("failed to remove %s: %w", installed, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", installed)
		return nil
	}

	outputPath, err := resolveOutput(cmd, templatePath, name)
	if err != nil {
		return err
	}

	start := time.Now()
	var result *theme.GenerateResult
	if term.IsTerminal(int(os.Stdout.Fd())) {
		accessible := os.Getenv("ACCESSIBLE") != ""
		spinErr := spinner.New().
			Title("Generating theme...").
			Accessible(accessible).
			Output(cmd.ErrOrStderr()).
			Action(func() {
				result, err = theme.Generate(templatePath, outputPath)
			}).
			Run()
		if spinErr != nil {
			return spinErr
		}
	} else {
		result, err = theme.Generate(templatePath, outputPath)
	}
	record(&runlog.Record{
		Command:    "generate",
		Template:   templatePath,
		Output:     outputPath,
		Status:     status(err),
		DurationMs: time.Since(start).Milliseconds(),
	}, err)

	if err != nil {
		if errors.Is(err, theme.ErrNoBindings) {
			fmt.Fprintln(cmd.OutOrStdout(), "No binding files found next to the template. Run \"themegen new\" to scaffold one.")
		}
		return err
	}

	for _, variant := range result.Variants {
		for _, expr := range variant.Unresolved {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: unresolved %s\n",
				filepath.Base(variant.Bindings), expr)
		}
		for _, diag := range variant.Diagnostics {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s %q: %s\n",
				filepath.Base(variant.Bindings), diag.Kind, diag.Key, diag.Detail)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Generated %d variant(s) into %s\n",
		len(result.Variants), result.Output)
	return nil
}

// resolveOutput decides where the theme goes: explicit -o wins, then
// --current-dir, then the editor install directory.
func resolveOutput(cmd *cobra.Command, templatePath, name string) (string, error) {
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		return out, nil
	}
	if current, _ := cmd.Flags().GetBool("current-dir"); current {
		return filepath.Join(filepath.Dir(templatePath), name+".json"), nil
	}
	installed, err := theme.InstallPath(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(installed), 0o755); err != nil {
		return "", fmt.Errorf("failed to create theme directory: %w", err)
	}
	return installed, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// record persists the run best-effort; history is a convenience and
// must never fail the run itself.
func record(r *runlog.Record, runErr error) {
	if runErr != nil {
		r.ErrorMessage = runErr.Error()
	}
	store, err := runlog.Open()
	if err != nil {
		return
	}
	defer store.Close()
	_ = store.Save(r)
}
