package reverse

import (
	"fmt"
	"strings"
	"time"

	"github.com/blaqat/theme-generation/internal/runlog"
	"github.com/blaqat/theme-generation/internal/theme"

	"github.com/spf13/cobra"
)

// NewCommand returns the "reverse" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reverse <template> <theme>",
		Short: "Extract binding files from a finished theme",
		Long: `Extract a TOML binding file from each variant of a finished theme by
matching it against the template that could have produced it. Repeated
colors are factored into a named palette; values the template cannot
express become overrides.

Examples:
  themegen reverse mytheme.json.template onedark.json
  themegen reverse mytheme.json.template onedark.json --threshold 4
  themegen reverse mytheme.json.template onedark.json -v`,
		Args:         cobra.ExactArgs(2),
		RunE:         runReverse,
		SilenceUsage: true,
	}

	cmd.Flags().IntP("threshold", "t", 2, "Minimum repetitions before a color is named in the palette")
	cmd.Flags().BoolP("verbose", "v", false, "Print extraction diagnostics")

	return cmd
}

func runReverse(cmd *cobra.Command, args []string) error {
	templatePath, themePath := args[0], args[1]

	threshold, _ := cmd.Flags().GetInt("threshold")
	verbose, _ := cmd.Flags().GetBool("verbose")

	start := time.Now()
	paths, err := theme.Reverse(templatePath, themePath, theme.ReverseOptions{
		Threshold: threshold,
		Verbose:   verbose,
		Logf: func(format string, a ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", a...)
		},
	})
	record(&runlog.Record{
		Command:    "reverse",
		Template:   templatePath,
		Output:     strings.Join(paths, ","),
		Status:     status(err),
		DurationMs: time.Since(start).Milliseconds(),
	}, err)
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	}
	return nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

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
