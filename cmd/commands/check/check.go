package check

import (
	"fmt"

	"github.com/blaqat/theme-generation/internal/diff"
	"github.com/blaqat/theme-generation/internal/document"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	matchStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	driftStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true)
)

// NewCommand returns the "check" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <theme-a> <theme-b>",
		Short: "Compare two theme files key by key",
		Long: `Compare two theme documents and report how similar they are. Useful for
verifying that a reversed binding file regenerates the theme it came
from: generate from the extracted bindings, then check the result
against the original.

Examples:
  themegen check onedark.json regenerated.json`,
		Args:         cobra.ExactArgs(2),
		RunE:         runCheck,
		SilenceUsage: true,
	}

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	a, err := document.LoadJSON(args[0])
	if err != nil {
		return err
	}
	b, err := document.LoadJSON(args[1])
	if err != nil {
		return err
	}

	result := diff.Trees(a, b)
	similarity := result.Similarity()

	out := cmd.OutOrStdout()
	if len(result.Paths) == 0 {
		fmt.Fprintln(out, matchStyle.Render(fmt.Sprintf("Themes match (%d keys compared).", result.Total)))
		return nil
	}

	fmt.Fprintln(out, driftStyle.Render(fmt.Sprintf("Themes are %.1f%% similar.", similarity)))
	fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("%d differing key(s):", len(result.Paths))))
	for _, path := range result.Paths {
		fmt.Fprintf(out, "  %s\n", pathStyle.Render(path))
	}
	return nil
}
