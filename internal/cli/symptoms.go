package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/hwdiag/internal/catalog"
)

// NewSymptomsCommand creates the symptoms command.
func NewSymptomsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List the known symptom identifiers",
		Long: `List the symptom identifiers accepted by "hwdiag diagnose", with the
label shown to the user.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)
			entries := catalog.Default()
			if formatter.IsJSON() {
				return formatter.Success(entries)
			}

			width := 0
			for _, e := range entries {
				width = max(width, len(e.ID))
			}
			for _, e := range entries {
				fmt.Fprintf(formatter.Writer, "  %-*s  %s\n", width, e.ID, e.Label)
			}
			return nil
		},
	}
}
