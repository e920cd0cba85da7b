package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/hwdiag/internal/catalog"
	"github.com/roach88/hwdiag/internal/ir"
)

// RulesView is the JSON shape of the rules command.
type RulesView struct {
	Source   RuleSource         `json:"source"`
	Rules    []ir.Rule          `json:"rules"`
	Fallback ir.DiagnosisResult `json:"fallback"`
}

// NewRulesCommand creates the rules command.
func NewRulesCommand(rootOpts *RootOptions) *cobra.Command {
	var rulesDir string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Show the active rule table",
		Long: `Show the rule table a consultation would use, in evaluation order,
followed by the fallback result and the table hash recorded in logs.

Examples:
  hwdiag rules
  hwdiag rules --rules ./rules --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := rootOpts.formatter(cmd)

			if rulesDir == "" {
				cfg, err := rootOpts.loadConfig(formatter)
				if err != nil {
					return err
				}
				rulesDir = cfg.RulesDir
			}

			eng, src, err := mustLoadEngine(rulesDir)
			if err != nil {
				_ = formatter.Error(loadErrorCode(err), err.Error(), nil)
				return err
			}

			view := RulesView{Source: src, Rules: eng.Rules(), Fallback: eng.Fallback()}
			if formatter.IsJSON() {
				return formatter.Success(view)
			}

			w := formatter.Writer
			origin := "built-in"
			if src.Dir != "" {
				origin = src.Dir
			}
			fmt.Fprintf(w, "%s %s\n\n", headerStyle.Sprintf("Rule table (%s, %d rules)", origin, src.RuleCount),
				dimStyle.Sprintf("hash %s", src.RulesHash))
			for i, r := range view.Rules {
				fmt.Fprintf(w, "%d. %s %s\n", i+1, successStyle.Sprint(r.Diagnosis), dimStyle.Sprintf("[%s]", r.ID))
				fmt.Fprintf(w, "   When: %s\n", symptomList(r.Symptoms))
				if r.Cause != "" {
					fmt.Fprintf(w, "   Cause: %s\n", r.Cause)
				}
				if r.Recommendation != "" {
					fmt.Fprintf(w, "   Recommendation: %s\n", r.Recommendation)
				}
			}
			fmt.Fprintln(w)
			fmt.Fprintf(w, "%s %s\n", headerStyle.Sprint("Fallback:"), view.Fallback.Diagnosis)
			return nil
		},
	}

	cmd.Flags().StringVar(&rulesDir, "rules", "", "CUE rules directory (default HWDIAG_RULES or built-in)")

	return cmd
}

// symptomList joins symptom IDs, flagging those missing from the catalog.
func symptomList(symptoms []ir.Symptom) string {
	parts := make([]string, len(symptoms))
	for i, s := range symptoms {
		parts[i] = string(s)
		if !catalog.Known(s) {
			parts[i] += warnStyle.Sprint("?")
		}
	}
	return strings.Join(parts, " + ")
}
