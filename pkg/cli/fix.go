package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markguard/markguard/internal/fix"
	"github.com/markguard/markguard/internal/report"
	"github.com/markguard/markguard/internal/schema"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "fix",
		Short:   "Apply automatic fixes to findings from the audit report",
		Example: "  markguard fix --select A11Y-003\n  markguard fix --select images --dry-run\n  markguard fix --select all",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}

			selector := viper.GetString("fix.select")
			dryRun := viper.GetBool("fix.dry-run")
			domain, err := fixDomain(viper.GetString("fix.domain"), selector)
			if err != nil {
				return err
			}

			store := report.NewStore(root, cfg.ReportDir)
			orch := fix.NewOrchestrator(root, store, cfg.HandlerTimeout)

			if dryRun {
				fmt.Printf("🔬 Dry run: previewing fixes for %q (no files will change)\n", selector)
			} else {
				fmt.Printf("🔧 Applying fixes for %q\n", selector)
			}

			result, err := orch.Run(domain, selector, dryRun)
			if err != nil {
				return err
			}

			printOutcomes("Fixed", result.Fixed, func(o schema.FixOutcome) string { return o.Action })
			printOutcomes("Skipped", result.Skipped, func(o schema.FixOutcome) string { return o.Reason })
			printOutcomes("Manual review", result.Manual, func(o schema.FixOutcome) string { return o.RecommendedFix })

			fixed, skipped, manual := result.Counts()
			fmt.Printf("\nDone: %d fixed, %d skipped, %d for manual review\n", fixed, skipped, manual)
			if !dryRun {
				fmt.Printf("📝 Fix report: %s\n", store.FixMarkdownPath(domain))
			}
			return nil
		},
	}

	cmd.Flags().String("select", fix.SelectorAll, "Finding ID, category name, or \"all\"")
	cmd.Flags().Bool("dry-run", false, "Preview what would change without touching any file")
	cmd.Flags().String("domain", "accessibility", "Report to fix against: accessibility or seo")
	_ = viper.BindPFlag("fix.select", cmd.Flags().Lookup("select"))
	_ = viper.BindPFlag("fix.dry-run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("fix.domain", cmd.Flags().Lookup("domain"))

	return cmd
}

// fixDomain picks the report to fix against. An ID selector names its
// domain through its prefix, which beats the flag.
func fixDomain(tag, selector string) (schema.Domain, error) {
	if strings.HasPrefix(selector, "SEO-") {
		return schema.DomainSEO, nil
	}
	if strings.HasPrefix(selector, "A11Y-") {
		return schema.DomainAccessibility, nil
	}
	switch tag {
	case "accessibility", "a11y":
		return schema.DomainAccessibility, nil
	case "seo":
		return schema.DomainSEO, nil
	default:
		return "", fmt.Errorf("unknown domain %q: use accessibility or seo", tag)
	}
}

func printOutcomes(heading string, outcomes []schema.FixOutcome, detail func(schema.FixOutcome) string) {
	if len(outcomes) == 0 {
		return
	}
	fmt.Printf("\n%s (%d):\n", heading, len(outcomes))
	for _, o := range outcomes {
		fmt.Printf("  %s %s:%d: %s\n", o.FindingID, o.File, o.Line, detail(o))
	}
}
