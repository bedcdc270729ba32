package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markguard/markguard/internal/report"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Re-render the human-readable report from the structured audit",
		Example: "  markguard report --domain seo",
		RunE:    runReport,
	}

	cmd.Flags().String("domain", "all", "Domain to render: accessibility, seo, or all")
	_ = viper.BindPFlag("report.domain", cmd.Flags().Lookup("domain"))
	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	root, cfg, err := loadProject()
	if err != nil {
		return err
	}
	domains, err := parseDomains(viper.GetString("report.domain"))
	if err != nil {
		return err
	}

	store := report.NewStore(root, cfg.ReportDir)
	for _, domain := range domains {
		rep, err := store.LoadAudit(domain)
		if err != nil {
			return err
		}
		mdPath := store.AuditMarkdownPath(domain)
		if err := os.WriteFile(mdPath, []byte(report.RenderMarkdown(rep)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", mdPath, err)
		}
		fmt.Printf("📝 %s report: %s\n", domain, mdPath)
	}
	return nil
}
