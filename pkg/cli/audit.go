package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markguard/markguard/internal/config"
	"github.com/markguard/markguard/internal/report"
	"github.com/markguard/markguard/internal/resolver"
	"github.com/markguard/markguard/internal/rules"
	"github.com/markguard/markguard/internal/schema"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Scan the project and write the audit report",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, err := loadProject()
			if err != nil {
				return err
			}

			domains, err := parseDomains(viper.GetString("audit.domain"))
			if err != nil {
				return err
			}

			eco := resolveEcosystem(root, cfg, viper.GetString("audit.ecosystem"))
			files := resolver.Resolve(root, eco, cfg.Ignore)
			fmt.Printf("🔍 Auditing %s (%s, %d files)\n", root, eco, len(files))

			store := report.NewStore(root, cfg.ReportDir)
			for _, domain := range domains {
				scanner := scannerFor(domain)
				findings := scanner.ScanFiles(root, files)
				rep := report.Build(root, string(eco), domain, findings)
				if err := store.SaveAudit(rep); err != nil {
					return err
				}
				fmt.Printf("✅ %s: %d issues (%d auto-fixable) -> %s\n",
					domain, rep.Summary.Total, rep.Summary.AutoFixable, store.AuditJSONPath(domain))
			}
			return nil
		},
	}

	cmd.Flags().String("ecosystem", "", "Ecosystem override: nextjs, react, vue, html (default: auto-detect)")
	cmd.Flags().String("domain", "all", "Audit domain: accessibility, seo, or all")
	_ = viper.BindPFlag("audit.ecosystem", cmd.Flags().Lookup("ecosystem"))
	_ = viper.BindPFlag("audit.domain", cmd.Flags().Lookup("domain"))

	return cmd
}

// loadProject resolves the project root flag and loads its configuration.
// Everything downstream receives these explicitly.
func loadProject() (string, *config.Config, error) {
	root, err := filepath.Abs(viper.GetString("root"))
	if err != nil {
		return "", nil, fmt.Errorf("resolve project root: %w", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		return "", nil, err
	}
	return root, cfg, nil
}

// resolveEcosystem applies the precedence: flag, config file, auto-detect.
func resolveEcosystem(root string, cfg *config.Config, flag string) resolver.Ecosystem {
	if flag != "" {
		return resolver.ParseEcosystem(flag)
	}
	if cfg.Ecosystem != "" {
		return resolver.ParseEcosystem(cfg.Ecosystem)
	}
	return resolver.DetectEcosystem(root)
}

func parseDomains(tag string) ([]schema.Domain, error) {
	switch tag {
	case "all":
		return []schema.Domain{schema.DomainAccessibility, schema.DomainSEO}, nil
	case "accessibility", "a11y":
		return []schema.Domain{schema.DomainAccessibility}, nil
	case "seo":
		return []schema.Domain{schema.DomainSEO}, nil
	default:
		return nil, fmt.Errorf("unknown domain %q: use accessibility, seo, or all", tag)
	}
}

func scannerFor(domain schema.Domain) *rules.Scanner {
	if domain == schema.DomainSEO {
		return rules.NewScanner(domain, rules.SEORules())
	}
	return rules.NewScanner(domain, rules.AccessibilityRules())
}
