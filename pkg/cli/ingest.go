package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markguard/markguard/internal/ingest"
	"github.com/markguard/markguard/internal/report"
	"github.com/markguard/markguard/internal/schema"
)

func newIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ingest",
		Short:   "Merge an external runtime audit tool's findings into the report",
		Example: "  markguard ingest --from axe-output.json --domain accessibility",
		RunE: func(cmd *cobra.Command, args []string) error {
			from := viper.GetString("ingest.from")
			if from == "" {
				return errors.New("please provide --from pointing to the external tool's JSON export")
			}

			root, cfg, err := loadProject()
			if err != nil {
				return err
			}
			domains, err := parseDomains(viper.GetString("ingest.domain"))
			if err != nil {
				return err
			}
			if len(domains) != 1 {
				return errors.New("ingest requires a single domain: accessibility or seo")
			}
			domain := domains[0]

			external, err := ingest.Load(from, domain)
			if err != nil {
				return err
			}

			store := report.NewStore(root, cfg.ReportDir)
			merged, ecosystem := mergeWithExisting(store, domain, external)

			rep := report.Build(root, ecosystem, domain, merged)
			if err := store.SaveAudit(rep); err != nil {
				return err
			}

			fmt.Printf("✅ Ingested %d external findings; report now has %d issues -> %s\n",
				len(external), rep.Summary.Total, store.AuditJSONPath(domain))
			return nil
		},
	}

	cmd.Flags().String("from", "", "External tool JSON export to ingest")
	cmd.Flags().String("domain", "accessibility", "Domain the external findings belong to")
	_ = viper.BindPFlag("ingest.from", cmd.Flags().Lookup("from"))
	_ = viper.BindPFlag("ingest.domain", cmd.Flags().Lookup("domain"))

	return cmd
}

// mergeWithExisting folds external findings into a prior report when one
// exists. With no prior report the external findings stand alone.
func mergeWithExisting(store *report.Store, domain schema.Domain, external []schema.Finding) ([]schema.Finding, string) {
	prior, err := store.LoadAudit(domain)
	if err != nil {
		return external, "html"
	}
	return ingest.Merge(prior.Issues, external), prior.SourceEcosystem
}
