package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markguard/markguard/internal/logging"
)

var (
	Version = "0.1.0"
	rootCmd *cobra.Command
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "markguard",
		Short: "Static accessibility and SEO audit agent",
		Long: "Markguard scans a project's markup for accessibility and SEO defects, " +
			"writes a structured audit report, and applies conservative, reversible " +
			"fixes to findings selected from that report.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(viper.GetBool("debug"))
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("root", "r", ".", "Project root to operate on")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	_ = viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))

	// Environment variable support (MARKGUARD_ROOT, etc.)
	viper.SetEnvPrefix("MARKGUARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	// Subcommands
	rootCmd.AddCommand(newAuditCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newLintCmd())
	rootCmd.AddCommand(newIngestCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newVersionCmd())
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the markguard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("markguard", Version)
		},
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
