package cli

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/markguard/markguard/internal/logging"
	"github.com/markguard/markguard/internal/schema"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint <file>",
		Short: "Lint a single file and print advisory warnings",
		Long: "Lint is the degraded, single-file variant of the audit: it prints warning " +
			"lines directly, writes no report, never mutates, and always exits " +
			"successfully regardless of findings.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file := args[0]
			domains, err := parseDomains(viper.GetString("lint.domain"))
			if err != nil {
				return err
			}

			lintOnce(file, domains)

			if !viper.GetBool("lint.watch") {
				return nil
			}
			return watchAndLint(file, domains)
		},
	}

	cmd.Flags().String("domain", "all", "Lint domain: accessibility, seo, or all")
	cmd.Flags().Bool("watch", false, "Re-lint the file whenever it changes")
	_ = viper.BindPFlag("lint.domain", cmd.Flags().Lookup("domain"))
	_ = viper.BindPFlag("lint.watch", cmd.Flags().Lookup("watch"))

	return cmd
}

// lintOnce prints one warning line per finding. Advisory only: read
// failures are reported as a warning line, never as a non-zero exit.
func lintOnce(file string, domains []schema.Domain) {
	content, err := os.ReadFile(file)
	if err != nil {
		fmt.Printf("%s: unreadable: %v\n", file, err)
		return
	}

	var findings []schema.Finding
	for _, domain := range domains {
		findings = append(findings, scannerFor(domain).ScanContent(file, string(content))...)
	}

	if len(findings) == 0 {
		fmt.Printf("%s: no issues\n", file)
		return
	}
	for _, f := range findings {
		fmt.Printf("%s:%d: [%s/%s] %s\n", file, f.Line, strings.ToUpper(string(f.Severity)), f.Category, f.Problem)
	}
}

// watchAndLint re-lints on every write until interrupted. Editors often
// replace the file on save, so the path is re-added after remove/rename
// events.
func watchAndLint(file string, domains []schema.Domain) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(file)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(file), err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	fmt.Printf("👀 Watching %s (ctrl-c to stop)\n", file)

	target := filepath.Clean(file)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				lintOnce(file, domains)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logging.Logger.Warnw("watch error", "error", err)
		case <-interrupt:
			return nil
		}
	}
}
