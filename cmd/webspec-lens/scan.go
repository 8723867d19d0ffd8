package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/webspec-lens/webspec-lens/internal/analyzer"
	"github.com/webspec-lens/webspec-lens/internal/log"
	"github.com/webspec-lens/webspec-lens/internal/provider/registry"
)

var (
	scanOKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	scanWarnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	scanHeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	scanFileStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
)

type scanConfig struct {
	logConfig      *log.Config
	registryPath   string
	fuzzyThreshold float64
}

func newScanCmd() *cobra.Command {
	cfg := &scanConfig{logConfig: log.NewConfig()}

	cmd := &cobra.Command{
		Use:   "scan <file> [file2 ...]",
		Short: "Report spec-step coverage for a list of files, non-interactively",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runScan(cfg, args)
		},
	}

	cmd.Flags().StringVar(&cfg.registryPath, "registry", "", "path to a YAML spec registry (required)")
	cmd.Flags().Float64Var(&cfg.fuzzyThreshold, "fuzzy-threshold", 0.85, "Jaro-Winkler similarity threshold for fuzzy step matches")
	cfg.logConfig.RegisterFlags(cmd.Flags())

	return cmd
}

func runScan(cfg *scanConfig, files []string) error {
	if cfg.registryPath == "" {
		return ErrMissingRegistry
	}

	handler, err := cfg.logConfig.NewHandler(os.Stderr)
	if err != nil {
		return fmt.Errorf("configuring logging: %w", err)
	}
	logger := slog.New(handler)

	p, err := registry.Open(cfg.registryPath, logger)
	if err != nil {
		return fmt.Errorf("opening registry %s: %w", cfg.registryPath, err)
	}
	defer p.Close()

	a := analyzer.New(p, cfg.fuzzyThreshold, logger)
	ctx := context.Background()

	anyMissing := false
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		uri := "file://" + path
		coverages := a.CoverageDoc(ctx, uri, string(data), 1)

		fmt.Println(scanHeaderStyle.Render(path))
		if len(coverages) == 0 {
			fmt.Println(scanFileStyle.Render("  (no spec-cited algorithms found)"))
			continue
		}
		for _, dc := range coverages {
			line := fmt.Sprintf("  %s: %s", dc.URL.Anchor, dc.Result.Summary())
			if len(dc.Result.Missing) > 0 || dc.Result.Warnings > 0 {
				anyMissing = true
				fmt.Println(scanWarnStyle.Render(line))
			} else {
				fmt.Println(scanOKStyle.Render(line))
			}
		}
	}

	if anyMissing {
		return fmt.Errorf("coverage gaps found")
	}
	return nil
}
