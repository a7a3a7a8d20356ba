package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"picfetch/pkg/catalog"
	"picfetch/pkg/fetcher"
	"picfetch/pkg/logger"
	"picfetch/pkg/ui"
	"picfetch/pkg/unsplash"
)

var (
	fetchPageSize int
	fetchBudget   int
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch photo metadata into a timestamped batch file",
	Long: `Fetch pages of random photo metadata from the Unsplash API and
persist them as a data_<timestamp>.json batch file.

The page loop stops on the first 403 (API quota exceeded), any other
error, or Ctrl-C. Whatever was accumulated by then is always written
out, so no fetched metadata is ever lost.`,
	Example: `  # Fetch with configured defaults (30 per page, 1500 total)
  picfetch fetch

  # Smaller session
  picfetch fetch --page-size 10 --budget 100`,
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVar(&fetchPageSize, "page-size", 0, "photos per API call (default from config)")
	fetchCmd.Flags().IntVar(&fetchBudget, "budget", 0, "total photos per session (default from config)")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	accessKey, err := resolveAccessKey(cfg)
	if err != nil {
		return err
	}

	pageSize := cfg.Fetch.PageSize
	if fetchPageSize > 0 {
		pageSize = fetchPageSize
	}
	budget := cfg.Fetch.TotalBudget
	if fetchBudget > 0 {
		budget = fetchBudget
	}

	client := unsplash.NewClient(cfg.Download.Timeout, logger.GetLogger())
	client.SetBaseURL(cfg.Fetch.BaseURL)
	client.SetHeader("Accept-Version", cfg.Fetch.AcceptVersion)
	client.SetAccessKey(accessKey)

	repo := catalog.NewRepository(cfg.Output.DataDir)
	f := fetcher.New(client, repo, pageSize, budget, logger.GetLogger())

	ctx, cancel := signalContext()
	defer cancel()

	session, err := f.Run(ctx)
	if err != nil {
		return err
	}

	switch session.Outcome {
	case fetcher.OutcomeRateLimited:
		ui.PrintWarning("API limit reached!")
	case fetcher.OutcomeFailed:
		ui.PrintWarning("Something went wrong!")
	case fetcher.OutcomeCanceled:
		ui.PrintWarning("Operation interrupted by user.")
	}

	ui.PrintInfo("Batch", fmt.Sprintf("%d photos over %d pages -> %s",
		session.Items, session.Pages, session.BatchPath))
	return nil
}
