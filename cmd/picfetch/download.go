package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"picfetch/pkg/catalog"
	"picfetch/pkg/downloader"
	"picfetch/pkg/logger"
	"picfetch/pkg/storage"
	"picfetch/pkg/ui"
	"picfetch/pkg/unsplash"
)

var downloadQuality string

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the images listed in the metadata batch files",
	Long: `Download the image binary for every catalog item, at the chosen
quality tier, into the images directory as {id}-{quality}.jpg.

Downloads are best effort: an item whose URL fails to resolve is
skipped and the run continues. A catalog item missing the requested
quality tier aborts the run.`,
	Example: `  # Download at the configured quality (regular by default)
  picfetch download

  # Download small variants instead
  picfetch download --quality small`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringVarP(&downloadQuality, "quality", "q", "", "quality tier: raw | full | regular | small | thumb")
}

func runDownload(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	quality := cfg.Download.Quality
	if downloadQuality != "" {
		quality = downloadQuality
	}
	if !unsplash.IsValidQuality(quality) {
		return fmt.Errorf("invalid quality tier: %s", quality)
	}

	repo := catalog.NewRepository(cfg.Output.DataDir)
	photos, err := repo.List()
	if err != nil {
		return err
	}
	if len(photos) == 0 {
		ui.PrintWarning("Catalog is empty. Run 'picfetch fetch' first.")
		return nil
	}

	manager, err := storage.NewManager(cfg.Output.ImagesDir)
	if err != nil {
		return err
	}

	client := unsplash.NewClient(cfg.Download.Timeout, logger.GetLogger())
	d := downloader.New(client, manager, logger.GetLogger())

	ctx, cancel := signalContext()
	defer cancel()

	summary, err := d.DownloadAll(ctx, photos, quality)
	if err != nil {
		return err
	}

	ui.PrintInfo("Downloaded", fmt.Sprintf("%d saved, %d skipped", summary.Saved, summary.Skipped))
	return nil
}
