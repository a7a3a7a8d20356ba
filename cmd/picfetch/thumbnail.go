package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"picfetch/pkg/imageproc"
	"picfetch/pkg/logger"
	"picfetch/pkg/storage"
	"picfetch/pkg/ui"
)

var (
	thumbMaxWidth  int
	thumbMaxHeight int
)

// thumbnailCmd represents the thumbnail command
var thumbnailCmd = &cobra.Command{
	Use:   "thumbnail",
	Short: "Create thumbnails for downloaded images",
	Long: `Create a resized thumbnail next to every source image in the
images directory, named {stem}-thumbnail{ext}.

Thumbnails preserve aspect ratio, never exceed the configured maximum
dimensions, and are written as 3-channel color. Files that are not
decodable images are skipped silently; source files are never
modified.`,
	RunE: runThumbnail,
}

// pipelineCmd represents the pipeline command
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run the full transform pipeline over downloaded images",
	Long: `Run the full transform sequence (flip, rotations, fixed resize,
grayscale and color conversion) over every source image, writing only
the final thumbnail. The intermediate transforms validate that each
image survives the full set of operations; their results are
discarded.`,
	RunE: runPipeline,
}

func init() {
	rootCmd.AddCommand(thumbnailCmd)
	rootCmd.AddCommand(pipelineCmd)

	for _, cmd := range []*cobra.Command{thumbnailCmd, pipelineCmd} {
		cmd.Flags().IntVar(&thumbMaxWidth, "max-width", 0, "maximum thumbnail width (default from config)")
		cmd.Flags().IntVar(&thumbMaxHeight, "max-height", 0, "maximum thumbnail height (default from config)")
	}
}

func runThumbnail(cmd *cobra.Command, args []string) error {
	return runProcessing(false)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	return runProcessing(true)
}

func runProcessing(pipeline bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := imageproc.Options{
		MaxWidth:  cfg.Thumbnail.MaxWidth,
		MaxHeight: cfg.Thumbnail.MaxHeight,
		MaxPixels: cfg.Thumbnail.MaxPixels,
	}
	if thumbMaxWidth > 0 {
		opts.MaxWidth = thumbMaxWidth
	}
	if thumbMaxHeight > 0 {
		opts.MaxHeight = thumbMaxHeight
	}

	manager, err := storage.NewManager(cfg.Output.ImagesDir)
	if err != nil {
		return err
	}

	processor := imageproc.NewProcessor(manager, opts, logger.GetLogger())
	processor.UsePipeline(pipeline)

	ctx, cancel := signalContext()
	defer cancel()

	summary, err := processor.ProcessDirectory(ctx)
	if err != nil {
		return err
	}

	ui.PrintInfo("Processed", fmt.Sprintf("%d created, %d skipped", summary.Created, summary.Skipped))
	return nil
}
