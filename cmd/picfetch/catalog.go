package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"picfetch/pkg/catalog"
	"picfetch/pkg/ui"
)

var catalogAsTable bool

// catalogCmd represents the catalog command
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect the accumulated metadata catalog",
	Long: `Inspect the metadata accumulated across all batch files in the
data directory.

By default a summary is printed: batch file count and total item
count. With --table the items are rendered as a table whose columns
are the union of the top-level metadata fields.`,
	Example: `  # Quick summary
  picfetch catalog

  # Full tabular view
  picfetch catalog --table`,
	RunE: runCatalog,
}

func init() {
	rootCmd.AddCommand(catalogCmd)

	catalogCmd.Flags().BoolVar(&catalogAsTable, "table", false, "render the catalog as a table")
}

func runCatalog(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	repo := catalog.NewRepository(cfg.Output.DataDir)

	if catalogAsTable {
		table, err := repo.Table()
		if err != nil {
			return err
		}
		if table.Len() == 0 {
			ui.PrintWarning("Catalog is empty. Run 'picfetch fetch' first.")
			return nil
		}
		fmt.Fprint(os.Stdout, table.String())
		return nil
	}

	files, err := repo.BatchFiles()
	if err != nil {
		return err
	}
	photos, err := repo.List()
	if err != nil {
		return err
	}

	ui.PrintInfo("Catalog", fmt.Sprintf("%d photos across %d batch files", len(photos), len(files)))
	return nil
}
