package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/danielk69/AWIL/importer"
	"github.com/danielk69/AWIL/models"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a catalog spreadsheet (.xlsx or .csv)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args[0])
		},
	}
}

func runImport(ctx context.Context, opts *rootOptions, path string) error {
	e, err := setup(opts, true)
	if err != nil {
		return err
	}
	defer e.close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	catalog := models.NewCatalogRepository(e.db)
	imp := importer.New(importer.NewStore(catalog), importer.WithLogger(e.logger))

	result, err := imp.ImportFile(ctx, filepath.Base(path), f)
	if err != nil {
		return err
	}

	fmt.Printf("Imported %s: %d themes, %d subthemes, %d categories, %d names, %d links (run %s)\n",
		filepath.Base(path), result.Themes, result.Subthemes, result.Categories, result.Names, result.Links, result.RunID)
	return nil
}
