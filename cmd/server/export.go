package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"resume-builder/internal/export"

	"github.com/spf13/cobra"
)

var (
	exportFormat string
	exportOutDir string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored resume as PDF or Word",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "pdf", "pdf or doc")
	exportCmd.Flags().StringVar(&exportOutDir, "out-dir", ".", "Directory for the exported file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := a.editor.Export(cmd.Context(), format)
	if err != nil {
		var ee *export.ExportError
		if errors.As(err, &ee) && ee.Cause != nil {
			return fmt.Errorf("%s (%w)", ee.Alert, ee.Cause)
		}
		return err
	}
	if err := os.MkdirAll(exportOutDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(exportOutDir, f.Name)
	if err := os.WriteFile(path, f.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", path, len(f.Data))
	return nil
}
