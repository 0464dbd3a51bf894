package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	renderTemplate string
	renderOut      string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the stored resume to an HTML file",
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().StringVar(&renderTemplate, "template", "", "Template id (default: the selected template)")
	renderCmd.Flags().StringVar(&renderOut, "out", "resume.html", "Output file")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	id := renderTemplate
	if id == "" {
		id = a.editor.TemplateID()
	}
	res := a.registry.Render(a.editor.Store().Document(), id, a.editor.Settings())
	if res.Notice != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), res.Notice)
	}
	if err := os.WriteFile(renderOut, []byte(res.HTML), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", renderOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "rendered %s to %s\n", res.TemplateID, renderOut)
	return nil
}
