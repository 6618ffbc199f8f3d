package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var flagExportOutput string

var exportCmd = &cobra.Command{
	Use:   "export [pane-id...]",
	Short: "Export panes to a portable JSON document",
	Long: `Export panes as JSON with identity fields stripped, so the document
imports cleanly into another store. With no arguments, every pane is
exported; otherwise only the named panes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		data, err := a.store.Export(args)
		if err != nil {
			return err
		}

		if flagExportOutput == "" || flagExportOutput == "-" {
			fmt.Println(string(data))
			return nil
		}
		if err := os.WriteFile(flagExportOutput, data, 0o600); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		fmt.Printf("exported to %s\n", flagExportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&flagExportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
