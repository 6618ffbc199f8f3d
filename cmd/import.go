package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var flagImportOverwrite bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import panes from an export document",
	Long: `Import panes from a JSON export. Panes are matched to existing ones by
name: matches are skipped unless --overwrite is given, in which case the
existing pane is replaced in place. Use "-" to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading import: %w", err)
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		res, err := a.store.Import(data, flagImportOverwrite)
		if err != nil {
			return err
		}

		fmt.Printf("imported %d, skipped %d\n", res.Created, res.Skipped)
		for _, e := range res.Errors {
			fmt.Println(styleError.Render("error: " + e))
		}
		if len(res.Errors) > 0 {
			return fmt.Errorf("%d panes failed to import", len(res.Errors))
		}
		return nil
	},
}

func init() {
	importCmd.Flags().BoolVar(&flagImportOverwrite, "overwrite", false, "replace existing panes with the same name")
	rootCmd.AddCommand(importCmd)
}
