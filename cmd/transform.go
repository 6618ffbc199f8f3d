package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var transformCmd = &cobra.Command{
	Use:   "transform <pane-id> <request-id>",
	Short: "Run one pane against one intercepted request",
	Long: `Run a pane's transformation against an intercepted request and print
the output. The pane must be enabled; exchanges its HTTPQL filter does
not match produce no output.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		res, err := a.pipeline.Transform(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if res.Filtered {
			fmt.Println(styleDisabled.Render("(filtered: the pane's HTTPQL query does not match this exchange)"))
			return nil
		}
		fmt.Println(res.Output)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(transformCmd)
}
