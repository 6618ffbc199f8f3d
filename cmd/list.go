package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"panekit/internal/model"
)

var (
	flagListEnabled bool
	flagListScope   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List panes",
	Long: `List panes from both tiers, global tier first.

Filter to one scope with --scope, or to enabled panes with --enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		panes := a.store.Panes()
		if flagListEnabled {
			panes = a.store.EnabledPanes()
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, styleHeader.Render("ID\tNAME\tSCOPE\tSTATE\tTYPE\tINPUT"))
		for _, p := range panes {
			if flagListScope != "" && string(p.Scope) != flagListScope {
				continue
			}
			state := styleDisabled.Render("disabled")
			if p.Enabled {
				state = styleEnabled.Render("enabled")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				p.ID,
				p.Name,
				styleScope.Render(string(p.Scope)),
				state,
				p.Transformation.Type,
				p.Input,
			)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&flagListEnabled, "enabled", false, "only enabled panes")
	listCmd.Flags().StringVar(&flagListScope, "scope", "", fmt.Sprintf("only panes in one scope: %s, %s", model.ScopeGlobal, model.ScopeProject))
	rootCmd.AddCommand(listCmd)
}
