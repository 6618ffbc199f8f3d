package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"panekit/internal/model"
)

var (
	flagUpdateName        string
	flagUpdateTabName     string
	flagUpdateDescription string
	flagUpdateScope       string
	flagUpdateInput       string
	flagUpdateHTTPQL      string
	flagUpdateLocations   []string
)

var updateCmd = &cobra.Command{
	Use:   "update <pane-id>",
	Short: "Update a pane",
	Long: `Update a pane's fields. Only the given flags change; the rest keep
their values. Changing --scope moves the pane to the other tier.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var upd model.PaneUpdate
		if cmd.Flags().Changed("name") {
			upd.Name = &flagUpdateName
		}
		if cmd.Flags().Changed("tab-name") {
			upd.TabName = &flagUpdateTabName
		}
		if cmd.Flags().Changed("description") {
			upd.Description = &flagUpdateDescription
		}
		if cmd.Flags().Changed("scope") {
			scope := model.Scope(flagUpdateScope)
			upd.Scope = &scope
		}
		if cmd.Flags().Changed("input") {
			input := model.InputKind(flagUpdateInput)
			upd.Input = &input
		}
		if cmd.Flags().Changed("httpql") {
			upd.HTTPQL = &flagUpdateHTTPQL
		}
		if cmd.Flags().Changed("locations") {
			locations := make([]model.Location, 0, len(flagUpdateLocations))
			for _, l := range flagUpdateLocations {
				locations = append(locations, model.Location(l))
			}
			upd.Locations = locations
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		p, ok := a.store.UpdatePane(args[0], upd)
		if !ok {
			return fmt.Errorf("pane %s not found", args[0])
		}
		fmt.Printf("updated %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&flagUpdateName, "name", "", "pane name")
	updateCmd.Flags().StringVar(&flagUpdateTabName, "tab-name", "", "view tab label")
	updateCmd.Flags().StringVar(&flagUpdateDescription, "description", "", "pane description")
	updateCmd.Flags().StringVar(&flagUpdateScope, "scope", "", "owning tier: global, project")
	updateCmd.Flags().StringVar(&flagUpdateInput, "input", "", "input kind")
	updateCmd.Flags().StringVar(&flagUpdateHTTPQL, "httpql", "", "HTTPQL filter")
	updateCmd.Flags().StringSliceVar(&flagUpdateLocations, "locations", nil, "view locations")
	rootCmd.AddCommand(updateCmd)
}
