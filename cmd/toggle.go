package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagToggleOff bool

var toggleCmd = &cobra.Command{
	Use:   "toggle <pane-id>",
	Short: "Enable or disable a pane",
	Long:  `Enable a pane. With --off, disable it instead.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		p, ok := a.store.TogglePane(args[0], !flagToggleOff)
		if !ok {
			return fmt.Errorf("pane %s not found", args[0])
		}
		state := styleEnabled.Render("enabled")
		if !p.Enabled {
			state = styleDisabled.Render("disabled")
		}
		fmt.Printf("%s is now %s\n", p.Name, state)
		return nil
	},
}

func init() {
	toggleCmd.Flags().BoolVar(&flagToggleOff, "off", false, "disable instead of enable")
	rootCmd.AddCommand(toggleCmd)
}
