package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"panekit/internal/workflow"
)

var flagWorkflowsAll bool

var workflowsCmd = &cobra.Command{
	Use:   "workflows",
	Short: "Inspect the host's Convert workflows",
}

var workflowsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List Convert workflows available for panes",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		var flows []workflow.Info
		if flagWorkflowsAll {
			flows, err = a.bridge.List(cmd.Context())
		} else {
			flows, err = a.bridge.ConvertWorkflows(cmd.Context())
		}
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, styleHeader.Render("ID\tNAME\tKIND\tSTATE"))
		for _, f := range flows {
			state := styleDisabled.Render("disabled")
			if f.Enabled {
				state = styleEnabled.Render("enabled")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", f.ID, f.Name, f.Kind, state)
		}
		return w.Flush()
	},
}

var workflowsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check that workflow panes reference existing Convert workflows",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		statuses, err := a.bridge.Validate(cmd.Context(), a.store.Panes())
		if err != nil {
			return err
		}
		if len(statuses) == 0 {
			fmt.Println("no workflow panes")
			return nil
		}

		missing := 0
		for _, p := range a.store.Panes() {
			status, ok := statuses[p.ID]
			if !ok {
				continue
			}
			line := fmt.Sprintf("%s (%s) -> %s: %s", p.Name, p.ID, p.Transformation.WorkflowID, status)
			if status == workflow.StatusMissing {
				missing++
				line = styleError.Render(line)
			}
			fmt.Println(line)
		}
		if missing > 0 {
			return fmt.Errorf("%d panes reference missing workflows", missing)
		}
		return nil
	},
}

func init() {
	workflowsListCmd.Flags().BoolVar(&flagWorkflowsAll, "all", false, "include non-Convert workflows")
	workflowsCmd.AddCommand(workflowsListCmd)
	workflowsCmd.AddCommand(workflowsValidateCmd)
	rootCmd.AddCommand(workflowsCmd)
}
