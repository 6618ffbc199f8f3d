package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"panekit/internal/model"
)

var (
	flagCreateName        string
	flagCreateTabName     string
	flagCreateDescription string
	flagCreateScope       string
	flagCreateInput       string
	flagCreateHTTPQL      string
	flagCreateLocations   []string
	flagCreateCommand     string
	flagCreateWorkflow    string
	flagCreateTimeout     int
	flagCreateShell       string
	flagCreateShellConfig string
	flagCreateEnabled     bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a pane",
	Long: `Create a pane with either a shell command or a Convert workflow
transformation. Exactly one of --command and --workflow must be given.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tabName := flagCreateTabName
		if tabName == "" {
			tabName = flagCreateName
		}

		transformation := model.Transformation{
			Type:        model.TransformationCommand,
			Command:     flagCreateCommand,
			Timeout:     flagCreateTimeout,
			Shell:       flagCreateShell,
			ShellConfig: flagCreateShellConfig,
		}
		if flagCreateWorkflow != "" {
			transformation = model.Transformation{
				Type:       model.TransformationWorkflow,
				WorkflowID: flagCreateWorkflow,
			}
		}

		locations := make([]model.Location, 0, len(flagCreateLocations))
		for _, l := range flagCreateLocations {
			locations = append(locations, model.Location(l))
		}
		if len(locations) == 0 {
			locations = model.Locations()
		}

		pane := model.Pane{
			Name:           flagCreateName,
			TabName:        tabName,
			Description:    flagCreateDescription,
			Enabled:        flagCreateEnabled,
			Scope:          model.Scope(flagCreateScope),
			Input:          model.InputKind(flagCreateInput),
			HTTPQL:         flagCreateHTTPQL,
			Locations:      locations,
			Transformation: transformation,
		}
		if err := pane.Validate(); err != nil {
			return err
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		created := a.store.CreatePane(pane)
		fmt.Println(created.ID)
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&flagCreateName, "name", "", "pane name (required)")
	createCmd.Flags().StringVar(&flagCreateTabName, "tab-name", "", "view tab label (default: the pane name)")
	createCmd.Flags().StringVar(&flagCreateDescription, "description", "", "pane description")
	createCmd.Flags().StringVar(&flagCreateScope, "scope", string(model.ScopeProject), "owning tier: global, project")
	createCmd.Flags().StringVar(&flagCreateInput, "input", string(model.InputRequestBody), "input kind, e.g. request.body, response.raw, request-response")
	createCmd.Flags().StringVar(&flagCreateHTTPQL, "httpql", "", "HTTPQL filter; empty matches every exchange")
	createCmd.Flags().StringSliceVar(&flagCreateLocations, "locations", nil, "view locations (default: all)")
	createCmd.Flags().StringVar(&flagCreateCommand, "command", "", "shell command template")
	createCmd.Flags().StringVar(&flagCreateWorkflow, "workflow", "", "Convert workflow ID")
	createCmd.Flags().IntVar(&flagCreateTimeout, "timeout", 0, "command timeout in seconds")
	createCmd.Flags().StringVar(&flagCreateShell, "shell", "", "shell binary for the command (default from config)")
	createCmd.Flags().StringVar(&flagCreateShellConfig, "shell-config", "", "rc file sourced before the command")
	createCmd.Flags().BoolVar(&flagCreateEnabled, "enabled", false, "create the pane enabled")
	_ = createCmd.MarkFlagRequired("name")
	createCmd.MarkFlagsMutuallyExclusive("command", "workflow")
	rootCmd.AddCommand(createCmd)
}
