package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"panekit/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Work with built-in pane templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the built-in templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, styleHeader.Render("TEMPLATE\tNAME\tINPUT\tDESCRIPTION"))
		for _, tpl := range templates.All() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", tpl.TemplateID, tpl.Name, tpl.Input, tpl.Description)
		}
		return w.Flush()
	},
}

var templatesInstallCmd = &cobra.Command{
	Use:   "install <template-id>",
	Short: "Install one built-in template as a global pane",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		p, ok := a.store.InstallTemplate(args[0])
		if !ok {
			return fmt.Errorf("unknown template %s", args[0])
		}
		fmt.Printf("installed %s as %s\n", p.Name, p.ID)
		return nil
	},
}

var templatesSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Install all built-in templates once",
	Long: `Install every built-in template into the global tier. Seeding runs at
most once per store: templates the user has since deleted stay deleted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close(cmd.Context())

		n := a.store.EnsureTemplatesInstalled()
		fmt.Printf("installed %d templates\n", n)
		return nil
	},
}

func init() {
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesInstallCmd)
	templatesCmd.AddCommand(templatesSeedCmd)
	rootCmd.AddCommand(templatesCmd)
}
