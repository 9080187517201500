package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CarloDePieri/pass2keepass2/internal/adapters/keepass"
	"github.com/CarloDePieri/pass2keepass2/internal/adapters/tui/views"
)

var inspectEntries bool

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.kdbx>",
	Short: "Print the group tree of a keepass database",
	Long: `Open a keepass database and print its groups with the number of entries
below each one. Passwords and other values are never printed.

Examples:
  pass2keepass2 inspect pass.kdbx
  pass2keepass2 inspect --entries pass.kdbx`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr(), "Database password: ")
		if err != nil {
			return err
		}

		db, err := keepass.Open(args[0], password)
		if err != nil {
			return err
		}
		logger.Debug("database opened", "path", db.Path(), "name", db.Name())

		root := db.Root()
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d entries in %d groups\n",
			db.Name(), root.CountEntries(), root.CountGroups())
		fmt.Fprint(cmd.OutOrStdout(), views.RenderTree(root, inspectEntries))
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVarP(&inspectEntries, "entries", "e", false, "list entry titles too")
	rootCmd.AddCommand(inspectCmd)
}
