package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atelier-market/admin-console/internal/permission"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(permissionsCmd)
}

var permissionsCmd = &cobra.Command{
	Use:   "permissions",
	Short: "List the permission catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		writeCatalog(cmd.OutOrStdout())
		return nil
	},
}

func writeCatalog(out io.Writer) {
	for _, group := range permission.Groups() {
		perms := permission.ForGroup(group)

		names := make([]string, len(perms))
		for i, p := range perms {
			names[i] = p.Action()
		}

		_, _ = fmt.Fprintf(out, "%-14s %s\n", group, strings.Join(names, ", "))
	}

	defaults := make([]string, 0)
	for _, p := range permission.ModeratorDefaults() {
		defaults = append(defaults, string(p))
	}

	_, _ = fmt.Fprintf(out, "\nModerator defaults: %s\n", strings.Join(defaults, ", "))
}
