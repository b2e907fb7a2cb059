package app

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/atelier-market/admin-console/internal/gate"
	"github.com/atelier-market/admin-console/internal/session"
	"github.com/atelier-market/admin-console/internal/web/navigation"
)

func init() { //nolint: gochecknoinits
	rootCmd.AddCommand(whoamiCmd)
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the session and what it may access",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := openDaemon(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		return writeWhoami(cmd.OutOrStdout(), d.Session, d.Gate, d.Menu)
	},
}

func writeWhoami(out io.Writer, sess session.Reader, g *gate.Gate, sections []navigation.Section) error {
	printActor(out, sess.Actor())

	if sess.Actor() != nil {
		perms := make([]string, 0)
		for _, p := range sess.Permissions() {
			perms = append(perms, string(p))
		}

		if sess.HasRole(session.RoleSuperAdmin) {
			perms = []string{"*"}
		}

		_, _ = fmt.Fprintf(out, "Permissions: %s\n\n", strings.Join(perms, ", "))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0) //nolint:mnd

	_, _ = fmt.Fprintln(w, "SECTION\tITEM\tDECISION")

	for _, section := range sections {
		for _, item := range section.Items {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", section.Title, item.Title, g.Check(item.Requirement))
		}
	}

	return w.Flush()
}
