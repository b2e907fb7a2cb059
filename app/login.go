package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/atelier-market/admin-console/internal/authflow"
	"github.com/atelier-market/admin-console/internal/session"
)

func init() { //nolint: gochecknoinits
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "administrator email")

	rootCmd.AddCommand(loginCmd)
}

var (
	loginEmail string

	loginCmd = &cobra.Command{
		Use:   "login",
		Short: "Log in to the admin API",
		Long: `Log in to the admin API. The password is read without echo. When the
account has two-factor authentication enabled the verification code is asked
for in the same run.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := openDaemon(cmd.Context())
			if err != nil {
				return err
			}
			defer d.Close()

			p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())

			if err := interactiveLogin(cmd.Context(), d.Controller, p, loginEmail); err != nil {
				return err
			}

			printActor(cmd.OutOrStdout(), d.Session.Actor())

			return nil
		},
	}
)

// loginFlow is the part of the login controller the command drives.
type loginFlow interface {
	State() authflow.State
	SubmitCredentials(ctx context.Context, email, password string) error
	SubmitTwoFactorCode(ctx context.Context, code string) error
	Cancel()
}

// interactiveLogin runs a login to its end. Rejected two-factor codes are asked
// for again until the input ends.
func interactiveLogin(ctx context.Context, flow loginFlow, p *prompter, email string) error {
	var err error

	if email == "" {
		if email, err = p.ask("Email: "); err != nil {
			return err
		}
	}

	password, err := p.askPassword("Password: ")
	if err != nil {
		return err
	}

	if err := flow.SubmitCredentials(ctx, email, password); err != nil {
		return err
	}

	for flow.State() == authflow.StateTwoFactorPending {
		code, err := p.ask("Verification code: ")
		if err != nil {
			flow.Cancel()
			return err
		}

		err = flow.SubmitTwoFactorCode(ctx, code)

		switch {
		case err == nil:
		case errors.Is(err, authflow.ErrInvalidTwoFactorCode), errors.Is(err, authflow.ErrInvalidInput):
			_, _ = fmt.Fprintln(p.out, "Invalid verification code. Please try again.")
		default:
			flow.Cancel()
			return err
		}
	}

	return nil
}

func printActor(out io.Writer, actor *session.Actor) {
	if actor == nil {
		_, _ = fmt.Fprintln(out, "Not logged in.")
		return
	}

	_, _ = fmt.Fprintf(out, "Logged in as %s (%s, id %d)\n", actor.Email, actor.Role, actor.ID)
}
