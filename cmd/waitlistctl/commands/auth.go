// File: cmd/waitlistctl/commands/auth.go
package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

const passwordEnv = "WAITLIST_ADMIN_PASSWORD"

func loginCmd(a *cliApp) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in as a waitlist admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			if password == "" {
				fmt.Fprint(a.out, "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return a.fail(errors.New("no password given"))
				}
				password = strings.TrimRight(line, "\r\n")
			}

			res, err := a.auth.Login(cmd.Context(), email, password)
			if err != nil {
				return a.fail(err)
			}
			a.success("%s. Signed in as %s (%s).", res.Message, res.User.Email, res.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "admin email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "admin password (default $"+passwordEnv+", otherwise prompted)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.auth.IsAuthenticated() {
				fmt.Fprintln(a.out, a.ui.muted.Render("Not signed in."))
				return nil
			}
			a.auth.Logout(cmd.Context())
			a.success("Signed out.")
			return nil
		},
	}
}

func whoamiCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in admin",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			user, err := a.auth.Profile(cmd.Context())
			if err != nil {
				return a.fail(err)
			}
			line := fmt.Sprintf("%s (%s)", user.Email, user.Role)
			if user.LastLoginAt != nil {
				line += a.ui.muted.Render(" last sign-in " + user.LastLoginAt.UTC().Format("2006-01-02 15:04 MST"))
			}
			fmt.Fprintln(a.out, line)
			return nil
		},
	}
}

var errNotSignedIn = errors.New("not signed in; run `waitlistctl login` first")

func (a *cliApp) requireSession() error {
	if !a.auth.IsAuthenticated() {
		return a.fail(errNotSignedIn)
	}
	return nil
}
