// File: cmd/waitlistctl/commands/contacts.go
package commands

import (
	"errors"
	"fmt"
	"net/http"

	"bridgex_waitlist/internal/apiclient"
	"bridgex_waitlist/internal/waitlist"

	"github.com/spf13/cobra"
)

func joinCmd(a *cliApp) *cobra.Command {
	var sub waitlist.Submission
	cmd := &cobra.Command{
		Use:   "join",
		Short: "Add a contact to the waitlist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.waitlist.Join(cmd.Context(), sub)
			if err != nil {
				var ve *waitlist.ValidationError
				if errors.As(err, &ve) {
					return a.fail(errors.New(ve.Message))
				}
				if apiclient.IsStatus(err, http.StatusConflict) {
					return a.fail(errors.New("this contact is already on the waitlist"))
				}
				return a.fail(err)
			}
			a.success("%s: %s (%s, %s).", res.Message, res.Entry.DisplayContact(), serviceLabel(res.Entry.ServiceType), res.Entry.Location)
			return nil
		},
	}
	cmd.Flags().StringVar(&sub.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&sub.Phone, "phone", "", "contact phone number, used when no email is given")
	cmd.Flags().StringVarP(&sub.UserType, "type", "t", "", "user or provider")
	cmd.Flags().StringVarP(&sub.Location, "location", "l", "", "location (default "+waitlist.DefaultLocation+")")
	return cmd
}

func addListFlags(cmd *cobra.Command, q *waitlist.ListQuery) {
	cmd.Flags().IntVar(&q.Page, "page", waitlist.DefaultPage, "page number")
	cmd.Flags().IntVar(&q.Limit, "limit", waitlist.DefaultLimit, "entries per page")
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "match the phone number, or the email when there is no phone")
	cmd.Flags().StringVarP(&q.UserType, "type", "t", waitlist.UserTypeAll, "all, user or provider")
}

func listCmd(a *cliApp) *cobra.Command {
	var q waitlist.ListQuery
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the waitlist, filtering locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.waitlist.List(cmd.Context(), q)
			if err != nil {
				return a.fail(err)
			}
			renderEntries(a.out, a.ui, page.Items, &page.Pagination)
			return nil
		},
	}
	addListFlags(cmd, &q)
	return cmd
}

func searchCmd(a *cliApp) *cobra.Command {
	var q waitlist.ListQuery
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search the waitlist on the server (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			page, err := a.waitlist.Search(cmd.Context(), q)
			if err != nil {
				return a.fail(err)
			}
			renderEntries(a.out, a.ui, page.Items, &page.Pagination)
			return nil
		},
	}
	addListFlags(cmd, &q)
	return cmd
}

func statsCmd(a *cliApp) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show signup statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				stats *waitlist.Stats
				err   error
			)
			if remote {
				if err := a.requireSession(); err != nil {
					return err
				}
				stats, err = a.waitlist.RemoteStats(cmd.Context())
			} else {
				stats, err = a.waitlist.Stats(cmd.Context())
			}
			if err != nil {
				return a.fail(err)
			}
			renderStats(a.out, a.ui, stats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remote, "server", false, "let the server compute the statistics (admin)")
	return cmd
}

func getCmd(a *cliApp) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one contact (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}
			entry, err := a.waitlist.Get(cmd.Context(), args[0])
			if err != nil {
				return a.fail(err)
			}
			renderEntry(a.out, a.ui, entry)
			return nil
		},
	}
}

func updateCmd(a *cliApp) *cobra.Command {
	var email, phone, location, userType string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a contact (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireSession(); err != nil {
				return err
			}

			var req waitlist.UpdateRequest
			flags := cmd.Flags()
			if flags.Changed("email") {
				req.Email = &email
			}
			if flags.Changed("phone") {
				req.Phone = &phone
			}
			if flags.Changed("location") {
				req.Location = &location
			}
			if flags.Changed("type") {
				if userType != waitlist.UserTypeUser && userType != waitlist.UserTypeProvider {
					return a.fail(fmt.Errorf("--type must be %q or %q", waitlist.UserTypeUser, waitlist.UserTypeProvider))
				}
				st := waitlist.ServiceTypeForUserType(userType)
				req.ServiceType = &st
			}
			if req == (waitlist.UpdateRequest{}) {
				return a.fail(errors.New("nothing to update; pass at least one of --email, --phone, --location, --type"))
			}

			entry, err := a.waitlist.Update(cmd.Context(), args[0], req)
			if err != nil {
				return a.fail(err)
			}
			a.success("Contact updated.")
			renderEntry(a.out, a.ui, entry)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "new email; use "+waitlist.BlankEmail+" to clear it")
	cmd.Flags().StringVar(&phone, "phone", "", "new phone; use "+waitlist.BlankPhone+" to clear it")
	cmd.Flags().StringVarP(&location, "location", "l", "", "new location")
	cmd.Flags().StringVarP(&userType, "type", "t", "", "user or provider")
	return cmd
}

func deleteCmd(a *cliApp) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a contact from the waitlist (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return a.fail(errors.New("refusing to delete without --yes"))
			}
			if err := a.requireSession(); err != nil {
				return err
			}
			if err := a.waitlist.Delete(cmd.Context(), args[0]); err != nil {
				return a.fail(err)
			}
			a.success("Contact %s deleted.", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm the deletion")
	return cmd
}
