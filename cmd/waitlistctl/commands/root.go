// File: cmd/waitlistctl/commands/root.go
package commands

import (
	"context"
	"fmt"
	"io"

	"bridgex_waitlist/internal/apiclient"
	"bridgex_waitlist/internal/config"
	"bridgex_waitlist/internal/platform/logger"
	"bridgex_waitlist/internal/session"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// cliApp is shared by every command of one invocation.
type cliApp struct {
	apiURL      string
	sessionFile string

	logger   *zap.Logger
	sessions *session.FileStore
	client   *apiclient.Client
	auth     *apiclient.AuthService
	waitlist *apiclient.WaitlistService

	out    io.Writer
	errOut io.Writer
	ui     *palette
}

// Execute runs the waitlistctl root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &cliApp{ui: defaultPalette}
	root := &cobra.Command{
		Use:           "waitlistctl",
		Short:         "Join and manage the BridgeX waitlist",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "API base URL (default $WAITLIST_API_BASE_URL or http://localhost:8080/api)")
	root.PersistentFlags().StringVar(&a.sessionFile, "session-file", "", "where the admin session is kept (default $WAITLIST_SESSION_FILE)")

	root.AddCommand(
		loginCmd(a), logoutCmd(a), whoamiCmd(a),
		joinCmd(a), listCmd(a), searchCmd(a), statsCmd(a),
		getCmd(a), updateCmd(a), deleteCmd(a),
	)
	return root
}

func (a *cliApp) setup(cmd *cobra.Command) error {
	a.out = cmd.OutOrStdout()
	a.errOut = cmd.ErrOrStderr()

	cfg, err := config.LoadClient()
	if err != nil {
		return a.fail(err)
	}
	if a.apiURL != "" {
		cfg.APIBaseURL = a.apiURL
	}
	if a.sessionFile != "" {
		cfg.SessionFile = a.sessionFile
	}

	a.logger, err = logger.NewWithOptions(logger.Options{Level: cfg.LogLevel, Format: "console"})
	if err != nil {
		return a.fail(fmt.Errorf("failed to initialize logger: %w", err))
	}

	a.sessions, err = session.OpenFileStore(cfg.SessionFile)
	if err != nil {
		return a.fail(err)
	}

	a.client = apiclient.New(cfg.APIBaseURL, a.sessions,
		apiclient.WithTimeout(cfg.Timeout),
		apiclient.WithLogger(a.logger.Named("apiclient")),
		apiclient.WithNotifier(apiclient.NotifierFunc(a.notify)),
		apiclient.WithSessionExpiredHandler(a.sessionExpired),
	)
	a.auth = apiclient.NewAuthService(a.client, a.logger.Named("auth"))
	a.waitlist = apiclient.NewWaitlistService(a.client, a.logger.Named("waitlist"))
	return nil
}

func (a *cliApp) notify(_ context.Context, n apiclient.Notification) {
	fmt.Fprintln(a.errOut, a.ui.err.Render("✗ "+n.Message))
}

func (a *cliApp) sessionExpired(context.Context) {
	fmt.Fprintln(a.errOut, a.ui.warn.Render("Your session has expired. Run `waitlistctl login` to sign in again."))
}

// fail prints err and returns it so cobra exits non-zero.
func (a *cliApp) fail(err error) error {
	if a.errOut != nil {
		fmt.Fprintln(a.errOut, a.ui.err.Render("Error: "+err.Error()))
	}
	return err
}

func (a *cliApp) success(format string, args ...interface{}) {
	fmt.Fprintln(a.out, a.ui.ok.Render(fmt.Sprintf(format, args...)))
}
