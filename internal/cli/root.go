// Package cli implements reservactl, a command line client for the
// reservation service built on the same booking rules as the gateway.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"reserva/internal/commons"
	"reserva/internal/config"
	"reserva/internal/infrastructure/logger"
	"reserva/internal/infrastructure/reservaapi"
	"reserva/internal/reservation/validator"
)

var (
	Version   = "dev"
	CommitSHA = "none"
	BuildDate = "unknown"
)

const sessionEnv = "RESERVA_SESSION"

// app is what every subcommand shares once the root has loaded config.
type app struct {
	upstream string
	session  string
	logLevel string

	cfg    *config.Config
	logger *zap.Logger
	loc    *time.Location
	client *reservaapi.Client
	now    func() time.Time
}

func NewRootCmd() *cobra.Command {
	a := &app{now: time.Now}

	root := &cobra.Command{
		Use:           "reservactl",
		Short:         "Browse the catalog and manage reservations from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.upstream, "upstream", "", "reservation service base URL (default from UPSTREAM_BASE_URL)")
	root.PersistentFlags().StringVar(&a.session, "session", "", "session cookies as a Cookie header (default from "+sessionEnv+")")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newSlotsCmd())
	root.AddCommand(newCompaniesCmd(a))
	root.AddCommand(newProductsCmd(a))
	root.AddCommand(newLoginCmd(a))
	root.AddCommand(newReserveCmd(a))
	root.AddCommand(newReservationCmd(a))
	root.AddCommand(newMigrateCmd(a))

	return root
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads config, the logger and the client. Commands that need none of
// them skip it.
func (a *app) setup() error {
	if a.cfg != nil {
		return nil
	}

	cfg, err := commons.Resolve()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if a.upstream != "" {
		cfg.Upstream.BaseURL = a.upstream
	}

	log, err := logger.New(a.logLevel, logger.FormatConsole)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	loc, err := cfg.Booking.Location()
	if err != nil {
		return err
	}

	client, err := reservaapi.New(cfg.Upstream, loc, log)
	if err != nil {
		return err
	}

	a.cfg, a.logger, a.loc, a.client = cfg, log, loc, client
	return nil
}

func (a *app) validator() *validator.Validator {
	return validator.New(a.loc, a.cfg.Booking.MaxAdvanceDays)
}

// userSession parses --session or RESERVA_SESSION. required reports an
// error when neither is set.
func (a *app) userSession(required bool) (*reservaapi.Session, error) {
	raw := a.session
	if raw == "" {
		raw = os.Getenv(sessionEnv)
	}
	sess, err := reservaapi.ParseSession(raw)
	if err != nil {
		return nil, err
	}
	if required && !sess.HasCookies() {
		return nil, fmt.Errorf("no session: log in with `reservactl login` and pass --session or set %s", sessionEnv)
	}
	return sess, nil
}

// reportSession prints the refreshed session when the service changed it.
func reportSession(w io.Writer, sess *reservaapi.Session) {
	if len(sess.Updated()) == 0 {
		return
	}
	fmt.Fprintf(w, "%s=%q\n", sessionEnv, sess.Header())
}
