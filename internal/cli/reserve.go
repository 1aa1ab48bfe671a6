package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"reserva/internal/domain"
	apperrors "reserva/internal/errors"
	"reserva/internal/infrastructure/reservaapi"
	"reserva/internal/reservation/form"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and print the session to reuse with --session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			sess := reservaapi.NewSession()
			user, err := a.client.Login(cmd.Context(), sess, reservaapi.Credentials{Email: email, Password: password})
			if err != nil {
				return describe(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "logged in as %s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(out, "%s=%q\n", sessionEnv, sess.Header())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newReserveCmd(a *app) *cobra.Command {
	var (
		productID int
		quantity  int
		date      string
		hhmm      string
	)

	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Book a product through the booking form rules",
		Long: "Loads the product and its available times, applies the same checks as the web form " +
			"and sends the reservation. Without --date the booking is for today; without --time the " +
			"first available time is used.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if productID <= 0 {
				return fmt.Errorf("--product must be a positive integer")
			}
			if err := a.setup(); err != nil {
				return err
			}
			sess, err := a.userSession(true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			user, err := a.client.CurrentUser(ctx, sess)
			if err != nil {
				return describe(err)
			}
			product, err := a.client.ProductForReservation(ctx, productID)
			if err != nil {
				return describe(err)
			}

			f := form.New(a.validator(), *product, a.now)
			if err := f.LoadSlots(ctx, a.client); err != nil && !errors.Is(err, form.ErrSuperseded) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			if date == "" {
				date = f.State().Date
			}
			if hhmm == "" {
				f.SetDate(date)
				hhmm = f.State().Time
			}
			f.Fill(quantity, date, hhmm)

			submit := form.SubmitterFunc(func(ctx context.Context, _ domain.User, req domain.ReservationRequest) (int, error) {
				return a.client.CreateReservation(ctx, sess, req)
			})
			id, err := f.Submit(ctx, user, submit)
			reportSession(out, sess)
			if err != nil {
				printState(cmd.ErrOrStderr(), f.State())
				return describe(err)
			}

			state := f.State()
			when := state.Date
			if state.Time != "" && len(state.Slots) > 0 {
				when += " " + state.Time
			}
			fmt.Fprintf(out, "reservation %d created: %d x %s on %s (%.2f)\n", id, state.Quantity, product.Name, when, state.Subtotal)
			return nil
		},
	}
	cmd.Flags().IntVar(&productID, "product", 0, "product id")
	cmd.Flags().IntVar(&quantity, "quantity", 1, "units to book")
	cmd.Flags().StringVar(&date, "date", "", "date, YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&hhmm, "time", "", "start time, HH:MM (default first available)")
	_ = cmd.MarkFlagRequired("product")
	return cmd
}

func printState(w io.Writer, s form.State) {
	if s.HasTimeRestriction {
		fmt.Fprintf(w, "available times on %s: %v\n", s.Date, s.OfferedSlots)
	}
	fmt.Fprintf(w, "bookable dates: %s to %s, stock: %d\n", s.MinDate, s.MaxDate, s.Product.AvailableStock())
}

// describe turns rejections into one line listing every problem.
func describe(err error) error {
	if ve, ok := apperrors.IsValidationError(err); ok && len(ve.Details) > 1 {
		msgs := make([]string, 0, len(ve.Details))
		for _, d := range ve.Details {
			msgs = append(msgs, d.Message)
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if se, ok := apperrors.IsServerError(err); ok {
		if msgs := se.All(); len(msgs) > 0 {
			return errors.New(strings.Join(msgs, "; "))
		}
	}
	c := apperrors.Classify(err)
	if c.Code == "INTERNAL_ERROR" {
		return err
	}
	return errors.New(c.Message)
}
