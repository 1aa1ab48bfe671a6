package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reserva/internal/dto"
	"reserva/internal/infrastructure/reservaapi"
	"reserva/internal/reservation/usecase"
)

func newReservationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reservation",
		Short: "Show, confirm or cancel your reservations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your reservations",
		RunE: func(cmd *cobra.Command, args []string) error {
			uc, sess, err := a.reservations()
			if err != nil {
				return err
			}
			resp, err := uc.List(cmd.Context(), sess)
			if err != nil {
				return describe(err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSTATUS\tCOMPANY\tWHEN\tTOTAL")
			for _, r := range resp.Reservations {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%.2f\n", r.ID, r.Status, r.CompanyName, scheduled(r), r.Total)
			}
			return tw.Flush()
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a reservation with its lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := positiveArg(args[0], "id")
			if err != nil {
				return err
			}
			uc, sess, err := a.reservations()
			if err != nil {
				return err
			}
			resp, err := uc.Get(cmd.Context(), sess, id)
			if err != nil {
				return describe(err)
			}
			return printReservation(cmd.OutOrStdout(), resp.Reservation)
		},
	})
	cmd.AddCommand(newActionCmd(a, "confirm", "Confirm a pending reservation", func(uc *usecase.ReservationUseCase) actionFunc { return uc.Confirm }))
	cmd.AddCommand(newActionCmd(a, "cancel", "Cancel a reservation", func(uc *usecase.ReservationUseCase) actionFunc { return uc.Cancel }))
	return cmd
}

type actionFunc func(ctx context.Context, sess *reservaapi.Session, id int) (*dto.ReservationActionResponse, error)

func newActionCmd(a *app, use, short string, pick func(*usecase.ReservationUseCase) actionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := positiveArg(args[0], "id")
			if err != nil {
				return err
			}
			uc, sess, err := a.reservations()
			if err != nil {
				return err
			}
			resp, err := pick(uc)(cmd.Context(), sess, id)
			reportSession(cmd.OutOrStdout(), sess)
			if err != nil {
				return describe(err)
			}

			msg := resp.Message
			if msg == "" {
				msg = "done"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "reservation %d: %s\n", id, msg)
			return nil
		},
	}
}

func (a *app) reservations() (*usecase.ReservationUseCase, *reservaapi.Session, error) {
	if err := a.setup(); err != nil {
		return nil, nil, err
	}
	sess, err := a.userSession(true)
	if err != nil {
		return nil, nil, err
	}
	return usecase.NewReservationUseCase(a.client, a.now, a.logger), sess, nil
}

func scheduled(r dto.ReservationDTO) string {
	if r.ScheduledAt == nil {
		return "-"
	}
	return r.ScheduledAt.Format("2006-01-02 15:04")
}

func printReservation(w io.Writer, r dto.ReservationDTO) error {
	fmt.Fprintf(w, "reservation %d  %s  %s  %s\n", r.ID, r.Status, r.CompanyName, scheduled(r))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PRODUCT\tQTY\tUNIT\tSUBTOTAL")
	for _, l := range r.Lines {
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal)
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t%.2f\n", r.Total)
	if err := tw.Flush(); err != nil {
		return err
	}

	switch {
	case r.Elapsed:
		fmt.Fprintln(w, "the reservation date has passed; it can no longer be confirmed or canceled")
	case r.CanConfirm && r.CanCancel:
		fmt.Fprintln(w, "can be confirmed or canceled")
	case r.CanCancel:
		fmt.Fprintln(w, "can be canceled")
	}
	return nil
}
