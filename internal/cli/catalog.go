package cli

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"reserva/internal/domain"
	"reserva/internal/slot"
)

func newSlotsCmd() *cobra.Command {
	var opens, closes string

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the start times generated for an opening window",
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := slot.Generate(opens, closes)
			if err != nil {
				return err
			}
			for _, s := range slots {
				fmt.Fprintln(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opens, "opens", "", "opening time, HH:MM")
	cmd.Flags().StringVar(&closes, "closes", "", "closing time, HH:MM")
	_ = cmd.MarkFlagRequired("opens")
	_ = cmd.MarkFlagRequired("closes")
	return cmd
}

func newCompaniesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "companies",
		Short: "List companies",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			companies, err := a.client.ListCompanies(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tHOURS\tPHONE\tEMAIL")
			for _, c := range companies {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Name, hours(c.OpensAt, c.ClosesAt), c.Phone, c.Email)
			}
			return tw.Flush()
		},
	}
}

func newProductsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "products <companyId>",
		Short: "List a company's products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			companyID, err := positiveArg(args[0], "companyId")
			if err != nil {
				return err
			}
			if err := a.setup(); err != nil {
				return err
			}

			company, products, err := a.client.CompanyProducts(cmd.Context(), companyID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (%s)\n", company.Name, hours(company.OpensAt, company.ClosesAt))
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTOCK\tHOURS")
			for _, p := range products {
				fmt.Fprintf(tw, "%d\t%s\t%.2f\t%s\t%s\n", p.ID, p.Name, p.Price, stock(p), hours(p.OpensAt, p.ClosesAt))
			}
			return tw.Flush()
		},
	}
}

func hours(opens, closes string) string {
	if opens == "" || closes == "" {
		return "any time"
	}
	return opens + "-" + closes
}

func stock(p domain.Product) string {
	if p.Stock == nil {
		return "-"
	}
	return strconv.Itoa(p.AvailableStock())
}

func positiveArg(raw, name string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}
