package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vladislavdragonenkov/grocery/internal/app"
	"github.com/vladislavdragonenkov/grocery/internal/domain"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every order with its total",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := app.OpenRepository(cmd.Context(), opts.cfg, nil, nil)
			if err != nil {
				return err
			}
			defer repo.Close()

			orders, err := repo.All(cmd.Context())
			if err != nil {
				return fmt.Errorf("load orders: %w", err)
			}
			if jsonOutput {
				return renderJSON(cmd.OutOrStdout(), orders)
			}
			return renderOrderList(cmd.OutOrStdout(), orders)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newFindCmd(opts *globalOptions) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "find <id>",
		Short: "Show one order with subtotal, tax and total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("%q: %w", args[0], domain.ErrInvalidOrderID)
			}

			repo, err := app.OpenRepository(cmd.Context(), opts.cfg, nil, nil)
			if err != nil {
				return err
			}
			defer repo.Close()

			order, err := repo.Find(cmd.Context(), id)
			if domain.IsNotFound(err) {
				return fmt.Errorf("order %d not found: %w", id, err)
			}
			if err != nil {
				return fmt.Errorf("find order %d: %w", id, err)
			}
			if jsonOutput {
				return renderJSON(cmd.OutOrStdout(), order)
			}
			return renderOrder(cmd.OutOrStdout(), order)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderOrderList(w io.Writer, orders []*domain.Order) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPRODUCTS\tTOTAL")
	for _, order := range orders {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", order.ID(), order.ProductCount(), order.Total().StringFixed(2))
	}
	return tw.Flush()
}

func renderOrder(w io.Writer, order *domain.Order) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Order %d\t\n", order.ID())
	for _, product := range order.Products() {
		fmt.Fprintf(tw, "  %s\t%s\n", product.Name, product.Price.String())
	}
	fmt.Fprintf(tw, "Subtotal\t%s\n", order.Subtotal().StringFixed(2))
	fmt.Fprintf(tw, "Tax\t%s\n", order.Tax().StringFixed(2))
	fmt.Fprintf(tw, "Total\t%s\n", order.Total().StringFixed(2))
	return tw.Flush()
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
