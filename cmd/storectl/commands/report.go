package commands

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/analytics"
	"storefront/internal/models"
	"storefront/internal/store"
)

// PrintReport writes the report as aligned text.
func PrintReport(w io.Writer, r analytics.Report) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Sales %s to %s by %s\n\n", r.From.Format("2006-01-02"), r.To.Format("2006-01-02"), r.Granularity)
	fmt.Fprintf(tw, "Orders\t%d\n", r.Summary.Orders)
	fmt.Fprintf(tw, "Revenue\t%s\n", models.FormatPrice(r.Summary.RevenueCents))
	fmt.Fprintf(tw, "Average order\t%s\n", models.FormatPrice(r.Summary.AverageOrderCents))
	fmt.Fprintf(tw, "Customers\t%d\n\n", r.Summary.Customers)

	fmt.Fprintln(tw, "PERIOD\tORDERS\tREVENUE")
	for _, p := range r.Series {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", p.Start.Format("2006-01-02"), p.Orders, models.FormatPrice(p.RevenueCents))
	}
	if len(r.TopProducts) > 0 {
		fmt.Fprintln(tw, "\nPRODUCT\tUNITS\tREVENUE")
		for _, ps := range r.TopProducts {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", ps.Name, ps.Quantity, models.FormatPrice(ps.RevenueCents))
		}
	}
	return tw.Flush()
}

var (
	reportRange       string
	reportGranularity string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print sales figures",
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now().UTC()
		from, err := analytics.ParseRange(reportRange, now)
		if err != nil {
			return err
		}
		g, err := analytics.ParseGranularity(reportGranularity)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB(st.DB())
		orders, err := st.ListOrders(cmd.Context(), store.OrderFilter{Since: from})
		if err != nil {
			return err
		}
		return PrintReport(cmd.OutOrStdout(), analytics.Build(orders, from, now, g))
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportRange, "range", "30d", "Period: 7d, 12w, 6m")
	reportCmd.Flags().StringVar(&reportGranularity, "granularity", "week", "Bucket: day, week, month")
}
