package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wisptel/netbill/domain/billing"
)

var quoteFlags struct {
	baseAmount   string
	cgstRate     string
	sgstRate     string
	igstRate     string
	months       int
	startDate    string
	custState    string
	companyState string
	installation string
	deposit      string
	discount     string
	amountPaid   string
	legacyPeriod bool
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a bill from the command line",
	Long: `Compute a priced, GST-split, reconciled bill without touching the
database. Useful for verifying invoices by hand.

Example:
  netbill quote --base-amount 500 --months 3 \
    --cgst 9 --sgst 9 \
    --customer-state KA --company-state KA \
    --installation 100 --deposit 200 --discount 50 --paid 1000 \
    --start 2024-04-01`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	f := quoteCmd.Flags()
	f.StringVar(&quoteFlags.baseAmount, "base-amount", "", "plan base amount per month (required)")
	f.StringVar(&quoteFlags.cgstRate, "cgst", "0", "CGST rate percent")
	f.StringVar(&quoteFlags.sgstRate, "sgst", "0", "SGST rate percent")
	f.StringVar(&quoteFlags.igstRate, "igst", "0", "IGST rate percent")
	f.IntVar(&quoteFlags.months, "months", 1, "billing period in months")
	f.StringVar(&quoteFlags.startDate, "start", "", "period start date YYYY-MM-DD (required)")
	f.StringVar(&quoteFlags.custState, "customer-state", "", "customer GST state code (required)")
	f.StringVar(&quoteFlags.companyState, "company-state", "", "company GST state code (required)")
	f.StringVar(&quoteFlags.installation, "installation", "0", "one-time installation charge")
	f.StringVar(&quoteFlags.deposit, "deposit", "0", "one-time security deposit")
	f.StringVar(&quoteFlags.discount, "discount", "0", "one-time discount")
	f.StringVar(&quoteFlags.amountPaid, "paid", "0", "amount paid")
	f.BoolVar(&quoteFlags.legacyPeriod, "legacy-period", false, "use the historical period rule")

	_ = quoteCmd.MarkFlagRequired("base-amount")
	_ = quoteCmd.MarkFlagRequired("start")
	_ = quoteCmd.MarkFlagRequired("customer-state")
	_ = quoteCmd.MarkFlagRequired("company-state")
}

func runQuote(cmd *cobra.Command, args []string) error {
	dec := func(name, s string) (decimal.Decimal, error) {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("--%s: %w", name, err)
		}
		return d, nil
	}

	base, err := dec("base-amount", quoteFlags.baseAmount)
	if err != nil {
		return err
	}
	cgst, err := dec("cgst", quoteFlags.cgstRate)
	if err != nil {
		return err
	}
	sgst, err := dec("sgst", quoteFlags.sgstRate)
	if err != nil {
		return err
	}
	igst, err := dec("igst", quoteFlags.igstRate)
	if err != nil {
		return err
	}
	installation, err := dec("installation", quoteFlags.installation)
	if err != nil {
		return err
	}
	deposit, err := dec("deposit", quoteFlags.deposit)
	if err != nil {
		return err
	}
	discount, err := dec("discount", quoteFlags.discount)
	if err != nil {
		return err
	}
	paid, err := dec("paid", quoteFlags.amountPaid)
	if err != nil {
		return err
	}

	jurisdiction, err := billing.ResolveJurisdiction(quoteFlags.custState, quoteFlags.companyState)
	if err != nil {
		return err
	}

	start, err := billing.ParseDate(quoteFlags.startDate)
	if err != nil {
		return err
	}
	mode := billing.PeriodCalendar
	if quoteFlags.legacyPeriod {
		mode = billing.PeriodLegacy
	}
	period, err := billing.NewPeriodWithMode(start, quoteFlags.months, mode)
	if err != nil {
		return err
	}

	plan := billing.Plan{
		ID:         "cli",
		Name:       "cli",
		BaseAmount: base,
		CGSTRate:   cgst,
		SGSTRate:   sgst,
		IGSTRate:   igst,
	}
	bill, err := billing.Assemble(plan, quoteFlags.months, jurisdiction, billing.ChargeSet{
		Installation:    installation,
		SecurityDeposit: deposit,
		Discount:        discount,
	})
	if err != nil {
		return err
	}
	bill, err = billing.Reconcile(bill, paid)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Jurisdiction:  %s\n", jurisdiction)
	fmt.Fprintf(out, "Period:        %s to %s (%d months)\n",
		period.StartDate.Format(billing.DateLayout),
		period.EndDate.Format(billing.DateLayout),
		period.Months)
	fmt.Fprintf(out, "Plan amount:   %s\n", billing.FormatINR(bill.PlanAmountTotal))
	fmt.Fprintf(out, "CGST:          %s\n", billing.FormatINR(bill.CGSTTotal))
	fmt.Fprintf(out, "SGST:          %s\n", billing.FormatINR(bill.SGSTTotal))
	fmt.Fprintf(out, "IGST:          %s\n", billing.FormatINR(bill.IGSTTotal))
	fmt.Fprintf(out, "Total:         %s\n", billing.FormatINR(bill.TotalAmount))
	fmt.Fprintf(out, "Paid:          %s\n", billing.FormatINR(bill.AmountPaid))
	fmt.Fprintf(out, "Balance:       %s\n", billing.FormatINR(bill.Balance))
	return nil
}
