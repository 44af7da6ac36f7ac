package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/wisptel/netbill/adapters/sqlite"
	"github.com/wisptel/netbill/config"
	"github.com/wisptel/netbill/domain/billing"
)

var plansCmd = &cobra.Command{
	Use:   "plans",
	Short: "Manage subscription plans",
}

var plansListCmd = &cobra.Command{
	Use:   "list",
	Short: "List plans",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		plans, err := sqlite.NewPlanStore(db).List(cmd.Context())
		if err != nil {
			return err
		}
		if len(plans) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No plans configured.")
			return nil
		}
		for _, p := range plans {
			fmt.Fprintf(cmd.OutOrStdout(), "%-16s %-24s %s/mo  CGST %s%%  SGST %s%%  IGST %s%%\n",
				p.ID, p.Name, billing.FormatINR(p.BaseAmount),
				p.CGSTRate, p.SGSTRate, p.IGSTRate)
		}
		return nil
	},
}

var addPlanFlags struct {
	id         string
	name       string
	baseAmount string
	cgst       string
	sgst       string
	igst       string
}

var plansAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a plan",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, err := decimal.NewFromString(addPlanFlags.baseAmount)
		if err != nil {
			return fmt.Errorf("--base-amount: %w", err)
		}
		cgst, err := decimal.NewFromString(addPlanFlags.cgst)
		if err != nil {
			return fmt.Errorf("--cgst: %w", err)
		}
		sgst, err := decimal.NewFromString(addPlanFlags.sgst)
		if err != nil {
			return fmt.Errorf("--sgst: %w", err)
		}
		igst, err := decimal.NewFromString(addPlanFlags.igst)
		if err != nil {
			return fmt.Errorf("--igst: %w", err)
		}

		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		plan := billing.Plan{
			ID:         addPlanFlags.id,
			Name:       addPlanFlags.name,
			BaseAmount: base,
			CGSTRate:   cgst,
			SGSTRate:   sgst,
			IGSTRate:   igst,
		}
		if err := sqlite.NewPlanStore(db).Create(cmd.Context(), plan); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Plan %q created.\n", plan.ID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(plansCmd)
	plansCmd.AddCommand(plansListCmd)
	plansCmd.AddCommand(plansAddCmd)

	f := plansAddCmd.Flags()
	f.StringVar(&addPlanFlags.id, "id", "", "plan ID (required)")
	f.StringVar(&addPlanFlags.name, "name", "", "plan name (required)")
	f.StringVar(&addPlanFlags.baseAmount, "base-amount", "", "base amount per month (required)")
	f.StringVar(&addPlanFlags.cgst, "cgst", "0", "CGST rate percent")
	f.StringVar(&addPlanFlags.sgst, "sgst", "0", "SGST rate percent")
	f.StringVar(&addPlanFlags.igst, "igst", "0", "IGST rate percent")

	_ = plansAddCmd.MarkFlagRequired("id")
	_ = plansAddCmd.MarkFlagRequired("name")
	_ = plansAddCmd.MarkFlagRequired("base-amount")
}

// openDB opens the configured database and applies migrations.
func openDB() (*sqlite.DB, error) {
	path := "netbill.db"
	if cfg, err := config.Load(cfgFile); err == nil {
		path = cfg.Database.Path
	}

	db, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}
