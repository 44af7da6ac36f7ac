package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "netbill",
	Short: "Subscription billing and renewal engine for ISP plans",
	Long: `NetBill computes priced, GST-split, reconciled bills for plan
renewals and records payments against them.

Quick start:
  netbill serve     # Start the billing API server
  netbill quote     # Compute a bill from the command line

Management:
  netbill plans     # Manage subscription plans
  netbill version   # Print version information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "netbill.yaml", "config file path")
}
