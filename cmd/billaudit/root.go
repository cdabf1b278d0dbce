package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "billaudit",
	Short: "Medical bill analysis against hospital price-transparency data",
	Long: "Analyzes a medical bill's HCPCS/CPT line items against a hospital's " +
		"standard-charges disclosure, flags disputable charges, and drafts an appeal letter.",
}
