package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"billaudit/internal/charges"
	"billaudit/internal/logging"
)

var (
	lookupDataset      string
	lookupSetting      string
	lookupBillingClass string
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <hcpcs-code>",
	Short: "Look up a code's standard charges in a disclosure file",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().StringVar(&lookupDataset, "dataset", "", "Path to standard-charges JSON file (required)")
	lookupCmd.Flags().StringVar(&lookupSetting, "setting", "", "Filter by care setting (inpatient, outpatient)")
	lookupCmd.Flags().StringVar(&lookupBillingClass, "billing-class", "", "Filter by billing class")
	_ = lookupCmd.MarkFlagRequired("dataset")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	log := logging.Setup("warn", "console")

	index := charges.LoadFile(lookupDataset, log)
	if index.Len() == 0 {
		return fmt.Errorf("no codes indexed from %s", lookupDataset)
	}

	result := index.Lookup(args[0], lookupSetting, lookupBillingClass)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
