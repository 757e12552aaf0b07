// Command rentalctl is the operator CLI: expand building layouts offline,
// work with unit codes and keep a property draft synced with the API.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "rentalctl",
	Short:         "Rental marketplace operator tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(expandCmd, unitcodeCmd, draftCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
