package main

import (
	"fmt"
	"strconv"

	"rentalhub/pkg/unitcode"

	"github.com/spf13/cobra"
)

var unitcodeCmd = &cobra.Command{
	Use:   "unitcode",
	Short: "Generate and format 10-digit unit numbers",
}

var unitcodeGenCmd = &cobra.Command{
	Use:   "gen <block-ref> <floor> <sequence>",
	Short: "Generate the unit number for a block, floor and block-wide sequence",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		floor, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("floor: %w", err)
		}
		seq, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("sequence: %w", err)
		}
		code, err := unitcode.Generate(args[0], floor, seq)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), unitcode.Format(code))
		return nil
	},
}

var unitcodeFormatCmd = &cobra.Command{
	Use:   "format <code>...",
	Short: "Validate codes and print them grouped",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, arg := range args {
			code, err := unitcode.Parse(arg)
			if err != nil {
				return fmt.Errorf("%s: %w", arg, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), unitcode.Format(code))
		}
		return nil
	},
}

func init() {
	unitcodeCmd.AddCommand(unitcodeGenCmd, unitcodeFormatCmd)
}
