package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Oniqq60/staff_control/internal/sum"
)

// maxRecursiveN keeps the recursive variant well inside the default stack.
const maxRecursiveN = 100000

var sumCmd = &cobra.Command{
	Use:   "sum <n>",
	Short: "Print 1+2+...+n computed by every variant",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("n must be an integer: %w", err)
		}

		out := cmd.OutOrStdout()
		for _, v := range sum.Variants() {
			if v.Name == "recursive" && n > maxRecursiveN {
				fmt.Fprintf(out, "%-10s skipped (n > %d)\n", v.Name, maxRecursiveN)
				continue
			}
			fmt.Fprintf(out, "%-10s %d\t%s\n", v.Name, v.Fn(n), v.Complexity)
		}
		return nil
	},
}
