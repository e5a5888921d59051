package commands

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtparse/internal/chain"
	"github.com/cleared-dev/stmtparse/internal/export"
)

func newValidateCommand() *cobra.Command {
	var tolerance string

	cmd := &cobra.Command{
		Use:   "validate <result.json>",
		Short: "Check the running-balance chain of a saved parse result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tol, err := decimal.NewFromString(tolerance)
			if err != nil {
				return fmt.Errorf("parsing --tolerance %q: %w", tolerance, err)
			}
			return runValidate(cmd, args[0], tol)
		},
	}

	cmd.Flags().StringVar(&tolerance, "tolerance", chain.DefaultTolerance.String(), "allowed balance drift")

	return cmd
}

func runValidate(cmd *cobra.Command, path string, tol decimal.Decimal) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	res, err := export.ReadJSON(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if !res.Success {
		return fmt.Errorf("result was aborted: %s", res.AbortReason)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, chain.Summarize(res.Transactions))

	mismatches := chain.Validate(res.Transactions, tol)
	for _, m := range mismatches {
		fmt.Fprintln(out, m.Error())
	}
	if len(mismatches) > 0 {
		return fmt.Errorf("%d balance mismatches", len(mismatches))
	}
	fmt.Fprintln(out, "balance chain OK")
	return nil
}
