package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pengelbrecht/tally/internal/calculator"
	"github.com/pengelbrecht/tally/internal/server"
)

// precisionUnset means "use the config value".
const precisionUnset = -2

var (
	arithJSON      bool
	arithPrecision int
)

var addCmd = newArithCmd(calculator.OpAdd, nil, `Add two numbers.

Examples:
  tally add 2 3
  tally add 0.1 0.2 --precision 2
  tally add 2 3 --json`)

var subtractCmd = newArithCmd(calculator.OpSubtract, []string{"sub"}, `Subtract the second number from the first.

Examples:
  tally subtract 5 3
  tally sub -- -1 5`)

var multiplyCmd = newArithCmd(calculator.OpMultiply, []string{"mul"}, `Multiply two numbers.

Examples:
  tally multiply 4 2.5`)

var evalCmd = &cobra.Command{
	Use:   "eval <op> <a> <b>",
	Short: "Evaluate a named operation",
	Long: `Evaluate a named operation. op may be a name (add, subtract, multiply),
a short alias (sub, mul) or a symbol (+, -, *).

Examples:
  tally eval add 2 3
  tally eval '*' 4 2`,
	Args: exactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := calculator.ParseOp(args[0])
		if err != nil {
			return usageError{err}
		}
		return runArith(cmd, op, args[1], args[2])
	},
}

func init() {
	for _, c := range []*cobra.Command{addCmd, subtractCmd, multiplyCmd, evalCmd} {
		c.Flags().BoolVar(&arithJSON, "json", false, "output as JSON")
		c.Flags().IntVar(&arithPrecision, "precision", precisionUnset, "decimal places in the result (-1 for shortest)")
		rootCmd.AddCommand(c)
	}
}

func newArithCmd(op calculator.Op, aliases []string, long string) *cobra.Command {
	return &cobra.Command{
		Use:     string(op) + " <a> <b>",
		Aliases: aliases,
		Short:   fmt.Sprintf("Compute a %s b", op.Symbol()),
		Long:    long,
		Args:    exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runArith(cmd, op, args[0], args[1])
		},
	}
}

func runArith(cmd *cobra.Command, op calculator.Op, rawA, rawB string) error {
	a, err := calculator.ParseOperand(rawA)
	if err != nil {
		return usageError{err}
	}
	b, err := calculator.ParseOperand(rawB)
	if err != nil {
		return usageError{err}
	}

	precision, err := resolvePrecision()
	if err != nil {
		return err
	}

	result, err := calculator.Apply(op, a, b)
	if err != nil {
		return err
	}

	return writeResult(cmd.OutOrStdout(), op, result, precision)
}

func resolvePrecision() (int, error) {
	if arithPrecision != precisionUnset {
		if arithPrecision < -1 || arithPrecision > 15 {
			return 0, usageError{fmt.Errorf("precision must be between -1 and 15, got %d", arithPrecision)}
		}
		return arithPrecision, nil
	}
	cfg, err := loadConfig()
	if err != nil {
		return 0, err
	}
	return cfg.GetPrecision(), nil
}

func writeResult(w io.Writer, op calculator.Op, result float64, precision int) error {
	if arithJSON {
		resp := server.Response{Op: string(op)}
		finiteErr := calculator.CheckFinite(result)
		if finiteErr != nil {
			resp.Error = finiteErr.Error()
		} else {
			rounded := calculator.Round(result, precision)
			resp.Result = &rounded
		}
		enc := json.NewEncoder(w)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return finiteErr
	}
	_, err := fmt.Fprintln(w, calculator.Format(result, precision))
	return err
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}
