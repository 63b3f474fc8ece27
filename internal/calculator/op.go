package calculator

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrUnknownOp is returned when an operation name is not recognized.
	ErrUnknownOp = errors.New("unknown operation")
	// ErrInvalidOperand is returned when an operand is not a number.
	ErrInvalidOperand = errors.New("invalid operand")
	// ErrOverflow is returned when a result does not fit in a float64.
	ErrOverflow = errors.New("result overflows float64")
)

// Op names a binary operation.
type Op string

const (
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
	OpMultiply Op = "multiply"
)

// Ops lists the supported operations in display order.
var Ops = []Op{OpAdd, OpSubtract, OpMultiply}

// Symbol returns the infix symbol for the operation.
func (o Op) Symbol() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	default:
		return "?"
	}
}

// ParseOp resolves an operation name, symbol or short alias.
func ParseOp(name string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "add", "+", "plus":
		return OpAdd, nil
	case "subtract", "sub", "-", "minus":
		return OpSubtract, nil
	case "multiply", "mul", "*", "x", "times":
		return OpMultiply, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownOp, name)
	}
}

// Apply evaluates op over a and b.
func Apply(op Op, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return Add(a, b), nil
	case OpSubtract:
		return Subtract(a, b), nil
	case OpMultiply:
		return Multiply(a, b), nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownOp, string(op))
	}
}

// ParseOperand parses a decimal or scientific-notation number.
// NaN and infinities are rejected.
func ParseOperand(s string) (float64, error) {
	trimmed := strings.TrimSpace(s)
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperand, s)
	}
	return v, nil
}

// Format renders v with the given number of decimal places, rounding
// the same way as Round. A negative precision uses the shortest
// representation that round-trips.
func Format(v float64, precision int) string {
	v = Round(v, precision)
	if v == 0 {
		// avoid "-0"
		v = 0
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// Round rounds v to precision decimal places, halves away from zero.
// Negative precision returns v. Values too large to carry any fractional
// digit at that precision are returned unchanged.
func Round(v float64, precision int) float64 {
	if precision < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow10(precision)
	scaled := v * p
	if math.IsInf(scaled, 0) || math.Abs(scaled) >= 1<<52 {
		return v
	}
	return math.Round(scaled) / p
}

// CheckFinite returns an error wrapping ErrOverflow when v is not a finite
// number. Arithmetic on float64 may legitimately produce infinities; callers
// that must encode results as JSON numbers use this to report them instead.
func CheckFinite(v float64) error {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return fmt.Errorf("%w: %v", ErrOverflow, v)
	}
	return nil
}
