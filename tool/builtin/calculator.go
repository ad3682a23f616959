package builtin

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/hupe1980/agentloop/tool"
)

var calcRe = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*([-+*/])\s*(-?\d+(?:\.\d+)?)\s*$`)

// Calculator evaluates a single binary operation "a op b" with op in + - * /.
type Calculator struct{}

// NewCalculator creates the Calculator tool.
func NewCalculator() *Calculator { return &Calculator{} }

// Name implements tool.Tool.
func (*Calculator) Name() string { return "Calculator" }

// Description implements tool.Tool.
func (*Calculator) Description() string {
	return `evaluates one binary operation. args: "<number> <op> <number>" with op one of + - * /, e.g. "3 + 5"`
}

// Call implements tool.Tool.
func (c *Calculator) Call(_ context.Context, args string) (string, error) {
	m := calcRe.FindStringSubmatch(args)
	if m == nil {
		return "", tool.NewToolError(c.Name(), fmt.Sprintf("invalid expression %q", args), tool.CodeValidation)
	}

	a, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return "", tool.NewToolError(c.Name(), err.Error(), tool.CodeValidation)
	}

	b, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return "", tool.NewToolError(c.Name(), err.Error(), tool.CodeValidation)
	}

	var result float64
	switch m[2] {
	case "+":
		result = a + b
	case "-":
		result = a - b
	case "*":
		result = a * b
	case "/":
		if b == 0 {
			return "", tool.NewToolError(c.Name(), "division by zero", tool.CodeExecution)
		}
		result = a / b
	}

	return strconv.FormatFloat(result, 'f', -1, 64), nil
}
