package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"google.golang.org/genai"

	"github.com/bobmcallan/rfin/internal/models"
)

// Arithmetic tools operate on values already extracted from earlier tool
// output, so the agent can compute without re-querying. Division by zero and
// aggregation over an empty list fail explicitly with an ArithmeticError,
// never silently return zero or NaN.

func registerArithmeticTools(r *Registry) {
	twoNumbers := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"first_number":  {Type: genai.TypeNumber, Description: "The first number"},
			"second_number": {Type: genai.TypeNumber, Description: "The second number"},
		},
		Required: []string{"first_number", "second_number"},
	}
	numberList := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"list_of_numbers": {
				Type:        genai.TypeArray,
				Description: "The numbers to aggregate",
				Items:       &genai.Schema{Type: genai.TypeNumber},
			},
		},
		Required: []string{"list_of_numbers"},
	}

	r.register(Definition{
		Name:        "addition",
		Description: "Add two numbers and return the sum.",
		Parameters:  twoNumbers,
	}, binaryOp(func(a, b float64) (float64, error) { return a + b, nil }))

	r.register(Definition{
		Name:        "multiplication",
		Description: "Multiply two numbers and return the product.",
		Parameters:  twoNumbers,
	}, binaryOp(func(a, b float64) (float64, error) { return a * b, nil }))

	r.register(Definition{
		Name:        "divition",
		Description: "Divide the first number by the second number and return the quotient.",
		Parameters:  twoNumbers,
	}, binaryOp(func(a, b float64) (float64, error) {
		if b == 0 {
			return 0, &models.ArithmeticError{Operation: "divition", Message: "division by zero"}
		}
		return a / b, nil
	}))

	r.register(Definition{
		Name:        "power",
		Description: "Raise the first number to the power of the second number.",
		Parameters:  twoNumbers,
	}, binaryOp(func(a, b float64) (float64, error) { return math.Pow(a, b), nil }))

	r.register(Definition{
		Name:        "power_root",
		Description: "Take the n-th root of a number. Root defaults to 2 (square root).",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"number": {Type: genai.TypeNumber, Description: "The number to take the root of"},
				"root":   {Type: genai.TypeNumber, Description: "The root degree, defaults to 2"},
			},
			Required: []string{"number"},
		},
	}, powerRoot)

	r.register(Definition{
		Name:        "suming",
		Description: "Sum a list of numbers.",
		Parameters:  numberList,
	}, aggregateOp("suming", func(nums []float64) float64 {
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return sum
	}))

	r.register(Definition{
		Name:        "average",
		Description: "Average a list of numbers.",
		Parameters:  numberList,
	}, aggregateOp("average", func(nums []float64) float64 {
		var sum float64
		for _, n := range nums {
			sum += n
		}
		return sum / float64(len(nums))
	}))

	r.register(Definition{
		Name:        "which_greater",
		Description: "Report which of two numbers is greater.",
		Parameters:  twoNumbers,
	}, whichGreater)

	r.register(Definition{
		Name:        "extract_from_list_of_dict",
		Description: "Extract the values under one key from a list of objects, e.g. all close prices from daily records.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"list_of_dict": {
					Type:        genai.TypeArray,
					Description: "The objects to extract from",
					Items:       &genai.Schema{Type: genai.TypeObject},
				},
				"extracted_key": {Type: genai.TypeString, Description: "The key whose values to extract"},
			},
			Required: []string{"list_of_dict", "extracted_key"},
		},
	}, extractFromListOfDict)
}

// binaryOp adapts a two-operand function into a tool handler.
func binaryOp(op func(a, b float64) (float64, error)) Handler {
	return func(_ context.Context, args map[string]any) (*Result, error) {
		a, err := argFloat(args, "first_number")
		if err != nil {
			return nil, err
		}
		b, err := argFloat(args, "second_number")
		if err != nil {
			return nil, err
		}
		v, err := op(a, b)
		if err != nil {
			return nil, err
		}
		return &Result{Text: formatNumber(v)}, nil
	}
}

// aggregateOp adapts a list aggregation into a tool handler, rejecting empty
// input.
func aggregateOp(name string, agg func([]float64) float64) Handler {
	return func(_ context.Context, args map[string]any) (*Result, error) {
		nums, err := argFloatList(args, "list_of_numbers")
		if err != nil {
			return nil, err
		}
		if len(nums) == 0 {
			return nil, &models.ArithmeticError{Operation: name, Message: "empty list"}
		}
		return &Result{Text: formatNumber(agg(nums))}, nil
	}
}

func powerRoot(_ context.Context, args map[string]any) (*Result, error) {
	number, err := argFloat(args, "number")
	if err != nil {
		return nil, err
	}
	root, err := argFloatOpt(args, "root", 2)
	if err != nil {
		return nil, err
	}
	if root == 0 {
		return nil, &models.ArithmeticError{Operation: "power_root", Message: "zero root"}
	}
	if number < 0 {
		return nil, &models.ArithmeticError{Operation: "power_root", Message: "negative number"}
	}
	return &Result{Text: formatNumber(math.Pow(number, 1/root))}, nil
}

func whichGreater(_ context.Context, args map[string]any) (*Result, error) {
	a, err := argFloat(args, "first_number")
	if err != nil {
		return nil, err
	}
	b, err := argFloat(args, "second_number")
	if err != nil {
		return nil, err
	}

	switch {
	case a > b:
		return &Result{Text: fmt.Sprintf("%s is greater than %s", formatNumber(a), formatNumber(b))}, nil
	case b > a:
		return &Result{Text: fmt.Sprintf("%s is greater than %s", formatNumber(b), formatNumber(a))}, nil
	}
	return &Result{Text: fmt.Sprintf("%s and %s are equal", formatNumber(a), formatNumber(b))}, nil
}

func extractFromListOfDict(_ context.Context, args map[string]any) (*Result, error) {
	dicts, err := argDictList(args, "list_of_dict")
	if err != nil {
		return nil, err
	}
	key, err := argString(args, "extracted_key")
	if err != nil {
		return nil, err
	}

	values := make([]any, 0, len(dicts))
	for _, d := range dicts {
		values = append(values, d[key])
	}

	text, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode extracted values: %w", err)
	}
	return &Result{Text: string(text)}, nil
}

// formatNumber renders a result with no trailing zeros.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
