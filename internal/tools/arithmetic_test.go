package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/rfin/internal/models"
)

func arithmeticRegistry() *Registry {
	reg, _ := newTestRegistry(&mockSectors{}, &mockStore{})
	return reg
}

func TestBinaryArithmetic(t *testing.T) {
	reg := arithmeticRegistry()

	cases := []struct {
		tool string
		a, b float64
		want string
	}{
		{"addition", 2, 3, "5"},
		{"addition", -1.5, 0.25, "-1.25"},
		{"multiplication", 6, 7, "42"},
		{"divition", 10, 4, "2.5"},
		{"power", 2, 10, "1024"},
		{"power", 9, 0.5, "3"},
	}
	for _, tc := range cases {
		result, err := invoke(reg, tc.tool, map[string]any{
			"first_number":  tc.a,
			"second_number": tc.b,
		})
		require.NoError(t, err, tc.tool)
		assert.Equal(t, tc.want, result.Text, "%s(%v, %v)", tc.tool, tc.a, tc.b)
	}
}

func TestDivitionByZeroFails(t *testing.T) {
	reg := arithmeticRegistry()

	_, err := invoke(reg, "divition", map[string]any{
		"first_number":  10.0,
		"second_number": 0.0,
	})
	var arithErr *models.ArithmeticError
	require.ErrorAs(t, err, &arithErr)
	assert.Equal(t, "divition", arithErr.Operation)
}

func TestPowerRoot(t *testing.T) {
	reg := arithmeticRegistry()

	result, err := invoke(reg, "power_root", map[string]any{"number": 27.0, "root": 3.0})
	require.NoError(t, err)
	assert.Equal(t, "3", result.Text)

	// Root defaults to 2
	result, err = invoke(reg, "power_root", map[string]any{"number": 81.0})
	require.NoError(t, err)
	assert.Equal(t, "9", result.Text)

	var arithErr *models.ArithmeticError
	_, err = invoke(reg, "power_root", map[string]any{"number": 4.0, "root": 0.0})
	assert.ErrorAs(t, err, &arithErr)
	_, err = invoke(reg, "power_root", map[string]any{"number": -4.0})
	assert.ErrorAs(t, err, &arithErr)
}

func TestAggregates(t *testing.T) {
	reg := arithmeticRegistry()

	result, err := invoke(reg, "suming", map[string]any{"list_of_numbers": []any{1.0, 2.0, 3.5}})
	require.NoError(t, err)
	assert.Equal(t, "6.5", result.Text)

	result, err = invoke(reg, "average", map[string]any{"list_of_numbers": []any{10.0, 20.0}})
	require.NoError(t, err)
	assert.Equal(t, "15", result.Text)
}

func TestAggregatesRejectEmptyList(t *testing.T) {
	reg := arithmeticRegistry()

	for _, tool := range []string{"suming", "average"} {
		_, err := invoke(reg, tool, map[string]any{"list_of_numbers": []any{}})
		var arithErr *models.ArithmeticError
		require.ErrorAs(t, err, &arithErr, tool)
		assert.Equal(t, tool, arithErr.Operation)
	}
}

func TestWhichGreater(t *testing.T) {
	reg := arithmeticRegistry()

	result, err := invoke(reg, "which_greater", map[string]any{"first_number": 3.0, "second_number": 7.0})
	require.NoError(t, err)
	assert.Equal(t, "7 is greater than 3", result.Text)

	result, err = invoke(reg, "which_greater", map[string]any{"first_number": 5.0, "second_number": 5.0})
	require.NoError(t, err)
	assert.Equal(t, "5 and 5 are equal", result.Text)
}

func TestExtractFromListOfDict(t *testing.T) {
	reg := arithmeticRegistry()

	result, err := invoke(reg, "extract_from_list_of_dict", map[string]any{
		"list_of_dict": []any{
			map[string]any{"date": "2025-01-02", "close": 100.0},
			map[string]any{"date": "2025-01-03", "close": 102.5},
		},
		"extracted_key": "close",
	})
	require.NoError(t, err)
	assert.JSONEq(t, "[100, 102.5]", result.Text)
}

func TestMissingArgumentsReported(t *testing.T) {
	reg := arithmeticRegistry()

	_, err := invoke(reg, "addition", map[string]any{"first_number": 1.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "second_number")

	_, err = invoke(reg, "addition", map[string]any{"first_number": "one", "second_number": 2.0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a number")
}
