package apportion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func sum(m map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range m {
		total = total.Add(v)
	}
	return total
}

func TestCalculateEvenSplitAssignsRemainderToFirst(t *testing.T) {
	portions := FromMap(map[string]decimal.Decimal{"a": d("30"), "b": d("30"), "c": d("30")})

	for name, calc := range map[string]*Calculator{
		"unconstrained": NewCalculator(),
		"discount":      NewDiscountCalculator(),
	} {
		t.Run(name, func(t *testing.T) {
			result, err := calc.Calculate(d("10.00"), portions)
			require.NoError(t, err)
			assert.True(t, d("3.34").Equal(result["a"]), result["a"].String())
			assert.True(t, d("3.33").Equal(result["b"]))
			assert.True(t, d("3.33").Equal(result["c"]))
			assert.True(t, d("10.00").Equal(sum(result)))
		})
	}
}

func TestCalculateZeroTotal(t *testing.T) {
	portions := []Portion{{ID: "a", Amount: decimal.Zero}, {ID: "b", Amount: decimal.Zero}}

	result, err := NewDiscountCalculator().Calculate(decimal.Zero, portions)
	require.NoError(t, err)
	assert.Len(t, result, 2)
	assert.True(t, result["a"].IsZero())
	assert.True(t, result["b"].IsZero())

	empty, err := NewCalculator().Calculate(decimal.Zero, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDiscountCalculatorRejectsAmountAboveTotal(t *testing.T) {
	portions := []Portion{{ID: "a", Amount: d("25")}, {ID: "b", Amount: d("15")}}

	result, err := NewDiscountCalculator().Calculate(d("50"), portions)
	assert.ErrorIs(t, err, ErrAmountExceedsTotal)
	assert.Nil(t, result)

	// the unconstrained variant has no ceiling
	result, err = NewCalculator().Calculate(d("50"), portions)
	require.NoError(t, err)
	assert.True(t, d("50").Equal(sum(result)))
}

func TestCalculateRejectsNegativeAndDuplicateInput(t *testing.T) {
	_, err := NewCalculator().Calculate(d("-1"), []Portion{{ID: "a", Amount: d("1")}})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewCalculator().Calculate(d("1"), []Portion{{ID: "a", Amount: d("-1")}})
	assert.ErrorIs(t, err, ErrNegativeAmount)

	_, err = NewCalculator().Calculate(d("1"), []Portion{{ID: "a", Amount: d("1")}, {ID: "a", Amount: d("2")}})
	assert.ErrorIs(t, err, ErrDuplicatePortion)
}

func TestUpperBoundedCarriesExcessPastFullEntries(t *testing.T) {
	// the whole amount equals the total, each entry must end at its portion exactly
	portions := []Portion{
		{ID: "a", Amount: d("0.01")},
		{ID: "b", Amount: d("0.01")},
		{ID: "c", Amount: d("0.01")},
	}
	result, err := NewDiscountCalculator().Calculate(d("0.03"), portions)
	require.NoError(t, err)
	for _, p := range portions {
		assert.True(t, p.Amount.Equal(result[p.ID]), p.ID)
	}
}

func TestNegativeRoundingErrorNeverGoesBelowZero(t *testing.T) {
	// every share rounds up to 0.01, leaving a negative error to take back
	portions := []Portion{{ID: "a", Amount: d("1")}, {ID: "b", Amount: d("1")}, {ID: "c", Amount: d("1")}}
	result, err := NewCalculator().Calculate(d("0.02"), portions)
	require.NoError(t, err)
	assert.True(t, d("0.02").Equal(sum(result)))
	for id, v := range result {
		assert.False(t, v.IsNegative(), id)
	}
}

func TestCalculateInvariants(t *testing.T) {
	cases := []struct {
		name     string
		amount   string
		portions map[string]string
	}{
		{"uneven", "7.77", map[string]string{"a": "19.99", "b": "5.01", "c": "0.33"}},
		{"single", "3.50", map[string]string{"only": "3.50"}},
		{"many small", "0.05", map[string]string{"a": "0.01", "b": "0.01", "c": "0.01", "d": "0.01", "e": "0.01", "f": "0.01"}},
		{"large", "1000", map[string]string{"a": "333.33", "b": "333.33", "c": "333.34", "d": "0.01"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amounts := make(map[string]decimal.Decimal, len(tc.portions))
			for id, v := range tc.portions {
				amounts[id] = d(v)
			}
			portions := FromMap(amounts)

			first, err := NewDiscountCalculator().Calculate(d(tc.amount), portions)
			require.NoError(t, err)
			assert.True(t, d(tc.amount).Equal(sum(first)))
			for id, v := range first {
				assert.False(t, v.IsNegative(), id)
				assert.True(t, v.LessThanOrEqual(amounts[id]), id)
			}

			second, err := NewDiscountCalculator().Calculate(d(tc.amount), FromMap(amounts))
			require.NoError(t, err)
			for id := range first {
				assert.True(t, first[id].Equal(second[id]), id)
			}
		})
	}
}

func TestWithScaleZero(t *testing.T) {
	portions := FromMap(map[string]decimal.Decimal{"a": d("1000"), "b": d("1000"), "c": d("1000")})
	result, err := NewCalculator(WithScale(0)).Calculate(d("100"), portions)
	require.NoError(t, err)
	assert.True(t, d("34").Equal(result["a"]))
	assert.True(t, d("33").Equal(result["b"]))
	assert.True(t, d("100").Equal(sum(result)))
}

func TestFromMapOrdering(t *testing.T) {
	portions := FromMap(map[string]decimal.Decimal{"b": d("5"), "a": d("5"), "c": d("9")})
	ids := []string{portions[0].ID, portions[1].ID, portions[2].ID}
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}
