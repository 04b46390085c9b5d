package apportion

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const proportionScale int32 = 10

var (
	ErrAmountExceedsTotal  = errors.New("amount_exceeds_total")
	ErrNegativeAmount      = errors.New("negative_amount")
	ErrDuplicatePortion    = errors.New("duplicate_portion")
	ErrUnabsorbedRemainder = errors.New("unabsorbed_remainder")
)

// Portion is one weighted entry. The slice order passed to Calculate is significant.
type Portion struct {
	ID     string
	Amount decimal.Decimal
}

// FromMap returns portions in the canonical order: amount descending, ID ascending.
func FromMap(amounts map[string]decimal.Decimal) []Portion {
	portions := make([]Portion, 0, len(amounts))
	for id, amount := range amounts {
		portions = append(portions, Portion{ID: id, Amount: amount})
	}
	SortPortions(portions)
	return portions
}

func SortPortions(portions []Portion) {
	sort.SliceStable(portions, func(i, j int) bool {
		if cmp := portions[i].Amount.Cmp(portions[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return portions[i].ID < portions[j].ID
	})
}

type Option func(*Calculator)

// WithScale sets the number of fractional digits of each result.
func WithScale(scale int32) Option {
	return func(c *Calculator) { c.scale = scale }
}

func WithRule(rule BoundRule) Option {
	return func(c *Calculator) {
		if rule != nil {
			c.rule = rule
		}
	}
}

// WithCeiling rejects amounts larger than the portion total.
func WithCeiling() Option {
	return func(c *Calculator) { c.ceiling = true }
}

// Calculator is safe for concurrent use; it holds configuration only.
type Calculator struct {
	scale   int32
	rule    BoundRule
	ceiling bool
}

// NewCalculator returns the unconstrained calculator used for allocations without a
// per-entry ceiling, such as bundle price allocation.
func NewCalculator(opts ...Option) *Calculator {
	c := &Calculator{scale: 2, rule: Unconstrained}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewDiscountCalculator bounds every result by its portion and rejects discounts
// larger than the portion total.
func NewDiscountCalculator(opts ...Option) *Calculator {
	return NewCalculator(append([]Option{WithRule(UpperBounded), WithCeiling()}, opts...)...)
}

// Calculate splits amount across portions in the given order.
func (c *Calculator) Calculate(amount decimal.Decimal, portions []Portion) (map[string]decimal.Decimal, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount %s", ErrNegativeAmount, amount)
	}

	seen := make(map[string]struct{}, len(portions))
	for _, p := range portions {
		if p.Amount.IsNegative() {
			return nil, fmt.Errorf("%w: portion %s is %s", ErrNegativeAmount, p.ID, p.Amount)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePortion, p.ID)
		}
		seen[p.ID] = struct{}{}
	}

	total := lo.Reduce(portions, func(acc decimal.Decimal, p Portion, _ int) decimal.Decimal {
		return acc.Add(p.Amount)
	}, decimal.Zero)

	if c.ceiling && amount.GreaterThan(total) {
		return nil, fmt.Errorf("%w: %s > %s", ErrAmountExceedsTotal, amount, total)
	}

	result := make(map[string]decimal.Decimal, len(portions))
	if total.IsZero() {
		for _, p := range portions {
			result[p.ID] = decimal.Zero
		}
		return result, nil
	}

	allocated := decimal.Zero
	for _, p := range portions {
		proportion := p.Amount.DivRound(total, proportionScale)
		share := proportion.Mul(amount).Round(c.scale)
		result[p.ID] = share
		allocated = allocated.Add(share)
	}

	remaining := amount.Round(c.scale).Sub(allocated)
	for _, p := range portions {
		if remaining.IsZero() {
			break
		}
		result[p.ID], remaining = c.rule(result[p.ID], p.Amount, remaining)
	}
	if !remaining.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrUnabsorbedRemainder, remaining)
	}

	return result, nil
}
