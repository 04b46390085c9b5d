package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultScale is the minor-unit scale used when a currency has no explicit entry.
const DefaultScale int32 = 2

var ErrCurrencyMismatch = errors.New("currency_mismatch")

// zero-decimal currencies settle in whole units.
var currencyScale = map[string]int32{
	"JPY": 0,
	"KRW": 0,
	"IDR": 0,
	"VND": 0,
	"CLP": 0,
	"ISK": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
}

// Scale returns the minor-unit scale for a currency code.
func Scale(currency string) int32 {
	if scale, ok := currencyScale[NormalizeCurrency(currency)]; ok {
		return scale
	}
	return DefaultScale
}

// NormalizeCurrency upper-cases and trims an ISO 4217 code.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// Round rounds half-up to the currency's minor unit.
func Round(amount decimal.Decimal, currency string) decimal.Decimal {
	return RoundHalfUp(amount, Scale(currency))
}

// RoundHalfUp rounds away from zero on a tie. decimal.Round already behaves this way
// for positive and negative values, the wrapper keeps call sites explicit.
func RoundHalfUp(amount decimal.Decimal, scale int32) decimal.Decimal {
	return amount.Round(scale)
}

// Money is an exact amount in a currency.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// New builds a Money rounded to the currency scale.
func New(amount decimal.Decimal, currency string) Money {
	currency = NormalizeCurrency(currency)
	return Money{Amount: Round(amount, currency), Currency: currency}
}

// Zero returns a zero amount in currency.
func Zero(currency string) Money {
	return New(decimal.Zero, currency)
}

// MustParse builds Money from a decimal string and panics on malformed input.
func MustParse(amount, currency string) Money {
	return New(decimal.RequireFromString(amount), currency)
}

func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

func (m Money) IsNegative() bool {
	return m.Amount.IsNegative()
}

// Add sums two amounts of the same currency.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Sub subtracts other from m.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{Amount: m.Amount.Sub(other.Amount), Currency: m.Currency}, nil
}

// Neg flips the sign.
func (m Money) Neg() Money {
	return Money{Amount: m.Amount.Neg(), Currency: m.Currency}
}

// Equal compares amount numerically and currency by code.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Amount.Equal(other.Amount)
}

func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.StringFixed(Scale(m.Currency)), m.Currency)
}

func (m Money) sameCurrency(other Money) error {
	if NormalizeCurrency(m.Currency) != NormalizeCurrency(other.Currency) {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return nil
}
