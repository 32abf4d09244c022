package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an immutable amount in a single currency, rounded to 2 decimals.
// Amounts are never negative at construction; arithmetic requires matching
// currencies and fails with CURRENCY_MISMATCH otherwise.
type Money struct {
	amount   decimal.Decimal
	currency string
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, fmt.Errorf("invalid currency code %q", currency)
	}
	if amount.IsNegative() {
		return Money{}, errors.New("money amount cannot be negative")
	}
	return Money{amount: amount.Round(2), currency: currency}, nil
}

func MustMoney(amount string, currency string) Money {
	m, err := NewMoney(decimal.RequireFromString(amount), currency)
	if err != nil {
		panic(err)
	}
	return m
}

func ZeroMoney(currency string) Money {
	return Money{amount: decimal.Zero, currency: currency}
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() string        { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }

func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Add(other.amount).Round(2), currency: m.currency}, nil
}

// Sub subtracts other from m. The caller guarantees the result stays
// non-negative; discounts are validated against price before this runs.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	return Money{amount: m.amount.Sub(other.amount).Round(2), currency: m.currency}, nil
}

func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor).Round(2), currency: m.currency}
}

func (m Money) Div(divisor decimal.Decimal) (Money, error) {
	if divisor.IsZero() {
		return Money{}, errors.New("division by zero")
	}
	return Money{amount: m.amount.Div(divisor).Round(2), currency: m.currency}, nil
}

func (m Money) LessThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, ErrCurrencyMismatch
	}
	return m.amount.LessThan(other.amount), nil
}

func (m Money) GreaterThan(other Money) (bool, error) {
	if m.currency != other.currency {
		return false, ErrCurrencyMismatch
	}
	return m.amount.GreaterThan(other.amount), nil
}

func (m Money) Equal(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

func (m Money) String() string {
	return m.amount.StringFixed(2) + " " + m.currency
}

type moneyJSON struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Amount: m.amount.StringFixed(2), Currency: m.currency})
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return err
	}
	parsed, err := NewMoney(amount, raw.Currency)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
