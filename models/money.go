package models

import (
	"errors"
	"fmt"
	"math"
)

// Currency 币种
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyBs  Currency = "Bs"
)

// ErrMissingExchangeRate 缺少汇率时无法换算
var ErrMissingExchangeRate = errors.New("money: missing exchange rate")

// Money 金额。ExchangeRate 为记录发生时的汇率（每1美元对应的Bs）。
// 不同币种的金额只能通过 Convert 显式换算后才能相加。
type Money struct {
	Currency     Currency `json:"currency" validate:"omitempty,oneof=USD Bs"`
	Amount       float64  `json:"amount" validate:"gte=0"`
	ExchangeRate float64  `json:"exchangeRate,omitempty" validate:"gte=0"`
}

// USD 构造美元金额
func USD(amount float64) Money {
	return Money{Currency: CurrencyUSD, Amount: amount}
}

// Bs 构造Bs金额，rate 为当时汇率
func Bs(amount, rate float64) Money {
	return Money{Currency: CurrencyBs, Amount: amount, ExchangeRate: rate}
}

// IsZero 金额是否为零
func (m Money) IsZero() bool {
	return m.Amount == 0
}

// String 格式化输出
func (m Money) String() string {
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}

// Convert 按记录自身的汇率把金额换算到目标币种
func Convert(m Money, to Currency) (Money, error) {
	if m.Currency == to {
		return m, nil
	}
	if m.ExchangeRate <= 0 {
		return Money{}, fmt.Errorf("%w: %s -> %s", ErrMissingExchangeRate, m.Currency, to)
	}

	var amount float64
	switch {
	case m.Currency == CurrencyBs && to == CurrencyUSD:
		amount = m.Amount / m.ExchangeRate
	case m.Currency == CurrencyUSD && to == CurrencyBs:
		amount = m.Amount * m.ExchangeRate
	default:
		return Money{}, fmt.Errorf("money: unsupported conversion %s -> %s", m.Currency, to)
	}

	return Money{Currency: to, Amount: round2(amount), ExchangeRate: m.ExchangeRate}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
