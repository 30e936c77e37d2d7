package listing

import (
	"math"

	"github.com/BerniceZTT/vet_admin/models"
)

// MoneyTotals 按币种分别累计的金额，两个币种从不相加
type MoneyTotals struct {
	USD float64 `json:"USD"`
	Bs  float64 `json:"Bs"`
	// Unknown 币种无法识别而未计入任何合计的记录数
	Unknown int `json:"unknown,omitempty"`
}

// Add 计入一笔金额。未标币种的金额按 USD 计，其它币种只计数不累加。
func (t MoneyTotals) Add(m models.Money) MoneyTotals {
	switch m.Currency {
	case "", models.CurrencyUSD:
		t.USD = round2(t.USD + m.Amount)
	case models.CurrencyBs:
		t.Bs = round2(t.Bs + m.Amount)
	default:
		t.Unknown++
	}
	return t
}

// SumMoney 按币种汇总
func SumMoney[T any](items []T, amount func(T) models.Money) MoneyTotals {
	var totals MoneyTotals
	for _, item := range items {
		totals = totals.Add(amount(item))
	}
	return totals
}

// SumMoneyBy 先分组再按币种汇总，buckets 中的分组总会出现
func SumMoneyBy[T any](items []T, key func(T) string, amount func(T) models.Money, buckets ...string) map[string]MoneyTotals {
	out := make(map[string]MoneyTotals, len(buckets))
	for _, b := range buckets {
		out[b] = MoneyTotals{}
	}
	for _, item := range items {
		k := key(item)
		out[k] = out[k].Add(amount(item))
	}
	return out
}

// Conversion 显式换算的结果
type Conversion struct {
	// Amount 换算后的合计
	Amount float64 `json:"amount"`
	// Skipped 因缺少汇率无法换算的记录数
	Skipped int `json:"skipped"`
}

// ConvertBs 把所有 Bs 金额按各自记录的汇率换算为 USD 后求和，USD 金额不参与
func ConvertBs[T any](items []T, amount func(T) models.Money) Conversion {
	var c Conversion
	for _, item := range items {
		m := amount(item)
		if m.Currency != models.CurrencyBs {
			continue
		}
		usd, err := models.Convert(m, models.CurrencyUSD)
		if err != nil {
			c.Skipped++
			continue
		}
		c.Amount = round2(c.Amount + usd.Amount)
	}
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
