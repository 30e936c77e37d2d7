package models

// 付款状态
const (
	PaymentPaid       = "Pagado"
	PaymentPending    = "Pendiente"
	PaymentPartial    = "Parcial"
	PaymentNotInvoice = "Sin facturar"
)

// PaymentStatuses 所有付款状态（固定顺序）
var PaymentStatuses = []string{PaymentPaid, PaymentPending, PaymentPartial, PaymentNotInvoice}

// Sale 销售单
type Sale struct {
	ID         string `json:"_id" validate:"required"`
	Number     string `json:"number"`
	OwnerName  string `json:"ownerName"`
	Date       Date   `json:"date"`
	Total      Money  `json:"total"`
	AmountPaid Money  `json:"amountPaid"`
	Invoiced   bool   `json:"invoiced"`
	Notes      string `json:"notes,omitempty"`
}

// PaymentStatus 根据开票与付款金额判定付款状态。
// 已付金额按记录汇率显式换算为销售币种，无法换算时视为未付。
func (s Sale) PaymentStatus() string {
	if !s.Invoiced {
		return PaymentNotInvoice
	}

	paid := 0.0
	if !s.AmountPaid.IsZero() {
		converted, err := Convert(s.AmountPaid, s.saleCurrency())
		if err == nil {
			paid = converted.Amount
		}
	}

	switch {
	case paid <= 0:
		return PaymentPending
	case paid >= s.Total.Amount:
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

func (s Sale) saleCurrency() Currency {
	if s.Total.Currency == "" {
		return s.AmountPaid.Currency
	}
	return s.Total.Currency
}
