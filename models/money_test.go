package models

import (
	"errors"
	"testing"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		name    string
		in      Money
		to      Currency
		want    float64
		wantErr error
	}{
		{name: "same currency", in: USD(10), to: CurrencyUSD, want: 10},
		{name: "bs to usd", in: Bs(360, 36), to: CurrencyUSD, want: 10},
		{name: "usd to bs", in: Money{Currency: CurrencyUSD, Amount: 2, ExchangeRate: 36.5}, to: CurrencyBs, want: 73},
		{name: "missing rate", in: Bs(100, 0), to: CurrencyUSD, wantErr: ErrMissingExchangeRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Convert(tt.in, tt.to)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Convert() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got.Currency != tt.to || got.Amount != tt.want {
				t.Errorf("Convert() = %v, want %s %.2f", got, tt.to, tt.want)
			}
		})
	}
}

func TestSalePaymentStatus(t *testing.T) {
	tests := []struct {
		name string
		sale Sale
		want string
	}{
		{name: "not invoiced", sale: Sale{Total: USD(50), AmountPaid: USD(50)}, want: PaymentNotInvoice},
		{name: "nothing paid", sale: Sale{Invoiced: true, Total: USD(50)}, want: PaymentPending},
		{name: "partially paid", sale: Sale{Invoiced: true, Total: USD(50), AmountPaid: USD(20)}, want: PaymentPartial},
		{name: "fully paid", sale: Sale{Invoiced: true, Total: USD(50), AmountPaid: USD(50)}, want: PaymentPaid},
		{name: "paid in bs at sale rate", sale: Sale{Invoiced: true, Total: USD(10), AmountPaid: Bs(360, 36)}, want: PaymentPaid},
		{name: "bs without rate is not counted", sale: Sale{Invoiced: true, Total: USD(10), AmountPaid: Bs(360, 0)}, want: PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sale.PaymentStatus(); got != tt.want {
				t.Errorf("PaymentStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateUnmarshal(t *testing.T) {
	for _, raw := range []string{`"2024-05-01"`, `"2024-05-01T10:30:00Z"`} {
		var d Date
		if err := d.UnmarshalJSON([]byte(raw)); err != nil {
			t.Fatalf("UnmarshalJSON(%s) error = %v", raw, err)
		}
		if d.Day() != "2024-05-01" {
			t.Errorf("Day() = %q, want 2024-05-01", d.Day())
		}
	}

	var empty Date
	if err := empty.UnmarshalJSON([]byte("null")); err != nil || !empty.IsZero() {
		t.Errorf("null date = %v, %v", empty, err)
	}
}
