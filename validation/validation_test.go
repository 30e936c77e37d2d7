package validation

import (
	"bytes"
	"errors"
	"testing"

	"github.com/BerniceZTT/vet_admin/models"
)

func TestDecodeMissingRequiredFieldFailsOpen(t *testing.T) {
	v := New()
	raw := []byte(`{"_id":"p1","description":"sin nombre","stockUnits":3}`)

	res, err := Decode[models.Product](v, raw)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.OK {
		t.Fatal("Decode() OK = true for payload missing name")
	}
	if res.Diagnostic == nil {
		t.Fatal("Decode() Diagnostic = nil, want validation error")
	}
	if !bytes.Equal(res.Raw, raw) {
		t.Errorf("Raw = %s, want original payload", res.Raw)
	}

	got := res.Lenient("products")
	if got.ID != "p1" || got.Description != "sin nombre" || got.StockUnits != 3 {
		t.Errorf("Lenient() = %+v, want raw payload fields", got)
	}

	if _, err := res.Strict(); err == nil {
		t.Error("Strict() error = nil, want diagnostic")
	}
	if _, err := res.Resolve(Lenient, "products"); err != nil {
		t.Errorf("Resolve(Lenient) error = %v", err)
	}
	if _, err := res.Resolve(Strict, "products"); err == nil {
		t.Error("Resolve(Strict) error = nil")
	}
}

func TestDecodeTypeMismatchKeepsOtherFields(t *testing.T) {
	res, err := Decode[models.Product](New(), []byte(`{"_id":"p1","name":"Vacuna","stockUnits":"muchos"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if res.OK {
		t.Error("OK = true for mismatched field type")
	}
	if res.Data.Name != "Vacuna" {
		t.Errorf("Data.Name = %q, want Vacuna", res.Data.Name)
	}
}

func TestDecodeSyntaxError(t *testing.T) {
	if _, err := Decode[models.Product](New(), []byte(`{"_id":`)); err == nil {
		t.Fatal("Decode() error = nil for truncated JSON")
	}
}

func TestDecodeListEnvelopes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantIDs []string
		wantErr error
	}{
		{name: "primary key", body: `{"products":[{"_id":"a","name":"A"},{"_id":"b","name":"B"}]}`, wantIDs: []string{"a", "b"}},
		{name: "items fallback", body: `{"items":[{"_id":"a","name":"A"}],"pagination":{"page":1}}`, wantIDs: []string{"a"}},
		{name: "data fallback", body: `{"data":[{"_id":"c","name":"C"}]}`, wantIDs: []string{"c"}},
		{name: "bare array", body: `[{"_id":"d","name":"D"}]`, wantIDs: []string{"d"}},
		{name: "null list", body: `{"products":null}`, wantIDs: []string{}},
		{name: "unknown shape", body: `{"product":{"_id":"a"}}`, wantErr: ErrUnknownEnvelope},
		{name: "empty body", body: ``, wantErr: ErrUnknownEnvelope},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeList[models.Product](New(), []byte(tt.body), "products")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DecodeList() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeList() error = %v", err)
			}
			if !res.OK {
				t.Fatalf("DecodeList() OK = false: %v", res.Diagnostic)
			}
			if len(res.Data) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(res.Data), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if res.Data[i].ID != id {
					t.Errorf("Data[%d].ID = %q, want %q", i, res.Data[i].ID, id)
				}
			}
		})
	}
}

func TestDecodeListReportsElementIndex(t *testing.T) {
	res, err := DecodeList[models.Product](New(), []byte(`{"products":[{"_id":"a","name":"A"},{"_id":"b"}]}`), "products")
	if err != nil {
		t.Fatalf("DecodeList() error = %v", err)
	}
	if res.OK {
		t.Fatal("OK = true with invalid second element")
	}
	if len(res.Data) != 2 {
		t.Errorf("len(Data) = %d, want 2 (raw data kept)", len(res.Data))
	}
	if !bytes.Contains([]byte(res.Diagnostic.Error()), []byte("[1]")) {
		t.Errorf("Diagnostic = %v, want element index", res.Diagnostic)
	}
}

func TestDecodeOne(t *testing.T) {
	for _, body := range []string{
		`{"product":{"_id":"a","name":"A"}}`,
		`{"data":{"_id":"a","name":"A"}}`,
		`{"_id":"a","name":"A"}`,
	} {
		res, err := DecodeOne[models.Product](New(), []byte(body), "product")
		if err != nil {
			t.Fatalf("DecodeOne(%s) error = %v", body, err)
		}
		if !res.OK || res.Data.ID != "a" {
			t.Errorf("DecodeOne(%s) = %+v", body, res)
		}
	}
}

func TestDecodePage(t *testing.T) {
	body := []byte(`{"items":[{"_id":"m1","productId":"p1","type":"in","quantity":5}],"pagination":{"page":2,"limit":1,"total":7,"pages":7}}`)

	res, err := DecodePage[models.Movement](New(), body, "movements")
	if err != nil {
		t.Fatalf("DecodePage() error = %v", err)
	}
	if !res.OK {
		t.Fatalf("DecodePage() OK = false: %v", res.Diagnostic)
	}
	want := models.Pagination{Page: 2, Limit: 1, Total: 7, Pages: 7}
	if res.Data.Pagination != want {
		t.Errorf("Pagination = %+v, want %+v", res.Data.Pagination, want)
	}
	if len(res.Data.Items) != 1 || res.Data.Items[0].ID != "m1" {
		t.Errorf("Items = %+v", res.Data.Items)
	}

	bare, err := DecodePage[models.Movement](New(), []byte(`[]`), "movements")
	if err != nil {
		t.Fatalf("DecodePage(bare) error = %v", err)
	}
	if bare.Data.Pagination.Pages != 1 {
		t.Errorf("bare Pages = %d, want 1", bare.Data.Pagination.Pages)
	}
}
