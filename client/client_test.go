package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BerniceZTT/vet_admin/utils"
)

func newBackend(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, WithPrinter(utils.Printer("es"))), srv
}

func TestListForwardsTokenAndQuery(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tkn" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.URL.Query().Get("category"); got != "vacunas" {
			t.Errorf("category = %q", got)
		}
		if r.URL.Query().Has("empty") {
			t.Error("empty param forwarded")
		}
		_, _ = io.WriteString(w, `{"products":[{"_id":"p1","name":"Vacuna"}]}`)
	})

	ctx := WithToken(context.Background(), "tkn")
	products, err := Products.List(ctx, c, map[string]string{"category": "vacunas", "empty": ""})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(products) != 1 || products[0].Name != "Vacuna" {
		t.Errorf("List() = %+v", products)
	}
}

func TestListFallsBackOnInvalidPayload(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"items":[{"_id":"p1","stockUnits":4}]}`)
	})

	products, err := Products.List(context.Background(), c, nil)
	if err != nil {
		t.Fatalf("List() error = %v, want lenient fallback", err)
	}
	if len(products) != 1 || products[0].StockUnits != 4 {
		t.Errorf("List() = %+v", products)
	}

	strict := New(c.baseURL, WithStrict(true))
	_, err = Products.List(context.Background(), strict, nil)
	if !IsKind(err, KindDecode) {
		t.Errorf("strict List() error = %v, want decode error", err)
	}
}

func TestServerErrorCarriesMessage(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "msg", status: http.StatusBadRequest, body: `{"msg":"El nombre es obligatorio"}`, want: "El nombre es obligatorio"},
		{name: "message", status: http.StatusConflict, body: `{"message":"Duplicado"}`, want: "Duplicado"},
		{name: "no envelope", status: http.StatusInternalServerError, body: `<html>oops</html>`, want: "Ocurrió un error en el servidor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := Owners.List(context.Background(), c, nil)
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("error = %v, want *Error", err)
			}
			if e.Kind != KindServer || e.Status != tt.status {
				t.Errorf("Error = %+v", e)
			}
			if e.UserMessage() != tt.want {
				t.Errorf("UserMessage() = %q, want %q", e.UserMessage(), tt.want)
			}
			if e.HTTPStatus() != tt.status {
				t.Errorf("HTTPStatus() = %d, want %d", e.HTTPStatus(), tt.status)
			}
		})
	}
}

func TestTransportErrorIsLocalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := New(url, WithPrinter(utils.Printer("en")))
	_, err := Sales.List(context.Background(), c, nil)

	var e *Error
	if !errors.As(err, &e) || e.Kind != KindTransport {
		t.Fatalf("error = %v, want transport error", err)
	}
	if e.UserMessage() != "Network error: could not reach the server" {
		t.Errorf("UserMessage() = %q", e.UserMessage())
	}
	if e.HTTPStatus() != http.StatusBadGateway {
		t.Errorf("HTTPStatus() = %d", e.HTTPStatus())
	}
}

func TestUnknownEnvelopeIsDecodeError(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"foo":1}`)
	})
	_, err := Patients.List(context.Background(), c, nil)
	if !IsKind(err, KindDecode) {
		t.Errorf("error = %v, want decode error", err)
	}
}

func TestPage(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("page") != "2" || q.Get("limit") != "5" || q.Get("type") != "in" {
			t.Errorf("query = %v", q)
		}
		_, _ = io.WriteString(w, `{"items":[{"_id":"m1","productId":"p1","type":"in","quantity":3}],"pagination":{"page":2,"limit":5,"total":6,"pages":2}}`)
	})

	page, err := Movements.Page(context.Background(), c, map[string]string{"page": "2", "limit": "5", "type": "in"})
	if err != nil {
		t.Fatalf("Page() error = %v", err)
	}
	if page.Pagination.Total != 6 || len(page.Items) != 1 {
		t.Errorf("Page() = %+v", page)
	}
}

func TestMyClinicNotFoundIsNil(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/clinics/mine" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"msg":"Clínica no encontrada"}`)
	})

	clinic, err := c.MyClinic(context.Background())
	if err != nil {
		t.Fatalf("MyClinic() error = %v", err)
	}
	if clinic != nil {
		t.Errorf("MyClinic() = %+v, want nil", clinic)
	}
}

func TestMyClinicFound(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"clinic":{"_id":"c1","name":"Huellitas","exchangeRate":36.5}}`)
	})
	clinic, err := c.MyClinic(context.Background())
	if err != nil || clinic == nil || clinic.Name != "Huellitas" {
		t.Fatalf("MyClinic() = %+v, %v", clinic, err)
	}
}

func TestCreateUpdateDelete(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/appointments/pat-1":
			var body map[string]any
			_ = json.NewDecoder(r.Body).Decode(&body)
			if body["reason"] != "vacuna" {
				t.Errorf("body = %v", body)
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"msg":"Cita creada","appointment":{"_id":"a1","patientId":"pat-1"}}`)
		case r.Method == http.MethodPut && r.URL.Path == "/appointments/a1":
			_, _ = io.WriteString(w, `{"msg":"Cita actualizada"}`)
		case r.Method == http.MethodDelete && r.URL.Path == "/appointments/a1":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	})
	ctx := context.Background()

	created, msg, err := Appointments.Create(ctx, c, "pat-1", map[string]string{"reason": "vacuna"})
	if err != nil || created.ID != "a1" || msg != "Cita creada" {
		t.Errorf("Create() = %+v, %q, %v", created, msg, err)
	}

	updated, msg, err := Appointments.Update(ctx, c, "a1", map[string]string{"reason": "control"})
	if err != nil || updated.ID != "" || msg != "Cita actualizada" {
		t.Errorf("Update() = %+v, %q, %v", updated, msg, err)
	}

	msg, err = Appointments.Delete(ctx, c, "a1")
	if err != nil || msg != "" {
		t.Errorf("Delete() = %q, %v", msg, err)
	}
}

func TestUploadSendsMultipart(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/studies/pat-1" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm() error = %v", err)
			return
		}
		if got := r.FormValue("title"); got != "Radiografía" {
			t.Errorf("title = %q", got)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Errorf("FormFile() error = %v", err)
			return
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		if hdr.Filename != "rx.pdf" || string(content) != "%PDF-1.4" {
			t.Errorf("file = %s %q", hdr.Filename, content)
		}
		if ct := hdr.Header.Get("Content-Type"); ct != "application/pdf" {
			t.Errorf("Content-Type = %q", ct)
		}
		_, _ = io.WriteString(w, `{"msg":"Estudio subido"}`)
	})

	res, err := c.UploadStudy(context.Background(), "pat-1", "Radiografía", File{Name: "rx.pdf", Content: strings.NewReader("%PDF-1.4")})
	if err != nil {
		t.Fatalf("UploadStudy() error = %v", err)
	}
	if res.Message != "Estudio subido" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestMutateProxiesRawBody(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		if string(raw) != `{"name":"Efectivo"}` {
			t.Errorf("body = %s", raw)
		}
		_, _ = io.WriteString(w, `{"msg":"Creado","paymentMethod":{"_id":"pm1","name":"Efectivo"}}`)
	})

	res, err := c.Mutate(context.Background(), http.MethodPost, PaymentMethods.Path, json.RawMessage(`{"name":"Efectivo"}`))
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}
	if res.Message != "Creado" || !strings.Contains(string(res.Body), "pm1") {
		t.Errorf("Mutate() = %+v", res)
	}
}

func TestUnencodablePayloadIsRequestError(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
	})

	_, _, err := Appointments.Create(context.Background(), c, "", map[string]any{"reason": func() {}})
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("Create() error = %v (%T), want *Error", err, err)
	}
	if e.Kind != KindRequest || e.HTTPStatus() != http.StatusInternalServerError || e.Code() != "INVALID_REQUEST" {
		t.Errorf("error = %+v, status %d, code %s", e, e.HTTPStatus(), e.Code())
	}
	if e.UserMessage() != "No se pudo preparar la solicitud" {
		t.Errorf("UserMessage() = %q", e.UserMessage())
	}
}

func TestOversizedUploadIsRequestError(t *testing.T) {
	c, _ := newBackend(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
	})

	big := io.LimitReader(zeroReader{}, MaxUploadSize+1)
	_, err := c.Upload(context.Background(), "studies/pat-1", File{Name: "rx.png", Content: big}, nil)
	if !IsKind(err, KindRequest) {
		t.Fatalf("Upload() error = %v, want request error", err)
	}
	var e *Error
	errors.As(err, &e)
	if e.HTTPStatus() != http.StatusRequestEntityTooLarge {
		t.Errorf("HTTPStatus() = %d, want 413", e.HTTPStatus())
	}
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
