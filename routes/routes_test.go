package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/vet_admin/cache"
	"github.com/BerniceZTT/vet_admin/client"
	"github.com/BerniceZTT/vet_admin/middleware"
	"github.com/BerniceZTT/vet_admin/models"
	"github.com/BerniceZTT/vet_admin/repository"
	"github.com/BerniceZTT/vet_admin/service"
	"github.com/BerniceZTT/vet_admin/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
	utils.InitJWT("test-secret")
}

// backend 诊所后端的测试替身，记录每个 "METHOD path" 的调用次数
type backend struct {
	mu     sync.Mutex
	calls  map[string]int
	bodies map[string]string
	srv    *httptest.Server
}

func newBackend(t *testing.T) *backend {
	t.Helper()
	b := &backend{calls: map[string]int{}, bodies: map[string]string{}}

	products := make([]map[string]any, 0, 12)
	for i := 0; i < 12; i++ {
		category := "vacunas"
		if i%2 == 1 {
			category = "antiparasitarios"
		}
		products = append(products, map[string]any{
			"_id":        fmt.Sprintf("p%d", i),
			"name":       fmt.Sprintf("Producto %02d", i),
			"category":   category,
			"price":      map[string]any{"currency": "USD", "amount": 10},
			"stockUnits": i,
			"minStock":   3,
			"active":     i%3 != 0,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"products": products})
	})
	mux.HandleFunc("DELETE /products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "p2" {
			writeJSON(w, http.StatusConflict, map[string]any{"msg": "El producto tiene movimientos"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"msg": "Producto eliminado"})
	})
	mux.HandleFunc("GET /clinics/mine", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]any{"msg": "Clínica no encontrada"})
	})
	mux.HandleFunc("GET /inventory/movements", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		n, _ := strconv.Atoi(page)
		items := []map[string]any{
			{"_id": "m" + page, "productId": "p1", "productName": "Vacuna", "type": "in", "quantity": 5},
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"items":      items,
			"pagination": map[string]any{"page": n, "limit": 5, "total": 12, "pages": 2},
		})
	})
	mux.HandleFunc("POST /patients", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		b.record("POST /patients body", string(body))
		writeJSON(w, http.StatusCreated, map[string]any{
			"msg":     "Paciente creado",
			"patient": map[string]any{"_id": "pt9", "name": "Firulais", "species": "canino"},
		})
	})
	mux.HandleFunc("POST /patients/{id}/photo", func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("photo")
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"msg": "sin archivo"})
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		b.record("photo", header.Filename+":"+string(content))
		writeJSON(w, http.StatusOK, map[string]any{"msg": "Foto actualizada"})
	})

	b.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.calls[r.Method+" "+r.URL.Path]++
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *backend) record(key, value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.bodies[key] = value
}

func (b *backend) count(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[key]
}

func (b *backend) body(key string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[key]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type testServer struct {
	router *gin.Engine
	store  *repository.MemoryStore
	svc    *service.Services
}

func newTestServer(t *testing.T, b *backend) *testServer {
	t.Helper()
	qc := cache.New(cache.Options{StaleTime: time.Minute, GCTime: time.Minute})
	svc := service.New(client.New(b.srv.URL), qc, service.Options{
		PageSize:    5,
		MaxPageSize: 50,
		Printer:     utils.Printer("es"),
	})
	store := repository.NewMemoryStore(100)

	router := gin.New()
	router.Use(middleware.ErrorHandler())
	RegisterRoutes(router, Deps{Services: svc, Cache: qc, Store: store})
	return &testServer{router: router, store: store, svc: svc}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    string          `json:"code"`
}

func (s *testServer) do(t *testing.T, role models.UserRole, method, path string, body io.Reader, contentType string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if role != "" {
		tok, err := utils.GenerateToken("u-"+string(role), "tester", role, time.Hour)
		if err != nil {
			t.Fatalf("GenerateToken() error = %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: invalid JSON %q", method, path, w.Body.String())
	}
	return w.Code, env
}

type productView struct {
	Items []models.Product `json:"items"`
	Stats struct {
		Total      int `json:"total"`
		Active     int `json:"active"`
		LowStock   int `json:"lowStock"`
		OutOfStock int `json:"outOfStock"`
	} `json:"stats"`
	Filters    map[string]string `json:"filters"`
	Pagination struct {
		Page       int `json:"page"`
		Limit      int `json:"limit"`
		Total      int `json:"total"`
		Pages      int `json:"pages"`
		StartIndex int `json:"startIndex"`
	} `json:"pagination"`
}

func decodeProducts(t *testing.T, env envelope) productView {
	t.Helper()
	var v productView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode view: %v (%s)", err, env.Data)
	}
	return v
}

func TestProductViewPagingAndReset(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)

	status, env := s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/views/products", nil, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, env.Error)
	}
	v := decodeProducts(t, env)
	if v.Pagination.Total != 12 || v.Pagination.Pages != 3 || len(v.Items) != 5 {
		t.Fatalf("pagination = %+v with %d items", v.Pagination, len(v.Items))
	}
	if v.Stats.Total != 12 || v.Stats.Active != 8 || v.Stats.OutOfStock != 1 || v.Stats.LowStock != 3 {
		t.Errorf("stats = %+v", v.Stats)
	}
	if v.Filters["category"] != "all" || v.Filters["status"] != "all" {
		t.Errorf("filters = %v, want neutral", v.Filters)
	}

	_, env = s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/views/products?page=3", nil, "")
	v = decodeProducts(t, env)
	if v.Pagination.Page != 3 || len(v.Items) != 2 || v.Pagination.StartIndex != 10 {
		t.Errorf("page 3 = %+v with %d items", v.Pagination, len(v.Items))
	}

	// 筛选变化优先于页码请求
	_, env = s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/views/products?category=vacunas&page=3", nil, "")
	v = decodeProducts(t, env)
	if v.Pagination.Page != 1 || v.Pagination.Total != 6 {
		t.Errorf("after filter change = %+v, want page 1 of 6 records", v.Pagination)
	}
	for _, p := range v.Items {
		if p.Category != "vacunas" {
			t.Errorf("item %s has category %s", p.ID, p.Category)
		}
	}

	if n := b.count("GET /products"); n != 1 {
		t.Errorf("backend GET /products called %d times, want 1 (cached)", n)
	}
}

func TestViewRejectsBadInput(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)

	if status, _ := s.do(t, "", http.MethodGet, "/api/views/products", nil, ""); status != http.StatusUnauthorized {
		t.Errorf("without token status = %d, want 401", status)
	}
	if status, _ := s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/views/unknown", nil, ""); status != http.StatusNotFound {
		t.Errorf("unknown view status = %d, want 404", status)
	}
	if status, _ := s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/views/products?dateFrom=ayer", nil, ""); status != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", status)
	}
	if status, _ := s.do(t, models.UserRoleGROOMER, http.MethodGet, "/api/views/sales", nil, ""); status != http.StatusForbidden {
		t.Errorf("groomer reading sales status = %d, want 403", status)
	}
}

func TestClinicViewWithoutClinicIsNull(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)

	status, env := s.do(t, models.UserRoleRECEPTIONIST, http.MethodGet, "/api/views/clinic", nil, "")
	if status != http.StatusOK || !env.Success {
		t.Fatalf("status = %d (%s)", status, env.Error)
	}
	if string(env.Data) != "null" {
		t.Errorf("data = %s, want null", env.Data)
	}

	if status, _ := s.do(t, models.UserRole("INTERN"), http.MethodGet, "/api/views/clinic", nil, ""); status != http.StatusForbidden {
		t.Errorf("unknown role status = %d, want 403", status)
	}
	if n := b.count("GET /clinics/mine"); n != 1 {
		t.Errorf("backend calls = %d, want 1", n)
	}
}

func TestMovementsClampToLastServerPage(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)

	status, env := s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/views/movements?page=5", nil, "")
	if status != http.StatusOK {
		t.Fatalf("status = %d (%s)", status, env.Error)
	}
	var v struct {
		Items      []models.Movement `json:"items"`
		Pagination pageInfo          `json:"pagination"`
	}
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if v.Pagination.Page != 2 || v.Pagination.Pages != 2 {
		t.Errorf("pagination = %+v, want clamped to page 2", v.Pagination)
	}
	if len(v.Items) != 1 || v.Items[0].ID != "m2" {
		t.Errorf("items = %+v, want the refetched last page", v.Items)
	}
}

type pageInfo struct {
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Total int `json:"total"`
}

type snapshot struct {
	State            string `json:"state"`
	DialogOpen       bool   `json:"dialogOpen"`
	ControlsDisabled bool   `json:"controlsDisabled"`
	Target           *struct {
		ID string `json:"id"`
	} `json:"target"`
	Notice *struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"notice"`
}

func decodeSnapshot(t *testing.T, env envelope) snapshot {
	t.Helper()
	var s snapshot
	if err := json.Unmarshal(env.Data, &s); err != nil {
		t.Fatalf("decode snapshot: %v (%s)", err, env.Data)
	}
	return s
}

func TestDeleteFlowInvalidatesView(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)
	admin := models.UserRoleADMIN

	s.do(t, admin, http.MethodGet, "/api/views/products", nil, "")

	status, env := s.do(t, admin, http.MethodPost, "/api/views/products/delete",
		strings.NewReader(`{"id":"p1","displayName":"Producto 01"}`), "application/json")
	if status != http.StatusOK {
		t.Fatalf("request delete status = %d (%s)", status, env.Error)
	}
	if snap := decodeSnapshot(t, env); snap.State != "awaiting_confirm" || !snap.DialogOpen {
		t.Errorf("snapshot = %+v, want dialog open", snap)
	}

	status, env = s.do(t, admin, http.MethodPost, "/api/views/products/delete/confirm", nil, "")
	if status != http.StatusOK || env.Message != "Producto eliminado" {
		t.Fatalf("confirm = %d %q (%s)", status, env.Message, env.Error)
	}
	if snap := decodeSnapshot(t, env); snap.State != "idle" || snap.DialogOpen {
		t.Errorf("snapshot after success = %+v, want idle", snap)
	}
	if n := b.count("DELETE /products/p1"); n != 1 {
		t.Errorf("backend DELETE called %d times, want 1", n)
	}

	// 删除后产品列表被失效，下一次读取重新请求
	s.do(t, admin, http.MethodGet, "/api/views/products", nil, "")
	if n := b.count("GET /products"); n != 2 {
		t.Errorf("backend GET /products called %d times, want 2", n)
	}

	// 没有待删除对象
	if status, _ := s.do(t, admin, http.MethodPost, "/api/views/products/delete/confirm", nil, ""); status != http.StatusBadRequest {
		t.Errorf("confirm without target status = %d, want 400", status)
	}
}

func TestDeleteFailureKeepsDialogOpen(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)
	admin := models.UserRoleADMIN

	s.do(t, admin, http.MethodPost, "/api/views/stock/delete",
		strings.NewReader(`{"id":"p2","displayName":"Producto 02"}`), "application/json")

	status, env := s.do(t, admin, http.MethodPost, "/api/views/stock/delete/confirm", nil, "")
	if status != http.StatusConflict {
		t.Fatalf("status = %d, want backend status 409", status)
	}
	if env.Error != "El producto tiene movimientos" || env.Code != "BACKEND_ERROR" {
		t.Errorf("error = %q code = %q", env.Error, env.Code)
	}
	snap := decodeSnapshot(t, env)
	if snap.State != "awaiting_confirm" || snap.Target == nil || snap.Target.ID != "p2" {
		t.Errorf("snapshot = %+v, want target kept for retry", snap)
	}
	if snap.Notice == nil || snap.Notice.Kind != "error" {
		t.Errorf("notice = %+v, want error notice", snap.Notice)
	}

	status, env = s.do(t, admin, http.MethodPost, "/api/views/stock/delete/cancel", nil, "")
	if status != http.StatusOK || decodeSnapshot(t, env).State != "idle" {
		t.Errorf("cancel = %d %s", status, env.Data)
	}
}

func TestDeleteRequiresPermission(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)

	status, _ := s.do(t, models.UserRoleGROOMER, http.MethodPost, "/api/views/products/delete",
		strings.NewReader(`{"id":"p1"}`), "application/json")
	if status != http.StatusForbidden {
		t.Errorf("status = %d, want 403", status)
	}
	if n := s.svc.Deps.Sessions.Len(); n != 0 {
		t.Errorf("sessions = %d after forbidden request, want none", n)
	}
	if status, _ := s.do(t, models.UserRoleGROOMER, http.MethodPost, "/api/views/unknown/delete",
		strings.NewReader(`{"id":"p1"}`), "application/json"); status != http.StatusNotFound {
		t.Errorf("unknown view status = %d, want 404", status)
	}
	status, _ = s.do(t, models.UserRoleADMIN, http.MethodPost, "/api/views/products/delete",
		strings.NewReader(`{"displayName":"sin id"}`), "application/json")
	if status != http.StatusBadRequest {
		t.Errorf("missing id status = %d, want 400", status)
	}
}

func TestCreateProxyAndOperationLog(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)

	status, env := s.do(t, models.UserRoleVETERINARIAN, http.MethodPost, "/api/resources/patients?label=Firulais",
		strings.NewReader(`{"name":"Firulais","species":"canino"}`), "application/json")
	if status != http.StatusCreated || env.Message != "Paciente creado" {
		t.Fatalf("create = %d %q (%s)", status, env.Message, env.Error)
	}
	if got := b.body("POST /patients body"); !strings.Contains(got, `"Firulais"`) {
		t.Errorf("backend body = %q", got)
	}

	if status, _ := s.do(t, models.UserRoleADMIN, http.MethodPost, "/api/resources/unknown",
		strings.NewReader(`{}`), "application/json"); status != http.StatusNotFound {
		t.Errorf("unknown resource status = %d, want 404", status)
	}
	if status, _ := s.do(t, models.UserRoleADMIN, http.MethodPost, "/api/resources/patients",
		strings.NewReader(`{not json`), "application/json"); status != http.StatusBadRequest {
		t.Errorf("invalid body status = %d, want 400", status)
	}

	if status, _ := s.do(t, models.UserRoleVETERINARIAN, http.MethodGet, "/api/operation-logs", nil, ""); status != http.StatusForbidden {
		t.Errorf("vet reading logs status = %d, want 403", status)
	}
	status, env = s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/operation-logs?resource=patients", nil, "")
	if status != http.StatusOK {
		t.Fatalf("logs status = %d", status)
	}
	var logs []models.OperationLog
	if err := json.Unmarshal(env.Data, &logs); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
	// 成功的创建和被拒绝的无效请求都会记录
	byRole := map[string]bool{}
	for _, l := range logs {
		byRole[l.OperatorType] = l.Success
	}
	if len(logs) != 2 || !byRole["VETERINARIAN"] || byRole["ADMIN"] {
		t.Errorf("logs = %+v, want a successful vet create and a failed admin request", logs)
	}
}

func TestUploadPatientPhoto(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, _ := w.CreateFormFile("photo", "firulais.jpg")
	_, _ = part.Write([]byte("jpeg-bytes"))
	_ = w.Close()

	status, env := s.do(t, models.UserRoleRECEPTIONIST, http.MethodPost, "/api/uploads/patients/pt1/photo", &buf, w.FormDataContentType())
	if status != http.StatusCreated || env.Message != "Foto actualizada" {
		t.Fatalf("upload = %d %q (%s)", status, env.Message, env.Error)
	}
	if got := b.body("photo"); got != "firulais.jpg:jpeg-bytes" {
		t.Errorf("backend received %q", got)
	}

	status, _ = s.do(t, models.UserRoleRECEPTIONIST, http.MethodPost, "/api/uploads/patients/pt1/photo",
		strings.NewReader(""), "multipart/form-data; boundary=x")
	if status != http.StatusBadRequest {
		t.Errorf("upload without file status = %d, want 400", status)
	}
}

func TestSystemEndpoints(t *testing.T) {
	b := newBackend(t)
	s := newTestServer(t, b)
	s.do(t, models.UserRoleADMIN, http.MethodGet, "/api/views/products", nil, "")

	req := httptest.NewRequest(http.MethodGet, "/api/cache-status", nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	var status struct {
		Stats struct {
			Entries int   `json:"entries"`
			Misses  int64 `json:"misses"`
		} `json:"stats"`
		Sessions int `json:"sessions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decode cache status: %v", err)
	}
	if status.Stats.Entries != 1 || status.Stats.Misses != 1 || status.Sessions != 1 {
		t.Errorf("cache status = %+v", status)
	}

	for _, path := range []string{"/api/health", "/api/db-status"} {
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		if w.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, w.Code)
		}
	}
}
