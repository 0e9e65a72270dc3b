package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"pehlione.com/catalog/internal/http/middleware"
	"pehlione.com/catalog/internal/modules/products"
	"pehlione.com/catalog/internal/modules/variants"
	"pehlione.com/catalog/internal/sessions"
	"pehlione.com/catalog/internal/shared/apperr"
)

type fakeCatalog struct {
	items     []variants.PersistedVariant
	deleted   []string
	deleteErr error
	saveErr   error
	submitted []variants.VariantRecord
}

func (f *fakeCatalog) Load(ctx context.Context, productID string) (products.Product, []variants.PersistedVariant, error) {
	if productID != "p1" {
		return products.Product{}, nil, apperr.NotFoundErr("Ürün bulunamadı.")
	}
	return products.Product{ID: "p1", Name: "Tee"}, f.items, nil
}

func (f *fakeCatalog) SaveMatrix(ctx context.Context, productID string, records []variants.VariantRecord, removeIDs []string) ([]variants.VariantRecord, error) {
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.submitted = records
	f.deleted = append(f.deleted, removeIDs...)
	out := make([]variants.VariantRecord, len(records))
	for i, r := range records {
		if r.ID == "" {
			r.ID = fmt.Sprintf("new-%d", i)
		}
		out[i] = r
	}
	return out, nil
}

func (f *fakeCatalog) DeleteVariants(ctx context.Context, productID string, ids []string) error {
	f.deleted = append(f.deleted, ids...)
	return f.deleteErr
}

func newTestServer(t *testing.T, catalog CatalogService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ErrorHandler(log), middleware.Recovery(log))
	h := NewVariantsHandler(sessions.NewMemory(time.Hour), catalog,
		variants.SKUGenerator{Suffix: func() string { return "TEST" }}, t.TempDir(), log)
	h.Register(r.Group("/api/admin/editors"))
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEditor(t *testing.T, w *httptest.ResponseRecorder, want int) editorResponse {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
	var resp editorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

type errorBody struct {
	Error     string            `json:"error"`
	RequestID string            `json:"request_id"`
	Fields    map[string]string `json:"fields"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder, want int) errorBody {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d: %s", w.Code, want, w.Body.String())
	}
	var e errorBody
	if err := json.Unmarshal(w.Body.Bytes(), &e); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return e
}

// newMatrix creates an editor with Color [Red Blue] x Size [S M] generated.
func newMatrix(t *testing.T, r http.Handler) string {
	t.Helper()
	created := decodeEditor(t, do(t, r, http.MethodPost, "/api/admin/editors", map[string]any{"product_name": "Tee"}), http.StatusCreated)
	base := "/api/admin/editors/" + created.ID

	decodeEditor(t, do(t, r, http.MethodPatch, base+"/sections/0/options/0",
		map[string]any{"option_name": "Color", "values_input": "Red, Blue, "}), http.StatusOK)
	decodeEditor(t, do(t, r, http.MethodPost, base+"/sections/0/options", nil), http.StatusOK)
	decodeEditor(t, do(t, r, http.MethodPatch, base+"/sections/0/options/1",
		map[string]any{"option_name": "Size", "values_input": "S, M"}), http.StatusOK)
	st := decodeEditor(t, do(t, r, http.MethodPost, base+"/sections/0/options/1/chips",
		map[string]any{"action": "commit"}), http.StatusOK).State
	if got := st.Sections[0].Options[1].ValuesInput; got != "S, M, " {
		t.Fatalf("after commit = %q", got)
	}

	gen := decodeEditor(t, do(t, r, http.MethodPost, base+"/generate", nil), http.StatusOK)
	if gen.Generated == nil || !*gen.Generated || len(gen.State.Variants) != 4 {
		t.Fatalf("generate = %+v", gen)
	}
	return created.ID
}

func TestEditorFlow(t *testing.T) {
	r := newTestServer(t, nil)
	id := newMatrix(t, r)
	base := "/api/admin/editors/" + id

	got := decodeEditor(t, do(t, r, http.MethodGet, base, nil), http.StatusOK)
	if got.State.GroupBy != "Color" || got.Layout.Mode != variants.ModeNested || len(got.Layout.Rows) != 6 {
		t.Fatalf("layout = %s / %d rows, group_by %q", got.Layout.Mode, len(got.Layout.Rows), got.State.GroupBy)
	}

	patched := decodeEditor(t, do(t, r, http.MethodPatch, base+"/variants/1",
		map[string]any{"offer_price": "9.90", "stock_quantity": "4"}), http.StatusOK)
	if v := patched.State.Variants[1]; v.OfferPrice != "9.90" || v.StockQuantity != "4" || patched.State.ActiveIndex != 1 {
		t.Errorf("patched = %+v", v)
	}

	imgs := decodeEditor(t, do(t, r, http.MethodPut, base+"/groups/Blue/images",
		map[string]any{"urls": []string{"https://cdn.test/b.png"}}), http.StatusOK)
	if imgs.Touched == nil || *imgs.Touched != 2 {
		t.Errorf("touched = %v", imgs.Touched)
	}

	search := decodeEditor(t, do(t, r, http.MethodGet, base+"?q=blue", nil), http.StatusOK)
	if len(search.Layout.Rows) != 3 || search.State.Search != "blue" {
		t.Errorf("search rows = %d", len(search.Layout.Rows))
	}
	if stored := decodeEditor(t, do(t, r, http.MethodGet, base, nil), http.StatusOK); stored.State.Search != "" {
		t.Errorf("?q= must not be stored, got %q", stored.State.Search)
	}

	toggled := decodeEditor(t, do(t, r, http.MethodPost, base+"/groups/Red/toggle", nil), http.StatusOK)
	if toggled.State.Expanded["Red"] || len(toggled.Layout.Rows) != 4 {
		t.Errorf("collapse Red: expanded=%v rows=%d", toggled.State.Expanded, len(toggled.Layout.Rows))
	}

	skus := decodeEditor(t, do(t, r, http.MethodPost, base+"/skus", nil), http.StatusOK)
	if skus.State.Variants[0].SKU != "TEE-RED-S-TEST" {
		t.Errorf("sku = %q", skus.State.Variants[0].SKU)
	}

	w := do(t, r, http.MethodGet, base+"/export?format=csv", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("export = %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	if !strings.Contains(w.Body.String(), "https://cdn.test/b.png") || !strings.HasPrefix(w.Body.String(), "group,name,sku") {
		t.Errorf("csv = %s", w.Body.String())
	}
	if w := do(t, r, http.MethodGet, base+"/export?format=xlsx", nil); w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Errorf("xlsx export = %d, %d bytes", w.Code, w.Body.Len())
	}

	if w := do(t, r, http.MethodDelete, base, nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", w.Code)
	}
	decodeError(t, do(t, r, http.MethodGet, base, nil), http.StatusNotFound)
}

func TestEditorReorderAndDelete(t *testing.T) {
	r := newTestServer(t, nil)
	base := "/api/admin/editors/" + newMatrix(t, r)

	moved := decodeEditor(t, do(t, r, http.MethodPost, base+"/reorder",
		map[string]any{"kind": "variant", "from": 1, "to": 0}), http.StatusOK)
	if moved.State.Variants[0].Name != "Color: Red / Size: M" {
		t.Errorf("first = %q", moved.State.Variants[0].Name)
	}

	// Dragging across groups is ignored.
	across := decodeEditor(t, do(t, r, http.MethodPost, base+"/reorder",
		map[string]any{"kind": "variant", "from": 0, "to": 3}), http.StatusOK)
	if across.State.Variants[0].Name != "Color: Red / Size: M" {
		t.Errorf("cross-group move applied: %q", across.State.Variants[0].Name)
	}

	opt := decodeEditor(t, do(t, r, http.MethodPost, base+"/reorder",
		map[string]any{"kind": "option", "section": 0, "from": 1, "to": 0}), http.StatusOK)
	if opt.State.Sections[0].Options[0].OptionName != "Size" {
		t.Errorf("option order = %+v", opt.State.Sections[0].Options)
	}

	del := decodeEditor(t, do(t, r, http.MethodPost, base+"/variants/delete",
		map[string]any{"indices": []int{3, 0}}), http.StatusOK)
	if len(del.State.Variants) != 2 || del.State.Variants[0].Name != "Color: Red / Size: S" {
		t.Errorf("after delete = %+v", del.State.Variants)
	}
}

func TestEditorValidationErrors(t *testing.T) {
	r := newTestServer(t, nil)
	base := "/api/admin/editors/" + newMatrix(t, r)

	e := decodeError(t, do(t, r, http.MethodPost, base+"/sections/0/options/0/chips", map[string]any{"action": "explode"}), http.StatusBadRequest)
	if e.Fields["action"] == "" || e.RequestID == "" {
		t.Errorf("chip error = %+v", e)
	}

	e = decodeError(t, do(t, r, http.MethodPut, base+"/group-by", map[string]any{"group_by": "Weight"}), http.StatusBadRequest)
	if e.Fields["group_by"] == "" {
		t.Errorf("group-by error = %+v", e)
	}

	e = decodeError(t, do(t, r, http.MethodPatch, base+"/variants/9", map[string]any{"sku": "X"}), http.StatusBadRequest)
	if e.Fields["index"] == "" {
		t.Errorf("index error = %+v", e)
	}

	e = decodeError(t, do(t, r, http.MethodPatch, base+"/variants/0", map[string]any{"stock_status": "gone"}), http.StatusBadRequest)
	if e.Fields["stock_status"] == "" {
		t.Errorf("stock status error = %+v", e)
	}

	decodeError(t, do(t, r, http.MethodPatch, base+"/variants/abc", map[string]any{}), http.StatusBadRequest)
	decodeError(t, do(t, r, http.MethodPut, base+"/variants/0/images", map[string]any{"urls": []string{"not a url"}}), http.StatusBadRequest)
	decodeError(t, do(t, r, http.MethodGet, base+"/export?format=pdf", nil), http.StatusBadRequest)
	decodeError(t, do(t, r, http.MethodPost, base+"/submit", nil), http.StatusServiceUnavailable)
	decodeError(t, do(t, r, http.MethodGet, "/api/admin/editors/nope", nil), http.StatusNotFound)
}

func TestEditorGenerateWithoutAxes(t *testing.T) {
	r := newTestServer(t, nil)
	created := decodeEditor(t, do(t, r, http.MethodPost, "/api/admin/editors", nil), http.StatusCreated)

	gen := decodeEditor(t, do(t, r, http.MethodPost, "/api/admin/editors/"+created.ID+"/generate", nil), http.StatusOK)
	if gen.Generated == nil || *gen.Generated || len(gen.State.Variants) != 0 {
		t.Errorf("generate without axes = %+v", gen)
	}
}

func TestEditorHydrateDeleteSubmit(t *testing.T) {
	cat := &fakeCatalog{
		items: []variants.PersistedVariant{
			{ID: "a", Options: map[string]string{"Size": "S"}, Price: "10.00", Quantity: "1"},
			{ID: "b", Options: map[string]string{"Size": "M"}, Price: "11.00", Quantity: "2"},
		},
		deleteErr: errors.New("upstream down"),
	}
	r := newTestServer(t, cat)

	decodeError(t, do(t, r, http.MethodPost, "/api/admin/editors", map[string]any{"product_id": "p9"}), http.StatusNotFound)

	created := decodeEditor(t, do(t, r, http.MethodPost, "/api/admin/editors", map[string]any{"product_id": "p1"}), http.StatusCreated)
	if created.State.ProductName != "Tee" || created.State.GroupBy != "Size" || len(created.State.Variants) != 2 {
		t.Fatalf("hydrated = %+v", created.State)
	}
	base := "/api/admin/editors/" + created.ID

	// The upstream delete fails; the local removal stands.
	del := decodeEditor(t, do(t, r, http.MethodPost, base+"/variants/delete", map[string]any{"indices": []int{0}}), http.StatusOK)
	if len(del.State.Variants) != 1 || len(del.State.PendingDeletes) != 0 {
		t.Errorf("after delete = %+v", del.State)
	}
	if len(cat.deleted) != 1 || cat.deleted[0] != "a" {
		t.Errorf("upstream deletes = %v", cat.deleted)
	}

	decodeEditor(t, do(t, r, http.MethodPatch, base+"/sections/0/options/0", map[string]any{"values_input": "M, L, "}), http.StatusOK)
	decodeEditor(t, do(t, r, http.MethodPost, base+"/generate", nil), http.StatusOK)

	sub := decodeEditor(t, do(t, r, http.MethodPost, base+"/submit", nil), http.StatusOK)
	if len(cat.submitted) != 2 {
		t.Fatalf("submitted %d records", len(cat.submitted))
	}
	ids := []string{sub.State.Variants[0].ID, sub.State.Variants[1].ID}
	if ids[0] != "new-0" || ids[1] != "new-1" || len(sub.State.PendingDeletes) != 0 {
		t.Errorf("ids after submit = %v, pending %v", ids, sub.State.PendingDeletes)
	}
	// Regenerating replaced b, so the submit deleted it along with the save.
	if len(cat.deleted) != 2 || cat.deleted[1] != "b" {
		t.Errorf("upstream deletes = %v", cat.deleted)
	}
	if sub.State.Variants[0].OfferPrice != "11.00" {
		t.Errorf("regenerate lost the template price: %+v", sub.State.Variants[0])
	}
}

func TestEditorRejectedSubmitKeepsRows(t *testing.T) {
	cat := &fakeCatalog{
		items: []variants.PersistedVariant{
			{ID: "db-1", Options: map[string]string{"Size": "S"}, Price: "10.00"},
			{ID: "db-2", Options: map[string]string{"Size": "M"}, Price: "10.00"},
		},
		saveErr: apperr.InvalidErr("Varyant bilgilerini kontrol edin.", map[string]string{"variants[0].offer_price": "Geçerli bir fiyat girin."}),
	}
	r := newTestServer(t, cat)

	created := decodeEditor(t, do(t, r, http.MethodPost, "/api/admin/editors", map[string]any{"product_id": "p1"}), http.StatusCreated)
	base := "/api/admin/editors/" + created.ID
	decodeEditor(t, do(t, r, http.MethodPatch, base+"/sections/0/options/0", map[string]any{"values_input": "S, M, L, "}), http.StatusOK)
	gen := decodeEditor(t, do(t, r, http.MethodPost, base+"/generate", nil), http.StatusOK)
	if len(gen.State.PendingDeletes) != 2 {
		t.Fatalf("pending = %v", gen.State.PendingDeletes)
	}

	e := decodeError(t, do(t, r, http.MethodPost, base+"/submit", nil), http.StatusBadRequest)
	if _, ok := e.Fields["variants[0].offer_price"]; !ok {
		t.Errorf("fields = %v", e.Fields)
	}
	if len(cat.deleted) != 0 {
		t.Errorf("rejected submit deleted %v upstream", cat.deleted)
	}

	st := decodeEditor(t, do(t, r, http.MethodGet, base, nil), http.StatusOK).State
	if len(st.PendingDeletes) != 2 {
		t.Errorf("queue lost after rejected submit: %v", st.PendingDeletes)
	}
}

func TestEditorMultipartImages(t *testing.T) {
	r := newTestServer(t, nil)
	base := "/api/admin/editors/" + newMatrix(t, r)

	upload := func(filename string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("images", filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("fake image"))
		_ = mw.Close()

		req := httptest.NewRequest(http.MethodPut, base+"/variants/0/images", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	resp := decodeEditor(t, upload("front.png"), http.StatusOK)
	ref := resp.State.Variants[0].Images[0].File
	if ref == nil || ref.Filename != "front.png" {
		t.Fatalf("slot 0 = %+v", resp.State.Variants[0].Images[0])
	}
	if b, err := os.ReadFile(ref.Path); err != nil || string(b) != "fake image" {
		t.Errorf("staged file = %q, %v", b, err)
	}

	decodeError(t, upload("virus.exe"), http.StatusBadRequest)
}
