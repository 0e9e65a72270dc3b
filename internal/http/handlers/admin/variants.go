package admin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"pehlione.com/catalog/internal/http/middleware"
	"pehlione.com/catalog/internal/http/validation"
	"pehlione.com/catalog/internal/modules/exports"
	"pehlione.com/catalog/internal/modules/products"
	"pehlione.com/catalog/internal/modules/variants"
	"pehlione.com/catalog/internal/sessions"
	"pehlione.com/catalog/internal/shared/apperr"
	"pehlione.com/catalog/internal/shared/slug"
)

// CatalogService is the persistence side of the editor.
type CatalogService interface {
	Load(ctx context.Context, productID string) (products.Product, []variants.PersistedVariant, error)
	// SaveMatrix writes records and deletes removeIDs atomically.
	SaveMatrix(ctx context.Context, productID string, records []variants.VariantRecord, removeIDs []string) ([]variants.VariantRecord, error)
	DeleteVariants(ctx context.Context, productID string, ids []string) error
}

// VariantsHandler serves the variant matrix editor. Catalog may be nil, in
// which case editors cannot be hydrated or submitted.
type VariantsHandler struct {
	Store   sessions.Store
	Catalog CatalogService
	SKUs    variants.SKUGenerator
	Staging string
	Log     *slog.Logger
}

func NewVariantsHandler(store sessions.Store, catalog CatalogService, skus variants.SKUGenerator, staging string, log *slog.Logger) *VariantsHandler {
	if log == nil {
		log = slog.Default()
	}
	if staging == "" {
		staging = filepath.Join(os.TempDir(), "catalog-staging")
	}
	return &VariantsHandler{Store: store, Catalog: catalog, SKUs: skus, Staging: staging, Log: log}
}

func (h *VariantsHandler) Register(g *gin.RouterGroup) {
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.DELETE("/:id", h.Delete)

	g.PUT("/:id/sections", h.SetSections)
	g.POST("/:id/sections", h.AddSection)
	g.POST("/:id/sections/:section/options", h.AddOption)
	g.PATCH("/:id/sections/:section/options/:option", h.EditOption)
	g.DELETE("/:id/sections/:section/options/:option", h.RemoveOption)
	g.POST("/:id/sections/:section/options/:option/chips", h.Chip)

	g.POST("/:id/generate", h.Generate)
	g.PATCH("/:id/variants/:index", h.UpdateVariant)
	g.PUT("/:id/variants/:index/images", h.SetVariantImages)
	g.POST("/:id/variants/delete", h.DeleteVariants)
	g.POST("/:id/reorder", h.Reorder)

	g.PUT("/:id/group-by", h.SetGroupBy)
	g.PUT("/:id/search", h.SetSearch)
	g.POST("/:id/groups/:group/toggle", h.ToggleGroup)
	g.PUT("/:id/groups/:group/images", h.SetGroupImages)

	g.POST("/:id/skus", h.FillSKUs)
	g.POST("/:id/submit", h.Submit)
	g.GET("/:id/export", h.Export)
}

type editorResponse struct {
	ID        string          `json:"id"`
	State     variants.State  `json:"state"`
	Layout    variants.Layout `json:"layout"`
	Axes      []string        `json:"axes"`
	Generated *bool           `json:"generated,omitempty"`
	Touched   *int            `json:"touched,omitempty"`
}

func (h *VariantsHandler) view(id string, st variants.State) editorResponse {
	e := variants.NewEditor(st, h.SKUs)
	return editorResponse{ID: id, State: e.State(), Layout: e.Layout(), Axes: e.Axes()}
}

type createEditorRequest struct {
	ProductID   string `json:"product_id" binding:"omitempty,max=36"`
	ProductName string `json:"product_name" binding:"max=255"`
}

// Create opens an editor session, hydrated from the stored product when
// product_id is given.
func (h *VariantsHandler) Create(c *gin.Context) {
	var req createEditorRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.Fail(c, apperr.InvalidErr("İstek verileri geçersiz.", validation.FromBindError(err, &req)))
		return
	}

	e := variants.NewEditor(variants.State{ProductName: strings.TrimSpace(req.ProductName)}, h.SKUs)
	if req.ProductID != "" {
		if h.Catalog == nil {
			middleware.Fail(c, apperr.UnavailableErr("Ürün deposu yapılandırılmadı."))
			return
		}
		p, items, err := h.Catalog.Load(c.Request.Context(), req.ProductID)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		name := e.State().ProductName
		if name == "" {
			name = p.Name
		}
		e.Hydrate(p.ID, name, items)
	}

	id, err := h.Store.Create(c.Request.Context(), e.State())
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	c.JSON(http.StatusCreated, h.view(id, e.State()))
}

// Get returns the state and layout. ?q= previews a search without storing it.
func (h *VariantsHandler) Get(c *gin.Context) {
	id := c.Param("id")
	st, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, editorErr(err))
		return
	}
	if q, ok := c.GetQuery("q"); ok {
		st.Search = q
	}
	c.JSON(http.StatusOK, h.view(id, st))
}

func (h *VariantsHandler) Delete(c *gin.Context) {
	if err := h.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		middleware.Fail(c, editorErr(err))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *VariantsHandler) Generate(c *gin.Context) {
	var ok bool
	h.mutateWith(c, func(e *variants.Editor) error {
		ok = e.Generate()
		return nil
	}, func(r *editorResponse) { r.Generated = &ok })
}

type deleteVariantsRequest struct {
	Indices []int `json:"indices" binding:"required,min=1,dive,gte=0"`
}

// DeleteVariants removes rows locally right away. Persisted rows are then
// deleted upstream; a failure there is logged and the local removal stands.
func (h *VariantsHandler) DeleteVariants(c *gin.Context) {
	var req deleteVariantsRequest
	if !bind(c, &req) {
		return
	}

	var productID string
	var ids []string
	st, ok := h.update(c, func(e *variants.Editor) error {
		e.DeleteVariants(req.Indices)
		productID = e.State().ProductID
		ids = nil
		if h.Catalog != nil && productID != "" {
			ids = e.TakeDeletions()
		}
		return nil
	})
	if !ok {
		return
	}

	if len(ids) > 0 {
		if err := h.Catalog.DeleteVariants(c.Request.Context(), productID, ids); err != nil {
			h.Log.Warn("upstream_variant_delete_failed",
				slog.String("request_id", middleware.GetRequestID(c)),
				slog.String("product_id", productID),
				slog.Any("variant_ids", ids),
				slog.Any("err", err),
			)
		}
	}
	c.JSON(http.StatusOK, h.view(c.Param("id"), st))
}

// Submit saves the matrix together with the queued deletions and folds the
// saved identities back into the session. A rejected save deletes nothing
// and leaves the queue intact.
func (h *VariantsHandler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	st, err := h.Store.Get(ctx, id)
	if err != nil {
		middleware.Fail(c, editorErr(err))
		return
	}
	if h.Catalog == nil {
		middleware.Fail(c, apperr.UnavailableErr("Ürün deposu yapılandırılmadı."))
		return
	}
	if st.ProductID == "" {
		middleware.Fail(c, apperr.InvalidErr("Önce bir ürün seçin.", map[string]string{"product_id": "Bu alan zorunludur."}))
		return
	}

	flushed := st.PendingDeletes
	saved, err := h.Catalog.SaveMatrix(ctx, st.ProductID, st.Variants, flushed)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	submitted := st.Variants
	st, ok := h.update(c, func(e *variants.Editor) error {
		e.ApplySaved(saved)
		return nil
	}, func(st *variants.State) {
		st.PendingDeletes = without(st.PendingDeletes, flushed)
	})
	if !ok {
		return
	}
	h.removeStaged(submitted, st.Variants)
	c.JSON(http.StatusOK, h.view(id, st))
}

// Export writes the matrix as ?format=csv (default) or xlsx.
func (h *VariantsHandler) Export(c *gin.Context) {
	id := c.Param("id")
	st, err := h.Store.Get(c.Request.Context(), id)
	if err != nil {
		middleware.Fail(c, editorErr(err))
		return
	}
	rows := exports.Rows(st.Variants, st.GroupBy, st.GroupImages)

	format := c.DefaultQuery("format", "csv")
	switch format {
	case "csv":
		c.Header("Content-Type", "text/csv; charset=utf-8")
	case "xlsx":
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	default:
		middleware.Fail(c, apperr.InvalidErr("Desteklenmeyen dışa aktarma biçimi.", map[string]string{"format": "Şunlardan biri olmalıdır: csv xlsx."}))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="variants-%s.%s"`, exportName(st), format))
	c.Status(http.StatusOK)

	if format == "xlsx" {
		err = exports.WriteXLSX(c.Writer, rows)
	} else {
		err = exports.WriteCSV(c.Writer, rows)
	}
	if err != nil {
		h.Log.Error("export_failed", slog.String("editor_id", id), slog.Any("err", err))
	}
}

// update runs fn against the stored editor state. after hooks edit the
// state directly once fn succeeded.
func (h *VariantsHandler) update(c *gin.Context, fn func(e *variants.Editor) error, after ...func(*variants.State)) (variants.State, bool) {
	st, err := h.Store.Update(c.Request.Context(), c.Param("id"), func(st *variants.State) error {
		e := variants.NewEditor(*st, h.SKUs)
		if err := fn(e); err != nil {
			return err
		}
		*st = e.State()
		for _, a := range after {
			a(st)
		}
		return nil
	})
	if err != nil {
		middleware.Fail(c, editorErr(err))
		return variants.State{}, false
	}
	return st, true
}

func (h *VariantsHandler) mutate(c *gin.Context, fn func(e *variants.Editor) error) {
	h.mutateWith(c, fn, nil)
}

func (h *VariantsHandler) mutateWith(c *gin.Context, fn func(e *variants.Editor) error, decorate func(*editorResponse)) {
	st, ok := h.update(c, fn)
	if !ok {
		return
	}
	resp := h.view(c.Param("id"), st)
	if decorate != nil {
		decorate(&resp)
	}
	c.JSON(http.StatusOK, resp)
}

// removeStaged deletes staged upload files the submit stored, keeping
// any that the session still points at.
func (h *VariantsHandler) removeStaged(submitted, current []variants.VariantRecord) {
	keep := stagedPaths(current)
	for p := range stagedPaths(submitted) {
		if _, ok := keep[p]; ok {
			continue
		}
		if rel, err := filepath.Rel(h.Staging, p); err != nil || strings.HasPrefix(rel, "..") {
			continue
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			h.Log.Warn("staged_upload_cleanup_failed", slog.String("path", p), slog.Any("err", err))
		}
	}
}

func stagedPaths(vs []variants.VariantRecord) map[string]struct{} {
	out := map[string]struct{}{}
	for _, v := range vs {
		for _, im := range v.Images {
			if im.File != nil {
				out[im.File.Path] = struct{}{}
			}
		}
	}
	return out
}

func bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.Fail(c, apperr.InvalidErr("İstek verileri geçersiz.", validation.FromBindError(err, dst)))
		return false
	}
	return true
}

func paramIndex(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		middleware.Fail(c, apperr.InvalidErr("Geçersiz sıra numarası.", map[string]string{name: "Negatif olmayan bir tam sayı olmalıdır."}))
		return 0, false
	}
	return n, true
}

func editorErr(err error) error {
	switch {
	case errors.Is(err, sessions.ErrNotFound):
		return apperr.NotFoundErr("Düzenleme oturumu bulunamadı.").WithErr(err)
	case errors.Is(err, sessions.ErrConflict):
		return apperr.ConflictErr("Oturum aynı anda değiştirildi, tekrar deneyin.").WithErr(err)
	case errors.Is(err, variants.ErrIndexOutOfRange):
		return apperr.InvalidErr("Varyant bulunamadı.", map[string]string{"index": "Geçersiz varyant."}).WithErr(err)
	case errors.Is(err, variants.ErrSectionOutOfRange):
		return apperr.InvalidErr("Bölüm bulunamadı.", map[string]string{"section": "Geçersiz bölüm."}).WithErr(err)
	case errors.Is(err, variants.ErrOptionOutOfRange):
		return apperr.InvalidErr("Seçenek bulunamadı.", map[string]string{"option": "Geçersiz seçenek."}).WithErr(err)
	case errors.Is(err, variants.ErrInvalidStockStatus):
		return apperr.InvalidErr("Geçersiz stok durumu.", map[string]string{"stock_status": "Şunlardan biri olmalıdır: instock outofstock onbackorder."}).WithErr(err)
	case errors.Is(err, variants.ErrUnknownGroupBy):
		return apperr.InvalidErr("Gruplama seçeneği bulunamadı.", map[string]string{"group_by": "Varyantlarda olmayan bir seçenek."}).WithErr(err)
	default:
		return apperr.Wrap(err)
	}
}

func without(ids, drop []string) []string {
	if len(drop) == 0 {
		return ids
	}
	skip := make(map[string]struct{}, len(drop))
	for _, id := range drop {
		skip[id] = struct{}{}
	}
	var out []string
	for _, id := range ids {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func exportName(st variants.State) string {
	if st.ProductID != "" {
		return st.ProductID
	}
	return slug.FromName(st.ProductName)
}
