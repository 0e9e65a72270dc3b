package products

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"gorm.io/datatypes"

	"pehlione.com/catalog/internal/modules/variants"
	"pehlione.com/catalog/internal/shared/apperr"
	"pehlione.com/catalog/internal/storage"
)

type Service struct {
	repo     Repository
	store    storage.Storage
	currency string
	log      *slog.Logger
}

func NewService(repo Repository, store storage.Storage, currency string, log *slog.Logger) *Service {
	if currency == "" {
		currency = "EUR"
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{repo: repo, store: store, currency: currency, log: log}
}

// Load returns the product and its variants in the shape the editor hydrates from.
func (s *Service) Load(ctx context.Context, productID string) (Product, []variants.PersistedVariant, error) {
	p, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		return Product{}, nil, translate(err)
	}

	items := make([]variants.PersistedVariant, 0, len(p.Variants))
	for _, v := range p.Variants {
		items = append(items, toPersisted(v))
	}
	return p, items, nil
}

// SaveMatrix validates the records, uploads pending image files and writes
// every row in one transaction, together with the deletion of removeIDs.
// Nothing is deleted when validation or the write fails. The returned
// records carry row IDs and stored image URLs.
func (s *Service) SaveMatrix(ctx context.Context, productID string, records []variants.VariantRecord, removeIDs []string) ([]variants.VariantRecord, error) {
	rows, err := s.rowsFrom(records)
	if err != nil {
		return nil, err
	}

	out := make([]variants.VariantRecord, len(records))
	var keys []string
	for i, r := range records {
		r = r.Clone()
		slots, uploaded, err := s.uploadPending(ctx, r.Images)
		keys = append(keys, uploaded...)
		if err != nil {
			s.discard(keys)
			return nil, apperr.UnavailableErr("Görseller yüklenemedi.").WithErr(err)
		}
		r.Images = slots
		rows[i].Images = datatypes.JSONSlice[string](variants.ImageURLs(slots.Set()))
		out[i] = r
	}

	removed := staleIDs(removeIDs, records)
	saved, err := s.repo.SaveVariants(ctx, productID, rows, removed)
	if err != nil {
		s.discard(keys)
		return nil, translate(err)
	}
	for i := range out {
		out[i].ID = saved[i].ID
	}

	s.log.Info("variant_matrix_saved",
		slog.String("product_id", productID),
		slog.Int("variants", len(out)),
		slog.Int("uploads", len(keys)),
		slog.Int("removed", len(removed)),
	)
	return out, nil
}

func (s *Service) DeleteVariants(ctx context.Context, productID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.repo.DeleteVariants(ctx, productID, ids); err != nil {
		return translate(err)
	}
	return nil
}

func (s *Service) rowsFrom(records []variants.VariantRecord) ([]Variant, error) {
	fields := map[string]string{}
	rows := make([]Variant, len(records))

	for i, r := range records {
		field := func(name string) string { return fmt.Sprintf("variants[%d].%s", i, name) }

		price, err := ParseCents(r.OfferPrice)
		if err != nil {
			fields[field("offer_price")] = "Geçerli bir fiyat girin."
		}
		mrp, err := ParseCents(r.MRP)
		if err != nil {
			fields[field("mrp")] = "Geçerli bir fiyat girin."
		}
		cost, err := ParseCents(r.CostPrice)
		if err != nil {
			fields[field("cost_price")] = "Geçerli bir fiyat girin."
		}
		qty, err := ParseQuantity(r.StockQuantity)
		if err != nil {
			fields[field("stock_quantity")] = "Stok negatif olmayan bir tam sayı olmalı."
		}
		status := r.StockStatus
		if status == "" {
			status = variants.InStock
		}
		if !status.Valid() {
			fields[field("stock_status")] = "Geçersiz stok durumu."
		}
		if len(r.SKU) > 64 {
			fields[field("sku")] = "SKU en fazla 64 karakter olabilir."
		}

		opts := datatypes.JSONMap{}
		for k, v := range variants.AttributesOf(r) {
			opts[k] = v
		}

		var sku *string
		if r.SKU != "" {
			code := r.SKU
			sku = &code
		}

		rows[i] = Variant{
			ID:             r.ID,
			SKU:            sku,
			Options:        opts,
			Position:       i,
			PriceCents:     price,
			CompareAtCents: mrp,
			CostCents:      cost,
			Stock:          qty,
			StockStatus:    string(status),
			Description:    r.Description,
		}
	}

	if len(fields) > 0 {
		return nil, apperr.InvalidErr("Varyant bilgilerini kontrol edin.", fields)
	}
	for i := range rows {
		rows[i].Currency = s.currency
	}
	return rows, nil
}

// uploadPending stores every slot that still points at a local file and
// returns the slots rewritten to URLs plus the storage keys it created.
func (s *Service) uploadPending(ctx context.Context, slots variants.ImageSlots) (variants.ImageSlots, []string, error) {
	var keys []string
	for i, im := range slots {
		if im.File == nil {
			continue
		}
		if s.store == nil {
			return slots, keys, errors.New("no image storage configured")
		}
		res, err := s.put(ctx, *im.File)
		if err != nil {
			return slots, keys, err
		}
		keys = append(keys, res.Key)
		slots[i] = variants.URLImage(res.URL)
	}
	return slots, keys, nil
}

func (s *Service) put(ctx context.Context, ref variants.FileRef) (storage.PutResult, error) {
	f, err := os.Open(ref.Path)
	if err != nil {
		return storage.PutResult{}, err
	}
	defer f.Close()

	var size int64
	if st, err := f.Stat(); err == nil {
		size = st.Size()
	}
	return s.store.Put(ctx, f, storage.PutInput{
		Filename:    ref.Filename,
		ContentType: ref.ContentType,
		Size:        size,
	})
}

// discard removes uploads whose rows never made it to the database.
func (s *Service) discard(keys []string) {
	for _, k := range keys {
		if err := s.store.Delete(context.Background(), k); err != nil {
			s.log.Warn("orphan_image_cleanup_failed", slog.String("key", k), slog.Any("err", err))
		}
	}
}

// staleIDs drops IDs that still belong to a submitted record.
func staleIDs(ids []string, records []variants.VariantRecord) []string {
	if len(ids) == 0 {
		return nil
	}
	live := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID != "" {
			live[r.ID] = struct{}{}
		}
	}
	var out []string
	for _, id := range ids {
		if _, ok := live[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func translate(err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return apperr.NotFoundErr("Ürün bulunamadı.").WithErr(err)
	case errors.Is(err, ErrVariantNotFound):
		return apperr.NotFoundErr("Varyant bulunamadı.").WithErr(err)
	case IsDuplicateKey(err):
		return apperr.ConflictErr("Bu SKU zaten kullanılıyor.").WithErr(err)
	default:
		return apperr.Wrap(err)
	}
}

func toPersisted(v Variant) variants.PersistedVariant {
	opts := make(map[string]string, len(v.Options))
	for k, val := range v.Options {
		opts[k] = fmt.Sprint(val)
	}

	p := variants.PersistedVariant{
		ID:          v.ID,
		Options:     opts,
		Price:       FormatCents(v.PriceCents),
		Description: v.Description,
		Quantity:    strconv.Itoa(v.Stock),
		StockStatus: v.StockStatus,
		Images:      append([]string(nil), v.Images...),
	}
	if v.SKU != nil {
		p.SKU = *v.SKU
	}
	if v.CompareAtCents > 0 {
		p.CompareAtPrice = FormatCents(v.CompareAtCents)
	}
	if v.CostCents > 0 {
		p.CostPrice = FormatCents(v.CostCents)
	}
	return p
}
