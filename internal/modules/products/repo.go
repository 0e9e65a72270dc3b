package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
)

type Repository interface {
	GetProduct(ctx context.Context, id string) (Product, error)
	SaveVariants(ctx context.Context, productID string, rows []Variant, removeIDs []string) ([]Variant, error)
	DeleteVariants(ctx context.Context, productID string, ids []string) error
}

type GormRepo struct {
	db *gorm.DB
}

func NewGormRepo(db *gorm.DB) *GormRepo {
	return &GormRepo{db: db}
}

func (r *GormRepo) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, created_at ASC")
		}).
		First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, err
}

// SaveVariants deletes removeIDs, creates rows without an ID and updates the
// rest, all in one transaction. Returned rows carry their IDs.
func (r *GormRepo) SaveVariants(ctx context.Context, productID string, rows []Variant, removeIDs []string) ([]Variant, error) {
	var saved []Variant
	err := withTxRetry(ctx, r.db, 3, func(tx *gorm.DB) error {
		saved = make([]Variant, 0, len(rows))

		var n int64
		if err := tx.Model(&Product{}).Where("id = ?", productID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}

		// deletions go first so a freed SKU can be reused by a new row
		if len(removeIDs) > 0 {
			if err := tx.Where("product_id = ? AND id IN ?", productID, removeIDs).
				Delete(&Variant{}).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		for _, v := range rows {
			v.ProductID = productID
			v.UpdatedAt = now

			if v.ID == "" {
				v.ID = uuid.NewString()
				v.CreatedAt = now
				if err := tx.Create(&v).Error; err != nil {
					return err
				}
				saved = append(saved, v)
				continue
			}

			res := tx.Model(&Variant{}).
				Where("id = ? AND product_id = ?", v.ID, productID).
				Updates(map[string]any{
					"sku":              v.SKU,
					"options_json":     v.Options,
					"position":         v.Position,
					"price_cents":      v.PriceCents,
					"compare_at_cents": v.CompareAtCents,
					"cost_cents":       v.CostCents,
					"currency":         v.Currency,
					"stock":            v.Stock,
					"stock_status":     v.StockStatus,
					"description":      v.Description,
					"images_json":      v.Images,
					"updated_at":       now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s", ErrVariantNotFound, v.ID)
			}
			saved = append(saved, v)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *GormRepo) DeleteVariants(ctx context.Context, productID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("product_id = ? AND id IN ?", productID, ids).
		Delete(&Variant{}).Error
}

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return false
}

// --- retry helpers (deadlock/lock timeout) ---

func withTxRetry(ctx context.Context, db *gorm.DB, attempts int, fn func(tx *gorm.DB) error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error

	for i := 0; i < attempts; i++ {
		err := db.WithContext(ctx).Transaction(fn)
		if err == nil {
			return nil
		}
		lastErr = err

		if isRetryableMySQLError(err) && i < attempts-1 {
			// küçük backoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(50*(i+1)) * time.Millisecond):
			}
			continue
		}
		return err
	}
	return lastErr
}

func isRetryableMySQLError(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		// 1213: Deadlock found; 1205: Lock wait timeout
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}
