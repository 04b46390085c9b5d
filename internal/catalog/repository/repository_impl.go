package repository

import (
	"context"
	"strings"

	catalogdomain "github.com/smallbiznis/taxengine/internal/catalog/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) catalogdomain.Catalog {
	return &repository{db: db}
}

func (r *repository) FindSku(ctx context.Context, code string) (*catalogdomain.Sku, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, catalogdomain.ErrInvalidSkuCode
	}

	var record catalogdomain.SkuRecord
	err := r.db.WithContext(ctx).Raw(
		`SELECT id, code, display_name, tax_code_override, shippable, product_code,
		        product_tax_code_override, product_type_name, product_type_tax_code, created_at, updated_at
		 FROM catalog_skus
		 WHERE code = ?`,
		code,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return record.ToSku(), nil
}
