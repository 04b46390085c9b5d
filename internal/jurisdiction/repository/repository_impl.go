package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	jurisdictiondomain "github.com/smallbiznis/taxengine/internal/jurisdiction/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) jurisdictiondomain.Repository {
	return &repository{db: db}
}

func (r *repository) tree(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Preload("Categories.Regions", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Categories.Regions.Values", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

func (r *repository) ListByRegionCodes(ctx context.Context, codes []string) ([]jurisdictiondomain.TaxJurisdiction, error) {
	normalized := make([]string, 0, len(codes))
	for _, code := range codes {
		if trimmed := strings.ToUpper(strings.TrimSpace(code)); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}

	stmt := r.tree(ctx).Model(&jurisdictiondomain.TaxJurisdiction{})
	if len(normalized) > 0 {
		stmt = stmt.Where("region_code IN ?", normalized)
	}

	var items []jurisdictiondomain.TaxJurisdiction
	if err := stmt.Order("region_code ASC, id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*jurisdictiondomain.TaxJurisdiction, error) {
	var items []jurisdictiondomain.TaxJurisdiction
	if err := r.tree(ctx).Where("id = ?", id).Limit(1).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// Create inserts the jurisdiction and its category tree. IDs must be assigned by the caller.
func (r *repository) Create(ctx context.Context, j *jurisdictiondomain.TaxJurisdiction) error {
	if strings.TrimSpace(j.RegionCode) == "" {
		return jurisdictiondomain.ErrInvalidRegionCode
	}
	j.RegionCode = strings.ToUpper(strings.TrimSpace(j.RegionCode))
	return r.db.WithContext(ctx).Create(j).Error
}
