package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	metadata_cache "github.com/AngelinaFiera614/wrenchmark-sub010/cache"
	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"gorm.io/gorm"
)

// MetadataSource loads the catalog vocabulary shown next to the filters
type MetadataSource interface {
	Load(ctx context.Context) (*models.FilterMetadata, error)
}

// GormMetadataSource reads categories, manufacturers and catalog ranges
// from the catalog database, caching the result
type GormMetadataSource struct {
	db    *gorm.DB
	cache *metadata_cache.Cache
}

// NewGormMetadataSource creates a metadata source backed by db
func NewGormMetadataSource(db *gorm.DB, cache *metadata_cache.Cache) *GormMetadataSource {
	return &GormMetadataSource{db: db, cache: cache}
}

// Load returns cached metadata or runs the queries concurrently
func (s *GormMetadataSource) Load(ctx context.Context) (*models.FilterMetadata, error) {
	if md, ok := s.cache.Get(); ok {
		return md, nil
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	metadata := &models.FilterMetadata{}
	var errs []error

	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := fn(ctx)
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
			}
		}()
	}

	run("categories", func(ctx context.Context) error {
		categories, err := s.categories(ctx)
		mu.Lock()
		defer mu.Unlock()
		metadata.Categories = categories
		return err
	})
	run("manufacturers", func(ctx context.Context) error {
		manufacturers, err := s.manufacturers(ctx)
		mu.Lock()
		defer mu.Unlock()
		metadata.Manufacturers = manufacturers
		return err
	})
	run("year range", func(ctx context.Context) error {
		yr, err := s.columnRange(ctx, "year", 1980, 2026)
		mu.Lock()
		defer mu.Unlock()
		metadata.YearRange = yr
		return err
	})
	run("engine size range", func(ctx context.Context) error {
		er, err := s.columnRange(ctx, "engine_size_cc", 50, 2500)
		mu.Lock()
		defer mu.Unlock()
		metadata.EngineSizeRange = er
		return err
	})

	wg.Wait()

	if len(errs) > 0 {
		log.Printf("[filters] metadata load failed: %v", errs)
		return nil, errors.Join(errs...)
	}

	s.cache.Set(metadata)
	return metadata, nil
}

// categories fetches active categories and nests subcategories under their parent
func (s *GormMetadataSource) categories(ctx context.Context) ([]models.CategoryData, error) {
	query := `
		SELECT
			id::text AS id,
			name,
			parent_id::text AS parent_id
		FROM categories
		WHERE status = 'Active'
		ORDER BY created_at ASC
	`

	var rows []struct {
		ID       string  `gorm:"column:id"`
		Name     string  `gorm:"column:name"`
		ParentID *string `gorm:"column:parent_id"`
	}
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}

	// First pass: parents in query order
	parents := make([]models.CategoryData, 0)
	index := make(map[string]int)
	for _, row := range rows {
		if row.ParentID == nil {
			index[row.ID] = len(parents)
			parents = append(parents, models.CategoryData{
				ID:            row.ID,
				Name:          row.Name,
				Subcategories: []models.CategoryData{},
			})
		}
	}

	// Second pass: attach children, dropping orphans
	for _, row := range rows {
		if row.ParentID == nil {
			continue
		}
		if i, ok := index[*row.ParentID]; ok {
			parents[i].Subcategories = append(parents[i].Subcategories, models.CategoryData{
				ID:       row.ID,
				Name:     row.Name,
				ParentID: *row.ParentID,
			})
		}
	}

	return parents, nil
}

// manufacturers fetches active brands with their model counts
func (s *GormMetadataSource) manufacturers(ctx context.Context) ([]models.ManufacturerData, error) {
	query := `
		SELECT
			m.id::text AS id,
			m.name,
			COUNT(mc.id)::int AS models
		FROM manufacturers m
		LEFT JOIN motorcycles mc ON mc.manufacturer_id = m.id AND mc.status = 'Active'
		WHERE m.status = 'Active'
		GROUP BY m.id, m.name
		ORDER BY m.name ASC
	`

	manufacturers := make([]models.ManufacturerData, 0)
	if err := s.db.WithContext(ctx).Raw(query).Scan(&manufacturers).Error; err != nil {
		return nil, err
	}
	return manufacturers, nil
}

// columnRange reads MIN/MAX of a motorcycles column. column is never user input.
func (s *GormMetadataSource) columnRange(ctx context.Context, column string, defMin, defMax float64) (*models.RangeData, error) {
	query := fmt.Sprintf(`
		SELECT
			COALESCE(MIN(%[1]s), ?)::float8 AS min,
			COALESCE(MAX(%[1]s), ?)::float8 AS max
		FROM motorcycles
		WHERE status = 'Active'
	`, column)

	var r models.RangeData
	if err := s.db.WithContext(ctx).Raw(query, defMin, defMax).Scan(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}
