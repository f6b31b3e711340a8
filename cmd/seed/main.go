package main

import (
	"fmt"
	"log"

	"github.com/AngelinaFiera614/wrenchmark-sub010/config"
	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// init loads environment variables
func init() {
	_ = godotenv.Load()
}

// main migrates the catalog tables and loads a small development catalog
// Usage: go run ./cmd/seed
func main() {
	fmt.Println("════════════════════════════════════════════════════════════")
	fmt.Println("WRENCHMARK - Catalog Seeder")
	fmt.Println("════════════════════════════════════════════════════════════")

	config.InitDB()
	defer config.CloseDB()
	log.Println("✓ Connected to database")

	if err := config.CatalogGorm.AutoMigrate(&models.Category{}, &models.Manufacturer{}, &models.Motorcycle{}); err != nil {
		log.Fatalf("❌ Migration failed: %v", err)
	}
	log.Println("✓ Tables migrated")

	if err := config.CatalogGorm.Transaction(seedCatalog); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	fmt.Println()
	fmt.Println("✅ Catalog seeded. Next: go run main.go, then GET /api/v1/store/filters/metadata")
}

func seedCatalog(tx *gorm.DB) error {
	categories := map[string]*models.Category{}
	for _, name := range []string{"Sport", "Touring", "Adventure", "Naked", "Cruiser"} {
		cat := &models.Category{Name: name, Status: "Active"}
		if err := upsertByName(tx, name, cat); err != nil {
			return fmt.Errorf("category %s: %w", name, err)
		}
		categories[name] = cat
	}

	manufacturers := map[string]*models.Manufacturer{}
	for name, country := range map[string]string{"Honda": "Japan", "Yamaha": "Japan", "Ducati": "Italy", "BMW": "Germany"} {
		m := &models.Manufacturer{Name: name, Country: country, Status: "Active"}
		if err := upsertByName(tx, name, m); err != nil {
			return fmt.Errorf("manufacturer %s: %w", name, err)
		}
		manufacturers[name] = m
	}

	bikes := []struct {
		make, category, model string
		year, cc, seat        int
		weight                float64
		abs, entry            bool
	}{
		{"Honda", "Sport", "CBR500R", 2023, 471, 785, 192, true, true},
		{"Honda", "Adventure", "Africa Twin", 2024, 1084, 850, 226, true, false},
		{"Yamaha", "Naked", "MT-07", 2022, 689, 805, 184, true, true},
		{"Ducati", "Sport", "Panigale V4", 2024, 1103, 850, 191, true, false},
		{"BMW", "Touring", "R 1250 RT", 2021, 1254, 805, 279, true, false},
	}
	for _, b := range bikes {
		bike := models.Motorcycle{
			ManufacturerID: manufacturers[b.make].ID,
			CategoryID:     categories[b.category].ID,
			Model:          b.model,
			Year:           b.year,
			EngineSizeCC:   b.cc,
			WeightKg:       b.weight,
			SeatHeightMM:   b.seat,
			ABS:            b.abs,
			IsEntryLevel:   b.entry,
			Status:         "Active",
		}
		key := models.Motorcycle{ManufacturerID: bike.ManufacturerID, Model: bike.Model, Year: bike.Year}
		if err := tx.Where(&key).FirstOrCreate(&bike).Error; err != nil {
			return fmt.Errorf("motorcycle %s: %w", b.model, err)
		}
		log.Printf("✓ %s %s (%d)", b.make, b.model, b.year)
	}
	return nil
}

// upsertByName inserts row unless a row with the same name exists, then
// reloads it by name so row carries the stored ID either way
func upsertByName[T any](tx *gorm.DB, name string, row *T) error {
	if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).Create(row).Error; err != nil {
		return err
	}
	var stored T
	if err := tx.Where("name = ?", name).Take(&stored).Error; err != nil {
		return err
	}
	*row = stored
	return nil
}
