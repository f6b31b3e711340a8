package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category represents a motorcycle category (Sport, Touring, ...)
type Category struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string     `json:"name" gorm:"not null;uniqueIndex"`
	Status    string     `json:"status" gorm:"type:varchar(20);default:'Active';check:status IN ('Active', 'Inactive')"`
	ParentID  *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`
	CreatedAt time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	Children []*Category `json:"children,omitempty" gorm:"foreignKey:ParentID"`
}

// Manufacturer represents a motorcycle brand
type Manufacturer struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name      string    `json:"name" gorm:"not null;uniqueIndex"`
	Country   string    `json:"country"`
	Status    string    `json:"status" gorm:"type:varchar(20);default:'Active';check:status IN ('Active', 'Inactive')"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// Motorcycle is one model year of a motorcycle in the catalog
type Motorcycle struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	ManufacturerID uuid.UUID `json:"manufacturer_id" gorm:"type:uuid;index;not null"`
	CategoryID     uuid.UUID `json:"category_id" gorm:"type:uuid;index;not null"`
	Model          string    `json:"model" gorm:"not null"`
	Year           int       `json:"year" gorm:"index"`
	EngineSizeCC   int       `json:"engine_size_cc" gorm:"column:engine_size_cc"`
	WeightKg       float64   `json:"weight_kg"`
	SeatHeightMM   int       `json:"seat_height_mm" gorm:"column:seat_height_mm"`
	ABS            bool      `json:"abs" gorm:"column:abs"`
	IsEntryLevel   bool      `json:"is_entry_level"`
	Status         string    `json:"status" gorm:"type:varchar(20);default:'Active';check:status IN ('Active', 'Inactive')"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.Must(uuid.NewV7())
	}
}

// BeforeCreate hooks - auto-generate UUID v7 if not set
func (c *Category) BeforeCreate(tx *gorm.DB) error {
	newID(&c.ID)
	return nil
}

func (m *Manufacturer) BeforeCreate(tx *gorm.DB) error {
	newID(&m.ID)
	return nil
}

func (m *Motorcycle) BeforeCreate(tx *gorm.DB) error {
	newID(&m.ID)
	return nil
}

func (Category) TableName() string     { return "categories" }
func (Manufacturer) TableName() string { return "manufacturers" }
func (Motorcycle) TableName() string   { return "motorcycles" }
