package models

import (
	"time"

	"github.com/AngelinaFiera614/wrenchmark-sub010/filters"
	"github.com/google/uuid"
)

// FilterSessionResponse is what the filter page sees after every change
type FilterSessionResponse struct {
	ID             uuid.UUID         `json:"id"`
	Filters        MotorcycleFilters `json:"filters"`
	ActiveCount    int               `json:"activeCount"`
	IsFiltering    bool              `json:"isFiltering"`
	RefreshPending bool              `json:"refreshPending"`
	Metadata       filters.Metadata  `json:"metadata"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// FilterSnapshot is published once per settled burst of filter edits
type FilterSnapshot struct {
	SessionID   uuid.UUID         `json:"sessionId"`
	OwnerID     string            `json:"ownerId"`
	Filters     MotorcycleFilters `json:"filters"`
	ActiveCount int               `json:"activeCount"`
	IsFiltering bool              `json:"isFiltering"`
	Revision    int64             `json:"revision"`
	RefreshedAt time.Time         `json:"refreshedAt"`
}

// ActiveFilterCount is the stateless count returned for a query string
type ActiveFilterCount struct {
	ActiveCount int  `json:"activeCount"`
	IsFiltering bool `json:"isFiltering"`
}
