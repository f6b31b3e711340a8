package filter_controller

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/AngelinaFiera614/wrenchmark-sub010/filters"
	"github.com/AngelinaFiera614/wrenchmark-sub010/models"
	"github.com/gin-gonic/gin"
)

// GetActiveFilterCount godoc
// @Summary Count active filters
// @Description Counts the filters in the query string that differ from their default. Unparseable values count as unset.
// @Tags store
// @Produce json
// @Param q query string false "Search term"
// @Param category query []string false "Category names (repeatable)"
// @Param make query string false "Manufacturer"
// @Param yearMin query number false "Minimum model year"
// @Param yearMax query number false "Maximum model year"
// @Param engineMin query number false "Minimum engine size (cc)"
// @Param engineMax query number false "Maximum engine size (cc)"
// @Param weightMin query number false "Minimum weight (kg)"
// @Param weightMax query number false "Maximum weight (kg)"
// @Param seatHeightMin query number false "Minimum seat height (mm)"
// @Param seatHeightMax query number false "Maximum seat height (mm)"
// @Param entryLevel query bool false "Entry level only"
// @Param abs query bool false "ABS only"
// @Success 200 {object} models.ApiResponse{data=models.ActiveFilterCount}
// @Router /store/filters/active-count [get]
func GetActiveFilterCount(c *gin.Context) {
	record := parseFilterQuery(c).Record()
	count := filters.CountActive(models.MotorcycleFilterSchema, record)

	c.JSON(http.StatusOK, models.SuccessResponse(c, "Active filters counted", models.ActiveFilterCount{
		ActiveCount: count,
		IsFiltering: count > 0,
	}))
}

// parseFilterQuery reads the filter panel's query string. It never fails:
// malformed numbers and booleans are treated as unset.
func parseFilterQuery(c *gin.Context) models.MotorcycleFilters {
	var categories []string
	for _, name := range c.QueryArray("category") {
		if name = strings.TrimSpace(name); name != "" {
			categories = append(categories, name)
		}
	}

	return models.MotorcycleFilters{
		SearchTerm:      strings.TrimSpace(c.Query("q")),
		Categories:      categories,
		Make:            strings.TrimSpace(c.Query("make")),
		YearRange:       queryRange(c, "yearMin", "yearMax"),
		EngineSizeRange: queryRange(c, "engineMin", "engineMax"),
		WeightRange:     queryRange(c, "weightMin", "weightMax"),
		SeatHeightRange: queryRange(c, "seatHeightMin", "seatHeightMax"),
		IsEntryLevel:    queryBool(c, "entryLevel"),
		ABS:             queryBool(c, "abs"),
	}
}

// queryRange builds a range from optional bounds; a missing bound is open.
func queryRange(c *gin.Context, minKey, maxKey string) *filters.Range {
	lo, hasMin := queryFloat(c, minKey)
	hi, hasMax := queryFloat(c, maxKey)
	if !hasMin && !hasMax {
		return nil
	}
	if !hasMin {
		lo = -math.MaxFloat64
	}
	if !hasMax {
		hi = math.MaxFloat64
	}
	return &filters.Range{Min: lo, Max: hi}
}

func queryFloat(c *gin.Context, key string) (float64, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func queryBool(c *gin.Context, key string) bool {
	v, err := strconv.ParseBool(c.Query(key))
	return err == nil && v
}
