package engine

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultIncrementPerM3 applies to any species missing from the table,
// including empty input.
var DefaultIncrementPerM3 = decimal.NewFromInt(2)

// Minimum bid increments per m³ by dominant species. Hardwoods carry larger
// steps than bulk softwood.
var speciesIncrements = map[string]decimal.Decimal{
	"oak":    decimal.NewFromInt(3),
	"beech":  decimal.RequireFromString("2.5"),
	"ash":    decimal.RequireFromString("2.5"),
	"maple":  decimal.RequireFromString("2.5"),
	"pine":   decimal.NewFromInt(2),
	"spruce": decimal.NewFromInt(2),
	"fir":    decimal.NewFromInt(2),
	"larch":  decimal.NewFromInt(2),
	"birch":  decimal.RequireFromString("1.5"),
	"alder":  decimal.RequireFromString("1.5"),
	"poplar": decimal.NewFromInt(1),
}

// IncrementFor returns the minimum bid increment per m³ for a dominant
// species. Total function: unknown species fall back to the default.
func IncrementFor(dominantSpecies string) decimal.Decimal {
	key := strings.ToLower(strings.TrimSpace(dominantSpecies))
	if inc, ok := speciesIncrements[key]; ok {
		return inc
	}
	return DefaultIncrementPerM3
}
