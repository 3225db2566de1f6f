package holidays

import (
	"context"
	"errors"
	"time"
)

// Category filters the holiday set when the provider supports it for the
// requested country.
type Category string

const (
	CategoryPublic Category = "public"
	CategoryBank   Category = "bank"
)

var (
	// ErrCategoriesUnsupported means the provider cannot filter by bank/public
	// category for this country; callers should retry unfiltered.
	ErrCategoriesUnsupported = errors.New("holidays: category filtering not supported")

	// ErrLocaleUnsupported means the provider has no holiday names in the
	// requested locale; callers should skip the locale, not the generation.
	ErrLocaleUnsupported = errors.New("holidays: locale not supported")
)

// Holiday is one (date, localized name) pair as returned by the provider.
type Holiday struct {
	Date time.Time
	Name string
}

// Provider yields the holiday set for a country and year, named in the given
// locale, optionally restricted to categories.
type Provider interface {
	Holidays(ctx context.Context, country string, year int, locale string, categories []Category) ([]Holiday, error)
}
