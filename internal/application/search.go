package application

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Search screen defaults.
const (
	DefaultMaxDistance = 10
	DefaultMaxPrice    = 50
	AnyPetType         = "any"
)

// SearchSitters filters the sitters slice, seeding it from the catalog first
// when it is empty. Results are cached per filter until the slice changes.
func (c *Controller) SearchSitters(ctx context.Context, filter SitterFilter) ([]Sitter, error) {
	filter = normalizeFilter(filter)
	logger := c.loggerWith(ctx, "SearchSitters", "query", filter.Query, "pet_type", filter.PetType)

	if err := c.ensureSitters(ctx); err != nil {
		logger.ErrorContext(ctx, "sitter catalog unavailable", "error", err)
		return nil, err
	}

	if cached, ok := c.search.Get(filter); ok {
		c.metrics.IncSearchCache("hit")
		return cached, nil
	}
	c.metrics.IncSearchCache("miss")

	result := make([]Sitter, 0)
	for _, sitter := range c.store.Sitters() {
		if matchesFilter(sitter, filter) {
			result = append(result, sitter)
		}
	}
	c.search.Store(filter, result)
	logger.DebugContext(ctx, "sitter search", "results", len(result))
	return result, nil
}

// Sitter returns one sitter for the profile and booking screens. It reads the
// stored sitters, or the catalog when none are stored, and never writes.
func (c *Controller) Sitter(_ context.Context, id string) (Sitter, error) {
	sitters := c.store.sitters
	if len(sitters) == 0 {
		catalog, err := c.catalog()
		if err != nil {
			return Sitter{}, fmt.Errorf("load sitter catalog: %w", err)
		}
		sitters = catalog
	}
	id = strings.TrimSpace(id)
	for _, sitter := range sitters {
		if sitter.ID == id {
			return cloneSitters([]Sitter{sitter})[0], nil
		}
	}
	return Sitter{}, fmt.Errorf("sitter %q: %w", id, ErrNotFound)
}

// SeedSitters replaces the sitters slice with the catalog.
func (c *Controller) SeedSitters(ctx context.Context) (int, error) {
	sitters, err := c.catalog()
	if err != nil {
		return 0, fmt.Errorf("load sitter catalog: %w", err)
	}
	c.store.SetSitters(ctx, sitters)
	c.loggerWith(ctx, "SeedSitters").InfoContext(ctx, "sitters seeded", "count", len(sitters))
	return len(sitters), nil
}

func (c *Controller) ensureSitters(ctx context.Context) error {
	if len(c.store.sitters) > 0 {
		return nil
	}
	_, err := c.SeedSitters(ctx)
	return err
}

func normalizeFilter(filter SitterFilter) SitterFilter {
	filter.Query = strings.ToLower(strings.TrimSpace(filter.Query))
	if filter.MaxDistance <= 0 || math.IsNaN(filter.MaxDistance) {
		filter.MaxDistance = DefaultMaxDistance
	}
	if filter.MaxPrice <= 0 || math.IsNaN(filter.MaxPrice) {
		filter.MaxPrice = DefaultMaxPrice
	}
	filter.PetType = strings.TrimSpace(filter.PetType)
	if filter.PetType == "" || strings.EqualFold(filter.PetType, AnyPetType) {
		filter.PetType = AnyPetType
	}
	return filter
}

func matchesFilter(sitter Sitter, filter SitterFilter) bool {
	if filter.Query != "" &&
		!strings.Contains(strings.ToLower(sitter.Name), filter.Query) &&
		!strings.Contains(strings.ToLower(sitter.Description), filter.Query) {
		return false
	}
	if sitter.Distance > filter.MaxDistance || sitter.Price > filter.MaxPrice {
		return false
	}
	return filter.PetType == AnyPetType || slices.Contains(sitter.PetTypes, filter.PetType)
}
