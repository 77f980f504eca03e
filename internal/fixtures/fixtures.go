// Package fixtures loads seed data from YAML and applies it through the
// service, so every record passes the same checks as an API write.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"restaurantcore/internal/core"
	"restaurantcore/pkg/domain"
)

// File maps a collection name (the API plural, e.g. "menu-items") to its
// records. Field names follow the JSON API.
type File map[string][]map[string]any

// Report counts created records per collection.
type Report map[string]int

// Total sums every collection.
func (r Report) Total() int {
	n := 0
	for _, c := range r {
		n += c
	}
	return n
}

type step struct {
	plural string
	create func(ctx context.Context, raw []byte) error
}

func stepFor[T domain.Record](r *core.Resource[T]) step {
	d := r.Descriptor()
	return step{
		plural: d.Plural,
		create: func(ctx context.Context, raw []byte) error {
			var payload T
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("decode %s: %w", d.Entity, err)
			}
			_, err := r.Create(ctx, payload)
			return err
		},
	}
}

// steps lists collections so that every reference target is seeded first.
func steps(svc *core.Service) []step {
	return []step{
		stepFor(svc.Locations),
		stepFor(svc.Positions),
		stepFor(svc.Dishes),
		stepFor(svc.Menus),
		stepFor(svc.MenuItems),
		stepFor(svc.LocationHours),
		stepFor(svc.Employees),
		stepFor(svc.Managements),
		stepFor(svc.Suppliers),
		stepFor(svc.SupplyCategories),
		stepFor(svc.SupplyLinks),
		stepFor(svc.DishRequirements),
	}
}

// Parse decodes a fixture document.
func Parse(r io.Reader) (File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return f, nil
}

// LoadFile parses the fixture file at path.
func LoadFile(path string) (File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return Parse(fh)
}

// Apply creates every record in dependency order and stops at the first
// failure. Records are created one at a time, so earlier records stay
// committed when a later one is refused.
func Apply(ctx context.Context, svc *core.Service, f File) (Report, error) {
	plan := steps(svc)
	known := make([]string, 0, len(plan))
	for _, s := range plan {
		known = append(known, s.plural)
	}
	for name := range f {
		if !slices.Contains(known, name) {
			return nil, fmt.Errorf("unknown fixture collection %q (want one of %s)", name, strings.Join(known, ", "))
		}
	}

	report := make(Report)
	for _, s := range plan {
		for i, item := range f[s.plural] {
			raw, err := json.Marshal(item)
			if err != nil {
				return report, fmt.Errorf("%s[%d]: %w", s.plural, i, err)
			}
			if err := s.create(ctx, raw); err != nil {
				return report, fmt.Errorf("%s[%d]: %w", s.plural, i, err)
			}
			report[s.plural]++
		}
	}
	return report, nil
}
