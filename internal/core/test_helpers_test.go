package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"restaurantcore/pkg/domain"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...ServiceOption) *Service {
	t.Helper()
	base := []ServiceOption{
		WithClock(ClockFunc(func() time.Time { return testNow })),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}
	return NewInMemoryService(append(base, opts...)...)
}

func mustCreate[T domain.Record](t *testing.T, r *Resource[T], rec T) T {
	t.Helper()
	created, err := r.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("create %s: %v", rec.EntityType(), err)
	}
	return created
}

// world is a small restaurant chain: one location with a manager, a cook,
// a menu offering one dish and a supplier for the dish's supply category.
type world struct {
	location domain.Location
	manager  domain.Position
	cook     domain.Position
	boss     domain.Employee
	chef     domain.Employee
	menu     domain.Menu
	dish     domain.Dish
	item     domain.MenuItem
	category domain.SupplyCategory
	supplier domain.Supplier
}

func seedWorld(t *testing.T, svc *Service) world {
	t.Helper()
	var w world
	w.location = mustCreate(t, svc.Locations, domain.Location{Name: "Harbor", Address: "1 Pier Rd", City: "Lisbon", CountryCode: "PRT"})
	w.manager = mustCreate(t, svc.Positions, domain.Position{Name: "Manager"})
	w.cook = mustCreate(t, svc.Positions, domain.Position{Name: "Cook"})
	w.boss = mustCreate(t, svc.Employees, domain.Employee{
		FirstName: "Ana", LastName: "Silva", PositionID: w.manager.PositionID, LocationID: w.location.LocationID,
		Wage: 30, WeeklyHours: 40, HiredOn: domain.NewDate(2020, time.March, 2),
	})
	w.chef = mustCreate(t, svc.Employees, domain.Employee{
		FirstName: "Rui", LastName: "Costa", PositionID: w.cook.PositionID, LocationID: w.location.LocationID,
		Wage: 18.5, WeeklyHours: 38, HiredOn: domain.NewDate(2022, time.January, 10),
	})
	w.menu = mustCreate(t, svc.Menus, domain.Menu{Name: "Lunch", LocationID: w.location.LocationID})
	w.dish = mustCreate(t, svc.Dishes, domain.Dish{Name: "Bacalhau"})
	w.item = mustCreate(t, svc.MenuItems, domain.MenuItem{MenuID: w.menu.MenuID, DishID: w.dish.DishID, Price: 14.5})
	w.category = mustCreate(t, svc.SupplyCategories, domain.SupplyCategory{Name: "Fish"})
	w.supplier = mustCreate(t, svc.Suppliers, domain.Supplier{Name: "Mar Fresco", City: "Porto", CountryCode: "PRT"})
	return w
}
