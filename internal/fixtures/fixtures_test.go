package fixtures

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"restaurantcore/internal/core"
	"restaurantcore/internal/query"
	"restaurantcore/pkg/domain"
)

const chain = `
locations:
  - name: Harbor
    address: 1 Pier Rd
    city: Lisbon
    country_code: PRT
positions:
  - name: Manager
  - name: Cook
dishes:
  - name: Bacalhau
menus:
  - name: Lunch
    location_id: 1
menu-items:
  - menu_id: 1
    dish_id: 1
    price: 14.5
location-hours:
  - location_id: 1
    day_of_week: 1
    opens_at: "09:00"
    closes_at: "22:00"
employees:
  - first_name: Ana
    last_name: Silva
    position_id: 1
    location_id: 1
    wage: 30
    weekly_hours: 40
    hired_on: 2020-03-02
managements:
  - employee_id: 1
    location_id: 1
suppliers:
  - name: Mar Fresco
    city: Porto
    country_code: PRT
supply-categories:
  - name: Fish
supply-links:
  - location_id: 1
    supply_category_id: 1
    supplier_id: 1
dish-requirements:
  - dish_id: 1
    supply_category_id: 1
`

func newService(t *testing.T) *core.Service {
	t.Helper()
	return core.NewInMemoryService(
		core.WithClock(core.ClockFunc(func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) })),
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestApplySeedsEveryCollection(t *testing.T) {
	f, err := Parse(strings.NewReader(chain))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	svc := newService(t)
	report, err := Apply(context.Background(), svc, f)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if report.Total() != 13 || report["positions"] != 2 {
		t.Fatalf("unexpected report %v", report)
	}
	emp, err := svc.Employees.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("employee: %v", err)
	}
	if emp.HiredOn.String() != "2020-03-02" {
		t.Fatalf("unexpected hire date %s", emp.HiredOn)
	}
	if mgmts, ok := emp.Managements.Get(); !ok || len(mgmts) != 1 {
		t.Fatalf("expected management collection, got %+v", emp.Managements)
	}
}

func TestApplyRunsTheGate(t *testing.T) {
	svc := newService(t)
	f := File{"dishes": {{"name": "Pretzel"}, {"name": "pretzel"}}}
	report, err := Apply(context.Background(), svc, f)
	if !errors.Is(err, domain.ErrRejected) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
	if !strings.Contains(err.Error(), "dishes[1]") || report["dishes"] != 1 {
		t.Fatalf("expected failure on second dish, got %v (%v)", err, report)
	}
	res, _ := svc.Dishes.List(context.Background(), query.Params{})
	if res.Total != 1 {
		t.Fatalf("first dish should stay committed, got %d", res.Total)
	}
}

func TestApplyRejectsUnknownCollection(t *testing.T) {
	_, err := Apply(context.Background(), newService(t), File{"tables": {{"name": "T1"}}})
	if err == nil || !strings.Contains(err.Error(), "tables") {
		t.Fatalf("expected unknown collection error, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("dishes:\n  - name: Caldo\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	f, err := LoadFile(path)
	if err != nil || len(f["dishes"]) != 1 {
		t.Fatalf("load: %v %v", f, err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected missing file error")
	}
	if f, err := Parse(strings.NewReader("")); err != nil || len(f) != 0 {
		t.Fatalf("empty document should parse: %v", err)
	}
	if _, err := Parse(strings.NewReader("dishes: [")); err == nil {
		t.Fatalf("expected syntax error")
	}
}
