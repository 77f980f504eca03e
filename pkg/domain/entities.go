// Package domain defines the restaurant-chain records, navigation wrappers,
// error taxonomy, and persistence contracts used by restaurantcore.
package domain

import (
	"fmt"
	"slices"
	"time"
)

// EntityType identifies the type of record stored in the core domain.
type EntityType string

// Supported entity type identifiers used in Change records and persistence buckets.
const (
	// EntityDish identifies a dish that can be placed on menus.
	EntityDish EntityType = "dish"
	// EntityMenu identifies a menu offered at a location.
	EntityMenu EntityType = "menu"
	// EntityMenuItem identifies a priced dish on a menu.
	EntityMenuItem EntityType = "menu_item"
	// EntityLocation identifies a restaurant location.
	EntityLocation EntityType = "location"
	// EntityLocationHours identifies the opening hours of a location for one weekday.
	EntityLocationHours EntityType = "location_hours"
	// EntityPosition identifies a job position.
	EntityPosition EntityType = "position"
	// EntityEmployee identifies an employee working at a location.
	EntityEmployee EntityType = "employee"
	// EntityManagement identifies the assignment of a manager to a location.
	EntityManagement EntityType = "management"
	// EntitySupplier identifies a supplier of goods.
	EntitySupplier EntityType = "supplier"
	// EntitySupplyCategory identifies a category of supplies.
	EntitySupplyCategory EntityType = "supply_category"
	// EntitySupplyLink identifies which supplier serves a location for a category.
	EntitySupplyLink EntityType = "supply_link"
	// EntityDishRequirement identifies a supply category a dish depends on.
	EntityDishRequirement EntityType = "dish_requirement"
)

var entityTypes = []EntityType{
	EntityDish,
	EntityMenu,
	EntityMenuItem,
	EntityLocation,
	EntityLocationHours,
	EntityPosition,
	EntityEmployee,
	EntityManagement,
	EntitySupplier,
	EntitySupplyCategory,
	EntitySupplyLink,
	EntityDishRequirement,
}

// EntityTypes returns every supported entity type in a stable order.
func EntityTypes() []EntityType {
	return slices.Clone(entityTypes)
}

// Valid reports whether the entity type is one of the supported identifiers.
func (e EntityType) Valid() bool {
	return slices.Contains(entityTypes, e)
}

// Record is implemented by every persisted entity.
type Record interface {
	EntityType() EntityType
	Identity() int
	// WithIdentity returns a copy of the record carrying the provided id.
	WithIdentity(id int) Record
	// Basic returns a copy of the record with every navigation field cleared.
	Basic() Record
}

// Dish is a named dish that menus can price.
type Dish struct {
	DishID int    `json:"dish_id"`
	Name   string `json:"name"`

	MenuItems        Nav[[]MenuItem]        `json:"menu_items,omitzero"`
	DishRequirements Nav[[]DishRequirement] `json:"dish_requirements,omitzero"`
}

// Menu groups priced dishes for a single location.
type Menu struct {
	MenuID     int    `json:"menu_id"`
	Name       string `json:"name"`
	LocationID int    `json:"location_id"`

	Location  Nav[Location]   `json:"location,omitzero"`
	MenuItems Nav[[]MenuItem] `json:"menu_items,omitzero"`
}

// MenuItem places a dish on a menu at a price.
type MenuItem struct {
	MenuItemID int     `json:"menu_item_id"`
	MenuID     int     `json:"menu_id"`
	DishID     int     `json:"dish_id"`
	Price      float64 `json:"price"`

	Menu Nav[Menu] `json:"menu,omitzero"`
	Dish Nav[Dish] `json:"dish,omitzero"`
}

// Location is a single restaurant site.
type Location struct {
	LocationID  int    `json:"location_id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	CountryCode string `json:"country_code"`
	PostalCode  string `json:"postal_code,omitempty"`

	Menus         Nav[[]Menu]          `json:"menus,omitzero"`
	Employees     Nav[[]Employee]      `json:"employees,omitzero"`
	LocationHours Nav[[]LocationHours] `json:"location_hours,omitzero"`
	Managements   Nav[[]Management]    `json:"managements,omitzero"`
	SupplyLinks   Nav[[]SupplyLink]    `json:"supply_links,omitzero"`
}

// LocationHours describes when a location is open on one day of the week.
// DayOfWeek follows time.Weekday numbering with Sunday as 0.
type LocationHours struct {
	LocationHoursID int    `json:"location_hours_id"`
	LocationID      int    `json:"location_id"`
	DayOfWeek       int    `json:"day_of_week"`
	OpensAt         string `json:"opens_at"`
	ClosesAt        string `json:"closes_at"`

	Location Nav[Location] `json:"location,omitzero"`
}

// Position is a job title employees can hold.
type Position struct {
	PositionID int    `json:"position_id"`
	Name       string `json:"name"`

	Employees Nav[[]Employee] `json:"employees,omitzero"`
}

// Employee works at a location in a position.
type Employee struct {
	EmployeeID  int     `json:"employee_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	PositionID  int     `json:"position_id"`
	LocationID  int     `json:"location_id"`
	Wage        float64 `json:"wage"`
	WeeklyHours int     `json:"weekly_hours"`
	HiredOn     Date    `json:"hired_on"`

	Position    Nav[Position]     `json:"position,omitzero"`
	Location    Nav[Location]     `json:"location,omitzero"`
	Managements Nav[[]Management] `json:"managements,omitzero"`
}

// Management assigns an employee as the manager of a location.
type Management struct {
	ManagementID int `json:"management_id"`
	EmployeeID   int `json:"employee_id"`
	LocationID   int `json:"location_id"`

	Employee Nav[Employee] `json:"employee,omitzero"`
	Location Nav[Location] `json:"location,omitzero"`
}

// Supplier delivers goods to locations.
type Supplier struct {
	SupplierID   int    `json:"supplier_id"`
	Name         string `json:"name"`
	City         string `json:"city"`
	CountryCode  string `json:"country_code"`
	ContactEmail string `json:"contact_email,omitempty"`

	SupplyLinks Nav[[]SupplyLink] `json:"supply_links,omitzero"`
}

// SupplyCategory groups supplies such as produce or dairy.
type SupplyCategory struct {
	SupplyCategoryID int    `json:"supply_category_id"`
	Name             string `json:"name"`

	DishRequirements Nav[[]DishRequirement] `json:"dish_requirements,omitzero"`
	SupplyLinks      Nav[[]SupplyLink]      `json:"supply_links,omitzero"`
}

// SupplyLink records the supplier a location uses for a supply category.
type SupplyLink struct {
	SupplyLinkID     int `json:"supply_link_id"`
	LocationID       int `json:"location_id"`
	SupplyCategoryID int `json:"supply_category_id"`
	SupplierID       int `json:"supplier_id"`

	Location       Nav[Location]       `json:"location,omitzero"`
	SupplyCategory Nav[SupplyCategory] `json:"supply_category,omitzero"`
	Supplier       Nav[Supplier]       `json:"supplier,omitzero"`
}

// DishRequirement records that a dish needs supplies from a category.
type DishRequirement struct {
	DishRequirementID int `json:"dish_requirement_id"`
	DishID            int `json:"dish_id"`
	SupplyCategoryID  int `json:"supply_category_id"`

	Dish           Nav[Dish]           `json:"dish,omitzero"`
	SupplyCategory Nav[SupplyCategory] `json:"supply_category,omitzero"`
}

// Date is a calendar day encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate truncates t to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate accepts YYYY-MM-DD or RFC 3339 input.
func ParseDate(value string) (Date, error) {
	if t, err := time.Parse(dateLayout, value); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q", value)
	}
	y, m, d := t.Date()
	return NewDate(y, m, d), nil
}

// String renders the date as YYYY-MM-DD, or an empty string when unset.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// MarshalJSON encodes the date as a YYYY-MM-DD string, or null when unset.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON decodes YYYY-MM-DD or RFC 3339 strings.
func (d *Date) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		*d = Date{}
		return nil
	}
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return fmt.Errorf("invalid date %s", raw)
	}
	parsed, err := ParseDate(raw[1 : len(raw)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
