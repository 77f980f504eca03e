package core

import (
	"strconv"
	"time"

	"restaurantcore/internal/query"
	"restaurantcore/pkg/domain"
)

// Column bounds shared by the descriptors.
const (
	NameMaxLen        = 50
	AddressMaxLen     = 100
	CountryCodeMaxLen = 3
	PostalCodeMaxLen  = 10
	EmailMaxLen       = 100
	MinWeeklyHours    = 1
	MaxWeeklyHours    = 167
)

// DefaultManagerPositionID is the position id a manager must hold unless configured otherwise.
const DefaultManagerPositionID = 1

// DishDescriptor describes dishes.
func DishDescriptor() *Descriptor[domain.Dish] {
	return &Descriptor[domain.Dish]{
		Entity:  domain.EntityDish,
		Plural:  "dishes",
		IDField: "dish_id",
		Fields: []FieldRule[domain.Dish]{
			RequiredString("name", NameMaxLen, func(d domain.Dish) string { return d.Name }),
		},
		Collections: []Collection[domain.Dish]{
			Coll("menu_items", domain.EntityMenuItem, "dish_id", func(d *domain.Dish) *domain.Nav[[]domain.MenuItem] { return &d.MenuItems }),
			Coll("dish_requirements", domain.EntityDishRequirement, "dish_id", func(d *domain.Dish) *domain.Nav[[]domain.DishRequirement] { return &d.DishRequirements }),
		},
		Unique: []UniqueKey[domain.Dish]{
			UniqueFold("name", func(d domain.Dish) string { return d.Name }),
		},
		Query: query.Spec[domain.Dish]{
			Identity: func(d domain.Dish) int { return d.DishID },
			Filter: []query.Field[domain.Dish]{
				{Name: "name", Value: func(d domain.Dish) string { return d.Name }},
			},
			Sort: []query.SortKey[domain.Dish]{
				{Name: "dish_id", Compare: query.ByInt(func(d domain.Dish) int { return d.DishID })},
				{Name: "name", Compare: query.ByString(func(d domain.Dish) string { return d.Name })},
			},
		},
	}
}

// MenuDescriptor describes menus. Menu names are unique per location.
func MenuDescriptor() *Descriptor[domain.Menu] {
	return &Descriptor[domain.Menu]{
		Entity:  domain.EntityMenu,
		Plural:  "menus",
		IDField: "menu_id",
		Fields: []FieldRule[domain.Menu]{
			RequiredString("name", NameMaxLen, func(m domain.Menu) string { return m.Name }),
		},
		References: []Reference[domain.Menu]{
			Ref("location_id", "location", domain.EntityLocation,
				func(m domain.Menu) int { return m.LocationID },
				func(m *domain.Menu) *domain.Nav[domain.Location] { return &m.Location }),
		},
		Collections: []Collection[domain.Menu]{
			Coll("menu_items", domain.EntityMenuItem, "menu_id", func(m *domain.Menu) *domain.Nav[[]domain.MenuItem] { return &m.MenuItems }),
		},
		Unique: []UniqueKey[domain.Menu]{
			UniqueTuple([]string{"location_id", "name"}, func(m domain.Menu) []string {
				return []string{strconv.Itoa(m.LocationID), m.Name}
			}),
		},
		Query: query.Spec[domain.Menu]{
			Identity: func(m domain.Menu) int { return m.MenuID },
			Filter: []query.Field[domain.Menu]{
				{Name: "name", Value: func(m domain.Menu) string { return m.Name }},
			},
			Sort: []query.SortKey[domain.Menu]{
				{Name: "menu_id", Compare: query.ByInt(func(m domain.Menu) int { return m.MenuID })},
				{Name: "name", Compare: query.ByString(func(m domain.Menu) string { return m.Name })},
				{Name: "location_id", Compare: query.ByInt(func(m domain.Menu) int { return m.LocationID })},
			},
		},
	}
}

// MenuItemDescriptor describes menu items. A dish appears at most once per menu.
func MenuItemDescriptor() *Descriptor[domain.MenuItem] {
	return &Descriptor[domain.MenuItem]{
		Entity:  domain.EntityMenuItem,
		Plural:  "menu-items",
		IDField: "menu_item_id",
		Fields: []FieldRule[domain.MenuItem]{
			Positive("price", func(m domain.MenuItem) float64 { return m.Price }),
		},
		References: []Reference[domain.MenuItem]{
			Ref("menu_id", "menu", domain.EntityMenu,
				func(m domain.MenuItem) int { return m.MenuID },
				func(m *domain.MenuItem) *domain.Nav[domain.Menu] { return &m.Menu }),
			Ref("dish_id", "dish", domain.EntityDish,
				func(m domain.MenuItem) int { return m.DishID },
				func(m *domain.MenuItem) *domain.Nav[domain.Dish] { return &m.Dish }),
		},
		Unique: []UniqueKey[domain.MenuItem]{
			UniqueTuple([]string{"menu_id", "dish_id"}, func(m domain.MenuItem) []string {
				return []string{strconv.Itoa(m.MenuID), strconv.Itoa(m.DishID)}
			}),
		},
		Query: query.Spec[domain.MenuItem]{
			Identity: func(m domain.MenuItem) int { return m.MenuItemID },
			Sort: []query.SortKey[domain.MenuItem]{
				{Name: "menu_item_id", Compare: query.ByInt(func(m domain.MenuItem) int { return m.MenuItemID })},
				{Name: "price", Compare: query.ByFloat(func(m domain.MenuItem) float64 { return m.Price })},
				{Name: "menu_id", Compare: query.ByInt(func(m domain.MenuItem) int { return m.MenuID })},
				{Name: "dish_id", Compare: query.ByInt(func(m domain.MenuItem) int { return m.DishID })},
			},
		},
	}
}

// LocationDescriptor describes restaurant locations.
func LocationDescriptor() *Descriptor[domain.Location] {
	return &Descriptor[domain.Location]{
		Entity:  domain.EntityLocation,
		Plural:  "locations",
		IDField: "location_id",
		Fields: []FieldRule[domain.Location]{
			RequiredString("name", NameMaxLen, func(l domain.Location) string { return l.Name }),
			RequiredString("address", AddressMaxLen, func(l domain.Location) string { return l.Address }),
			RequiredString("city", NameMaxLen, func(l domain.Location) string { return l.City }),
			RequiredString("country_code", CountryCodeMaxLen, func(l domain.Location) string { return l.CountryCode }),
			OptionalString("postal_code", PostalCodeMaxLen, func(l domain.Location) string { return l.PostalCode }),
		},
		Collections: []Collection[domain.Location]{
			Coll("menus", domain.EntityMenu, "location_id", func(l *domain.Location) *domain.Nav[[]domain.Menu] { return &l.Menus }),
			Coll("employees", domain.EntityEmployee, "location_id", func(l *domain.Location) *domain.Nav[[]domain.Employee] { return &l.Employees }),
			Coll("location_hours", domain.EntityLocationHours, "location_id", func(l *domain.Location) *domain.Nav[[]domain.LocationHours] { return &l.LocationHours }),
			Coll("managements", domain.EntityManagement, "location_id", func(l *domain.Location) *domain.Nav[[]domain.Management] { return &l.Managements }),
			Coll("supply_links", domain.EntitySupplyLink, "location_id", func(l *domain.Location) *domain.Nav[[]domain.SupplyLink] { return &l.SupplyLinks }),
		},
		Unique: []UniqueKey[domain.Location]{
			UniqueFold("name", func(l domain.Location) string { return l.Name }),
		},
		Query: query.Spec[domain.Location]{
			Identity: func(l domain.Location) int { return l.LocationID },
			Filter: []query.Field[domain.Location]{
				{Name: "name", Value: func(l domain.Location) string { return l.Name }},
				{Name: "city", Value: func(l domain.Location) string { return l.City }},
				{Name: "country_code", Value: func(l domain.Location) string { return l.CountryCode }},
			},
			Sort: []query.SortKey[domain.Location]{
				{Name: "location_id", Compare: query.ByInt(func(l domain.Location) int { return l.LocationID })},
				{Name: "name", Compare: query.ByString(func(l domain.Location) string { return l.Name })},
				{Name: "city", Compare: query.ByString(func(l domain.Location) string { return l.City })},
				{Name: "country_code", Compare: query.ByString(func(l domain.Location) string { return l.CountryCode })},
			},
		},
	}
}

// LocationHoursDescriptor describes weekly opening hours. Each location has
// at most one row per weekday and must close after it opens.
func LocationHoursDescriptor() *Descriptor[domain.LocationHours] {
	return &Descriptor[domain.LocationHours]{
		Entity:  domain.EntityLocationHours,
		Plural:  "location-hours",
		IDField: "location_hours_id",
		Fields: []FieldRule[domain.LocationHours]{
			IntRange("day_of_week", 0, 6, func(h domain.LocationHours) int { return h.DayOfWeek }),
			ClockTime("opens_at", func(h domain.LocationHours) string { return h.OpensAt }),
			ClockTime("closes_at", func(h domain.LocationHours) string { return h.ClosesAt }),
		},
		References: []Reference[domain.LocationHours]{
			Ref("location_id", "location", domain.EntityLocation,
				func(h domain.LocationHours) int { return h.LocationID },
				func(h *domain.LocationHours) *domain.Nav[domain.Location] { return &h.Location }),
		},
		Unique: []UniqueKey[domain.LocationHours]{
			UniqueTuple([]string{"location_id", "day_of_week"}, func(h domain.LocationHours) []string {
				return []string{strconv.Itoa(h.LocationID), strconv.Itoa(h.DayOfWeek)}
			}),
		},
		Invariants: []Invariant[domain.LocationHours]{
			{Name: "closes_after_opens", Check: func(h domain.LocationHours, _ int, _ Env) error {
				// HH:MM compares correctly as a string
				if h.ClosesAt <= h.OpensAt {
					return domain.Reject(domain.EntityLocationHours, domain.ReasonCardinality, "closes_at", "must be after opens_at")
				}
				return nil
			}},
		},
		Query: query.Spec[domain.LocationHours]{
			Identity: func(h domain.LocationHours) int { return h.LocationHoursID },
			Sort: []query.SortKey[domain.LocationHours]{
				{Name: "location_hours_id", Compare: query.ByInt(func(h domain.LocationHours) int { return h.LocationHoursID })},
				{Name: "location_id", Compare: query.ByInt(func(h domain.LocationHours) int { return h.LocationID })},
				{Name: "day_of_week", Compare: query.ByInt(func(h domain.LocationHours) int { return h.DayOfWeek })},
			},
		},
	}
}

// PositionDescriptor describes job positions.
func PositionDescriptor() *Descriptor[domain.Position] {
	return &Descriptor[domain.Position]{
		Entity:  domain.EntityPosition,
		Plural:  "positions",
		IDField: "position_id",
		Fields: []FieldRule[domain.Position]{
			RequiredString("name", NameMaxLen, func(p domain.Position) string { return p.Name }),
		},
		Collections: []Collection[domain.Position]{
			Coll("employees", domain.EntityEmployee, "position_id", func(p *domain.Position) *domain.Nav[[]domain.Employee] { return &p.Employees }),
		},
		Unique: []UniqueKey[domain.Position]{
			UniqueFold("name", func(p domain.Position) string { return p.Name }),
		},
		Query: query.Spec[domain.Position]{
			Identity: func(p domain.Position) int { return p.PositionID },
			Filter: []query.Field[domain.Position]{
				{Name: "name", Value: func(p domain.Position) string { return p.Name }},
			},
			Sort: []query.SortKey[domain.Position]{
				{Name: "position_id", Compare: query.ByInt(func(p domain.Position) int { return p.PositionID })},
				{Name: "name", Compare: query.ByString(func(p domain.Position) string { return p.Name })},
			},
		},
	}
}

// EmployeeDescriptor describes employees. An employee who manages a location
// must keep the manager position.
func EmployeeDescriptor() *Descriptor[domain.Employee] {
	return &Descriptor[domain.Employee]{
		Entity:  domain.EntityEmployee,
		Plural:  "employees",
		IDField: "employee_id",
		Fields: []FieldRule[domain.Employee]{
			RequiredString("first_name", NameMaxLen, func(e domain.Employee) string { return e.FirstName }),
			RequiredString("last_name", NameMaxLen, func(e domain.Employee) string { return e.LastName }),
			Positive("wage", func(e domain.Employee) float64 { return e.Wage }),
			IntRange("weekly_hours", MinWeeklyHours, MaxWeeklyHours, func(e domain.Employee) int { return e.WeeklyHours }),
			PastDate("hired_on", func(e domain.Employee) domain.Date { return e.HiredOn }),
		},
		References: []Reference[domain.Employee]{
			Ref("position_id", "position", domain.EntityPosition,
				func(e domain.Employee) int { return e.PositionID },
				func(e *domain.Employee) *domain.Nav[domain.Position] { return &e.Position }),
			Ref("location_id", "location", domain.EntityLocation,
				func(e domain.Employee) int { return e.LocationID },
				func(e *domain.Employee) *domain.Nav[domain.Location] { return &e.Location }),
		},
		Collections: []Collection[domain.Employee]{
			Coll("managements", domain.EntityManagement, "employee_id", func(e *domain.Employee) *domain.Nav[[]domain.Management] { return &e.Managements }),
		},
		Invariants: []Invariant[domain.Employee]{
			{Name: "manager_keeps_position", Check: func(e domain.Employee, id int, env Env) error {
				if id == 0 || e.PositionID == env.ManagerPositionID {
					return nil
				}
				managing, err := env.Oracle.HasDependents(domain.EntityEmployee, id, "managements")
				if err != nil {
					return err
				}
				if managing {
					return domain.Reject(domain.EntityEmployee, domain.ReasonCardinality, "position_id", "employee manages a location and must keep position %d", env.ManagerPositionID)
				}
				return nil
			}},
		},
		Query: query.Spec[domain.Employee]{
			Identity: func(e domain.Employee) int { return e.EmployeeID },
			Filter: []query.Field[domain.Employee]{
				{Name: "first_name", Value: func(e domain.Employee) string { return e.FirstName }},
				{Name: "last_name", Value: func(e domain.Employee) string { return e.LastName }},
			},
			Sort: []query.SortKey[domain.Employee]{
				{Name: "employee_id", Compare: query.ByInt(func(e domain.Employee) int { return e.EmployeeID })},
				{Name: "first_name", Compare: query.ByString(func(e domain.Employee) string { return e.FirstName })},
				{Name: "last_name", Compare: query.ByString(func(e domain.Employee) string { return e.LastName })},
				{Name: "wage", Compare: query.ByFloat(func(e domain.Employee) float64 { return e.Wage })},
				{Name: "weekly_hours", Compare: query.ByInt(func(e domain.Employee) int { return e.WeeklyHours })},
				{Name: "hired_on", Compare: query.ByTime(func(e domain.Employee) time.Time { return e.HiredOn.Time })},
			},
		},
	}
}

// ManagementDescriptor describes manager assignments. A location has at most
// one manager, an employee manages at most one location, and the employee
// must hold the manager position.
func ManagementDescriptor() *Descriptor[domain.Management] {
	return &Descriptor[domain.Management]{
		Entity:  domain.EntityManagement,
		Plural:  "managements",
		IDField: "management_id",
		References: []Reference[domain.Management]{
			Ref("employee_id", "employee", domain.EntityEmployee,
				func(m domain.Management) int { return m.EmployeeID },
				func(m *domain.Management) *domain.Nav[domain.Employee] { return &m.Employee }),
			Ref("location_id", "location", domain.EntityLocation,
				func(m domain.Management) int { return m.LocationID },
				func(m *domain.Management) *domain.Nav[domain.Location] { return &m.Location }),
		},
		Invariants: []Invariant[domain.Management]{
			{Name: "one_manager_per_location", Check: func(m domain.Management, id int, env Env) error {
				for _, rec := range env.View.List(domain.EntityManagement) {
					other := rec.(domain.Management)
					if other.ManagementID != id && other.LocationID == m.LocationID {
						return domain.Reject(domain.EntityManagement, domain.ReasonCardinality, "location_id", "location %d is already managed by employee %d", m.LocationID, other.EmployeeID)
					}
				}
				return nil
			}},
			{Name: "one_location_per_manager", Check: func(m domain.Management, id int, env Env) error {
				for _, rec := range env.View.List(domain.EntityManagement) {
					other := rec.(domain.Management)
					if other.ManagementID != id && other.EmployeeID == m.EmployeeID {
						return domain.Reject(domain.EntityManagement, domain.ReasonCardinality, "employee_id", "employee %d already manages location %d", m.EmployeeID, other.LocationID)
					}
				}
				return nil
			}},
			{Name: "manager_position", Check: func(m domain.Management, _ int, env Env) error {
				rec, ok := env.View.Get(domain.EntityEmployee, m.EmployeeID)
				if !ok {
					return domain.Reject(domain.EntityManagement, domain.ReasonForeignKey, "employee_id", "employee %d does not exist", m.EmployeeID)
				}
				if rec.(domain.Employee).PositionID != env.ManagerPositionID {
					return domain.Reject(domain.EntityManagement, domain.ReasonCardinality, "employee_id", "employee %d does not hold the manager position", m.EmployeeID)
				}
				return nil
			}},
		},
		Query: query.Spec[domain.Management]{
			Identity: func(m domain.Management) int { return m.ManagementID },
			Sort: []query.SortKey[domain.Management]{
				{Name: "management_id", Compare: query.ByInt(func(m domain.Management) int { return m.ManagementID })},
				{Name: "employee_id", Compare: query.ByInt(func(m domain.Management) int { return m.EmployeeID })},
				{Name: "location_id", Compare: query.ByInt(func(m domain.Management) int { return m.LocationID })},
			},
		},
	}
}

// SupplierDescriptor describes suppliers.
func SupplierDescriptor() *Descriptor[domain.Supplier] {
	return &Descriptor[domain.Supplier]{
		Entity:  domain.EntitySupplier,
		Plural:  "suppliers",
		IDField: "supplier_id",
		Fields: []FieldRule[domain.Supplier]{
			RequiredString("name", NameMaxLen, func(s domain.Supplier) string { return s.Name }),
			RequiredString("city", NameMaxLen, func(s domain.Supplier) string { return s.City }),
			RequiredString("country_code", CountryCodeMaxLen, func(s domain.Supplier) string { return s.CountryCode }),
			OptionalString("contact_email", EmailMaxLen, func(s domain.Supplier) string { return s.ContactEmail }),
		},
		Collections: []Collection[domain.Supplier]{
			Coll("supply_links", domain.EntitySupplyLink, "supplier_id", func(s *domain.Supplier) *domain.Nav[[]domain.SupplyLink] { return &s.SupplyLinks }),
		},
		Unique: []UniqueKey[domain.Supplier]{
			UniqueFold("name", func(s domain.Supplier) string { return s.Name }),
		},
		Query: query.Spec[domain.Supplier]{
			Identity: func(s domain.Supplier) int { return s.SupplierID },
			Filter: []query.Field[domain.Supplier]{
				{Name: "name", Value: func(s domain.Supplier) string { return s.Name }},
				{Name: "city", Value: func(s domain.Supplier) string { return s.City }},
				{Name: "country_code", Value: func(s domain.Supplier) string { return s.CountryCode }},
			},
			Sort: []query.SortKey[domain.Supplier]{
				{Name: "supplier_id", Compare: query.ByInt(func(s domain.Supplier) int { return s.SupplierID })},
				{Name: "name", Compare: query.ByString(func(s domain.Supplier) string { return s.Name })},
				{Name: "city", Compare: query.ByString(func(s domain.Supplier) string { return s.City })},
				{Name: "country_code", Compare: query.ByString(func(s domain.Supplier) string { return s.CountryCode })},
			},
		},
	}
}

// SupplyCategoryDescriptor describes supply categories.
func SupplyCategoryDescriptor() *Descriptor[domain.SupplyCategory] {
	return &Descriptor[domain.SupplyCategory]{
		Entity:  domain.EntitySupplyCategory,
		Plural:  "supply-categories",
		IDField: "supply_category_id",
		Fields: []FieldRule[domain.SupplyCategory]{
			RequiredString("name", NameMaxLen, func(c domain.SupplyCategory) string { return c.Name }),
		},
		Collections: []Collection[domain.SupplyCategory]{
			Coll("dish_requirements", domain.EntityDishRequirement, "supply_category_id", func(c *domain.SupplyCategory) *domain.Nav[[]domain.DishRequirement] { return &c.DishRequirements }),
			Coll("supply_links", domain.EntitySupplyLink, "supply_category_id", func(c *domain.SupplyCategory) *domain.Nav[[]domain.SupplyLink] { return &c.SupplyLinks }),
		},
		Unique: []UniqueKey[domain.SupplyCategory]{
			UniqueFold("name", func(c domain.SupplyCategory) string { return c.Name }),
		},
		Query: query.Spec[domain.SupplyCategory]{
			Identity: func(c domain.SupplyCategory) int { return c.SupplyCategoryID },
			Filter: []query.Field[domain.SupplyCategory]{
				{Name: "name", Value: func(c domain.SupplyCategory) string { return c.Name }},
			},
			Sort: []query.SortKey[domain.SupplyCategory]{
				{Name: "supply_category_id", Compare: query.ByInt(func(c domain.SupplyCategory) int { return c.SupplyCategoryID })},
				{Name: "name", Compare: query.ByString(func(c domain.SupplyCategory) string { return c.Name })},
			},
		},
	}
}

// SupplyLinkDescriptor describes supplier assignments. A location uses one
// supplier per supply category.
func SupplyLinkDescriptor() *Descriptor[domain.SupplyLink] {
	return &Descriptor[domain.SupplyLink]{
		Entity:  domain.EntitySupplyLink,
		Plural:  "supply-links",
		IDField: "supply_link_id",
		References: []Reference[domain.SupplyLink]{
			Ref("location_id", "location", domain.EntityLocation,
				func(l domain.SupplyLink) int { return l.LocationID },
				func(l *domain.SupplyLink) *domain.Nav[domain.Location] { return &l.Location }),
			Ref("supply_category_id", "supply_category", domain.EntitySupplyCategory,
				func(l domain.SupplyLink) int { return l.SupplyCategoryID },
				func(l *domain.SupplyLink) *domain.Nav[domain.SupplyCategory] { return &l.SupplyCategory }),
			Ref("supplier_id", "supplier", domain.EntitySupplier,
				func(l domain.SupplyLink) int { return l.SupplierID },
				func(l *domain.SupplyLink) *domain.Nav[domain.Supplier] { return &l.Supplier }),
		},
		Unique: []UniqueKey[domain.SupplyLink]{
			UniqueTuple([]string{"location_id", "supply_category_id"}, func(l domain.SupplyLink) []string {
				return []string{strconv.Itoa(l.LocationID), strconv.Itoa(l.SupplyCategoryID)}
			}),
		},
		Query: query.Spec[domain.SupplyLink]{
			Identity: func(l domain.SupplyLink) int { return l.SupplyLinkID },
			Sort: []query.SortKey[domain.SupplyLink]{
				{Name: "supply_link_id", Compare: query.ByInt(func(l domain.SupplyLink) int { return l.SupplyLinkID })},
				{Name: "location_id", Compare: query.ByInt(func(l domain.SupplyLink) int { return l.LocationID })},
				{Name: "supply_category_id", Compare: query.ByInt(func(l domain.SupplyLink) int { return l.SupplyCategoryID })},
				{Name: "supplier_id", Compare: query.ByInt(func(l domain.SupplyLink) int { return l.SupplierID })},
			},
		},
	}
}

// DishRequirementDescriptor describes which supply categories a dish needs.
func DishRequirementDescriptor() *Descriptor[domain.DishRequirement] {
	return &Descriptor[domain.DishRequirement]{
		Entity:  domain.EntityDishRequirement,
		Plural:  "dish-requirements",
		IDField: "dish_requirement_id",
		References: []Reference[domain.DishRequirement]{
			Ref("dish_id", "dish", domain.EntityDish,
				func(r domain.DishRequirement) int { return r.DishID },
				func(r *domain.DishRequirement) *domain.Nav[domain.Dish] { return &r.Dish }),
			Ref("supply_category_id", "supply_category", domain.EntitySupplyCategory,
				func(r domain.DishRequirement) int { return r.SupplyCategoryID },
				func(r *domain.DishRequirement) *domain.Nav[domain.SupplyCategory] { return &r.SupplyCategory }),
		},
		Unique: []UniqueKey[domain.DishRequirement]{
			UniqueTuple([]string{"dish_id", "supply_category_id"}, func(r domain.DishRequirement) []string {
				return []string{strconv.Itoa(r.DishID), strconv.Itoa(r.SupplyCategoryID)}
			}),
		},
		Query: query.Spec[domain.DishRequirement]{
			Identity: func(r domain.DishRequirement) int { return r.DishRequirementID },
			Sort: []query.SortKey[domain.DishRequirement]{
				{Name: "dish_requirement_id", Compare: query.ByInt(func(r domain.DishRequirement) int { return r.DishRequirementID })},
				{Name: "dish_id", Compare: query.ByInt(func(r domain.DishRequirement) int { return r.DishID })},
				{Name: "supply_category_id", Compare: query.ByInt(func(r domain.DishRequirement) int { return r.SupplyCategoryID })},
			},
		},
	}
}
