package domain

import (
	"encoding/json"
	"fmt"
)

// Compile-time assertions that every entity satisfies Record.
var (
	_ Record = Dish{}
	_ Record = Menu{}
	_ Record = MenuItem{}
	_ Record = Location{}
	_ Record = LocationHours{}
	_ Record = Position{}
	_ Record = Employee{}
	_ Record = Management{}
	_ Record = Supplier{}
	_ Record = SupplyCategory{}
	_ Record = SupplyLink{}
	_ Record = DishRequirement{}
)

// EntityType implements Record.
func (Dish) EntityType() EntityType { return EntityDish }

// Identity implements Record.
func (d Dish) Identity() int { return d.DishID }

// WithIdentity implements Record.
func (d Dish) WithIdentity(id int) Record {
	d.DishID = id
	return d
}

// EntityType implements Record.
func (Menu) EntityType() EntityType { return EntityMenu }

// Identity implements Record.
func (m Menu) Identity() int { return m.MenuID }

// WithIdentity implements Record.
func (m Menu) WithIdentity(id int) Record {
	m.MenuID = id
	return m
}

// EntityType implements Record.
func (MenuItem) EntityType() EntityType { return EntityMenuItem }

// Identity implements Record.
func (m MenuItem) Identity() int { return m.MenuItemID }

// WithIdentity implements Record.
func (m MenuItem) WithIdentity(id int) Record {
	m.MenuItemID = id
	return m
}

// EntityType implements Record.
func (Location) EntityType() EntityType { return EntityLocation }

// Identity implements Record.
func (l Location) Identity() int { return l.LocationID }

// WithIdentity implements Record.
func (l Location) WithIdentity(id int) Record {
	l.LocationID = id
	return l
}

// EntityType implements Record.
func (LocationHours) EntityType() EntityType { return EntityLocationHours }

// Identity implements Record.
func (h LocationHours) Identity() int { return h.LocationHoursID }

// WithIdentity implements Record.
func (h LocationHours) WithIdentity(id int) Record {
	h.LocationHoursID = id
	return h
}

// EntityType implements Record.
func (Position) EntityType() EntityType { return EntityPosition }

// Identity implements Record.
func (p Position) Identity() int { return p.PositionID }

// WithIdentity implements Record.
func (p Position) WithIdentity(id int) Record {
	p.PositionID = id
	return p
}

// EntityType implements Record.
func (Employee) EntityType() EntityType { return EntityEmployee }

// Identity implements Record.
func (e Employee) Identity() int { return e.EmployeeID }

// WithIdentity implements Record.
func (e Employee) WithIdentity(id int) Record {
	e.EmployeeID = id
	return e
}

// EntityType implements Record.
func (Management) EntityType() EntityType { return EntityManagement }

// Identity implements Record.
func (m Management) Identity() int { return m.ManagementID }

// WithIdentity implements Record.
func (m Management) WithIdentity(id int) Record {
	m.ManagementID = id
	return m
}

// EntityType implements Record.
func (Supplier) EntityType() EntityType { return EntitySupplier }

// Identity implements Record.
func (s Supplier) Identity() int { return s.SupplierID }

// WithIdentity implements Record.
func (s Supplier) WithIdentity(id int) Record {
	s.SupplierID = id
	return s
}

// EntityType implements Record.
func (SupplyCategory) EntityType() EntityType { return EntitySupplyCategory }

// Identity implements Record.
func (c SupplyCategory) Identity() int { return c.SupplyCategoryID }

// WithIdentity implements Record.
func (c SupplyCategory) WithIdentity(id int) Record {
	c.SupplyCategoryID = id
	return c
}

// EntityType implements Record.
func (SupplyLink) EntityType() EntityType { return EntitySupplyLink }

// Identity implements Record.
func (l SupplyLink) Identity() int { return l.SupplyLinkID }

// WithIdentity implements Record.
func (l SupplyLink) WithIdentity(id int) Record {
	l.SupplyLinkID = id
	return l
}

// EntityType implements Record.
func (DishRequirement) EntityType() EntityType { return EntityDishRequirement }

// Identity implements Record.
func (r DishRequirement) Identity() int { return r.DishRequirementID }

// WithIdentity implements Record.
func (r DishRequirement) WithIdentity(id int) Record {
	r.DishRequirementID = id
	return r
}

// Basic implements Record.
func (d Dish) Basic() Record {
	return Dish{DishID: d.DishID, Name: d.Name}
}

// Basic implements Record.
func (m Menu) Basic() Record {
	return Menu{MenuID: m.MenuID, Name: m.Name, LocationID: m.LocationID}
}

// Basic implements Record.
func (p Position) Basic() Record {
	return Position{PositionID: p.PositionID, Name: p.Name}
}

// Basic implements Record.
func (m MenuItem) Basic() Record {
	return MenuItem{MenuItemID: m.MenuItemID, MenuID: m.MenuID, DishID: m.DishID, Price: m.Price}
}

// Basic implements Record.
func (l Location) Basic() Record {
	return Location{
		LocationID:  l.LocationID,
		Name:        l.Name,
		Address:     l.Address,
		City:        l.City,
		CountryCode: l.CountryCode,
		PostalCode:  l.PostalCode,
	}
}

// Basic implements Record.
func (h LocationHours) Basic() Record {
	return LocationHours{
		LocationHoursID: h.LocationHoursID,
		LocationID:      h.LocationID,
		DayOfWeek:       h.DayOfWeek,
		OpensAt:         h.OpensAt,
		ClosesAt:        h.ClosesAt,
	}
}

// Basic implements Record.
func (e Employee) Basic() Record {
	return Employee{
		EmployeeID:  e.EmployeeID,
		FirstName:   e.FirstName,
		LastName:    e.LastName,
		PositionID:  e.PositionID,
		LocationID:  e.LocationID,
		Wage:        e.Wage,
		WeeklyHours: e.WeeklyHours,
		HiredOn:     e.HiredOn,
	}
}

// Basic implements Record.
func (m Management) Basic() Record {
	return Management{ManagementID: m.ManagementID, EmployeeID: m.EmployeeID, LocationID: m.LocationID}
}

// Basic implements Record.
func (s Supplier) Basic() Record {
	return Supplier{
		SupplierID:   s.SupplierID,
		Name:         s.Name,
		City:         s.City,
		CountryCode:  s.CountryCode,
		ContactEmail: s.ContactEmail,
	}
}

// Basic implements Record.
func (c SupplyCategory) Basic() Record {
	return SupplyCategory{SupplyCategoryID: c.SupplyCategoryID, Name: c.Name}
}

// Basic implements Record.
func (l SupplyLink) Basic() Record {
	return SupplyLink{
		SupplyLinkID:     l.SupplyLinkID,
		LocationID:       l.LocationID,
		SupplyCategoryID: l.SupplyCategoryID,
		SupplierID:       l.SupplierID,
	}
}

// Basic implements Record.
func (r DishRequirement) Basic() Record {
	return DishRequirement{DishRequirementID: r.DishRequirementID, DishID: r.DishID, SupplyCategoryID: r.SupplyCategoryID}
}

// DecodeRecord unmarshals a JSON document into the concrete record type for entity.
func DecodeRecord(entity EntityType, data []byte) (Record, error) {
	switch entity {
	case EntityDish:
		return decodeAs[Dish](data)
	case EntityMenu:
		return decodeAs[Menu](data)
	case EntityMenuItem:
		return decodeAs[MenuItem](data)
	case EntityLocation:
		return decodeAs[Location](data)
	case EntityLocationHours:
		return decodeAs[LocationHours](data)
	case EntityPosition:
		return decodeAs[Position](data)
	case EntityEmployee:
		return decodeAs[Employee](data)
	case EntityManagement:
		return decodeAs[Management](data)
	case EntitySupplier:
		return decodeAs[Supplier](data)
	case EntitySupplyCategory:
		return decodeAs[SupplyCategory](data)
	case EntitySupplyLink:
		return decodeAs[SupplyLink](data)
	case EntityDishRequirement:
		return decodeAs[DishRequirement](data)
	default:
		return nil, fmt.Errorf("unknown entity type %q", entity)
	}
}

func decodeAs[T Record](data []byte) (Record, error) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
