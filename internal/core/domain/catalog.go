package domain

import "sort"

type Aisle string

const (
	AisleBread   Aisle = "bread"
	AisleDairy   Aisle = "dairy"
	AisleMeat    Aisle = "meat"
	AisleProduce Aisle = "produce"
	AisleParty   Aisle = "party"
)

// Catalog maps item ids to the aisle that stocks them. Item ids outside the
// catalog are unknown to the whole system: they fail per line and are never
// dispatched.
type Catalog struct {
	aisleOf map[string]Aisle
	items   []string
}

func DefaultCatalog() *Catalog {
	return NewCatalog(map[Aisle][]string{
		AisleBread:   {"bagels", "bread", "waffles", "tortillas", "buns"},
		AisleDairy:   {"milk", "eggs", "cheese", "yogurt", "butter"},
		AisleMeat:    {"chicken", "beef", "pork", "turkey", "fish"},
		AisleProduce: {"tomatoes", "onions", "apples", "oranges", "lettuce"},
		AisleParty:   {"soda", "paper_plates", "napkins", "chips", "cups"},
	})
}

func NewCatalog(layout map[Aisle][]string) *Catalog {
	c := &Catalog{aisleOf: make(map[string]Aisle)}
	for aisle, items := range layout {
		for _, item := range items {
			c.aisleOf[item] = aisle
			c.items = append(c.items, item)
		}
	}
	sort.Strings(c.items)
	return c
}

// AisleOf reports which aisle stocks an item, false for unknown ids.
func (c *Catalog) AisleOf(itemID string) (Aisle, bool) {
	aisle, ok := c.aisleOf[itemID]
	return aisle, ok
}

// Items lists every known item id in sorted order.
func (c *Catalog) Items() []string {
	return c.items
}

// Aisles returns the store layout in walking order.
func Aisles() []Aisle {
	return []Aisle{AisleBread, AisleDairy, AisleMeat, AisleProduce, AisleParty}
}
