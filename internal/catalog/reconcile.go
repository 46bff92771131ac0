package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid marks a user-visible validation failure on catalog input.
var ErrInvalid = errors.New("invalid catalog input")

// FlatServiceRow is the denormalized row the admin table edits. Outcome and
// Deliverables are pointers so an absent field can fall back to the stored
// service while a present-but-empty one overwrites it.
type FlatServiceRow struct {
	Key          string  `json:"key"`
	Name         string  `json:"name"`
	Outcome      *string `json:"outcome,omitempty"`
	Deliverables *string `json:"deliverables,omitempty"`
	PriceOneTime Money   `json:"priceOneTime"`
	PriceMonthly Money   `json:"priceMonthly"`
	Category     string  `json:"category"`
}

type FlatAddonRow struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	PriceOneTime Money  `json:"priceOneTime"`
	PriceMonthly Money  `json:"priceMonthly"`
}

// SplitDeliverables turns the table's comma-joined deliverables cell back
// into the stored list: split on commas, trim, drop empties.
func SplitDeliverables(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// JoinDeliverables is the inverse projection used when flattening a catalog
// for the edit table.
func JoinDeliverables(items []string) string {
	return strings.Join(items, ", ")
}

// Reconcile rebuilds the nested catalog from edited flat rows. Categories
// appear in the order they are first encountered in the service rows; row
// order within a category is the new display order. Fields the flat view
// does not expose (sla, acceptance, badge, applicableServices) are carried
// over from the previous catalog by key. Categories and entries absent from
// the rows are dropped outright: this is a wholesale replacement, not a
// merge. Duplicate keys keep their first row only.
func Reconcile(rows []FlatServiceRow, addonRows []FlatAddonRow, previous *Catalog) *Catalog {
	next := NewCatalog()

	seenServices := make(map[string]bool, len(rows))
	for _, row := range rows {
		if seenServices[row.Key] {
			continue
		}
		seenServices[row.Key] = true

		cat := next.Categories.Get(row.Category)
		if cat == nil {
			cat = &Category{Services: []Service{}}
			if prev := previous.categoryFor(row.Category); prev != nil {
				cat.Name = prev.Name
				cat.Description = prev.Description
			}
			next.Categories.Set(row.Category, cat)
		}

		orig := previous.FindService(row.Key)
		svc := Service{
			Key:   row.Key,
			Name:  row.Name,
			Price: Price{OneTime: row.PriceOneTime, Monthly: row.PriceMonthly},
		}
		switch {
		case row.Outcome != nil:
			svc.Outcome = *row.Outcome
		case orig != nil:
			svc.Outcome = orig.Outcome
		}
		switch {
		case row.Deliverables != nil:
			svc.Deliverables = SplitDeliverables(*row.Deliverables)
		case orig != nil:
			svc.Deliverables = orig.Deliverables
		}
		if orig != nil {
			svc.MinTerm = orig.MinTerm
			svc.SLA = orig.SLA
			svc.Acceptance = orig.Acceptance
			svc.Badge = orig.Badge
		}
		cat.Services = append(cat.Services, svc)
	}

	seenAddons := make(map[string]bool, len(addonRows))
	for _, row := range addonRows {
		if seenAddons[row.Key] {
			continue
		}
		seenAddons[row.Key] = true

		addon := Addon{
			Key:                row.Key,
			Name:               row.Name,
			Description:        row.Description,
			Price:              Price{OneTime: row.PriceOneTime, Monthly: row.PriceMonthly},
			ApplicableServices: []string{"all"},
		}
		if orig := previous.FindAddon(row.Key); orig != nil && orig.ApplicableServices != nil {
			addon.ApplicableServices = orig.ApplicableServices
		}
		next.Addons = append(next.Addons, addon)
	}

	return next
}

func (c *Catalog) categoryFor(key string) *Category {
	if c == nil {
		return nil
	}
	return c.Categories.Get(key)
}

// Flatten projects a catalog into the edit-table rows. Reconciling the
// result against the same catalog yields an equal catalog.
func Flatten(c *Catalog) ([]FlatServiceRow, []FlatAddonRow) {
	var rows []FlatServiceRow
	if c != nil && c.Categories != nil {
		for _, catKey := range c.Categories.keys {
			cat := c.Categories.entries[catKey]
			for _, svc := range cat.Services {
				outcome := svc.Outcome
				deliverables := JoinDeliverables(svc.Deliverables)
				rows = append(rows, FlatServiceRow{
					Key:          svc.Key,
					Name:         svc.Name,
					Outcome:      &outcome,
					Deliverables: &deliverables,
					PriceOneTime: svc.Price.OneTime,
					PriceMonthly: svc.Price.Monthly,
					Category:     catKey,
				})
			}
		}
	}

	var addonRows []FlatAddonRow
	if c != nil {
		for _, addon := range c.Addons {
			addonRows = append(addonRows, FlatAddonRow{
				Key:          addon.Key,
				Name:         addon.Name,
				Description:  addon.Description,
				PriceOneTime: addon.Price.OneTime,
				PriceMonthly: addon.Price.Monthly,
			})
		}
	}
	return rows, addonRows
}

// AddService appends a new service to the named category after validating
// the identity fields. The key must be unique across every category.
func (c *Catalog) AddService(categoryKey string, svc Service) error {
	if strings.TrimSpace(categoryKey) == "" || strings.TrimSpace(svc.Key) == "" || strings.TrimSpace(svc.Name) == "" {
		return fmt.Errorf("%w: category, key and name are required", ErrInvalid)
	}
	if c.FindService(svc.Key) != nil {
		return fmt.Errorf("%w: service key %q already exists", ErrInvalid, svc.Key)
	}
	if c.Categories == nil {
		c.Categories = NewCategories()
	}
	cat := c.Categories.Get(categoryKey)
	if cat == nil {
		cat = &Category{Services: []Service{}}
		c.Categories.Set(categoryKey, cat)
	}
	cat.Services = append(cat.Services, svc)
	return nil
}

// AddAddon appends a new add-on after validating key and name. New add-ons
// apply to every service unless told otherwise.
func (c *Catalog) AddAddon(addon Addon) error {
	if strings.TrimSpace(addon.Key) == "" || strings.TrimSpace(addon.Name) == "" {
		return fmt.Errorf("%w: key and name are required", ErrInvalid)
	}
	if c.FindAddon(addon.Key) != nil {
		return fmt.Errorf("%w: add-on key %q already exists", ErrInvalid, addon.Key)
	}
	if addon.ApplicableServices == nil {
		addon.ApplicableServices = []string{"all"}
	}
	c.Addons = append(c.Addons, addon)
	return nil
}
