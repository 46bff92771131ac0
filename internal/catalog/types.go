// Package catalog holds the service catalog document and the reconciliation
// logic that rebuilds it from the admin panel's flat edit rows.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Money accepts both JSON numbers and numeric strings. A value that cannot
// be parsed decodes to 0 rather than failing the whole document.
type Money float64

func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*m = 0
		return nil
	}
	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			*m = 0
			return nil
		}
		trimmed = strings.TrimSpace(raw)
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		*m = 0
		return nil
	}
	*m = Money(parsed)
	return nil
}

type Price struct {
	OneTime Money `json:"oneTime"`
	Monthly Money `json:"monthly"`
}

type Service struct {
	Key          string   `json:"key"`
	Name         string   `json:"name"`
	Outcome      string   `json:"outcome,omitempty"`
	Deliverables []string `json:"deliverables,omitempty"`
	Price        Price    `json:"price"`
	MinTerm      string   `json:"minTerm,omitempty"`
	SLA          string   `json:"sla,omitempty"`
	Acceptance   string   `json:"acceptance,omitempty"`
	Badge        string   `json:"badge,omitempty"`
}

type Addon struct {
	Key                string   `json:"key"`
	Name               string   `json:"name"`
	Description        string   `json:"description,omitempty"`
	Price              Price    `json:"price"`
	ApplicableServices []string `json:"applicableServices,omitempty"`
}

type Category struct {
	Name        string    `json:"name,omitempty"`
	Description string    `json:"description,omitempty"`
	Services    []Service `json:"services"`
}

// Categories is a key→Category map that keeps insertion order. The admin
// front end renders categories in document order, and encoding/json maps
// would silently re-sort them alphabetically on every save.
type Categories struct {
	keys    []string
	entries map[string]*Category
}

func NewCategories() *Categories {
	return &Categories{entries: make(map[string]*Category)}
}

func (c *Categories) Get(key string) *Category {
	if c == nil {
		return nil
	}
	return c.entries[key]
}

// Set inserts or replaces a category. New keys are appended after all
// existing ones.
func (c *Categories) Set(key string, cat *Category) {
	if c.entries == nil {
		c.entries = make(map[string]*Category)
	}
	if _, exists := c.entries[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.entries[key] = cat
}

func (c *Categories) Keys() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.keys...)
}

func (c *Categories) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

func (c *Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range c.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		catJSON, err := json.Marshal(c.entries[key])
		if err != nil {
			return nil, err
		}
		buf.Write(catJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (c *Categories) UnmarshalJSON(data []byte) error {
	c.keys = nil
	c.entries = make(map[string]*Category)
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode categories: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("decode categories: expected object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode categories: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("decode categories: expected string key, got %v", keyTok)
		}
		var cat Category
		if err := dec.Decode(&cat); err != nil {
			return fmt.Errorf("decode category %q: %w", key, err)
		}
		c.Set(key, &cat)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode categories: %w", err)
	}
	return nil
}

// Catalog is the canonical nested document persisted to the document store
// and served from GET /api/services. The wire field names match the data
// files the original front end already holds.
type Catalog struct {
	Categories *Categories `json:"serviceCategories"`
	Addons     []Addon     `json:"addons"`
}

func NewCatalog() *Catalog {
	return &Catalog{Categories: NewCategories(), Addons: []Addon{}}
}

// FindService looks a service up by key across every category. Lookup is
// deliberately catalog-wide: a flat row can move a service to another
// category and still inherit the metadata of its prior record.
func (c *Catalog) FindService(key string) *Service {
	if c == nil || c.Categories == nil {
		return nil
	}
	for _, catKey := range c.Categories.keys {
		cat := c.Categories.entries[catKey]
		for i := range cat.Services {
			if cat.Services[i].Key == key {
				return &cat.Services[i]
			}
		}
	}
	return nil
}

func (c *Catalog) FindAddon(key string) *Addon {
	if c == nil {
		return nil
	}
	for i := range c.Addons {
		if c.Addons[i].Key == key {
			return &c.Addons[i]
		}
	}
	return nil
}
