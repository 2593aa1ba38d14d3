// Package catalog holds the vehicle classes loads are compared against.
// The built-in list can be replaced by a YAML file at startup.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"vehicle-fit/internal/domain"

	"gopkg.in/yaml.v3"
)

type Catalog struct {
	vehicles []domain.VehicleSpec
	envelope domain.Envelope
}

type file struct {
	Vehicles []domain.VehicleSpec `yaml:"vehicles"`
}

// New validates the entries and freezes them in the given order.
func New(vehicles []domain.VehicleSpec) (*Catalog, error) {
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("catalog has no vehicles")
	}

	seen := make(map[string]bool, len(vehicles))
	list := make([]domain.VehicleSpec, 0, len(vehicles))
	for i, v := range vehicles {
		v.Name = strings.TrimSpace(v.Name)
		v.Category = strings.TrimSpace(v.Category)
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("vehicles[%d]: %w", i, err)
		}
		key := strings.ToLower(v.Name)
		if seen[key] {
			return nil, fmt.Errorf("duplicate vehicle name: %s", v.Name)
		}
		seen[key] = true
		list = append(list, v)
	}

	return &Catalog{
		vehicles: list,
		envelope: domain.EnvelopeOf(list),
	}, nil
}

func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return New(f.Vehicles)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %q: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %q: %w", path, err)
	}
	return c, nil
}

// Load returns the catalog at path, or the built-in one when path is empty.
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func (c *Catalog) Marshal() ([]byte, error) {
	return yaml.Marshal(file{Vehicles: c.vehicles})
}

// Vehicles returns a copy in catalog order.
func (c *Catalog) Vehicles() []domain.VehicleSpec {
	out := make([]domain.VehicleSpec, len(c.vehicles))
	copy(out, c.vehicles)
	return out
}

func (c *Catalog) Len() int {
	return len(c.vehicles)
}

// Names lists vehicle names alphabetically, for filter pickers.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.vehicles))
	for i, v := range c.vehicles {
		names[i] = v.Name
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Envelope() domain.Envelope {
	return c.envelope
}

// Admit is the add-time check: the item must fit the largest vehicle on
// every axis and by unit weight.
func (c *Catalog) Admit(item domain.LoadItem) error {
	return c.envelope.Admit(item)
}
