package catalog

import (
	"context"
	"errors"
	"fmt"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Service is a single detailing service sold on its own.
type Service struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Price int    `json:"price" db:"price"`
}

// Package is a bundled, fixed-price offering.
type Package struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Price       int      `json:"price"`
	Description string   `json:"description"`
	Features    []string `json:"features,omitempty"`
	Popular     bool     `json:"popular,omitempty"`
	Savings     int      `json:"savings,omitempty"`
	// Includes lists the services the package replaces.
	Includes []string `json:"includes,omitempty"`
}

// Catalog is the read-only price list. Build it with New; the zero value is empty.
type Catalog struct {
	services []Service
	prices   map[string]int
	packages []Package
	byID     map[string]int
}

// Provider supplies a catalog from wherever it is stored.
type Provider interface {
	Catalog(ctx context.Context) (*Catalog, error)
}

// New copies services and packages into a validated catalog.
func New(services []Service, packages []Package) (*Catalog, error) {
	const operation = "catalog.New"

	c := &Catalog{
		services: make([]Service, 0, len(services)),
		prices:   make(map[string]int, len(services)),
		packages: make([]Package, 0, len(packages)),
		byID:     make(map[string]int, len(packages)),
	}

	for _, s := range services {
		if err := validateItem(s.ID, s.Price); err != nil {
			return nil, fmt.Errorf("%s: service %q: %w", operation, s.ID, err)
		}
		if _, dup := c.prices[s.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate service %q: %w", operation, s.ID, ErrInvalidCatalog)
		}
		c.prices[s.ID] = s.Price
		c.services = append(c.services, s)
	}

	for _, p := range packages {
		if err := validateItem(p.ID, p.Price); err != nil {
			return nil, fmt.Errorf("%s: package %q: %w", operation, p.ID, err)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%s: duplicate package %q: %w", operation, p.ID, ErrInvalidCatalog)
		}
		p.Features = append([]string(nil), p.Features...)
		p.Includes = append([]string(nil), p.Includes...)
		c.byID[p.ID] = len(c.packages)
		c.packages = append(c.packages, p)
	}

	return c, nil
}

// MustNew is New for catalogs known to be valid at compile time.
func MustNew(services []Service, packages []Package) *Catalog {
	c, err := New(services, packages)
	if err != nil {
		panic(err)
	}
	return c
}

// ServicePrice returns the unit price of a service, 0 when the id is unknown.
func (c *Catalog) ServicePrice(id string) int {
	if c == nil {
		return 0
	}
	return c.prices[id]
}

func (c *Catalog) HasService(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.prices[id]
	return ok
}

// Package looks up a package by id.
func (c *Catalog) Package(id string) (Package, bool) {
	if c == nil {
		return Package{}, false
	}
	i, ok := c.byID[id]
	if !ok {
		return Package{}, false
	}
	return c.packages[i], true
}

// Services returns the services in catalog order.
func (c *Catalog) Services() []Service {
	if c == nil {
		return nil
	}
	return append([]Service(nil), c.services...)
}

// Packages returns the packages in catalog order.
func (c *Catalog) Packages() []Package {
	if c == nil {
		return nil
	}
	out := make([]Package, len(c.packages))
	for i, p := range c.packages {
		p.Features = append([]string(nil), p.Features...)
		p.Includes = append([]string(nil), p.Includes...)
		out[i] = p
	}
	return out
}

// ListedSavings is what a package saves against buying its included services
// one by one. A non-zero Savings field on the package overrides the computed value.
func (c *Catalog) ListedSavings(p Package) int {
	if p.Savings > 0 {
		return p.Savings
	}
	sum := 0
	for _, id := range p.Includes {
		sum += c.ServicePrice(id)
	}
	if sum <= p.Price {
		return 0
	}
	return sum - p.Price
}

// Catalog lets a fixed catalog act as its own Provider.
func (c *Catalog) Catalog(context.Context) (*Catalog, error) {
	return c, nil
}

func validateItem(id string, price int) error {
	if id == "" {
		return fmt.Errorf("empty id: %w", ErrInvalidCatalog)
	}
	if price < 0 {
		return fmt.Errorf("negative price %d: %w", price, ErrInvalidCatalog)
	}
	return nil
}
