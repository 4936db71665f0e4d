package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestNew_RejectsInvalidItems(t *testing.T) {
	tests := []struct {
		name     string
		services []Service
		packages []Package
	}{
		{"empty service id", []Service{{ID: "", Price: 10}}, nil},
		{"negative service price", []Service{{ID: "wash", Price: -1}}, nil},
		{"duplicate service", []Service{{ID: "wash", Price: 1}, {ID: "wash", Price: 2}}, nil},
		{"negative package price", nil, []Package{{ID: "sport", Price: -5}}},
		{"duplicate package", nil, []Package{{ID: "sport", Price: 1}, {ID: "sport", Price: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.services, tt.packages)
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestServicePrice_UnknownIsZero(t *testing.T) {
	c := MustNew([]Service{{ID: "ceramic-coating", Price: 899}}, nil)

	if got := c.ServicePrice("ceramic-coating"); got != 899 {
		t.Errorf("expected 899, got %d", got)
	}
	if got := c.ServicePrice("unknown-id"); got != 0 {
		t.Errorf("expected 0 for unknown id, got %d", got)
	}

	var nilCatalog *Catalog
	if got := nilCatalog.ServicePrice("ceramic-coating"); got != 0 {
		t.Errorf("expected 0 from nil catalog, got %d", got)
	}
}

func TestNew_CopiesInputs(t *testing.T) {
	features := []string{"a", "b"}
	packages := []Package{{ID: "sport", Price: 1200, Features: features}}
	c := MustNew(nil, packages)

	features[0] = "mutated"
	packages[0].Price = 1

	p, ok := c.Package("sport")
	if !ok {
		t.Fatal("expected package sport")
	}
	if p.Price != 1200 {
		t.Errorf("expected price 1200, got %d", p.Price)
	}
	if p.Features[0] != "a" {
		t.Errorf("expected feature copy, got %q", p.Features[0])
	}

	out := c.Packages()
	out[0].Features[1] = "changed"
	again, _ := c.Package("sport")
	if again.Features[1] != "b" {
		t.Error("Packages() must return copies")
	}
}

func TestListedSavings(t *testing.T) {
	c := MustNew(
		[]Service{{ID: "ceramic-coating", Price: 899}, {ID: "paint-correction", Price: 599}},
		nil,
	)

	sport := Package{ID: "sport", Price: 1200, Includes: []string{"ceramic-coating", "paint-correction"}}
	if got := c.ListedSavings(sport); got != 298 {
		t.Errorf("expected 298, got %d", got)
	}

	pricey := Package{ID: "pricey", Price: 2000, Includes: []string{"ceramic-coating"}}
	if got := c.ListedSavings(pricey); got != 0 {
		t.Errorf("expected 0 when package costs more, got %d", got)
	}

	fixed := Package{ID: "fixed", Price: 100, Savings: 42}
	if got := c.ListedSavings(fixed); got != 42 {
		t.Errorf("expected explicit savings 42, got %d", got)
	}
}

func TestDefault_IsConsistent(t *testing.T) {
	c := Default()

	for _, p := range c.Packages() {
		for _, id := range p.Includes {
			if !c.HasService(id) {
				t.Errorf("package %s includes unknown service %s", p.ID, id)
			}
		}
	}

	sport, ok := c.Package("sport")
	if !ok || sport.Price != 1200 {
		t.Fatalf("expected sport package at 1200, got %+v", sport)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	c := Default()

	restored, err := FromSnapshot(c.Snapshot())
	if err != nil {
		t.Fatalf("FromSnapshot failed: %v", err)
	}

	got, err := restored.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog failed: %v", err)
	}
	if len(got.Services()) != len(c.Services()) || len(got.Packages()) != len(c.Packages()) {
		t.Errorf("snapshot lost items")
	}
}
