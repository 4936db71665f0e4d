package estimator

import (
	"testing"

	"detailing-bot/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.MustNew(
		[]catalog.Service{
			{ID: "ceramic-coating", Name: "Ceramic Coating", Price: 899},
			{ID: "paint-correction", Name: "Paint Correction", Price: 599},
			{ID: "exterior-wash", Name: "Hand Wash", Price: 79},
		},
		[]catalog.Package{
			{ID: "sport", Name: "Sport Protection", Price: 1200},
			{ID: "premium", Name: "Premium", Price: 2500},
		},
	)
}

func TestCompute(t *testing.T) {
	cat := testCatalog()

	tests := []struct {
		name            string
		sel             Selection
		wantVisible     bool
		wantTarget      int
		wantIndividual  int
		wantSavings     int
		wantPackageName string
	}{
		{
			name: "nothing selected",
			sel:  Selection{},
		},
		{
			name:           "services summed without package",
			sel:            Selection{Services: []string{"ceramic-coating", "paint-correction"}},
			wantVisible:    true,
			wantTarget:     1498,
			wantIndividual: 1498,
		},
		{
			name:            "package price wins over services",
			sel:             Selection{Services: []string{"ceramic-coating", "paint-correction"}, Package: "sport"},
			wantVisible:     true,
			wantTarget:      1200,
			wantIndividual:  1498,
			wantSavings:     298,
			wantPackageName: "Sport Protection",
		},
		{
			name:        "unknown service costs nothing",
			sel:         Selection{Services: []string{"unknown-id"}},
			wantVisible: true,
		},
		{
			name:            "package dearer than services reports no savings",
			sel:             Selection{Services: []string{"exterior-wash"}, Package: "premium"},
			wantVisible:     true,
			wantTarget:      2500,
			wantIndividual:  79,
			wantPackageName: "Premium",
		},
		{
			name:            "package alone",
			sel:             Selection{Package: "sport"},
			wantVisible:     true,
			wantTarget:      1200,
			wantPackageName: "Sport Protection",
		},
		{
			name:            "unknown package falls back",
			sel:             Selection{Services: []string{"exterior-wash"}, Package: "ghost"},
			wantVisible:     true,
			wantTarget:      0,
			wantIndividual:  79,
			wantSavings:     79,
			wantPackageName: FallbackPackageName,
		},
		{
			name:           "duplicate ids count once",
			sel:            Selection{Services: []string{"exterior-wash", "exterior-wash"}},
			wantVisible:    true,
			wantTarget:     79,
			wantIndividual: 79,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Compute(cat, tt.sel)

			if q.Visible != tt.wantVisible {
				t.Errorf("Visible: got %v, want %v", q.Visible, tt.wantVisible)
			}
			if q.Target != tt.wantTarget {
				t.Errorf("Target: got %d, want %d", q.Target, tt.wantTarget)
			}
			if q.IndividualTotal != tt.wantIndividual {
				t.Errorf("IndividualTotal: got %d, want %d", q.IndividualTotal, tt.wantIndividual)
			}
			if q.Savings != tt.wantSavings {
				t.Errorf("Savings: got %d, want %d", q.Savings, tt.wantSavings)
			}
			if q.PackageName != tt.wantPackageName {
				t.Errorf("PackageName: got %q, want %q", q.PackageName, tt.wantPackageName)
			}
		})
	}
}

func TestCompute_PackageIgnoresServiceContents(t *testing.T) {
	cat := testCatalog()

	selections := [][]string{
		nil,
		{"exterior-wash"},
		{"ceramic-coating", "paint-correction", "exterior-wash"},
		{"unknown-id"},
	}
	for _, services := range selections {
		q := Compute(cat, Selection{Services: services, Package: "sport"})
		if q.Target != 1200 {
			t.Errorf("services %v: expected target 1200, got %d", services, q.Target)
		}
	}
}

func TestSelectionToggle(t *testing.T) {
	sel := Selection{Package: "sport"}

	sel = sel.Toggle("ceramic-coating")
	if !sel.Has("ceramic-coating") {
		t.Fatal("expected ceramic-coating after first toggle")
	}
	if sel.Package != "sport" {
		t.Errorf("toggle must keep package, got %q", sel.Package)
	}

	sel = sel.Toggle("ceramic-coating")
	if sel.Has("ceramic-coating") {
		t.Error("expected ceramic-coating removed after second toggle")
	}
}
